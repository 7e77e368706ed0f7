package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"flowlens/internal/flow"
	"flowlens/internal/jira"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Jira    jira.Config
	Project string

	// Analysis window. Months is used when Start/End are unset.
	Months int
	Start  time.Time
	End    time.Time

	LeadEntryStatus     string
	LeadTerminalStatus  string
	CycleEntryStatus    string
	CycleTerminalStatus string
	WipStatus           string

	CategoryField string
	CategoryMatch string

	OutlierMode      string
	OutlierCapDays   float64
	OutlierIQRFactor float64
	ZScoreThreshold  float64

	ClampToWindow          bool
	WipMonthlyMode         string
	MinGroupSamples        int
	IncludeUnknownInSplits bool

	DataPath string
	LogDir   string
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}

	delayMs, _ := strconv.Atoi(getEnv("JIRA_REQUEST_DELAY_MS", "500"))
	pageSize, _ := strconv.Atoi(getEnv("JIRA_PAGE_SIZE", "100"))

	cfg := &AppConfig{
		Jira: jira.Config{
			BaseURL:      getEnv("JIRA_URL", ""),
			Email:        getEnv("JIRA_EMAIL", ""),
			Token:        getEnv("JIRA_TOKEN", ""),
			RequestDelay: time.Duration(delayMs) * time.Millisecond,
			PageSize:     pageSize,
		},
		Project: getEnv("JIRA_PROJECT", ""),

		Months: getEnvInt("ANALYSIS_MONTHS", 6),

		LeadEntryStatus:     getEnv("LEAD_ENTRY_STATUS", "Backlog"),
		LeadTerminalStatus:  getEnv("LEAD_TERMINAL_STATUS", "Done"),
		CycleEntryStatus:    getEnv("CYCLE_ENTRY_STATUS", "In Progress"),
		CycleTerminalStatus: getEnv("CYCLE_TERMINAL_STATUS", "Done"),
		WipStatus:           getEnv("WIP_STATUS", "In Progress"),

		CategoryField: getEnv("CATEGORY_FIELD", "customfield_10239"),
		CategoryMatch: getEnv("CATEGORY_MATCH", "KTLO"),

		OutlierMode:      getEnv("OUTLIER_MODE", "none"),
		OutlierCapDays:   getEnvFloat("OUTLIER_CAP_DAYS", 90),
		OutlierIQRFactor: getEnvFloat("OUTLIER_IQR_FACTOR", 1.5),
		ZScoreThreshold:  getEnvFloat("ZSCORE_THRESHOLD", 2.0),

		ClampToWindow:          getEnvBool("CLAMP_TO_WINDOW", false),
		WipMonthlyMode:         getEnv("WIP_MONTHLY_MODE", string(flow.WipMonthlyEndOfMonth)),
		MinGroupSamples:        getEnvInt("MIN_GROUP_SAMPLES", 3),
		IncludeUnknownInSplits: getEnvBool("INCLUDE_UNKNOWN_IN_SPLITS", false),

		DataPath: dataPath,
		LogDir:   logDir,
	}

	if v := os.Getenv("ANALYSIS_START"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, &flow.ConfigurationError{Setting: "ANALYSIS_START", Value: v, Reason: "expected YYYY-MM-DD"}
		}
		cfg.Start = t
	}
	if v := os.Getenv("ANALYSIS_END"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, &flow.ConfigurationError{Setting: "ANALYSIS_END", Value: v, Reason: "expected YYYY-MM-DD"}
		}
		cfg.End = t
	}
	if !cfg.Start.IsZero() && !cfg.End.IsZero() && cfg.End.Before(cfg.Start) {
		return nil, &flow.ConfigurationError{Setting: "ANALYSIS_END", Value: cfg.End.Format("2006-01-02"), Reason: "end before start"}
	}
	if cfg.Months <= 0 {
		return nil, &flow.ConfigurationError{Setting: "ANALYSIS_MONTHS", Value: strconv.Itoa(cfg.Months), Reason: "must be positive"}
	}

	switch cfg.OutlierMode {
	case string(flow.OutlierNone), string(flow.OutlierCap), string(flow.OutlierIQR):
	default:
		return nil, &flow.ConfigurationError{Setting: "OUTLIER_MODE", Value: cfg.OutlierMode, Reason: "expected none, cap or iqr"}
	}
	switch cfg.WipMonthlyMode {
	case string(flow.WipMonthlyEndOfMonth), string(flow.WipMonthlyAverage):
	default:
		return nil, &flow.ConfigurationError{Setting: "WIP_MONTHLY_MODE", Value: cfg.WipMonthlyMode, Reason: "expected eom or avg"}
	}

	return cfg, nil
}

// Window resolves the analysis window: an explicit start/end pair when both
// are set, otherwise the last Months full months up to now.
func (c *AppConfig) Window(now time.Time) flow.AnalysisWindow {
	if !c.Start.IsZero() && !c.End.IsZero() {
		return flow.NewAnalysisWindow(c.Start, c.End)
	}
	return flow.WindowForMonths(now, c.Months)
}

// AnalyzerConfig builds the core analysis configuration for the resolved window.
func (c *AppConfig) AnalyzerConfig(window flow.AnalysisWindow) flow.Config {
	return flow.Config{
		Window:    window,
		LeadPair:  flow.StatusPair{Entry: c.LeadEntryStatus, Terminal: c.LeadTerminalStatus},
		CyclePair: flow.StatusPair{Entry: c.CycleEntryStatus, Terminal: c.CycleTerminalStatus},
		WipStatus: c.WipStatus,
		Classifier: flow.Classifier{
			FieldID:    c.CategoryField,
			MatchValue: c.CategoryMatch,
		},
		Outliers: flow.OutlierPolicy{
			Mode:      flow.OutlierMode(c.OutlierMode),
			CapDays:   c.OutlierCapDays,
			IQRFactor: c.OutlierIQRFactor,
		},
		ClampToWindow:          c.ClampToWindow,
		ZScoreThreshold:        c.ZScoreThreshold,
		WipMonthly:             flow.WipMonthlyMode(c.WipMonthlyMode),
		MinGroupSize:           c.MinGroupSamples,
		IncludeUnknownInSplits: c.IncludeUnknownInSplits,
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return fallback
}

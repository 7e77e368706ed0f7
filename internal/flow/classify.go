package flow

// Classifier labels issues as maintenance or project work from a custom
// tracker field. It is a pure function of issue metadata.
type Classifier struct {
	FieldID    string // tracker field identifier, e.g. "customfield_10239"
	MatchValue string // value marking maintenance work, e.g. "KTLO"
}

// Enabled reports whether a classification field is configured.
func (c Classifier) Enabled() bool {
	return c.FieldID != ""
}

// Classify maps a raw field value to a category. Trackers deliver custom
// fields as a multi-select list, a single option object, a bare string, or
// null; all four shapes are handled. An absent field yields
// CategoryUnknown, any present non-matching value yields CategoryProject.
func (c Classifier) Classify(raw any) Category {
	if !c.Enabled() {
		return CategoryUnknown
	}

	switch v := raw.(type) {
	case nil:
		return CategoryUnknown
	case string:
		if v == "" {
			return CategoryUnknown
		}
		if v == c.MatchValue {
			return CategoryMaintenance
		}
		return CategoryProject
	case map[string]any:
		val, ok := v["value"].(string)
		if !ok {
			return CategoryUnknown
		}
		if val == c.MatchValue {
			return CategoryMaintenance
		}
		return CategoryProject
	case []any:
		if len(v) == 0 {
			return CategoryUnknown
		}
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				if val, _ := m["value"].(string); val == c.MatchValue {
					return CategoryMaintenance
				}
			}
		}
		return CategoryProject
	default:
		return CategoryUnknown
	}
}

package flow

import (
	"math"
	"testing"
)

func TestMedian(t *testing.T) {
	if got := Median([]float64{3, 1, 2}); got != 2 {
		t.Errorf("Odd median: expected 2, got %f", got)
	}
	if got := Median([]float64{4, 1, 2, 3}); got != 2.5 {
		t.Errorf("Even median: expected 2.5, got %f", got)
	}
	if got := Median(nil); got != 0 {
		t.Errorf("Empty median: expected 0, got %f", got)
	}
}

func TestPercentile(t *testing.T) {
	values := []float64{1, 2, 3, 4}

	if got := Percentile(values, 25); got != 1.75 {
		t.Errorf("P25: expected 1.75, got %f", got)
	}
	if got := Percentile(values, 75); got != 3.25 {
		t.Errorf("P75: expected 3.25, got %f", got)
	}
	if got := Percentile(values, 0); got != 1 {
		t.Errorf("P0: expected 1, got %f", got)
	}
	if got := Percentile(values, 100); got != 4 {
		t.Errorf("P100: expected 4, got %f", got)
	}
}

func TestIQR(t *testing.T) {
	if got := IQR([]float64{1, 2, 3, 4}); got != 1.5 {
		t.Errorf("Expected IQR 1.5, got %f", got)
	}
}

func TestStdDev(t *testing.T) {
	got := StdDev([]float64{10, 10, 10, 10, 50})
	if math.Abs(got-16) > 1e-9 {
		t.Errorf("Expected population stddev 16, got %f", got)
	}
	if got := StdDev([]float64{7, 7, 7}); got != 0 {
		t.Errorf("Expected 0 for uniform values, got %f", got)
	}
}

func TestMean(t *testing.T) {
	if got := Mean([]float64{2, 4, 6}); got != 4 {
		t.Errorf("Expected mean 4, got %f", got)
	}
	if got := Mean(nil); got != 0 {
		t.Errorf("Expected 0 for empty slice, got %f", got)
	}
}

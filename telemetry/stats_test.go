package telemetry

import (
	"math"
	"testing"
)

func TestSummarize(t *testing.T) {
	d := Summarize([]float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10})

	if math.Abs(d.Mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", d.Mean)
	}
	if d.P10 != 1 {
		t.Errorf("p10 = %v, want 1", d.P10)
	}
	if d.P50 != 5 {
		t.Errorf("p50 = %v, want 5", d.P50)
	}
	if d.P90 != 9 {
		t.Errorf("p90 = %v, want 9", d.P90)
	}
	if d.Std <= 0 {
		t.Errorf("std = %v, want positive", d.Std)
	}
}

func TestSummarizeUnsortedInput(t *testing.T) {
	a := Summarize([]float64{3, 1, 2})
	b := Summarize([]float64{1, 2, 3})
	if a != b {
		t.Errorf("order-dependent summary: %+v vs %+v", a, b)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	if d := Summarize(nil); d != (Distribution{}) {
		t.Errorf("empty sample should return zero distribution, got %+v", d)
	}
}

func TestSummarizeSingleValue(t *testing.T) {
	d := Summarize([]float64{4.2})
	if d.Mean != 4.2 || d.P50 != 4.2 {
		t.Errorf("single value summary = %+v", d)
	}
	if d.Std != 0 {
		t.Errorf("std of a single value = %v, want 0", d.Std)
	}
}

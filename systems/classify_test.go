package systems

import (
	"math"
	"testing"
)

func defaultClassifier(t *testing.T) *Classifier {
	t.Helper()
	c, err := NewClassifier(DefaultBoundaries[:])
	if err != nil {
		t.Fatalf("NewClassifier: %v", err)
	}
	return c
}

func TestClassify_Buckets(t *testing.T) {
	c := defaultClassifier(t)

	tests := []struct {
		x    float64
		want Level
	}{
		{0, LevelNone},
		{0.019, LevelNone},
		{0.02, LevelVeryLow},
		{0.05, LevelVeryLow},
		{0.1, LevelLow},
		{0.15, LevelLow},
		{0.2, LevelMedium},
		{0.25, LevelMedium},
		{0.3, LevelHigh},
		{0.39, LevelHigh},
		{0.4, LevelVeryHigh},
		{12, LevelVeryHigh},
	}

	for _, tc := range tests {
		if got := c.Classify(tc.x); got != tc.want {
			t.Errorf("Classify(%v) = %v, want %v", tc.x, got, tc.want)
		}
	}
}

func TestClassify_NonFinite(t *testing.T) {
	c := defaultClassifier(t)

	if got := c.Classify(math.NaN()); got != LevelNone {
		t.Errorf("Classify(NaN) = %v, want %v", got, LevelNone)
	}
	if got := c.Classify(math.Inf(1)); got != LevelVeryHigh {
		t.Errorf("Classify(+Inf) = %v, want %v", got, LevelVeryHigh)
	}
	if got := c.Classify(-0.5); got != LevelNone {
		t.Errorf("Classify(-0.5) = %v, want %v", got, LevelNone)
	}
}

func TestClassify_Monotone(t *testing.T) {
	c := defaultClassifier(t)

	prev := LevelNone
	for x := 0.0; x < 1.0; x += 0.0005 {
		got := c.Classify(x)
		if got < prev {
			t.Fatalf("Classify(%v) = %v after %v", x, got, prev)
		}
		prev = got
	}
	if prev != LevelVeryHigh {
		t.Errorf("sweep ended at %v, want %v", prev, LevelVeryHigh)
	}
}

func TestClassify_CustomBoundaries(t *testing.T) {
	c, err := NewClassifier([]float64{1, 2, 3, 4, 5})
	if err != nil {
		t.Fatal(err)
	}
	if got := c.Classify(0.4); got != LevelNone {
		t.Errorf("Classify(0.4) = %v, want none", got)
	}
	if got := c.Classify(3.5); got != LevelMedium {
		t.Errorf("Classify(3.5) = %v, want medium", got)
	}
}

func TestNewClassifier_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		bounds []float64
	}{
		{"short", []float64{0.1, 0.2}},
		{"descending", []float64{0.4, 0.3, 0.2, 0.1, 0.05}},
		{"nan", []float64{0.02, math.NaN(), 0.2, 0.3, 0.4}},
		{"negative", []float64{-1, 0.1, 0.2, 0.3, 0.4}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewClassifier(tc.bounds); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLevel_String(t *testing.T) {
	want := []string{"no", "very low", "low", "medium", "high", "very high"}
	for i, w := range want {
		if got := Level(i).String(); got != w {
			t.Errorf("Level(%d).String() = %q, want %q", i, got, w)
		}
	}
	if got := Level(99).String(); got != "unknown" {
		t.Errorf("Level(99).String() = %q, want unknown", got)
	}
}

package systems

import (
	"fmt"
	"math"
)

// Level is an ordered deformation severity.
type Level uint8

const (
	LevelNone Level = iota
	LevelVeryLow
	LevelLow
	LevelMedium
	LevelHigh
	LevelVeryHigh
)

// NumLevels is the number of severity levels.
const NumLevels = 6

var levelNames = [NumLevels]string{"no", "very low", "low", "medium", "high", "very high"}

// String returns the display form used in narration.
func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// Boundaries are the lower bounds of VeryLow..VeryHigh.
type Boundaries [NumLevels - 1]float64

// DefaultBoundaries are used when a configuration carries no boundaries.
// They match severity.boundaries in the embedded config.
var DefaultBoundaries = Boundaries{0.02, 0.1, 0.2, 0.3, 0.4}

// Classifier maps deformation magnitudes to severity levels.
type Classifier struct {
	bounds Boundaries
}

// NewClassifier creates a classifier. Boundaries must be finite,
// non-negative and strictly ascending.
func NewClassifier(bounds []float64) (*Classifier, error) {
	if len(bounds) != NumLevels-1 {
		return nil, fmt.Errorf("classifier: want %d boundaries, got %d", NumLevels-1, len(bounds))
	}
	c := &Classifier{}
	for i, b := range bounds {
		if math.IsNaN(b) || math.IsInf(b, 0) || b < 0 {
			return nil, fmt.Errorf("classifier: boundary %d invalid: %v", i, b)
		}
		if i > 0 && b <= bounds[i-1] {
			return nil, fmt.Errorf("classifier: boundary %d not above %v", i, bounds[i-1])
		}
		c.bounds[i] = b
	}
	return c, nil
}

// Classify returns the level whose range contains x.
// Negative and NaN inputs classify as LevelNone; +Inf as LevelVeryHigh.
func (c *Classifier) Classify(x float64) Level {
	if math.IsNaN(x) || x < 0 {
		return LevelNone
	}
	for i, b := range c.bounds {
		if x < b {
			return Level(i)
		}
	}
	return LevelVeryHigh
}

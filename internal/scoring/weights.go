package scoring

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWeights is returned when the configured weights cannot drive a
// scoring run. It is fatal at startup, before any job is scored.
var ErrInvalidWeights = errors.New("invalid scoring weights")

// Weights holds the relative importance of each rule-based sub-score. The
// weights must be non-negative and sum to 1.0.
type Weights struct {
	Skills     float64 `mapstructure:"skills"`
	Experience float64 `mapstructure:"experience"`
	Education  float64 `mapstructure:"education"`
	Location   float64 `mapstructure:"location"`
	Title      float64 `mapstructure:"title"`
	Salary     float64 `mapstructure:"salary"`
}

// DefaultWeights returns the standard weighting scheme.
func DefaultWeights() Weights {
	return Weights{
		Skills:     0.35,
		Experience: 0.25,
		Education:  0.15,
		Location:   0.10,
		Title:      0.10,
		Salary:     0.05,
	}
}

const weightSumTolerance = 1e-9

func (w Weights) Validate() error {
	all := []struct {
		name  string
		value float64
	}{
		{"skills", w.Skills},
		{"experience", w.Experience},
		{"education", w.Education},
		{"location", w.Location},
		{"title", w.Title},
		{"salary", w.Salary},
	}

	sum := 0.0
	for _, entry := range all {
		if entry.value < 0 {
			return fmt.Errorf("%w: %s weight is negative (%v)", ErrInvalidWeights, entry.name, entry.value)
		}
		sum += entry.value
	}

	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %v, expected 1.0", ErrInvalidWeights, sum)
	}

	return nil
}

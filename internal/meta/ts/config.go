package ts

import (
	"fmt"

	"github.com/cwbudde/paramsearch/internal/meta"
)

// Config holds the tabu memory settings.
type Config struct {
	// Tenure is the capacity of the short-term memory. Zero derives it
	// from the instance size.
	Tenure int `json:"tenure" yaml:"tenure"`
}

func DefaultConfig() Config {
	return Config{Tenure: 0}
}

func (c Config) Validate() error {
	if c.Tenure < 0 {
		return fmt.Errorf("%w: tenure must be >= 0, got %d", meta.ErrInvalidConfig, c.Tenure)
	}
	return nil
}

// DefaultTenure is numParameters / 2.5, at least 1.
func DefaultTenure(numParameters int) int {
	return max(1, int(float64(numParameters)/2.5))
}

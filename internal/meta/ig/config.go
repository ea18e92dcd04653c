package ig

import (
	"fmt"

	"github.com/cwbudde/paramsearch/internal/meta"
)

// Config holds the destruction strength.
type Config struct {
	// Alpha is the probability that destroy resets a parameter to null.
	Alpha float64 `json:"alpha" yaml:"alpha"`
}

func DefaultConfig() Config {
	return Config{Alpha: 0.25}
}

func (c Config) Validate() error {
	if c.Alpha < 0 || c.Alpha > 1 {
		return fmt.Errorf("%w: alpha must lie in [0,1], got %f", meta.ErrInvalidConfig, c.Alpha)
	}
	return nil
}

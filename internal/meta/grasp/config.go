package grasp

import (
	"fmt"

	"github.com/cwbudde/paramsearch/internal/meta"
)

// Config controls the size of the restricted candidate sample.
type Config struct {
	// Alpha scales the number of sampled candidates per construction step
	// as a fraction of the total domain size.
	Alpha float64 `json:"alpha" yaml:"alpha"`
}

func DefaultConfig() Config {
	return Config{Alpha: 0.25}
}

func (c Config) Validate() error {
	if c.Alpha <= 0 || c.Alpha > 1 {
		return fmt.Errorf("%w: alpha must lie in (0,1], got %f", meta.ErrInvalidConfig, c.Alpha)
	}
	return nil
}

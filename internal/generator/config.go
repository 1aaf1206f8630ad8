package generator

import (
	"fmt"
	"math"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
)

const weightTolerance = 1e-9

var validate = validator.New()

// Bounds is an inclusive range check that can be switched off.
type Bounds struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	Min     int  `json:"min" yaml:"min" validate:"gte=0"`
	Max     int  `json:"max" yaml:"max" validate:"gtefield=Min"`
}

// Contains reports whether v lies in [Min, Max].
func (b Bounds) Contains(v int) bool {
	return v >= b.Min && v <= b.Max
}

// Limit is an upper bound that can be switched off.
type Limit struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	Max     int  `json:"max" yaml:"max" validate:"gte=0"`
}

// Config drives play generation.
type Config struct {
	// Alpha weighs normalized frequency, Beta normalized delay. Alpha+Beta must be 1.
	Alpha float64 `json:"alpha" yaml:"alpha" default:"0.5"`
	Beta  float64 `json:"beta" yaml:"beta" default:"0.5"`
	// Floor is added to every weight so no number becomes impossible.
	Floor float64 `json:"floor" yaml:"floor" default:"0.05" validate:"gte=0"`

	Sum        Bounds `json:"sum" yaml:"sum" default:"{\"enabled\":true,\"min\":150,\"max\":220}"`
	Odd        Bounds `json:"odd" yaml:"odd" default:"{\"enabled\":true,\"min\":6,\"max\":9}"`
	MaxRun     Limit  `json:"max_run" yaml:"max_run" default:"{\"enabled\":true,\"max\":3}"`
	MaxOverlap Limit  `json:"max_overlap" yaml:"max_overlap" default:"{\"enabled\":true,\"max\":9}"`

	MaxAttempts     int  `json:"max_attempts" yaml:"max_attempts" default:"100" validate:"gte=1"`
	Plays           int  `json:"plays" yaml:"plays" default:"1" validate:"gte=1,lte=10000"`
	RequireDistinct bool `json:"require_distinct" yaml:"require_distinct"`
}

// DefaultConfig returns the tunable defaults. Apply overrides to the
// returned value; zero values are not refilled afterwards.
func DefaultConfig() Config {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		panic(fmt.Sprintf("generator defaults: %v", err))
	}
	return cfg
}

// Permissive returns a config with every constraint disabled.
func Permissive() Config {
	cfg := DefaultConfig()
	cfg.Sum.Enabled = false
	cfg.Odd.Enabled = false
	cfg.MaxRun.Enabled = false
	cfg.MaxOverlap.Enabled = false
	return cfg
}

// Validate checks weights first, then structural bounds.
func (c Config) Validate() error {
	if c.Alpha < 0 || c.Beta < 0 {
		return &InvalidWeightError{Alpha: c.Alpha, Beta: c.Beta, Reason: "weights must be non-negative"}
	}
	if math.IsNaN(c.Alpha) || math.IsNaN(c.Beta) || math.Abs(c.Alpha+c.Beta-1) > weightTolerance {
		return &InvalidWeightError{Alpha: c.Alpha, Beta: c.Beta, Reason: "weights must sum to 1"}
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid generator config: %w", err)
	}
	return nil
}

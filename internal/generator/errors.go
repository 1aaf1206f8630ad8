package generator

import (
	"fmt"
	"sort"
	"strings"
)

// InvalidWeightError reports frequency/delay weights that are negative or
// do not sum to 1.
type InvalidWeightError struct {
	Alpha  float64
	Beta   float64
	Reason string
}

func (e *InvalidWeightError) Error() string {
	return fmt.Sprintf("invalid weights alpha=%g beta=%g: %s", e.Alpha, e.Beta, e.Reason)
}

// GenerationExhaustedError reports a play that could not satisfy the
// enabled constraints within the attempt budget.
type GenerationExhaustedError struct {
	Play     int
	Attempts int
	Failures map[string]int
}

func (e *GenerationExhaustedError) Error() string {
	names := make([]string, 0, len(e.Failures))
	for name := range e.Failures {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %d", name, e.Failures[name])
	}
	return fmt.Sprintf("generation exhausted for play %d after %d attempts (%s)", e.Play, e.Attempts, strings.Join(parts, ", "))
}

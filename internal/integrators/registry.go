package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/lensim/internal/dynamo"
)

const Default = "rk4"

var registry = map[string]func() dynamo.Integrator{
	"rk4":      func() dynamo.Integrator { return NewRK4() },
	"verlet":   func() dynamo.Integrator { return NewVerlet() },
	"leapfrog": func() dynamo.Integrator { return NewLeapfrog() },
}

// New returns a fresh integrator. Integrators hold scratch buffers, so
// every trace gets its own instance.
func New(name string) (dynamo.Integrator, error) {
	if name == "" {
		name = Default
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownIntegrator, name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

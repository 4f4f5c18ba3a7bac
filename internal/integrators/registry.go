package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/pendsim/internal/dynamo"
)

var registry = map[string]func() dynamo.Solver{
	"euler": func() dynamo.Solver { return NewEuler() },
	"rk4":   func() dynamo.Solver { return NewRK4() },
	"rk45":  func() dynamo.Solver { return NewRK45() },
}

// New returns a fresh solver by name.
func New(name string) (dynamo.Solver, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator %q (available: %v): %w", name, Names(), dynamo.ErrInvalidParameters)
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

package integrators

import "github.com/avollmer/pendlab/internal/ode"

// Euler is a forward Euler stepper, kept as the baseline for the compare
// command. The runner always uses RK4.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn ode.System, x ode.State, t, dt float64) ode.State {
	dx := dyn.Derive(x, t)
	result := make(ode.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

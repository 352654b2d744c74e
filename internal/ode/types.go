package ode

import (
	"fmt"
	"math"
)

// State is an ordered, fixed-length vector of real numbers. The semantic
// layout is model-specific and never changes during a run.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

// IsFinite reports whether every component is a finite number.
func (s State) IsFinite() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// System is an autonomous-in-shape ODE dX/dt = f(X, t). Derive must be pure:
// repeated evaluation with the same input returns the same output, which the
// RK4 stages rely on.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

// Hamiltonian is implemented by systems whose mechanical energy can be
// computed from a single state sample.
type Hamiltonian interface {
	Energy(x State) float64
	Kinetic(x State) float64
	Potential(x State) float64
}

// Positioned is implemented by systems whose state maps to a bob position
// in Cartesian space (pivot at the origin, gravity along -z).
type Positioned interface {
	Position(x State) (px, py, pz float64)
}

// Integrator advances a state by one fixed step.
type Integrator interface {
	Step(dyn System, x State, t, dt float64) State
}

type Metric interface {
	Name() string
	Observe(x State, t float64)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(x State, t float64)
}

// Configurable exposes named tunable parameters, used by the live view.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Config holds per-run integration settings. Dt is fixed for the whole run.
type Config struct {
	Dt       float64
	Duration float64
}

func DefaultConfig() Config {
	return Config{
		Dt:       0.01,
		Duration: 10.0,
	}
}

// Steps returns the number of integration steps for the configured span.
func (c Config) Steps() int {
	return int(math.Round(c.Duration / c.Dt))
}

// Result is one run's trajectory plus derived metrics. Times[i] pairs with
// States[i]; time increases by the constant Dt and sample 0 is the initial
// condition. Warnings holds non-fatal issues such as mid-run divergence.
type Result struct {
	States      []State
	Times       []float64
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Warnings    []error
}

// Final returns the last sample of the trajectory.
func (r *Result) Final() (float64, State) {
	n := len(r.States)
	if n == 0 {
		return 0, nil
	}
	return r.Times[n-1], r.States[n-1]
}

// SimError annotates an error with the step and time it occurred at.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}

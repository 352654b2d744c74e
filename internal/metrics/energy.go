// Package metrics derives per-sample quantities from trajectories: kinetic,
// potential and total energy plus angular acceleration, dispatching on the
// model's capability interfaces so both the spherical and the Cartesian
// representation are handled. All functions are pure.
package metrics

import (
	"math"

	"github.com/avollmer/pendlab/internal/ode"
)

// AngularObservable is implemented by models whose state maps to an angle,
// angular velocity and angular acceleration. All pendulum models in
// internal/physics satisfy it.
type AngularObservable interface {
	Angle(x ode.State) float64
	AngularVelocity(x ode.State) float64
	AngularAcceleration(x ode.State) float64
}

// Kinetic returns the kinetic energy at a single sample, 0 for systems
// without an energy notion.
func Kinetic(dyn ode.System, x ode.State) float64 {
	if h, ok := dyn.(ode.Hamiltonian); ok {
		return h.Kinetic(x)
	}
	return 0
}

// Potential returns the potential energy at a single sample.
func Potential(dyn ode.System, x ode.State) float64 {
	if h, ok := dyn.(ode.Hamiltonian); ok {
		return h.Potential(x)
	}
	return 0
}

// Total returns the total mechanical energy at a single sample.
func Total(dyn ode.System, x ode.State) float64 {
	if h, ok := dyn.(ode.Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}

// AngularAcceleration re-evaluates the model equations at the sample. It is
// never finite-differenced, so the series stays consistent with the
// dynamics even at the trajectory endpoints.
func AngularAcceleration(dyn ode.System, x ode.State) float64 {
	if a, ok := dyn.(AngularObservable); ok {
		return a.AngularAcceleration(x)
	}
	return 0
}

// EnergySeries evaluates the total energy over every sample of a result.
func EnergySeries(dyn ode.System, r *ode.Result) []float64 {
	out := make([]float64, len(r.States))
	for i, x := range r.States {
		out[i] = Total(dyn, x)
	}
	return out
}

// Drift tracks the maximum relative deviation of total energy from its
// value at the first observed sample. Registered on the simulator so the
// number shows up in Result.Metrics.
type Drift struct {
	dyn      ode.System
	initial  float64
	maxDrift float64
	samples  int
}

func NewDrift(dyn ode.System) *Drift {
	return &Drift{dyn: dyn}
}

func (d *Drift) Name() string { return "energy_drift" }

func (d *Drift) Observe(x ode.State, t float64) {
	h, ok := d.dyn.(ode.Hamiltonian)
	if !ok {
		return
	}

	energy := h.Energy(x)
	if d.samples == 0 {
		d.initial = energy
	}
	d.samples++

	if d.initial != 0 {
		drift := math.Abs(energy-d.initial) / math.Abs(d.initial)
		d.maxDrift = math.Max(d.maxDrift, drift)
	}
}

func (d *Drift) Value() float64 { return d.maxDrift }

func (d *Drift) Reset() {
	d.initial = 0
	d.maxDrift = 0
	d.samples = 0
}

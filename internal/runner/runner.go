// Package runner orchestrates simulation runs: it validates parameters,
// converts degrees to radians, picks the 3-D coordinate representation,
// applies the start-of-run impulse and drives the RK4 integrator. It is the
// sole boundary the CLI, the live view and the exporters call into.
package runner

import (
	"context"
	"fmt"
	"math"

	"github.com/avollmer/pendlab/internal/integrators"
	"github.com/avollmer/pendlab/internal/metrics"
	"github.com/avollmer/pendlab/internal/ode"
	"github.com/avollmer/pendlab/internal/physics"
)

// Model selects which pendulum to simulate.
type Model int

const (
	Pendulum2D Model = iota
	Pendulum3D
)

func (m Model) String() string {
	switch m {
	case Pendulum2D:
		return "pendulum2d"
	case Pendulum3D:
		return "pendulum3d"
	}
	return "unknown"
}

// ParseModel maps a CLI/config name onto a Model.
func ParseModel(name string) (Model, error) {
	switch name {
	case "pendulum2d", "2d":
		return Pendulum2D, nil
	case "pendulum3d", "3d":
		return Pendulum3D, nil
	}
	return 0, fmt.Errorf("unknown model: %s", name)
}

// Representation is the coordinate form chosen for a run. The choice is made
// once, before the first step; there is no mid-run switching.
type Representation int

const (
	Planar Representation = iota
	Spherical
	Cartesian
)

func (r Representation) String() string {
	switch r {
	case Planar:
		return "planar"
	case Spherical:
		return "spherical"
	case Cartesian:
		return "cartesian"
	}
	return "unknown"
}

// Params is the immutable per-run configuration. Angles arrive in degrees
// and are converted to radians exactly once, inside Build. Force components
// are instantaneous momentum deltas applied before the first step, dv = F/m.
type Params struct {
	Model     Model
	Length    float64 // m
	Gravity   float64 // m/s^2
	Mass      float64 // kg
	Theta0Deg float64 // initial angle from the vertical, degrees
	Phi0Deg   float64 // initial azimuth, degrees (3D only)
	Omega0    float64 // initial angular velocity, rad/s (2D only)
	ThetaDot0 float64 // initial polar angular velocity, rad/s (3D only)
	PhiDot0   float64 // initial azimuthal angular velocity, rad/s (3D only)
	Drag      float64 // linear drag coefficient, 0 disables drag
	ForceX    float64
	ForceY    float64
	ForceZ    float64
	StepSize  float64 // s
	Duration  float64 // s
}

// DefaultParams mirrors the classroom defaults: 1 m pendulum under standard
// gravity, 10 s at 10 ms steps.
func DefaultParams(model Model) Params {
	return Params{
		Model:     model,
		Length:    1.0,
		Gravity:   9.81,
		Mass:      1.0,
		Theta0Deg: 10.0,
		StepSize:  0.01,
		Duration:  10.0,
	}
}

// Validate rejects non-finite or out-of-physical-range inputs before any
// integration happens.
func (p Params) Validate() error {
	checks := []struct {
		name string
		val  float64
	}{
		{"length", p.Length}, {"gravity", p.Gravity}, {"mass", p.Mass},
		{"theta0", p.Theta0Deg}, {"phi0", p.Phi0Deg},
		{"omega0", p.Omega0}, {"theta_dot0", p.ThetaDot0}, {"phi_dot0", p.PhiDot0},
		{"drag", p.Drag},
		{"force_x", p.ForceX}, {"force_y", p.ForceY}, {"force_z", p.ForceZ},
		{"step", p.StepSize}, {"duration", p.Duration},
	}
	for _, c := range checks {
		if math.IsNaN(c.val) || math.IsInf(c.val, 0) {
			return fmt.Errorf("%w: %s is not finite", ode.ErrInvalidParameter, c.name)
		}
	}
	if p.Length <= 0 {
		return fmt.Errorf("%w: length must be positive, got %g", ode.ErrInvalidParameter, p.Length)
	}
	if p.Gravity <= 0 {
		return fmt.Errorf("%w: gravity must be positive, got %g", ode.ErrInvalidParameter, p.Gravity)
	}
	if p.Mass <= 0 {
		return fmt.Errorf("%w: mass must be positive, got %g", ode.ErrInvalidParameter, p.Mass)
	}
	if p.Drag < 0 {
		return fmt.Errorf("%w: drag must not be negative, got %g", ode.ErrInvalidParameter, p.Drag)
	}
	if p.StepSize <= 0 {
		return fmt.Errorf("%w: step size must be positive, got %g", ode.ErrInvalidParameter, p.StepSize)
	}
	if p.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %g", ode.ErrInvalidParameter, p.Duration)
	}
	return nil
}

// SelectRepresentation applies the singularity rule: Cartesian when the
// initial polar angle sits at or near a pole, spherical otherwise.
func SelectRepresentation(model Model, theta0 float64) Representation {
	if model == Pendulum2D {
		return Planar
	}
	if math.Abs(math.Sin(theta0)) < physics.PoleTolerance {
		return Cartesian
	}
	return Spherical
}

// Build validates the parameters and constructs the system together with
// its initial state, impulse already applied.
func Build(p Params) (ode.System, ode.State, Representation, error) {
	if err := p.Validate(); err != nil {
		return nil, nil, 0, err
	}

	theta0 := p.Theta0Deg * math.Pi / 180.0
	phi0 := p.Phi0Deg * math.Pi / 180.0
	rep := SelectRepresentation(p.Model, theta0)

	switch rep {
	case Planar:
		dyn := physics.NewPendulum()
		dyn.Mass, dyn.Length, dyn.Gravity, dyn.Drag = p.Mass, p.Length, p.Gravity, p.Drag
		return dyn, ode.State{theta0, p.Omega0}, rep, nil

	case Cartesian:
		dyn := physics.NewCartesian3D()
		dyn.Mass, dyn.Length, dyn.Gravity, dyn.Drag = p.Mass, p.Length, p.Gravity, p.Drag
		x0 := dyn.InitialState(theta0, phi0, p.ThetaDot0, p.PhiDot0, p.ForceX, p.ForceY, p.ForceZ)
		return dyn, x0, rep, nil

	default:
		dyn := physics.NewSpherical3D()
		dyn.Mass, dyn.Length, dyn.Gravity, dyn.Drag = p.Mass, p.Length, p.Gravity, p.Drag
		x0 := dyn.InitialState(theta0, phi0, p.ThetaDot0, p.PhiDot0, p.ForceX, p.ForceY, p.ForceZ)
		return dyn, x0, rep, nil
	}
}

// Run holds one finished simulation: the trajectory and everything needed
// to derive output series from it. A Run is owned by whoever started it and
// is replaced wholesale on re-run.
type Run struct {
	Params         Params
	Representation Representation
	System         ode.System
	Result         *ode.Result
}

// Execute performs a full run. Identical parameters yield bit-identical
// trajectories: the whole pipeline is deterministic floating-point
// arithmetic with no hidden state.
func Execute(ctx context.Context, p Params) (*Run, error) {
	dyn, x0, rep, err := Build(p)
	if err != nil {
		return nil, err
	}

	sim := ode.New(dyn, integrators.NewRK4())
	sim.AddMetric(metrics.NewDrift(dyn))

	result, err := sim.Run(ctx, x0, ode.Config{Dt: p.StepSize, Duration: p.Duration})
	if err != nil {
		return nil, err
	}

	return &Run{Params: p, Representation: rep, System: dyn, Result: result}, nil
}

package ode

import (
	"context"
	"fmt"
	"math"
)

// Simulator drives a fixed-step integrator over a system, producing a
// trajectory of N+1 samples for N steps (the initial condition included).
type Simulator struct {
	dyn        System
	integrator Integrator
	metrics    []Metric
	observers  []Observer
}

func New(dyn System, integrator Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]Metric, 0),
		observers:  make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates from x0 over cfg.Duration. Cancellation applies at sample
// granularity. A non-finite state mid-run stops the loop and is recorded as
// a warning on the partial Result rather than returned as an error.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	steps := cfg.Steps()
	result := &Result{
		States:   make([]State, 0, steps+1),
		Times:    make([]float64, 0, steps+1),
		Metrics:  make(map[string]float64),
		Warnings: make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	initialEnergy := s.energy(x)

	for _, m := range s.metrics {
		m.Observe(x, t)
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		newX := s.integrator.Step(s.dyn, x, t, cfg.Dt)

		if !newX.IsFinite() {
			result.Warnings = append(result.Warnings,
				SimError{Time: t, Step: i, Message: "state diverged (NaN/Inf), trajectory truncated"})
			break
		}

		x = newX
		t = cfg.Dt * float64(i+1)
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)

		for _, m := range s.metrics {
			m.Observe(x, t)
		}
		for _, obs := range s.observers {
			obs.OnStep(x, t)
		}
	}

	finalEnergy := s.energy(x)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

// RunWithCallback integrates without retaining the trajectory, invoking
// callback at every sample. Returning false from the callback stops the run.
// Used by the live view to stream samples into the animation.
func (s *Simulator) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(x State, t float64) bool) error {
	if err := s.validate(x0, cfg); err != nil {
		return err
	}

	x := x0.Clone()
	steps := cfg.Steps()

	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		t := cfg.Dt * float64(i)
		if !callback(x, t) {
			return nil
		}
		if i == steps {
			break
		}

		x = s.integrator.Step(s.dyn, x, t, cfg.Dt)
		if !x.IsFinite() {
			return fmt.Errorf("%w at t=%.4f", ErrDiverged, t)
		}
	}

	return nil
}

func (s *Simulator) validate(x0 State, cfg Config) error {
	if cfg.Dt <= 0 || math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidParameter, cfg.Dt)
	}
	if cfg.Duration <= 0 || math.IsNaN(cfg.Duration) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidParameter, cfg.Duration)
	}
	if len(x0) != s.dyn.StateDim() {
		return fmt.Errorf("%w: got %d, system wants %d", ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}
	if !x0.IsFinite() {
		return fmt.Errorf("%w: initial state contains NaN/Inf", ErrInvalidParameter)
	}
	return nil
}

func (s *Simulator) energy(x State) float64 {
	if h, ok := s.dyn.(Hamiltonian); ok {
		return h.Energy(x)
	}
	return 0
}

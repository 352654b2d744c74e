package ode

import (
	"context"
	"errors"
	"math"
	"testing"
)

// decay is dx/dt = -x with a trivial stepper-friendly solution e^-t.
type decay struct{}

func (decay) Derive(x State, t float64) State { return State{-x[0]} }
func (decay) StateDim() int                   { return 1 }

// explosive blows up in a handful of steps, used for divergence handling.
type explosive struct{}

func (explosive) Derive(x State, t float64) State { return State{x[0] * x[0]} }
func (explosive) StateDim() int                   { return 1 }

type eulerStep struct{}

func (eulerStep) Step(dyn System, x State, t, dt float64) State {
	dx := dyn.Derive(x, t)
	out := make(State, len(x))
	for i := range x {
		out[i] = x[i] + dt*dx[i]
	}
	return out
}

func TestRunSampleCount(t *testing.T) {
	sim := New(decay{}, eulerStep{})

	result, err := sim.Run(context.Background(), State{1.0}, Config{Dt: 0.01, Duration: 10.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	// N steps produce N+1 samples, initial condition included.
	if len(result.States) != 1001 {
		t.Errorf("expected 1001 samples, got %d", len(result.States))
	}
	if len(result.Times) != len(result.States) {
		t.Errorf("times/states length mismatch: %d vs %d", len(result.Times), len(result.States))
	}
	if result.Times[0] != 0 {
		t.Errorf("expected t0 = 0, got %f", result.Times[0])
	}
	if math.Abs(result.Times[1000]-10.0) > 1e-9 {
		t.Errorf("expected final time 10, got %f", result.Times[1000])
	}
	if result.StepsTaken != 1000 {
		t.Errorf("expected 1000 steps, got %d", result.StepsTaken)
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	sim := New(decay{}, eulerStep{})

	cases := []Config{
		{Dt: 0, Duration: 1},
		{Dt: -0.01, Duration: 1},
		{Dt: 0.01, Duration: 0},
		{Dt: math.NaN(), Duration: 1},
	}
	for _, cfg := range cases {
		if _, err := sim.Run(context.Background(), State{1.0}, cfg); !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("config %+v: expected ErrInvalidParameter, got %v", cfg, err)
		}
	}
}

func TestRunRejectsDimensionMismatch(t *testing.T) {
	sim := New(decay{}, eulerStep{})

	_, err := sim.Run(context.Background(), State{1.0, 2.0}, Config{Dt: 0.01, Duration: 1})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestRunRejectsNonFiniteInitialState(t *testing.T) {
	sim := New(decay{}, eulerStep{})

	_, err := sim.Run(context.Background(), State{math.Inf(1)}, Config{Dt: 0.01, Duration: 1})
	if !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("expected ErrInvalidParameter, got %v", err)
	}
}

func TestRunDivergenceTruncates(t *testing.T) {
	sim := New(explosive{}, eulerStep{})

	result, err := sim.Run(context.Background(), State{10.0}, Config{Dt: 1.0, Duration: 100.0})
	if err != nil {
		t.Fatalf("divergence must not be fatal: %v", err)
	}

	if len(result.Warnings) == 0 {
		t.Fatal("expected a divergence warning")
	}
	if result.StepsTaken >= 100 {
		t.Errorf("expected truncated run, took %d steps", result.StepsTaken)
	}
	// Every retained sample stays finite.
	for i, x := range result.States {
		if !x.IsFinite() {
			t.Errorf("sample %d is not finite: %v", i, x)
		}
	}
}

func TestRunCancellation(t *testing.T) {
	sim := New(decay{}, eulerStep{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := sim.Run(ctx, State{1.0}, Config{Dt: 0.01, Duration: 10.0})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || len(result.States) == 0 {
		t.Error("expected the partial result with the initial sample")
	}
}

func TestRunWithCallbackStops(t *testing.T) {
	sim := New(decay{}, eulerStep{})

	samples := 0
	err := sim.RunWithCallback(context.Background(), State{1.0}, Config{Dt: 0.01, Duration: 10.0},
		func(x State, tm float64) bool {
			samples++
			return samples < 5
		})
	if err != nil {
		t.Fatalf("callback run failed: %v", err)
	}
	if samples != 5 {
		t.Errorf("expected 5 callback invocations, got %d", samples)
	}
}

func TestStateHelpers(t *testing.T) {
	s := State{3, 4}
	if s.Norm() != 5 {
		t.Errorf("expected norm 5, got %f", s.Norm())
	}

	c := s.Clone()
	c[0] = 7
	if s[0] != 3 {
		t.Error("clone must not share backing storage")
	}

	if (State{1, math.NaN()}).IsFinite() {
		t.Error("NaN state reported finite")
	}
	if !(State{1, 2}).IsFinite() {
		t.Error("finite state reported non-finite")
	}
}

// Package ode provides the core primitives for fixed-step simulation of
// ordinary differential equations:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: single-step numerical integrator interface
//   - [Simulator]: drives an integrator to produce a [Result]
//
// # Example
//
//	dyn := physics.NewPendulum()
//	integ := integrators.NewRK4()
//	sim := ode.New(dyn, integ)
//	result, _ := sim.Run(ctx, x0, cfg)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. Every run owns its own Result;
// callers that re-run with new parameters should cancel the previous run's
// context first.
package ode

package ode

import "errors"

// Domain errors for simulation runs.
var (
	// ErrInvalidParameter indicates a non-finite or out-of-range run parameter.
	ErrInvalidParameter = errors.New("ode: invalid parameter")

	// ErrDiverged indicates the state became non-finite mid-run.
	ErrDiverged = errors.New("ode: trajectory diverged (NaN or Inf)")

	// ErrDimensionMismatch indicates an initial state whose length does not
	// match the system's state dimension.
	ErrDimensionMismatch = errors.New("ode: state dimension mismatch")
)

// Package physics contains the pendulum equations of motion.
//
// Three systems are provided: the planar [Pendulum], the [Spherical3D]
// pendulum in polar/azimuthal coordinates, and the pole-safe [Cartesian3D]
// representation of the same 3-D pendulum. The two 3-D forms produce
// equivalent trajectories away from the poles; the runner picks one per run
// based on the initial polar angle.
//
// All angles inside this package are radians. Degree conversion happens
// once, in the runner.
package physics

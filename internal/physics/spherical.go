package physics

import (
	"fmt"
	"math"

	"github.com/avollmer/pendlab/internal/ode"
)

// PoleTolerance is how close (in radians) the polar angle may get to 0 or pi
// before the spherical equations are considered singular. The runner uses it
// to pick the Cartesian representation at run start.
const PoleTolerance = 1e-8

// Spherical3D is the spherical pendulum in polar/azimuthal coordinates.
// State layout: [theta, phi, theta_dot, phi_dot] with theta measured from
// the downward vertical and phi the azimuth:
//
//	theta_ddot = sin(theta) cos(theta) phi_dot^2 - (g/L) sin(theta) - c theta_dot
//	phi_ddot   = -2 theta_dot phi_dot cos(theta)/sin(theta) - c phi_dot
//
// The phi equation divides by sin(theta) and is singular at the poles; the
// runner never selects this representation when theta0 is within
// [PoleTolerance] of a pole. Away from run start no guard is applied and a
// trajectory that wanders into the pole diverges, which the simulator
// records as a truncation warning.
type Spherical3D struct {
	Mass    float64
	Length  float64
	Gravity float64
	Drag    float64
}

func NewSpherical3D() *Spherical3D {
	return &Spherical3D{
		Mass:    1.0,
		Length:  1.0,
		Gravity: 9.81,
		Drag:    0.0,
	}
}

func (s *Spherical3D) StateDim() int { return 4 }

func (s *Spherical3D) Derive(x ode.State, t float64) ode.State {
	theta := x[0]
	thetaDot, phiDot := x[2], x[3]

	sinT, cosT := math.Sin(theta), math.Cos(theta)

	thetaDDot := sinT*cosT*phiDot*phiDot - (s.Gravity/s.Length)*sinT - s.Drag*thetaDot
	phiDDot := -2*thetaDot*phiDot*cosT/sinT - s.Drag*phiDot

	return ode.State{thetaDot, phiDot, thetaDDot, phiDDot}
}

func (s *Spherical3D) Kinetic(x ode.State) float64 {
	theta := x[0]
	thetaDot, phiDot := x[2], x[3]
	sinT := math.Sin(theta)
	return 0.5 * s.Mass * s.Length * s.Length * (thetaDot*thetaDot + sinT*sinT*phiDot*phiDot)
}

func (s *Spherical3D) Potential(x ode.State) float64 {
	return s.Mass * s.Gravity * s.Length * (1.0 - math.Cos(x[0]))
}

func (s *Spherical3D) Energy(x ode.State) float64 {
	return s.Kinetic(x) + s.Potential(x)
}

func (s *Spherical3D) Angle(x ode.State) float64 { return x[0] }

func (s *Spherical3D) AngularVelocity(x ode.State) float64 { return x[2] }

// AngularAcceleration is the polar component theta_ddot, re-evaluated from
// the model equations at the sample.
func (s *Spherical3D) AngularAcceleration(x ode.State) float64 {
	return s.Derive(x, 0)[2]
}

func (s *Spherical3D) Position(x ode.State) (float64, float64, float64) {
	theta, phi := x[0], x[1]
	sinT := math.Sin(theta)
	return s.Length * sinT * math.Cos(phi),
		s.Length * sinT * math.Sin(phi),
		-s.Length * math.Cos(theta)
}

// InitialState builds the spherical state vector and applies the impulse
// (fx, fy, fz), interpreted as an instantaneous momentum change dv = F/m
// projected onto the theta/phi directions at t=0. The azimuthal share is
// dropped when theta0 sits inside the pole tolerance.
func (s *Spherical3D) InitialState(theta0, phi0, thetaDot0, phiDot0, fx, fy, fz float64) ode.State {
	x := ode.State{theta0, phi0, thetaDot0, phiDot0}
	if fx == 0 && fy == 0 && fz == 0 {
		return x
	}

	sinT, cosT := math.Sin(theta0), math.Cos(theta0)
	fTheta := fx*cosT*math.Cos(phi0) + fy*cosT*math.Sin(phi0) + fz*sinT
	fPhi := -fx*math.Sin(phi0) + fy*math.Cos(phi0)

	x[2] += fTheta / (s.Mass * s.Length)
	if math.Abs(sinT) > PoleTolerance {
		x[3] += fPhi / (s.Mass * s.Length * sinT)
	}
	return x
}

func (s *Spherical3D) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":    s.Mass,
		"length":  s.Length,
		"gravity": s.Gravity,
		"drag":    s.Drag,
	}
}

func (s *Spherical3D) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		s.Mass = value
	case "length":
		s.Length = value
	case "gravity":
		s.Gravity = value
	case "drag":
		s.Drag = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

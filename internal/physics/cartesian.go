package physics

import (
	"fmt"
	"math"

	"github.com/avollmer/pendlab/internal/ode"
)

// Cartesian3D is the pole-safe representation of the spherical pendulum.
// State layout: [x, y, z, vx, vy, vz] with the pivot at the origin, gravity
// along -z and the bob constrained to the sphere |r| = L by the rod tension:
//
//	T/m = (|v|^2 - g z) / L
//	a   = (0, 0, -g) - (T/m) r/L - c v
//
// Trajectories match the spherical form away from the poles and stay finite
// at them. Linear drag -c v is exactly the spherical -c theta_dot /
// -c phi_dot pair expressed in Cartesian components.
type Cartesian3D struct {
	Mass    float64
	Length  float64
	Gravity float64
	Drag    float64
}

func NewCartesian3D() *Cartesian3D {
	return &Cartesian3D{
		Mass:    1.0,
		Length:  1.0,
		Gravity: 9.81,
		Drag:    0.0,
	}
}

func (c *Cartesian3D) StateDim() int { return 6 }

func (c *Cartesian3D) Derive(s ode.State, t float64) ode.State {
	x, y, z := s[0], s[1], s[2]
	vx, vy, vz := s[3], s[4], s[5]

	v2 := vx*vx + vy*vy + vz*vz
	tension := (v2 - c.Gravity*z) / c.Length
	k := tension / c.Length

	ax := -k*x - c.Drag*vx
	ay := -k*y - c.Drag*vy
	az := -c.Gravity - k*z - c.Drag*vz

	return ode.State{vx, vy, vz, ax, ay, az}
}

func (c *Cartesian3D) Kinetic(s ode.State) float64 {
	vx, vy, vz := s[3], s[4], s[5]
	return 0.5 * c.Mass * (vx*vx + vy*vy + vz*vz)
}

// Potential is relative to the lowest point z = -L, matching the spherical
// form m g L (1 - cos theta).
func (c *Cartesian3D) Potential(s ode.State) float64 {
	return c.Mass * c.Gravity * (s[2] + c.Length)
}

func (c *Cartesian3D) Energy(s ode.State) float64 {
	return c.Kinetic(s) + c.Potential(s)
}

// Angle recovers the polar angle from the bob height.
func (c *Cartesian3D) Angle(s ode.State) float64 {
	cosT := -s[2] / c.Length
	if cosT > 1 {
		cosT = 1
	} else if cosT < -1 {
		cosT = -1
	}
	return math.Acos(cosT)
}

// AngularVelocity is the total angular speed |v|/L, which stays defined at
// the poles where theta_dot alone does not.
func (c *Cartesian3D) AngularVelocity(s ode.State) float64 {
	vx, vy, vz := s[3], s[4], s[5]
	return math.Sqrt(vx*vx+vy*vy+vz*vz) / c.Length
}

// AngularAcceleration is the tangential acceleration magnitude over L. The
// radial component is removed so only the part that changes the swing rate
// remains.
func (c *Cartesian3D) AngularAcceleration(s ode.State) float64 {
	d := c.Derive(s, 0)
	ax, ay, az := d[3], d[4], d[5]
	rx, ry, rz := s[0]/c.Length, s[1]/c.Length, s[2]/c.Length

	radial := ax*rx + ay*ry + az*rz
	tx := ax - radial*rx
	ty := ay - radial*ry
	tz := az - radial*rz

	return math.Sqrt(tx*tx+ty*ty+tz*tz) / c.Length
}

func (c *Cartesian3D) Position(s ode.State) (float64, float64, float64) {
	return s[0], s[1], s[2]
}

// InitialState converts spherical initial conditions onto the sphere and
// applies the impulse to the velocity components, dv = F/m. The radial share
// of the impulse is absorbed by the rod, so only the tangent-plane part
// reaches the velocity; this keeps r.v = 0 and matches the theta/phi
// projection used by the spherical form.
func (c *Cartesian3D) InitialState(theta0, phi0, thetaDot0, phiDot0, fx, fy, fz float64) ode.State {
	sinT, cosT := math.Sin(theta0), math.Cos(theta0)
	sinP, cosP := math.Sin(phi0), math.Cos(phi0)
	L := c.Length

	x := L * sinT * cosP
	y := L * sinT * sinP
	z := -L * cosT

	vx := L * (thetaDot0*cosT*cosP - phiDot0*sinT*sinP)
	vy := L * (thetaDot0*cosT*sinP + phiDot0*sinT*cosP)
	vz := L * thetaDot0 * sinT

	rx, ry, rz := x/L, y/L, z/L
	radial := fx*rx + fy*ry + fz*rz
	vx += (fx - radial*rx) / c.Mass
	vy += (fy - radial*ry) / c.Mass
	vz += (fz - radial*rz) / c.Mass

	return ode.State{x, y, z, vx, vy, vz}
}

func (c *Cartesian3D) GetParams() map[string]float64 {
	return map[string]float64{
		"mass":    c.Mass,
		"length":  c.Length,
		"gravity": c.Gravity,
		"drag":    c.Drag,
	}
}

func (c *Cartesian3D) SetParam(name string, value float64) error {
	switch name {
	case "mass":
		c.Mass = value
	case "length":
		c.Length = value
	case "gravity":
		c.Gravity = value
	case "drag":
		c.Drag = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}

package runner

import (
	"fmt"

	"github.com/avollmer/pendlab/internal/metrics"
	"github.com/avollmer/pendlab/internal/ode"
)

// Quantity names a derived output series over a trajectory.
type Quantity int

const (
	Angle Quantity = iota
	AngularVelocity
	AngularAcceleration
	Energy
)

func (q Quantity) String() string {
	switch q {
	case Angle:
		return "angle"
	case AngularVelocity:
		return "velocity"
	case AngularAcceleration:
		return "acceleration"
	case Energy:
		return "energy"
	}
	return "unknown"
}

func ParseQuantity(name string) (Quantity, error) {
	switch name {
	case "angle", "theta":
		return Angle, nil
	case "velocity", "omega":
		return AngularVelocity, nil
	case "acceleration", "alpha":
		return AngularAcceleration, nil
	case "energy":
		return Energy, nil
	}
	return 0, fmt.Errorf("unknown quantity: %s", name)
}

// Series derives the requested quantity over every trajectory sample by
// re-evaluating the model, not by differencing neighbouring samples.
func (r *Run) Series(q Quantity) []float64 {
	if q == Energy {
		return metrics.EnergySeries(r.System, r.Result)
	}

	obs, ok := r.System.(metrics.AngularObservable)
	if !ok {
		return make([]float64, len(r.Result.States))
	}

	out := make([]float64, len(r.Result.States))
	for i, x := range r.Result.States {
		switch q {
		case Angle:
			out[i] = obs.Angle(x)
		case AngularVelocity:
			out[i] = obs.AngularVelocity(x)
		case AngularAcceleration:
			out[i] = obs.AngularAcceleration(x)
		}
	}
	return out
}

// Positions maps every sample to the bob position in Cartesian space,
// consumed by the SVG projections and the live view.
func (r *Run) Positions() [][3]float64 {
	out := make([][3]float64, len(r.Result.States))
	pos, ok := r.System.(ode.Positioned)
	if !ok {
		return out
	}
	for i, x := range r.Result.States {
		px, py, pz := pos.Position(x)
		out[i] = [3]float64{px, py, pz}
	}
	return out
}

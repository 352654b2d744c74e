package runner_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/avollmer/pendlab/internal/ode"
	"github.com/avollmer/pendlab/internal/runner"
)

var _ = Describe("Params validation", func() {
	var p runner.Params

	BeforeEach(func() {
		p = runner.DefaultParams(runner.Pendulum2D)
	})

	It("accepts the defaults", func() {
		Expect(p.Validate()).To(Succeed())
	})

	DescribeTable("rejects out-of-range values",
		func(mutate func(*runner.Params)) {
			mutate(&p)
			Expect(p.Validate()).To(MatchError(ode.ErrInvalidParameter))
		},
		Entry("negative length", func(p *runner.Params) { p.Length = -1 }),
		Entry("zero length", func(p *runner.Params) { p.Length = 0 }),
		Entry("zero gravity", func(p *runner.Params) { p.Gravity = 0 }),
		Entry("negative gravity", func(p *runner.Params) { p.Gravity = -9.81 }),
		Entry("zero mass", func(p *runner.Params) { p.Mass = 0 }),
		Entry("negative drag", func(p *runner.Params) { p.Drag = -0.1 }),
		Entry("zero step", func(p *runner.Params) { p.StepSize = 0 }),
		Entry("zero duration", func(p *runner.Params) { p.Duration = 0 }),
		Entry("NaN angle", func(p *runner.Params) { p.Theta0Deg = math.NaN() }),
		Entry("Inf impulse", func(p *runner.Params) { p.ForceX = math.Inf(1) }),
	)

	It("fails fast, before any integration", func() {
		p.Length = -1
		run, err := runner.Execute(context.Background(), p)
		Expect(err).To(MatchError(ode.ErrInvalidParameter))
		Expect(run).To(BeNil())
	})
})

var _ = Describe("Representation selection", func() {
	build := func(theta0Deg float64) runner.Representation {
		p := runner.DefaultParams(runner.Pendulum3D)
		p.Theta0Deg = theta0Deg
		_, _, rep, err := runner.Build(p)
		Expect(err).NotTo(HaveOccurred())
		return rep
	}

	It("uses the planar form for the 2D model", func() {
		p := runner.DefaultParams(runner.Pendulum2D)
		_, _, rep, err := runner.Build(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(rep).To(Equal(runner.Planar))
	})

	It("falls back to Cartesian at the bottom pole", func() {
		Expect(build(0)).To(Equal(runner.Cartesian))
	})

	It("falls back to Cartesian at the top pole", func() {
		Expect(build(180)).To(Equal(runner.Cartesian))
	})

	It("keeps spherical coordinates away from the poles", func() {
		Expect(build(90)).To(Equal(runner.Spherical))
		Expect(build(10)).To(Equal(runner.Spherical))
		Expect(build(170)).To(Equal(runner.Spherical))
	})

	It("decides once per run and returns finite pole trajectories", func() {
		p := runner.DefaultParams(runner.Pendulum3D)
		p.Theta0Deg = 0
		p.ForceY = 0.2
		p.Duration = 5

		run, err := runner.Execute(context.Background(), p)
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Representation).To(Equal(runner.Cartesian))
		Expect(run.Result.Warnings).To(BeEmpty())
		for _, x := range run.Result.States {
			Expect(x.IsFinite()).To(BeTrue())
		}
	})
})

var _ = Describe("Impulse handling", func() {
	It("applies dv = F/m before the first step", func() {
		p := runner.DefaultParams(runner.Pendulum3D)
		p.Theta0Deg = 0 // Cartesian, bob at (0, 0, -L)
		p.Mass = 2.0
		p.ForceX = 0.5

		_, x0, _, err := runner.Build(p)
		Expect(err).NotTo(HaveOccurred())
		// vx = F/m, no gravitational evolution yet.
		Expect(x0[3]).To(Equal(0.25))
		Expect(x0[4]).To(BeZero())
	})

	It("projects the impulse onto the angular directions in spherical form", func() {
		p := runner.DefaultParams(runner.Pendulum3D)
		p.Theta0Deg = 90
		p.ForceY = 0.3

		_, x0, rep, err := runner.Build(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(rep).To(Equal(runner.Spherical))
		Expect(x0[3]).To(BeNumerically("~", 0.3, 1e-12)) // phi_dot += F/(m L sin theta)
	})

	It("leaves the state untouched without an impulse", func() {
		p := runner.DefaultParams(runner.Pendulum3D)
		p.Theta0Deg = 45

		_, x0, _, err := runner.Build(p)
		Expect(err).NotTo(HaveOccurred())
		Expect(x0[2]).To(BeZero())
		Expect(x0[3]).To(BeZero())
	})
})

var _ = Describe("Execute", func() {
	It("is deterministic: identical parameters give bit-identical trajectories", func() {
		p := runner.DefaultParams(runner.Pendulum3D)
		p.Theta0Deg = 35
		p.PhiDot0 = 1.2
		p.Duration = 3

		a, err := runner.Execute(context.Background(), p)
		Expect(err).NotTo(HaveOccurred())
		b, err := runner.Execute(context.Background(), p)
		Expect(err).NotTo(HaveOccurred())

		Expect(b.Result.States).To(HaveLen(len(a.Result.States)))
		for i := range a.Result.States {
			for j := range a.Result.States[i] {
				Expect(b.Result.States[i][j]).To(Equal(a.Result.States[i][j]))
			}
		}
	})

	It("reproduces the classroom scenario", func() {
		// L=1, g=9.81, theta0=10deg, h=0.01, 10s: 1001 samples, period
		// close to 2 pi sqrt(L/g), energy drift below 0.1%.
		p := runner.DefaultParams(runner.Pendulum2D)

		run, err := runner.Execute(context.Background(), p)
		Expect(err).NotTo(HaveOccurred())

		Expect(run.Result.States).To(HaveLen(1001))
		Expect(run.Result.Times[0]).To(BeZero())
		Expect(run.Result.Times[1000]).To(BeNumerically("~", 10.0, 1e-9))

		angles := run.Series(runner.Angle)
		Expect(angles[0]).To(BeNumerically("~", 10*math.Pi/180, 1e-12))

		period := measurePeriod(angles, p.StepSize)
		Expect(period).To(BeNumerically("~", 2*math.Pi*math.Sqrt(1/9.81), 0.01))

		Expect(run.Result.Metrics["energy_drift"]).To(BeNumerically("<", 1e-3))
	})

	It("converts degrees to radians exactly once", func() {
		p := runner.DefaultParams(runner.Pendulum2D)
		p.Theta0Deg = 180

		run, err := runner.Execute(context.Background(), p)
		Expect(err).NotTo(HaveOccurred())
		Expect(run.Result.States[0][0]).To(BeNumerically("~", math.Pi, 1e-12))
	})

	It("supports cancellation at sample granularity", func() {
		p := runner.DefaultParams(runner.Pendulum2D)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := runner.Execute(ctx, p)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Derived series", func() {
	var run *runner.Run

	BeforeEach(func() {
		p := runner.DefaultParams(runner.Pendulum2D)
		p.Duration = 2
		var err error
		run, err = runner.Execute(context.Background(), p)
		Expect(err).NotTo(HaveOccurred())
	})

	It("covers every sample", func() {
		n := len(run.Result.States)
		Expect(run.Series(runner.Angle)).To(HaveLen(n))
		Expect(run.Series(runner.AngularVelocity)).To(HaveLen(n))
		Expect(run.Series(runner.AngularAcceleration)).To(HaveLen(n))
		Expect(run.Series(runner.Energy)).To(HaveLen(n))
		Expect(run.Positions()).To(HaveLen(n))
	})

	It("keeps the undamped energy series flat", func() {
		energy := run.Series(runner.Energy)
		for _, e := range energy {
			Expect(e).To(BeNumerically("~", energy[0], energy[0]*1e-3))
		}
	})

	It("starts the acceleration series consistent with the equations", func() {
		// At rest at theta0, alpha = -(g/L) sin(theta0).
		alpha := run.Series(runner.AngularAcceleration)
		theta0 := 10 * math.Pi / 180
		Expect(alpha[0]).To(BeNumerically("~", -9.81*math.Sin(theta0), 1e-12))
	})

	It("parses quantity names", func() {
		for name, want := range map[string]runner.Quantity{
			"angle":        runner.Angle,
			"omega":        runner.AngularVelocity,
			"acceleration": runner.AngularAcceleration,
			"energy":       runner.Energy,
		} {
			q, err := runner.ParseQuantity(name)
			Expect(err).NotTo(HaveOccurred())
			Expect(q).To(Equal(want))
		}
		_, err := runner.ParseQuantity("jerk")
		Expect(err).To(HaveOccurred())
	})
})

// measurePeriod estimates the oscillation period from positive-going zero
// crossings with linear interpolation.
func measurePeriod(angles []float64, dt float64) float64 {
	crossings := make([]float64, 0)
	for i := 1; i < len(angles); i++ {
		if angles[i-1] < 0 && angles[i] >= 0 {
			frac := -angles[i-1] / (angles[i] - angles[i-1])
			crossings = append(crossings, (float64(i-1)+frac)*dt)
		}
	}
	if len(crossings) < 2 {
		return 0
	}
	return (crossings[len(crossings)-1] - crossings[0]) / float64(len(crossings)-1)
}

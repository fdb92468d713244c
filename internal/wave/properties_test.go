package wave_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wavesim/internal/wave"
)

const dt = 1.0 / 60

func newSurface(p wave.Params, resolution int, width float64) *wave.Surface {
	s, err := wave.NewSurface(resolution, width, wave.ParamFunc(func() wave.Params { return p }))
	Expect(err).NotTo(HaveOccurred())
	return s
}

func randomParams(rng *rand.Rand) wave.Params {
	return wave.Params{
		Amplitude:         rng.Float64(),
		Frequency:         rng.Float64() * 0.2,
		Speed:             rng.Float64() * 3,
		Stiffness:         rng.Float64() * 2,
		Damping:           rng.Float64(),
		HorizontalDamping: rng.Float64() * 2,
		Tension:           rng.Float64() * 5,
		Viscosity:         rng.Float64() * 0.5,
		MaxVelocity:       0.5 + rng.Float64()*20,
	}
}

var _ = Describe("Surface", func() {
	Describe("boundedness", func() {
		It("keeps every value finite and within its clamp under random forcing", func() {
			rng := rand.New(rand.NewSource(7))
			for trial := 0; trial < 10; trial++ {
				p := randomParams(rng)
				s := newSurface(p, 64, 80)
				for tick := 0; tick < 300; tick++ {
					if rng.Intn(5) == 0 {
						s.AddImpulse(rng.Float64()*80, (rng.Float64()-0.5)*200, 0.5+rng.Float64()*6)
					}
					s.Step(dt)
					for i := 0; i < s.Resolution(); i++ {
						h, v, hv := s.Height(i), s.Velocity(i), s.HVelocity(i)
						Expect(math.IsNaN(h) || math.IsInf(h, 0)).To(BeFalse())
						Expect(math.Abs(h)).To(BeNumerically("<=", wave.HeightBound))
						Expect(math.Abs(v)).To(BeNumerically("<=", p.MaxVelocity))
						Expect(math.Abs(hv)).To(BeNumerically("<=", p.MaxVelocity))
					}
				}
			}
		})
	})

	Describe("determinism", func() {
		It("produces identical state for identical inputs", func() {
			p := wave.DefaultParams()
			run := func() wave.Snapshot {
				s := newSurface(p, 40, 50)
				s.AddImpulse(12, 4, 3)
				for tick := 0; tick < 200; tick++ {
					if tick == 50 {
						s.AddImpulse(30, -6, 2)
					}
					s.Step(dt)
				}
				return s.Snapshot()
			}
			Expect(run()).To(Equal(run()))
		})
	})

	Describe("quiescence", func() {
		It("stays flat without impulses and matches the base wave exactly", func() {
			p := wave.DefaultParams()
			s := newSurface(p, 30, 60)
			for tick := 0; tick < 500; tick++ {
				s.Step(dt)
			}
			for i := 0; i < s.Resolution(); i++ {
				Expect(s.Height(i)).To(BeZero())
				Expect(s.Velocity(i)).To(BeZero())
				Expect(s.HVelocity(i)).To(BeZero())
			}
			x := s.IndexToWorldX(7)
			want := p.BaseWave().At(x, s.Phase())
			Expect(s.SampleHeight(x)).To(BeNumerically("~", want, 1e-12))
		})
	})

	Describe("impulse locality", func() {
		It("only touches nodes within the radius", func() {
			s := newSurface(wave.DefaultParams(), 101, 100)
			s.AddImpulse(50, 3, 4)
			center := s.WorldXToIndex(50)
			for i := 0; i < s.Resolution(); i++ {
				d := math.Abs(s.IndexToWorldX(i) - s.IndexToWorldX(center))
				if d > 4 {
					Expect(s.Velocity(i)).To(BeZero())
					Expect(s.HVelocity(i)).To(BeZero())
				} else {
					Expect(s.Velocity(i)).To(BeNumerically(">", 0))
				}
			}
		})
	})

	Describe("sampling", func() {
		var s *wave.Surface

		BeforeEach(func() {
			s = newSurface(wave.DefaultParams(), 50, 100)
			s.AddImpulse(40, 8, 6)
			for tick := 0; tick < 30; tick++ {
				s.Step(dt)
			}
		})

		It("is continuous across node boundaries", func() {
			for i := 1; i < s.Resolution()-1; i++ {
				x := s.IndexToWorldX(i)
				Expect(s.SampleHeight(x - 1e-9)).To(BeNumerically("~", s.SampleHeight(x+1e-9), 1e-6))
			}
		})

		It("round-trips node indices", func() {
			for i := 0; i < s.Resolution(); i++ {
				Expect(s.WorldXToIndex(s.IndexToWorldX(i))).To(Equal(i))
			}
		})

		It("tiles the wrapped sampler with period resolution*spacing", func() {
			period := float64(s.Resolution()) * s.Spacing()
			for _, x := range []float64{1.1, 17.3, 55.5, 91.2} {
				Expect(s.SampleHeightWrapped(x + period)).To(BeNumerically("~", s.SampleHeightWrapped(x), 1e-9))
				Expect(s.SampleHeightWrapped(x - 2*period)).To(BeNumerically("~", s.SampleHeightWrapped(x), 1e-9))
			}
		})

		It("clamps queries far outside the grid", func() {
			Expect(s.SampleHeight(-1e6)).To(Equal(s.SampleHeight(0)))
			Expect(s.SampleHeight(1e6)).To(Equal(s.SampleHeight(101)))
			Expect(s.SampleSurfaceVelocity(1e6)).To(Equal(s.Velocity(s.Resolution() - 1)))
		})
	})

	Describe("scenarios", func() {
		It("flat start stays near zero for 100 steps", func() {
			s := newSurface(wave.DefaultParams(), 50, 100)
			for tick := 0; tick < 100; tick++ {
				s.Step(0.02)
			}
			for i := 0; i < s.Resolution(); i++ {
				Expect(math.Abs(s.Height(i))).To(BeNumerically("<=", 0.01))
			}
		})

		It("a single impulse raises the centre and then decays", func() {
			s := newSurface(wave.DefaultParams(), 50, 100)
			s.AddImpulse(50, 5, 2)
			c := s.WorldXToIndex(50)
			Expect(s.Velocity(c)).To(BeNumerically("~", 3, 1e-12))

			s.Step(0.02)
			Expect(s.Height(c)).To(BeNumerically(">", 0))

			e0 := s.Energy()
			for tick := 0; tick < 2000; tick++ {
				s.Step(0.02)
			}
			Expect(s.Energy()).To(BeNumerically("<", e0))
		})

		It("repeated strong impulses never exceed the clamp", func() {
			p := wave.DefaultParams()
			p.MaxVelocity = 1
			s := newSurface(p, 50, 100)
			for tick := 0; tick < 50; tick++ {
				s.AddImpulse(50, 1000, 5)
				s.Step(0.02)
				for i := 0; i < s.Resolution(); i++ {
					Expect(math.Abs(s.Velocity(i))).To(BeNumerically("<=", 1))
					Expect(math.Abs(s.HVelocity(i))).To(BeNumerically("<=", 1))
				}
			}
		})
	})
})

package metrics

import "github.com/san-kum/wavesim/internal/wave"

// NonFinite counts NaN/Inf candidates the stepper discarded.
type NonFinite struct {
	name  string
	count int
}

func NewNonFinite() *NonFinite {
	return &NonFinite{name: "non_finite"}
}

func (n *NonFinite) Name() string { return n.name }

func (n *NonFinite) Observe(r wave.Reader, st wave.StepStats, t float64) {
	n.count += st.NonFinite
}

func (n *NonFinite) Value() float64 { return float64(n.count) }
func (n *NonFinite) Reset()         { n.count = 0 }

// ClampRate is the mean number of advection and delta clamps per tick.
type ClampRate struct {
	name    string
	clamps  int
	samples int
}

func NewClampRate() *ClampRate {
	return &ClampRate{name: "clamp_rate"}
}

func (c *ClampRate) Name() string { return c.name }

func (c *ClampRate) Observe(r wave.Reader, st wave.StepStats, t float64) {
	c.clamps += st.AdvectionClamps + st.DeltaClamps
	c.samples++
}

func (c *ClampRate) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return float64(c.clamps) / float64(c.samples)
}

func (c *ClampRate) Reset() {
	c.clamps = 0
	c.samples = 0
}

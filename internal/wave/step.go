package wave

import "math"

const (
	// HeightBound is the sanity clamp applied to every height after a step.
	HeightBound = 1000.0

	// smoothKeep is the share of a node's own height kept by the low-pass
	// pass; the rest is pulled toward the 3-point neighbour average. The
	// explicit scheme rings at the grid frequency without it.
	smoothKeep = 0.95
)

// StepStats reports what the stepper had to correct during one tick.
type StepStats struct {
	Skipped         bool // degenerate input, grid untouched
	NonFinite       int  // NaN/Inf candidates replaced by the previous value
	AdvectionClamps int  // horizontal contributions hitting ±maxVelocity*dt
	DeltaClamps     int  // net height changes hitting ±maxVelocity*dt
	HeightClamps    int  // heights hitting ±HeightBound
}

// Add accumulates o into s.
func (s *StepStats) Add(o StepStats) {
	s.NonFinite += o.NonFinite
	s.AdvectionClamps += o.AdvectionClamps
	s.DeltaClamps += o.DeltaClamps
	s.HeightClamps += o.HeightClamps
}

// Step advances g in place by dt seconds using p. It must be called once per
// fixed tick; calling it twice within a tick is a double step. Degenerate
// input (invalid grid, dt <= 0, unusable params) leaves g untouched.
//
// The phases below are ordered: each reads what the previous one wrote.
func Step(g *Grid, p Params, dt float64) StepStats {
	if !g.valid() || !(dt > 0) || math.IsInf(dt, 0) || p.Validate() != nil {
		return StepStats{Skipped: true}
	}

	var st StepStats
	n := g.resolution
	h, v, a, hv := g.height, g.velocity, g.accel, g.hVelocity
	lap, next := g.laplacian, g.nextHeight
	dx := g.spacing
	dx2 := dx * dx
	maxV := p.MaxVelocity
	maxDelta := maxV * dt
	last := n - 1

	// 1. vertical forces; boundaries have no neighbour on one side
	a[0], a[last] = 0, 0
	for i := 1; i < last; i++ {
		a[i] = -p.Stiffness*h[i] + p.Tension*(h[i-1]+h[i+1]-2*h[i])/dx2
	}

	// 2. vertical velocity with exponential damping, every node
	vDecay := math.Exp(-p.Damping * dt)
	for i := 0; i < n; i++ {
		v[i] = keepFinite((v[i]+a[i]*dt)*vDecay, v[i], &st)
	}

	// 3. horizontal flow driven by surface slope
	for i := 1; i < last; i++ {
		slope := (h[i+1] - h[i-1]) / (2 * dx)
		hv[i] = keepFinite(hv[i]-p.Stiffness*slope*dt, hv[i], &st)
	}

	// 4. explicit viscosity; laplacian taken before any node is updated
	lap[0], lap[last] = 0, 0
	for i := 1; i < last; i++ {
		lap[i] = hv[i-1] + hv[i+1] - 2*hv[i]
	}
	for i := 1; i < last; i++ {
		hv[i] = keepFinite(hv[i]+p.Viscosity*lap[i], hv[i], &st)
	}

	// 5. horizontal damping, every node
	hDecay := math.Exp(-p.HorizontalDamping * dt)
	for i := 0; i < n; i++ {
		hv[i] *= hDecay
	}

	// 6. height candidates: vertical integration plus advection by the
	// divergence of the smoothed horizontal velocity. lap is reused for the
	// smoothed field.
	smoothed := lap
	smoothed[0] = (hv[0] + hv[1]) / 2
	smoothed[last] = (hv[last-1] + hv[last]) / 2
	for i := 1; i < last; i++ {
		smoothed[i] = (hv[i-1] + hv[i] + hv[i+1]) / 3
	}
	next[0], next[last] = h[0], h[last]
	for i := 1; i < last; i++ {
		div := (smoothed[i+1] - smoothed[i-1]) / (2 * dx)
		horiz := -h[i] * div * dt
		if horiz > maxDelta || horiz < -maxDelta {
			st.AdvectionClamps++
			horiz = clamp(horiz, -maxDelta, maxDelta)
		}
		delta := v[i]*dt + horiz
		if delta > maxDelta || delta < -maxDelta {
			st.DeltaClamps++
			delta = clamp(delta, -maxDelta, maxDelta)
		}
		next[i] = keepFinite(h[i]+delta, h[i], &st)
	}

	// 7. commit interior; boundaries keep their height
	copy(h[1:last], next[1:last])

	// 8. low-pass: blend toward the neighbour average of the committed field
	for i := 1; i < last; i++ {
		avg := (next[i-1] + next[i] + next[i+1]) / 3
		h[i] = keepFinite(smoothKeep*next[i]+(1-smoothKeep)*avg, next[i], &st)
	}

	// 9. final clamps
	for i := 0; i < n; i++ {
		if h[i] > HeightBound || h[i] < -HeightBound {
			st.HeightClamps++
			h[i] = clamp(h[i], -HeightBound, HeightBound)
		}
		v[i] = clamp(v[i], -maxV, maxV)
		hv[i] = clamp(hv[i], -maxV, maxV)
	}

	g.advancePhase(p.Speed * dt)
	return st
}

// advancePhase keeps phase in [0, 2π) so long sessions don't lose precision
// in the base wave argument.
func (g *Grid) advancePhase(d float64) {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return
	}
	g.phase = math.Mod(g.phase+d, 2*math.Pi)
	if g.phase < 0 {
		g.phase += 2 * math.Pi
	}
}

// keepFinite returns candidate, or previous when candidate is NaN/Inf.
func keepFinite(candidate, previous float64, st *StepStats) float64 {
	if math.IsNaN(candidate) || math.IsInf(candidate, 0) {
		st.NonFinite++
		if math.IsNaN(previous) || math.IsInf(previous, 0) {
			return 0
		}
		return previous
	}
	return candidate
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

package wave

import (
	"fmt"
	"math"
)

// MinResolution is the smallest grid with at least one interior node.
const MinResolution = 3

// Grid holds the discretized surface state. height is the dynamic offset from
// the neutral surface; the base wave is added only when sampling.
type Grid struct {
	resolution int
	width      float64
	originX    float64
	spacing    float64
	phase      float64

	height    []float64
	velocity  []float64
	accel     []float64
	hVelocity []float64

	// scratch, no meaning between ticks
	laplacian  []float64
	nextHeight []float64
}

// NewGrid allocates a quiescent grid spanning width world units starting at
// originX.
func NewGrid(resolution int, width, originX float64) (*Grid, error) {
	g := &Grid{originX: originX}
	if err := g.Resize(resolution, width); err != nil {
		return nil, err
	}
	if math.IsNaN(originX) || math.IsInf(originX, 0) {
		return nil, fmt.Errorf("%w: origin %v", ErrNonFinite, originX)
	}
	return g, nil
}

// Resize reallocates every array together and zeroes the state. It is the
// only way to reset a grid.
func (g *Grid) Resize(resolution int, width float64) error {
	if resolution < MinResolution || !(width > 0) || math.IsInf(width, 0) {
		return fmt.Errorf("%w: resolution=%d width=%v", ErrInvalidGrid, resolution, width)
	}
	g.resolution = resolution
	g.width = width
	g.spacing = width / float64(resolution-1)
	g.phase = 0
	g.height = make([]float64, resolution)
	g.velocity = make([]float64, resolution)
	g.accel = make([]float64, resolution)
	g.hVelocity = make([]float64, resolution)
	g.laplacian = make([]float64, resolution)
	g.nextHeight = make([]float64, resolution)
	return nil
}

// valid reports whether the grid can be stepped. A zero Grid is not valid.
func (g *Grid) valid() bool {
	return g != nil &&
		g.resolution >= MinResolution &&
		g.spacing > 0 &&
		len(g.height) == g.resolution &&
		len(g.velocity) == g.resolution &&
		len(g.accel) == g.resolution &&
		len(g.hVelocity) == g.resolution &&
		len(g.laplacian) == g.resolution &&
		len(g.nextHeight) == g.resolution
}

func (g *Grid) Resolution() int  { return g.resolution }
func (g *Grid) Width() float64   { return g.width }
func (g *Grid) Spacing() float64 { return g.spacing }
func (g *Grid) OriginX() float64 { return g.originX }
func (g *Grid) Phase() float64   { return g.phase }

// SetOriginX moves the grid's left edge. Owners call this between ticks to
// keep the grid centred on a point of interest; node state is not shifted.
func (g *Grid) SetOriginX(x float64) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return
	}
	g.originX = x
}

// Recenter places the grid's midpoint at x.
func (g *Grid) Recenter(x float64) {
	g.SetOriginX(x - g.width/2)
}

// Height returns the dynamic offset at node i, or 0 outside the grid.
func (g *Grid) Height(i int) float64 {
	if i < 0 || i >= len(g.height) {
		return 0
	}
	return g.height[i]
}

// Velocity returns the vertical velocity at node i, or 0 outside the grid.
func (g *Grid) Velocity(i int) float64 {
	if i < 0 || i >= len(g.velocity) {
		return 0
	}
	return g.velocity[i]
}

// HVelocity returns the horizontal velocity at node i, or 0 outside the grid.
func (g *Grid) HVelocity(i int) float64 {
	if i < 0 || i >= len(g.hVelocity) {
		return 0
	}
	return g.hVelocity[i]
}

// Snapshot is a value copy of the grid state for renderers and recorders.
type Snapshot struct {
	OriginX   float64
	Spacing   float64
	Phase     float64
	Height    []float64
	Velocity  []float64
	HVelocity []float64
}

// Snapshot copies the current state. The returned slices are not shared with
// the grid.
func (g *Grid) Snapshot() Snapshot {
	return Snapshot{
		OriginX:   g.originX,
		Spacing:   g.spacing,
		Phase:     g.phase,
		Height:    cloneFloats(g.height),
		Velocity:  cloneFloats(g.velocity),
		HVelocity: cloneFloats(g.hVelocity),
	}
}

// Heights appends the dynamic heights to dst and returns it.
func (g *Grid) Heights(dst []float64) []float64 {
	return append(dst[:0], g.height...)
}

// Energy is the discrete kinetic energy of both velocity channels plus the
// spring and tension potentials, summed over nodes and scaled by spacing.
func (g *Grid) Energy(p Params) float64 {
	if !g.valid() {
		return 0
	}
	ke, pe := 0.0, 0.0
	for i := 0; i < g.resolution; i++ {
		v, hv, h := g.velocity[i], g.hVelocity[i], g.height[i]
		ke += 0.5 * (v*v + hv*hv)
		pe += 0.5 * p.Stiffness * h * h
		if i < g.resolution-1 {
			dhdx := (g.height[i+1] - h) / g.spacing
			pe += 0.5 * p.Tension * dhdx * dhdx
		}
	}
	return (ke + pe) * g.spacing
}

func cloneFloats(s []float64) []float64 {
	c := make([]float64, len(s))
	copy(c, s)
	return c
}

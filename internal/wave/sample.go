package wave

import "math"

// maxFraction bounds fractional indices before integer conversion so that
// absurd world coordinates still clamp or wrap cleanly.
const maxFraction = 1 << 40

// fractionalIndex is the one place world X becomes grid space.
func (g *Grid) fractionalIndex(worldX float64) float64 {
	if math.IsNaN(worldX) || g.spacing <= 0 {
		return 0
	}
	return clamp((worldX-g.originX)/g.spacing, -maxFraction, maxFraction)
}

// WorldXToIndex returns the node nearest worldX, clamped to the grid.
func (g *Grid) WorldXToIndex(worldX float64) int {
	return g.clampIndex(int(math.Round(g.fractionalIndex(worldX))))
}

// IndexToWorldX returns the world position of node i. Indices outside the
// grid extrapolate along the same spacing.
func (g *Grid) IndexToWorldX(i int) float64 {
	return g.originX + float64(i)*g.spacing
}

func (g *Grid) clampIndex(i int) int {
	if i < 0 {
		return 0
	}
	if i > g.resolution-1 {
		return g.resolution - 1
	}
	return i
}

func (g *Grid) wrapIndex(i int) int {
	n := g.resolution
	return ((i % n) + n) % n
}

// nodeHeight is the dynamic height at node i plus the base wave evaluated at
// that node's world position.
func (g *Grid) nodeHeight(base BaseWave, i int) float64 {
	return g.height[i] + base.At(g.IndexToWorldX(i), g.phase)
}

// SampleHeight interpolates the surface height at worldX. Queries past
// either edge return the edge node's height.
func (g *Grid) SampleHeight(base BaseWave, worldX float64) float64 {
	if !g.valid() {
		return 0
	}
	f := g.fractionalIndex(worldX)
	i0 := int(math.Floor(f))
	t := f - float64(i0)
	if i0 < 0 {
		i0, t = 0, 0
	}
	if i0 >= g.resolution-1 {
		i0, t = g.resolution-1, 0
	}
	i1 := g.clampIndex(i0 + 1)
	return lerp(g.nodeHeight(base, i0), g.nodeHeight(base, i1), t)
}

// SampleHeightWrapped is SampleHeight with the node index taken modulo the
// resolution, for renderers that tile the surface. The simulation itself is
// not periodic.
func (g *Grid) SampleHeightWrapped(base BaseWave, worldX float64) float64 {
	if !g.valid() {
		return 0
	}
	f := g.fractionalIndex(worldX)
	fl := math.Floor(f)
	t := f - fl
	i0 := g.wrapIndex(int(fl))
	i1 := g.wrapIndex(int(fl) + 1)
	return lerp(g.nodeHeight(base, i0), g.nodeHeight(base, i1), t)
}

// SampleHorizontalVelocity returns the horizontal velocity of the node
// nearest worldX.
func (g *Grid) SampleHorizontalVelocity(worldX float64) float64 {
	if !g.valid() {
		return 0
	}
	return g.hVelocity[g.WorldXToIndex(worldX)]
}

// SampleSurfaceVelocity returns the vertical velocity of the node nearest
// worldX.
func (g *Grid) SampleSurfaceVelocity(worldX float64) float64 {
	if !g.valid() {
		return 0
	}
	return g.velocity[g.WorldXToIndex(worldX)]
}

func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

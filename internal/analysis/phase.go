package analysis

import (
	"math"
	"strings"
)

// PhasePoint is one probe sample: height against vertical velocity.
type PhasePoint struct {
	H, V float64
}

// PhasePortrait is the probe trajectory in (height, velocity) space. A
// damped surface spirals into the origin; a sustained swell traces a loop.
type PhasePortrait struct {
	Points []PhasePoint
}

// NewPhasePortrait zips heights and velocities, truncating to the shorter.
// Non-finite samples are dropped.
func NewPhasePortrait(heights, velocities []float64) *PhasePortrait {
	n := min(len(heights), len(velocities))
	p := &PhasePortrait{Points: make([]PhasePoint, 0, n)}
	for i := 0; i < n; i++ {
		h, v := heights[i], velocities[i]
		if math.IsNaN(h) || math.IsInf(h, 0) || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		p.Points = append(p.Points, PhasePoint{H: h, V: v})
	}
	return p
}

// Bounds returns the extent of the portrait padded by 10% on each side.
func (p *PhasePortrait) Bounds() (minH, maxH, minV, maxV float64) {
	minH, minV = math.Inf(1), math.Inf(1)
	maxH, maxV = math.Inf(-1), math.Inf(-1)
	for _, pt := range p.Points {
		minH, maxH = math.Min(minH, pt.H), math.Max(maxH, pt.H)
		minV, maxV = math.Min(minV, pt.V), math.Max(maxV, pt.V)
	}
	pad := func(lo, hi float64) (float64, float64) {
		r := hi - lo
		if r == 0 {
			r = 1
		}
		return lo - r*0.1, hi + r*0.1
	}
	minH, maxH = pad(minH, maxH)
	minV, maxV = pad(minV, maxV)
	return minH, maxH, minV, maxV
}

// density glyphs, by visits per cell
var shades = []rune{'·', '•', '●'}

func shade(hits int) rune {
	switch {
	case hits >= 4:
		return shades[2]
	case hits >= 2:
		return shades[1]
	default:
		return shades[0]
	}
}

// PhasePortraitToASCII renders the portrait with height across and velocity
// up. Cells are shaded by how often the trajectory visits them, axes are
// drawn where they cross the view, and the final sample is marked ◆.
func PhasePortraitToASCII(portrait *PhasePortrait, width, height int) string {
	if portrait == nil || len(portrait.Points) == 0 || width < 2 || height < 2 {
		return ""
	}
	minH, maxH, minV, maxV := portrait.Bounds()
	col := func(h float64) int { return int((h - minH) / (maxH - minH) * float64(width-1)) }
	row := func(v float64) int { return height - 1 - int((v-minV)/(maxV-minV)*float64(height-1)) }

	hits := make([][]int, height)
	for i := range hits {
		hits[i] = make([]int, width)
	}
	for _, pt := range portrait.Points {
		hits[row(pt.V)][col(pt.H)]++
	}

	cells := make([][]rune, height)
	for r := range cells {
		cells[r] = []rune(strings.Repeat(" ", width))
		for c, n := range hits[r] {
			if n > 0 {
				cells[r][c] = shade(n)
			}
		}
	}

	if minH <= 0 && maxH >= 0 {
		c := col(0)
		for r := range cells {
			if cells[r][c] == ' ' {
				cells[r][c] = '│'
			}
		}
	}
	if minV <= 0 && maxV >= 0 {
		r := row(0)
		for c := range cells[r] {
			if cells[r][c] == ' ' {
				cells[r][c] = '─'
			}
		}
	}

	last := portrait.Points[len(portrait.Points)-1]
	cells[row(last.V)][col(last.H)] = '◆'

	var sb strings.Builder
	for _, r := range cells {
		sb.WriteString(string(r))
		sb.WriteByte('\n')
	}
	return sb.String()
}

package wave

import "math"

// Split of an impulse between the two velocity channels.
const (
	verticalShare   = 0.6
	horizontalShare = 0.4
)

// AddImpulse kicks every node within radius world units of the node nearest
// worldX with falloff exp(-d²/r²). Each channel is clamped to ±maxVelocity
// right away. Nodes past either edge are skipped, so an impulse far outside
// the grid does nothing. It returns the number of nodes touched.
//
// The change is visible to samplers immediately; nothing is queued.
func (g *Grid) AddImpulse(worldX, totalForce, radius, maxVelocity float64) int {
	if !g.valid() || !(radius > 0) || totalForce == 0 || !(maxVelocity > 0) {
		return 0
	}
	if !finite(worldX) || !finite(totalForce) || math.IsInf(radius, 0) {
		return 0
	}

	c := math.Round(g.fractionalIndex(worldX))
	reach := math.Ceil(radius / g.spacing)
	lo := int(math.Max(0, c-reach))
	hi := int(math.Min(float64(g.resolution-1), c+reach))
	r2 := radius * radius

	touched := 0
	for i := lo; i <= hi; i++ {
		d := (float64(i) - c) * g.spacing
		if math.Abs(d) > radius {
			continue
		}
		falloff := math.Exp(-d * d / r2)
		g.velocity[i] = clamp(g.velocity[i]+verticalShare*totalForce*falloff, -maxVelocity, maxVelocity)
		g.hVelocity[i] = clamp(g.hVelocity[i]+horizontalShare*totalForce*falloff, -maxVelocity, maxVelocity)
		touched++
	}
	return touched
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

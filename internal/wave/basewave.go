package wave

import "math"

// BaseWave is the stateless sine added to the simulated offset at sample
// time. It is never stored in the grid.
type BaseWave struct {
	Amplitude float64
	Frequency float64
}

// At evaluates amplitude * sin(pi*frequency*x + phase).
func (b BaseWave) At(x, phase float64) float64 {
	if b.Amplitude == 0 {
		return 0
	}
	return b.Amplitude * math.Sin(math.Pi*b.Frequency*x+phase)
}

package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var ErrTooShort = errors.New("wavesim: series too short for spectrum")

// Spectrum holds one-sided power by frequency bin.
type Spectrum struct {
	Freqs []float64
	Power []float64
}

// PowerSpectrum returns |X(k)|²/N for k in [0, N/2] of data sampled every
// step units (seconds for probe series, world units for frames). The mean is
// removed first so DC reflects only rounding.
func PowerSpectrum(data []float64, step float64) Spectrum {
	n := len(data)
	if n < 2 || !(step > 0) {
		return Spectrum{}
	}

	centered := make([]float64, n)
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	bins := n/2 + 1
	out := Spectrum{
		Freqs: make([]float64, bins),
		Power: make([]float64, bins),
	}
	for k := 0; k < bins; k++ {
		mag := cmplx.Abs(spectrum[k])
		out.Freqs[k] = float64(k) / (float64(n) * step)
		out.Power[k] = mag * mag / float64(n)
	}
	return out
}

// DominantFrequency is the frequency of the strongest non-DC bin.
func DominantFrequency(data []float64, step float64) (float64, error) {
	spec := PowerSpectrum(data, step)
	if len(spec.Power) < 2 {
		return 0, ErrTooShort
	}
	best := 1
	for k := 2; k < len(spec.Power); k++ {
		if spec.Power[k] > spec.Power[best] {
			best = k
		}
	}
	return spec.Freqs[best], nil
}

// WavenumberSpectrum is PowerSpectrum over one height frame; Freqs are
// cycles per world unit.
func WavenumberSpectrum(heights []float64, spacing float64) Spectrum {
	return PowerSpectrum(heights, spacing)
}

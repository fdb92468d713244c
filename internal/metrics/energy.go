package metrics

import (
	"math"

	"github.com/san-kum/wavesim/internal/wave"
)

// Energy averages the discrete surface energy (kinetic in both velocity
// channels plus spring and tension potential) over the observed ticks.
type Energy struct {
	name        string
	samples     int
	totalEnergy float64
	peak        float64
	last        float64
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(r wave.Reader, st wave.StepStats, t float64) {
	energy := r.Energy()
	e.totalEnergy += energy
	e.peak = math.Max(e.peak, energy)
	e.last = energy
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.totalEnergy / float64(e.samples)
}

func (e *Energy) Peak() float64 { return e.peak }
func (e *Energy) Last() float64 { return e.last }

func (e *Energy) Reset() {
	e.totalEnergy = 0
	e.peak = 0
	e.last = 0
	e.samples = 0
}

// EnergyGrowth is the largest energy seen relative to the first observation.
// A damped surface without forcing stays at or below 1.
type EnergyGrowth struct {
	name          string
	initialEnergy float64
	maxGrowth     float64
	samples       int
}

func NewEnergyGrowth() *EnergyGrowth {
	return &EnergyGrowth{name: "energy_growth"}
}

func (e *EnergyGrowth) Name() string { return e.name }

func (e *EnergyGrowth) Observe(r wave.Reader, st wave.StepStats, t float64) {
	energy := r.Energy()
	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		e.maxGrowth = math.Max(e.maxGrowth, energy/e.initialEnergy)
	}
}

func (e *EnergyGrowth) Value() float64 {
	return e.maxGrowth
}

func (e *EnergyGrowth) Reset() {
	e.initialEnergy = 0
	e.maxGrowth = 0
	e.samples = 0
}

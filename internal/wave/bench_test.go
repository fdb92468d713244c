package wave

import "testing"

func benchmarkStep(b *testing.B, resolution int) {
	g, _ := NewGrid(resolution, 100, 0)
	p := DefaultParams()
	g.AddImpulse(50, 5, 10, p.MaxVelocity)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Step(g, p, 0.016)
	}
}

func BenchmarkStep_64(b *testing.B)   { benchmarkStep(b, 64) }
func BenchmarkStep_256(b *testing.B)  { benchmarkStep(b, 256) }
func BenchmarkStep_1024(b *testing.B) { benchmarkStep(b, 1024) }

func BenchmarkSampleHeight(b *testing.B) {
	g, _ := NewGrid(256, 100, 0)
	base := DefaultParams().BaseWave()
	g.AddImpulse(50, 5, 10, DefaultMaxVelocity)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		g.SampleHeight(base, float64(i%1000)*0.1)
	}
}

package sim

import (
	"sync"

	"github.com/san-kum/wavesim/internal/wave"
)

// SyncSurface guards a Surface for hosts that sample from several
// goroutines. Step and impulses take the write lock; samplers share the read
// lock. Params come from the wrapped surface's source, which must itself be
// safe to read concurrently.
type SyncSurface struct {
	mu   sync.RWMutex
	surf *wave.Surface
}

func NewSyncSurface(s *wave.Surface) *SyncSurface {
	return &SyncSurface{surf: s}
}

func (s *SyncSurface) Step(dt float64) wave.StepStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surf.Step(dt)
}

func (s *SyncSurface) AddImpulse(x, force, radius float64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surf.AddImpulse(x, force, radius)
}

func (s *SyncSurface) Recenter(x float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surf.Recenter(x)
}

func (s *SyncSurface) Resize(resolution int, width float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.surf.Resize(resolution, width)
}

// View runs fn under the read lock so several queries see the same tick.
func (s *SyncSurface) View(fn func(r wave.Reader)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.surf)
}

func (s *SyncSurface) SampleHeight(x float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surf.SampleHeight(x)
}

func (s *SyncSurface) SampleHeightWrapped(x float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surf.SampleHeightWrapped(x)
}

func (s *SyncSurface) SampleHorizontalVelocity(x float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surf.SampleHorizontalVelocity(x)
}

func (s *SyncSurface) SampleSurfaceVelocity(x float64) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surf.SampleSurfaceVelocity(x)
}

func (s *SyncSurface) Stats() wave.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.surf.Stats()
}

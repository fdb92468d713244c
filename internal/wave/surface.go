package wave

import "log/slog"

// Reader is the read-only view handed to consumers (metrics, renderers,
// recorders). Every method returns values, never internal slices.
type Reader interface {
	Resolution() int
	OriginX() float64
	Spacing() float64
	Width() float64
	Phase() float64
	Height(i int) float64
	Velocity(i int) float64
	HVelocity(i int) float64
	Heights(dst []float64) []float64
	WorldXToIndex(worldX float64) int
	IndexToWorldX(i int) float64
	SampleHeight(worldX float64) float64
	SampleHeightWrapped(worldX float64) float64
	SampleHorizontalVelocity(worldX float64) float64
	SampleSurfaceVelocity(worldX float64) float64
	Params() Params
	Energy() float64
	Stats() Stats
}

// Stats are the running totals kept by a Surface.
type Stats struct {
	Steps   int
	Skipped int
	Time    float64
	StepStats
}

// Surface is the driver-facing wrapper: a grid, the source of its tuning and
// a logger for degenerate ticks. It is not safe for concurrent use.
type Surface struct {
	grid   *Grid
	source ParamSource
	logger *slog.Logger
	stats  Stats
}

// Option configures a Surface.
type Option func(*Surface)

// WithLogger sets the logger used for non-finite warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Surface) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithOrigin sets the initial left edge in world units.
func WithOrigin(x float64) Option {
	return func(s *Surface) { s.grid.SetOriginX(x) }
}

// NewSurface builds a quiescent surface. source is read on every Step and on
// every sampling call.
func NewSurface(resolution int, width float64, source ParamSource, opts ...Option) (*Surface, error) {
	g, err := NewGrid(resolution, width, 0)
	if err != nil {
		return nil, err
	}
	if source == nil {
		source = ParamFunc(DefaultParams)
	}
	s := &Surface{
		grid:   g,
		source: source,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Step advances the surface by one fixed tick using the source's current
// parameters.
func (s *Surface) Step(dt float64) StepStats {
	st := Step(s.grid, s.source.Params(), dt)
	if st.Skipped {
		s.stats.Skipped++
		s.logger.Debug("wave step skipped", "step", s.stats.Steps, "dt", dt)
		return st
	}
	s.stats.Steps++
	s.stats.Time += dt
	s.stats.Add(st)
	if st.NonFinite > 0 {
		s.logger.Warn("non-finite values discarded",
			"step", s.stats.Steps,
			"time", s.stats.Time,
			"count", st.NonFinite,
		)
	}
	return st
}

// AddImpulse injects a splash at worldX, clamped by the current MaxVelocity.
func (s *Surface) AddImpulse(worldX, force, radius float64) int {
	return s.grid.AddImpulse(worldX, force, radius, s.source.Params().MaxVelocity)
}

// Recenter moves the grid so its midpoint is at x.
func (s *Surface) Recenter(x float64) { s.grid.Recenter(x) }

// Resize reallocates the grid; all dynamic state is lost.
func (s *Surface) Resize(resolution int, width float64) error {
	return s.grid.Resize(resolution, width)
}

// Snapshot copies the current grid state.
func (s *Surface) Snapshot() Snapshot { return s.grid.Snapshot() }

func (s *Surface) Params() Params { return s.source.Params() }
func (s *Surface) Stats() Stats   { return s.stats }

// Energy evaluates Grid.Energy with the current parameters.
func (s *Surface) Energy() float64 {
	return s.grid.Energy(s.source.Params())
}

func (s *Surface) Resolution() int                 { return s.grid.Resolution() }
func (s *Surface) OriginX() float64                { return s.grid.OriginX() }
func (s *Surface) Spacing() float64                { return s.grid.Spacing() }
func (s *Surface) Width() float64                  { return s.grid.Width() }
func (s *Surface) Phase() float64                  { return s.grid.Phase() }
func (s *Surface) Height(i int) float64            { return s.grid.Height(i) }
func (s *Surface) Velocity(i int) float64          { return s.grid.Velocity(i) }
func (s *Surface) HVelocity(i int) float64         { return s.grid.HVelocity(i) }
func (s *Surface) Heights(dst []float64) []float64 { return s.grid.Heights(dst) }
func (s *Surface) WorldXToIndex(x float64) int     { return s.grid.WorldXToIndex(x) }
func (s *Surface) IndexToWorldX(i int) float64     { return s.grid.IndexToWorldX(i) }

func (s *Surface) SampleHeight(worldX float64) float64 {
	return s.grid.SampleHeight(s.source.Params().BaseWave(), worldX)
}

func (s *Surface) SampleHeightWrapped(worldX float64) float64 {
	return s.grid.SampleHeightWrapped(s.source.Params().BaseWave(), worldX)
}

func (s *Surface) SampleHorizontalVelocity(worldX float64) float64 {
	return s.grid.SampleHorizontalVelocity(worldX)
}

func (s *Surface) SampleSurfaceVelocity(worldX float64) float64 {
	return s.grid.SampleSurfaceVelocity(worldX)
}

package viz

import (
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/wavesim/internal/config"
	"github.com/san-kum/wavesim/internal/wave"
)

const (
	width           = 80
	height          = 20
	historyCapacity = 600

	// DefaultThreshold is the |height| above which debug markers appear.
	DefaultThreshold = 1.5
)

type TickMsg time.Time

// Model is the live surface view. The surface reads its parameters through
// tuning, so key presses take effect on the next tick.
type Model struct {
	title         string
	surf          *wave.Surface
	tuning        *wave.Params
	initial       wave.Params
	paramKeys     []string
	selected      int
	t, dt         float64
	canvas        *Canvas
	running       bool
	wrapped       bool
	debug         bool
	threshold     float64
	cursor        float64
	force, radius float64
	viewX         float64
	viewWidth     float64
	energyHistory []float64
	probeHistory  []float64
	splashes      int
	showHelp      bool
}

// NewModel builds a surface from cfg and centres the view on it.
func NewModel(cfg *config.Config, title string, logger *slog.Logger) (Model, error) {
	tuning := cfg.Params
	tp := &tuning
	surf, err := wave.NewSurface(cfg.Grid.Resolution, cfg.Grid.Width,
		wave.ParamFunc(func() wave.Params { return *tp }),
		wave.WithLogger(logger),
		wave.WithOrigin(cfg.Grid.OriginX),
	)
	if err != nil {
		return Model{}, err
	}

	return Model{
		title:         title,
		surf:          surf,
		tuning:        tp,
		initial:       cfg.Params,
		paramKeys:     wave.ParamNames(),
		dt:            cfg.Dt,
		canvas:        NewCanvas(width, height),
		running:       true,
		threshold:     DefaultThreshold,
		cursor:        cfg.Grid.OriginX + cfg.Grid.Width/2,
		force:         3,
		radius:        config.DefaultRadius,
		viewX:         cfg.Grid.OriginX,
		viewWidth:     cfg.Grid.Width,
		energyHistory: make([]float64, 0, historyCapacity),
		probeHistory:  make([]float64, 0, historyCapacity),
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tick(m.dt)
}

func tick(dt float64) tea.Cmd {
	return tea.Tick(time.Duration(dt*float64(time.Second)), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "left", "h":
			m.moveCursor(-1)
		case "right", "l":
			m.moveCursor(1)
		case "a":
			m.viewX -= m.viewWidth / 10
		case "d":
			m.viewX += m.viewWidth / 10
		case "+", "=":
			m.viewWidth = math.Max(m.surf.Spacing()*4, m.viewWidth*0.8)
		case "-", "_":
			m.viewWidth *= 1.25
		case "s", "enter":
			m.splash(m.force)
		case "S":
			m.splash(-m.force)
		case "c":
			m.surf.Recenter(m.cursor)
		case "w":
			m.wrapped = !m.wrapped
		case "x":
			m.debug = !m.debug
		case "tab":
			m.selected = (m.selected + 1) % len(m.paramKeys)
		case "up", "k":
			m.adjustParam(1.05)
		case "down", "j":
			m.adjustParam(0.95)
		case "t":
			SetTheme(NextTheme(CurrentTheme.Name))
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, tick(m.dt)
	}
	return m, nil
}

func (m *Model) moveCursor(dir float64) {
	m.cursor += dir * m.viewWidth / 40
	// keep the cursor on screen
	if m.cursor < m.viewX {
		m.viewX = m.cursor
	}
	if m.cursor > m.viewX+m.viewWidth {
		m.viewX = m.cursor - m.viewWidth
	}
}

func (m *Model) splash(force float64) {
	if m.surf.AddImpulse(m.cursor, force, m.radius) > 0 {
		m.splashes++
	}
}

func (m *Model) adjustParam(factor float64) {
	key := m.paramKeys[m.selected]
	val := m.tuning.GetParams()[key]
	if val == 0 {
		val = 1e-3
	}
	next := *m.tuning
	if err := next.SetParam(key, val*factor); err != nil {
		return
	}
	if next.Validate() != nil {
		return
	}
	*m.tuning = next
}

// step advances the surface by one fixed tick.
func (m *Model) step() {
	m.surf.Step(m.dt)
	m.t += m.dt

	m.energyHistory = appendCapped(m.energyHistory, m.surf.Energy())
	m.probeHistory = appendCapped(m.probeHistory, m.sample(m.cursor))
}

func appendCapped(s []float64, v float64) []float64 {
	s = append(s, v)
	if len(s) > historyCapacity {
		s = s[1:]
	}
	return s
}

func (m *Model) sample(x float64) float64 {
	if m.wrapped {
		return m.surf.SampleHeightWrapped(x)
	}
	return m.surf.SampleHeight(x)
}

// reset reallocates the grid and restores the initial parameters.
func (m *Model) reset() {
	*m.tuning = m.initial
	_ = m.surf.Resize(m.surf.Resolution(), m.surf.Width())
	m.t = 0
	m.splashes = 0
	m.energyHistory = m.energyHistory[:0]
	m.probeHistory = m.probeHistory[:0]
}

// profile samples one height per pixel column across the view.
func (m *Model) profile() []float64 {
	pw, _ := m.canvas.PixelSize()
	ys := make([]float64, pw)
	for i := range ys {
		x := m.viewX + float64(i)/float64(pw-1)*m.viewWidth
		ys[i] = m.sample(x)
	}
	return ys
}

func (m *Model) column(x float64) int {
	pw, _ := m.canvas.PixelSize()
	return int(math.Round((x - m.viewX) / m.viewWidth * float64(pw-1)))
}

// draw renders the surface, the cursor and, in debug mode, a marker above
// every column whose height exceeds the threshold.
func (m *Model) draw() (markers int) {
	m.canvas.Clear()
	_, ph := m.canvas.PixelSize()

	ys := m.profile()
	yMax := 1.0
	for _, y := range ys {
		yMax = math.Max(yMax, math.Abs(y)*1.2)
	}
	m.canvas.PlotProfile(ys, yMax)

	if col := m.column(m.cursor); col >= 0 {
		m.canvas.DrawVLine(col, 0, ph-1, 3)
	}
	if m.debug {
		for i, y := range ys {
			if math.Abs(y) > m.threshold {
				m.canvas.Set(i, 0)
				m.canvas.Set(i, 1)
				markers++
			}
		}
	}
	return markers
}

// View renders the TUI interface.
func (m Model) View() string {
	markers := m.draw()
	theme := CurrentTheme

	canvasView := lipgloss.NewStyle().Foreground(theme.Water).Padding(1, 1).Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(HeaderStyle.Render(strings.ToUpper(m.title)) + "\n")
	if m.running {
		s.WriteString(StatusRunning.Render("RUNNING"))
	} else {
		s.WriteString(StatusPaused.Render("PAUSED"))
	}
	mode := "clamped"
	if m.wrapped {
		mode = "wrapped"
	}
	s.WriteString(Subtle.Render("  "+mode) + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Energy"))
		s.WriteString(chart + "\n\n")
	}

	stat := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	st := m.surf.Stats()
	stat("Time", fmt.Sprintf("%.2fs", m.t))
	stat("Energy", fmt.Sprintf("%.4f", m.surf.Energy()))
	stat("Cursor", fmt.Sprintf("x=%.2f", m.cursor))
	stat("Height", fmt.Sprintf("%+.4f", m.sample(m.cursor)))
	stat("Velocity", fmt.Sprintf("%+.4f", m.surf.SampleSurfaceVelocity(m.cursor)))
	stat("Splashes", fmt.Sprintf("%d (F=%.1f r=%.1f)", m.splashes, m.force, m.radius))
	stat("Grid", fmt.Sprintf("%d nodes @ %.2f", m.surf.Resolution(), m.surf.OriginX()))
	if st.NonFinite > 0 {
		s.WriteString(lipgloss.NewStyle().Foreground(theme.Warning).Render(fmt.Sprintf("non-finite discarded: %d", st.NonFinite)) + "\n")
	}
	if m.debug {
		stat("Markers", fmt.Sprintf("%d > %.2f", markers, m.threshold))
	}
	s.WriteString(SparklineChart(m.probeHistory, 30) + "\n")

	s.WriteString("\nPARAMETERS\n")
	values := m.tuning.GetParams()
	initial := m.initial.GetParams()
	for i, k := range m.paramKeys {
		line := fmt.Sprintf("%-18s %s %.3f", k, ParamBar(values[k], initial[k], 8), values[k])
		if i == m.selected {
			s.WriteString(ActiveParam.Render("> "+line) + "\n")
		} else {
			s.WriteString("  " + Subtle.Render(line) + "\n")
		}
	}
	s.WriteString("\n" + KeyHint.Render("SP:Pause R:Reset Q:Quit ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, StatsPanel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  R        - Reset surface            ║
║  Q        - Quit                     ║
║  ←/→ H/L  - Move cursor              ║
║  A/D      - Pan view                 ║
║  +/-      - Zoom                     ║
║  S/Enter  - Splash down at cursor    ║
║  Shift+S  - Splash up at cursor      ║
║  C        - Recenter grid on cursor  ║
║  W        - Toggle wrapped sampling  ║
║  X        - Toggle debug markers     ║
║  Tab      - Cycle parameters         ║
║  ↑/↓      - Tune parameter (±5%)     ║
║  T        - Cycle themes             ║
╚══════════════════════════════════════╝`

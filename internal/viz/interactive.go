package viz

import (
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/wavesim/internal/config"
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

var (
	menuTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuArrow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDesc   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// setup fields editable before a session starts
var setupFields = []string{"resolution", "width", "dt"}

// App picks a preset, lets the grid be adjusted, then hands over to Model.
type App struct {
	state, cursor int
	presets       []string
	selected      string
	cfg           *config.Config
	fieldCursor   int
	editing       bool
	editBuf       string
	err           error
	logger        *slog.Logger
	live          Model
}

func NewApp(logger *slog.Logger) *App {
	return &App{
		state:   stateMenu,
		presets: config.ListPresets(),
		logger:  logger,
	}
}

func (m App) Init() tea.Cmd { return nil }

func (m App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch m.state {
		case stateMenu:
			return m.menuKey(msg)
		case stateConfig:
			return m.configKey(msg)
		}
	}
	if m.state == stateSim {
		next, cmd := m.live.Update(msg)
		m.live = next.(Model)
		return m, cmd
	}
	return m, nil
}

func (m App) menuKey(msg tea.KeyMsg) (App, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.cfg = config.GetPreset(m.selected)
		m.state, m.fieldCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m App) configKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				m.setField(setupFields[m.fieldCursor], val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 {
				c := s[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += s
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case "down", "j":
		if m.fieldCursor < len(setupFields)-1 {
			m.fieldCursor++
		}
	case "enter", " ":
		m.editing = true
		m.editBuf = fmt.Sprintf("%g", m.field(setupFields[m.fieldCursor]))
	case "s":
		return m.start()
	}
	return m, nil
}

func (m *App) field(name string) float64 {
	switch name {
	case "resolution":
		return float64(m.cfg.Grid.Resolution)
	case "width":
		return m.cfg.Grid.Width
	case "dt":
		return m.cfg.Dt
	}
	return 0
}

func (m *App) setField(name string, v float64) {
	switch name {
	case "resolution":
		m.cfg.Grid.Resolution = int(v)
	case "width":
		m.cfg.Grid.Width = v
	case "dt":
		m.cfg.Dt = v
	}
}

func (m App) start() (App, tea.Cmd) {
	if err := m.cfg.Validate(); err != nil {
		m.err = err
		return m, nil
	}
	live, err := NewModel(m.cfg, m.selected, m.logger)
	if err != nil {
		m.err = err
		return m, nil
	}
	m.live, m.state, m.err = live, stateSim, nil
	return m, live.Init()
}

func (m App) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return ""
}

func hints(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, menuKey.Render(pairs[i])+menuIdle.Render(" "+pairs[i+1]))
	}
	return "\n    " + strings.Join(parts, "  ") + "\n"
}

func (m App) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render("WAVESIM") + "\n    " + menuSub.Render("surface wave simulator") + "\n    " + menuSub.Render(Separator(25)) + "\n\n")
	for i, name := range m.presets {
		desc := config.Presets[name].Description
		if len(desc) > 32 {
			desc = desc[:29] + "..."
		}
		if i == m.cursor {
			fmt.Fprintf(&b, "    %s %s  %s\n", menuArrow.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", name)), menuDesc.Render(desc))
		} else {
			fmt.Fprintf(&b, "    %s  %s\n", menuIdle.Render(fmt.Sprintf("  %-10s", name)), Subtle.Render(desc))
		}
	}
	b.WriteString(hints("j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (m App) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitle.Render(strings.ToUpper(m.selected)) + "\n    " + menuSub.Render(config.Presets[m.selected].Description) + "\n    " + menuSub.Render(Separator(25)) + "\n\n")
	for i, name := range setupFields {
		val := fmt.Sprintf("%10g", m.field(name))
		if m.editing && i == m.fieldCursor {
			val = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.fieldCursor {
			fmt.Fprintf(&b, "    %s %s %s\n", menuArrow.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", name)), menuDesc.Bold(true).Render(val))
		} else {
			fmt.Fprintf(&b, "    %s %s\n", menuIdle.Render(fmt.Sprintf("  %-10s", name)), Subtle.Render(val))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(CurrentTheme.Warning).Render(m.err.Error()) + "\n")
	}
	b.WriteString(hints("j/k", "select", "enter", "edit", "s", "start", "esc", "back"))
	return b.String()
}

// RunInteractive starts the preset picker.
func RunInteractive(logger *slog.Logger) error {
	_, err := tea.NewProgram(NewApp(logger), tea.WithAltScreen()).Run()
	return err
}

// Run starts a live session directly from cfg.
func Run(cfg *config.Config, title string, logger *slog.Logger) error {
	m, err := NewModel(cfg, title, logger)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

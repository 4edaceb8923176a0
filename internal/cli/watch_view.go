package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/siteplan/internal/cli/formatter"
	"github.com/alexanderramin/siteplan/internal/config"
	"github.com/alexanderramin/siteplan/internal/contract"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// planUpdatedMsg carries a freshly rendered plan into the watch view.
type planUpdatedMsg struct {
	body string
	at   time.Time
}

// planFailedMsg reports a reload that could not be planned; the last good
// plan stays on screen.
type planFailedMsg struct {
	err error
}

// watchModel is the full-screen view of `plan --watch` on a terminal.
type watchModel struct {
	source  string
	body    string
	updated time.Time
	failure string

	vp    viewport.Model
	ready bool
}

// Header takes two lines and the footer one.
const watchChromeHeight = 3

func newWatchModel(source, body string, at time.Time) watchModel {
	vp := viewport.New(0, 0)
	vp.KeyMap = watchViewportKeyMap()
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3
	return watchModel{source: source, body: body, updated: at, vp: vp}
}

func (m watchModel) Init() tea.Cmd { return nil }

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.vp.Width = msg.Width
		m.vp.Height = max(msg.Height-watchChromeHeight, 1)
		m.vp.SetContent(m.body)
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd

	case planUpdatedMsg:
		m.body = msg.body
		m.updated = msg.at
		m.failure = ""
		m.vp.SetContent(m.body)
		return m, nil

	case planFailedMsg:
		m.failure = msg.err.Error()
		return m, nil
	}

	var cmd tea.Cmd
	m.vp, cmd = m.vp.Update(msg)
	return m, cmd
}

func (m watchModel) View() string {
	if !m.ready {
		return "Loading plan..."
	}
	header := formatter.Header("Watching " + m.source)
	footer := formatter.Dim(fmt.Sprintf("Updated %s  q quit  ↑/↓ scroll  %s",
		m.updated.Format("15:04:05"), scrollPosition(m.vp)))
	if m.failure != "" {
		footer = formatter.StyleRed.Render("Reload failed: "+m.failure) + "  " + footer
	}
	return header + "\n" + m.vp.View() + "\n" + footer
}

func watchViewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown", " ")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		Up:           key.NewBinding(key.WithKeys("up", "k")),
		Down:         key.NewBinding(key.WithKeys("down", "j")),
	}
}

func scrollPosition(vp viewport.Model) string {
	switch {
	case vp.AtTop():
		return "[TOP]"
	case vp.AtBottom():
		return "[END]"
	}
	return fmt.Sprintf("[%d%%]", int(vp.ScrollPercent()*100))
}

// runWatchView shows the plan full-screen and swaps it in place on every
// accepted config change. It returns when the user quits or ctx is done.
func runWatchView(ctx context.Context, app *App, req contract.PlanRequest, gantt bool, body string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newWatchModel(app.ConfigPath, body, app.Clock()),
		tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))

	watchErr := make(chan error, 1)
	go func() {
		watchErr <- config.Watch(ctx, app.ConfigPath, app.Log, func(cfg *config.Config) {
			if !applyConfig(app, cfg) {
				return
			}
			text, err := planText(ctx, app, req, gantt)
			if err != nil {
				p.Send(planFailedMsg{err: err})
				return
			}
			p.Send(planUpdatedMsg{body: text, at: app.Clock()})
		})
	}()

	_, runErr := p.Run()
	cancel()
	werr := <-watchErr
	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return runErr
	}
	return werr
}

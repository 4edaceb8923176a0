package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sizedWatchModel(t *testing.T, body string) watchModel {
	t.Helper()
	m := newWatchModel("siteplan.yaml", body, time.Date(2026, 1, 1, 9, 30, 0, 0, time.UTC))
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	return updated.(watchModel)
}

func TestWatchModel_LoadingUntilSized(t *testing.T) {
	m := newWatchModel("siteplan.yaml", "Depot", time.Time{})
	assert.Equal(t, "Loading plan...", m.View())
}

func TestWatchModel_ShowsPlanAndSource(t *testing.T) {
	m := sizedWatchModel(t, "Depot  Pre-work")

	view := stripANSI(m.View())
	assert.Contains(t, view, "WATCHING SITEPLAN.YAML")
	assert.Contains(t, view, "Depot  Pre-work")
	assert.Contains(t, view, "Updated 09:30:00")
}

func TestWatchModel_ReplacesPlanOnUpdate(t *testing.T) {
	m := sizedWatchModel(t, "old plan")

	updated, _ := m.Update(planFailedMsg{err: errors.New("store locked")})
	m = updated.(watchModel)
	view := stripANSI(m.View())
	assert.Contains(t, view, "Reload failed: store locked")
	assert.Contains(t, view, "old plan", "the last good plan stays up")

	updated, _ = m.Update(planUpdatedMsg{body: "new plan", at: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)})
	m = updated.(watchModel)
	view = stripANSI(m.View())
	assert.Contains(t, view, "new plan")
	assert.NotContains(t, view, "old plan")
	assert.NotContains(t, view, "Reload failed")
	assert.Contains(t, view, "Updated 10:00:00")
}

func TestWatchModel_ScrollsLongPlans(t *testing.T) {
	lines := make([]string, 40)
	for i := range lines {
		lines[i] = "row"
	}
	m := sizedWatchModel(t, strings.Join(lines, "\n"))
	assert.Contains(t, stripANSI(m.View()), "[TOP]")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	m = updated.(watchModel)
	assert.False(t, m.vp.AtTop())
}

func TestWatchModel_QuitKeys(t *testing.T) {
	for _, k := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune("q")},
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
	} {
		m := sizedWatchModel(t, "plan")
		_, cmd := m.Update(k)
		require.NotNil(t, cmd, k.String())
		assert.IsType(t, tea.QuitMsg{}, cmd(), k.String())
	}
}

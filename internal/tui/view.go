package tui

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/cristianoliveira/condoview/internal/domain"
	"github.com/cristianoliveira/condoview/internal/errors"
)

const (
	idWidth     = 6
	statusWidth = 13
	typeWidth   = 12
	ageWidth    = 4
	// spacesBetweenColumns counts the two-space gaps between the five columns.
	spacesBetweenColumns = 8
	minTitleWidth        = 10
)

var (
	titleStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).
			Background(lipgloss.Color("4")).Foreground(lipgloss.Color("0"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	selectedStyle = lipgloss.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("0"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))

	statusStyles = map[errors.MessageType]lipgloss.Style{
		errors.MessageTypeError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		errors.MessageTypeWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		errors.MessageTypeInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		errors.MessageTypeSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
	occurrenceColors = map[domain.Status]lipgloss.Color{
		domain.StatusOpen:       lipgloss.Color("3"),
		domain.StatusInProgress: lipgloss.Color("6"),
		domain.StatusResolved:   lipgloss.Color("2"),
		domain.StatusCancelled:  lipgloss.Color("241"),
	}
)

// View renders the TUI.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.form != nil {
		return m.form.view() + "\n\n" + m.help.View(formHelp{keys: m.keys}) + "\n" + m.statusLine()
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(fmt.Sprintf("condoview · occurrences (%s)", m.ctl.Scope().Role)))
	s.WriteString("\n")
	s.WriteString(m.tabStrip())
	s.WriteString("\n")
	s.WriteString(m.filterLine())
	s.WriteString("\n")
	s.WriteString(headerStyle.Render(header(m.viewWidth())))
	s.WriteString("\n")
	s.WriteString(m.viewport.View())
	s.WriteString("\n")
	s.WriteString(m.footer())
	s.WriteString("\n")
	s.WriteString(m.statusLine())
	s.WriteString("\n")
	s.WriteString(m.help.View(m.keys))
	return s.String()
}

func (m *Model) viewWidth() int {
	if m.width <= 0 {
		return defaultViewportWidth
	}
	return m.width
}

// tabStrip renders every tab with its counter badge.
func (m *Model) tabStrip() string {
	counts := m.ctl.Counts()
	active := m.ctl.Active()
	parts := make([]string, 0, len(domain.AllTabs()))
	for _, tab := range domain.AllTabs() {
		label := fmt.Sprintf("%s %d", tab.Label(), counts.Get(tab))
		if tab == active {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) filterLine() string {
	search := m.search.View()
	if m.mode != modeSearch && m.search.Value() == "" {
		search = dimStyle.Render("/ to search")
	}
	typ := m.typeIn.View()
	if m.mode != modeType && m.typeIn.Value() == "" {
		typ = dimStyle.Render("t for type")
	}
	line := "Search: " + search + "   Type: " + typ
	if m.ctl.ActiveState().IsSearchPending {
		line += "  " + m.spinner.View()
	}
	return line
}

func (m *Model) footer() string {
	if m.mode == modeConfirm && m.pending != nil {
		return statusStyles[errors.MessageTypeWarning].Render(
			fmt.Sprintf("Cancel occurrence #%d %q? (y/n)", m.pending.ID, m.pending.Title))
	}
	st := m.ctl.ActiveState()
	switch {
	case st.IsInitialLoading:
		return m.spinner.View() + " Loading…"
	case st.IsLoadingMore:
		return m.spinner.View() + " Loading more…"
	}
	text := fmt.Sprintf("%d of %d", len(st.Items), st.TotalItems)
	if st.HasMore {
		text += " · j past the end loads more"
	}
	return dimStyle.Render(text)
}

func (m *Model) statusLine() string {
	if m.statusMessage == "" {
		return ""
	}
	return statusStyles[m.statusMessageType].Render(m.statusMessage)
}

// syncViewport rebuilds the list and keeps the cursor row visible.
func (m *Model) syncViewport() {
	st := m.ctl.ActiveState()
	width := m.viewWidth()
	m.viewport.Width = width

	if len(st.Items) == 0 {
		text := "No occurrences found"
		if st.Busy() {
			text = "Loading occurrences…"
		}
		m.viewport.SetContent(dimStyle.Render(text))
		m.viewport.GotoTop()
		return
	}

	now := time.Now()
	rows := make([]string, len(st.Items))
	for i, o := range st.Items {
		rows[i] = row(o, width, i == m.cursor, now)
	}
	m.viewport.SetContent(strings.Join(rows, "\n"))

	switch {
	case m.cursor < m.viewport.YOffset:
		m.viewport.SetYOffset(m.cursor)
	case m.cursor >= m.viewport.YOffset+m.viewport.Height:
		m.viewport.SetYOffset(m.cursor - m.viewport.Height + 1)
	}
}

func titleWidth(width int) int {
	w := width - idWidth - statusWidth - typeWidth - ageWidth - spacesBetweenColumns
	return max(w, minTitleWidth)
}

func header(width int) string {
	return fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %*s",
		idWidth, "ID",
		statusWidth, "STATUS",
		typeWidth, "TYPE",
		titleWidth(width), "TITLE",
		ageWidth, "AGE",
	)
}

func row(o domain.Occurrence, width int, selected bool, now time.Time) string {
	line := fmt.Sprintf("%-*s  %-*s  %-*s  %-*s  %*s",
		idWidth, fmt.Sprintf("#%d", o.ID),
		statusWidth, truncate(o.Status.Label(), statusWidth),
		typeWidth, truncate(o.Type, typeWidth),
		titleWidth(width), truncate(o.Title, titleWidth(width)),
		ageWidth, age(o.CreatedAt, now),
	)
	if selected {
		return selectedStyle.Render(line)
	}
	if c, ok := occurrenceColors[o.Status]; ok {
		return lipgloss.NewStyle().Foreground(c).Render(line)
	}
	return line
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	if width <= 1 {
		return string([]rune(s)[:width])
	}
	return string([]rune(s)[:width-1]) + "…"
}

func age(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", max(0, int(d.Seconds())))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}

package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"todotui/internal/todotxt"
)

type styles struct {
	box      lipgloss.Style
	active   lipgloss.Style
	title    lipgloss.Style
	selected lipgloss.Style
	status   lipgloss.Style
}

func newStyles(activeColor string) styles {
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	return styles{
		box:      box,
		active:   box.BorderForeground(lipgloss.Color(activeColor)),
		title:    lipgloss.NewStyle().Bold(true),
		selected: lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color(activeColor)),
		status:   lipgloss.NewStyle().Faint(true),
	}
}

const footerHeight = 3

// paneSize returns the outer width and height of pane i. Task lists stack in
// the left column, category panes and the preview in the right one.
func (m Model) paneSize(i int) (int, int) {
	bodyH := max(6, m.height-footerHeight)
	leftW := m.width * 2 / 3
	rightW := m.width - leftW
	switch i {
	case widgetPending:
		return leftW, bodyH - bodyH/3
	case widgetDone:
		return leftW, bodyH / 3
	}
	return rightW, bodyH / 4
}

func (m Model) View() string {
	left := make([]string, 0, 2)
	right := make([]string, 0, len(m.widgets))
	for i, w := range m.widgets {
		pw, ph := m.paneSize(i)
		box := m.renderPane(w.Title(), w.Rows(m.store), w.Nav().Selection(), i == m.active, pw, ph)
		if i <= widgetDone {
			left = append(left, box)
		} else {
			right = append(right, box)
		}
	}
	pw, ph := m.paneSize(len(m.widgets))
	right = append(right, m.renderPreview(pw, ph))

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.JoinVertical(lipgloss.Left, left...),
		lipgloss.JoinVertical(lipgloss.Left, right...),
	)

	var b strings.Builder
	b.WriteString(body)
	b.WriteString("\n")
	if m.mode != modeList {
		b.WriteString(m.input.View())
	} else {
		b.WriteString(m.filterLine())
	}
	b.WriteString("\n")
	b.WriteString(m.styles.status.Render(m.status))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderPane(title string, rows []string, selection int, active bool, width, height int) string {
	inner := max(1, width-4)
	var b strings.Builder
	b.WriteString(m.styles.title.Render(title))
	for i, row := range rows {
		b.WriteString("\n")
		line := runewidth.Truncate(row, inner-3, "…")
		if active && i == selection {
			b.WriteString(m.styles.selected.Render(">> " + line))
		} else {
			b.WriteString("   " + line)
		}
	}
	style := m.styles.box
	if active {
		style = m.styles.active
	}
	return style.Width(max(1, width-2)).Height(max(1, height-2)).Render(b.String())
}

// renderPreview shows the tasks tagged with the category under the cursor
// when a category pane has focus.
func (m Model) renderPreview(width, height int) string {
	var name string
	var tasks []*todotxt.Task
	if cat, ok := m.widgets[m.active].(*categoryList); ok {
		name, tasks = cat.preview(m.store)
	}
	rows := make([]string, 0, len(tasks))
	for _, t := range tasks {
		rows = append(rows, t.String())
	}
	if limit := max(0, height-3); len(rows) > limit {
		rows = rows[:limit]
	}
	title := "Preview"
	if name != "" {
		title = fmt.Sprintf("Preview: %s (%d)", name, len(tasks))
	}
	return m.renderPane(title, rows, -1, false, width, height)
}

func (m Model) filterLine() string {
	var parts []string
	for _, w := range m.widgets {
		cat, ok := w.(*categoryList)
		if !ok {
			continue
		}
		if names := m.store.Filters(cat.dim); len(names) > 0 {
			parts = append(parts, cat.dim.String()+": "+strings.Join(names, ", "))
		}
	}
	if len(parts) == 0 {
		return "No filters"
	}
	return "Filters • " + strings.Join(parts, " • ")
}

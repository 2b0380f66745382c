package application

import (
	"strings"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/i18n"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	headerStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	pinnedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	chipStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle      = lipgloss.NewStyle().Faint(true)
	menuStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// cellWidth converts a column pixel width into terminal cells.
func cellWidth(c core.RenderedColumn) int {
	return clamp(int(c.Width)/10, 6, 30)
}

func (m *Model) View() string {
	var b strings.Builder
	v := m.view

	b.WriteString(titleStyle.Render(v.Label))
	if v.GlobalFilter != "" {
		b.WriteString("  " + dimStyle.Render(i18n.Lookup(i18n.KeyFilterAnything, m.lang)+": "+v.GlobalFilter))
	}
	b.WriteString("\n")

	if len(v.Chips) > 0 {
		texts := make([]string, len(v.Chips))
		for i, c := range v.Chips {
			texts[i] = "[" + c.Text + "]"
		}
		b.WriteString(chipStyle.Render(strings.Join(texts, " ")) + "\n")
	}

	for _, msg := range []*core.UserMessage{v.FetchError, v.FilterError} {
		if msg != nil {
			b.WriteString(errStyle.Render(msg.Message+" "+msg.Action) + "\n")
		}
	}

	b.WriteString(m.renderTable())
	b.WriteString("\n")

	footer := v.PageLabel
	if v.SelectingMode {
		footer = v.SelectedLabel + " · " + footer
	}
	b.WriteString(dimStyle.Render(footer) + "\n")

	switch m.mode {
	case modeSearch, modeFilter:
		b.WriteString(m.input.View() + "\n")
	case modeMenu:
		b.WriteString(m.renderMenu() + "\n")
	}

	if m.err != nil {
		b.WriteString(errStyle.Render(core.MapError(m.err).Message+": "+m.err.Error()) + "\n")
	} else if m.status != "" {
		b.WriteString(m.status + "\n")
	}
	return b.String()
}

func (m *Model) renderTable() string {
	v := m.view
	var b strings.Builder

	gutter := ""
	if v.SelectingMode {
		gutter = "    "
	}

	header := make([]string, len(v.Columns))
	for i, c := range v.Columns {
		label := c.Label
		switch c.Sort {
		case core.SortAsc:
			label += " ↑"
		case core.SortDesc:
			label += " ↓"
		}
		style := headerStyle.Width(cellWidth(c)).MaxWidth(cellWidth(c))
		if c.Pin != "" {
			style = style.Inherit(pinnedStyle)
		}
		if i == m.col {
			style = style.Inherit(cursorStyle)
		}
		header[i] = style.Render(label)
	}
	b.WriteString(gutter + strings.Join(header, " ") + "\n")

	for r, row := range v.Rows {
		cells := make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			w := cellWidth(v.Columns[i])
			style := lipgloss.NewStyle().Width(w).MaxWidth(w)
			if r == m.row {
				style = style.Inherit(cursorStyle)
			}
			if row.Selected {
				style = style.Inherit(selectedStyle)
			}
			cells[i] = style.Render(cell)
		}
		prefix := ""
		if v.SelectingMode {
			prefix = "[ ] "
			if row.Selected {
				prefix = "[x] "
			}
		}
		b.WriteString(prefix + strings.Join(cells, " ") + "\n")
	}
	return b.String()
}

func (m *Model) renderMenu() string {
	if m.menu == nil {
		return ""
	}
	lines := []string{titleStyle.Render(m.menu.Title)}
	for i, item := range m.menu.Items {
		label := item.Label
		if label == backKey {
			label = "<- " + i18n.Lookup(i18n.KeyCancel, m.lang)
		}
		if i == m.menuCursor {
			label = cursorStyle.Render(label)
		}
		lines = append(lines, label)
	}
	return menuStyle.Render(strings.Join(lines, "\n"))
}

// Package application is the terminal table browser: a bubbletea program
// over one grid session.
//
// Keys:
//
//	↑/↓ ←/→   move the row and column cursor
//	n / p     next and previous page
//	/         global filter
//	f         filter the current column
//	s         toggle sorting of the current column
//	c         column menu
//	m         row menu (delete, copy to clipboard)
//	v         toggle selecting mode
//	space     toggle selection of the current row
//	a         toggle selection of all visible rows
//	x         clear filters
//	r         reload rows
//	q         quit
package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/grid"
	"github.com/JonMunkholm/gridstate/internal/i18n"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ActionTimeout bounds row actions and reloads started from the browser.
var ActionTimeout = 30 * time.Second

// StatusMsg reports a finished command.
type StatusMsg string

// ErrMsg reports a failed command.
type ErrMsg struct{ Err error }

type mode int

const (
	modeTable mode = iota
	modeSearch
	modeFilter
	modeMenu
)

// Model is the browser state.
type Model struct {
	ctx  context.Context
	sess *grid.Session
	lang i18n.Language
	view grid.View

	row, col int
	mode     mode

	input     textinput.Model
	filterCol string

	menu       *Menu
	menuCursor int

	status string
	err    error
	width  int

	copy func(string) error
}

// NewModel builds a browser over sess and registers the copy-to-clipboard
// row action on it.
func NewModel(ctx context.Context, sess *grid.Session, lang i18n.Language) *Model {
	in := textinput.New()
	in.CharLimit = 256

	m := &Model{
		ctx:   ctx,
		sess:  sess,
		lang:  lang,
		input: in,
		copy:  clipboard.WriteAll,
		width: 120,
	}
	sess.RegisterAction(i18n.KeyCopyToClipboard, m.copyRow)
	m.refresh()
	return m
}

// Run starts the browser on the terminal and blocks until it quits.
func Run(ctx context.Context, sess *grid.Session, lang i18n.Language) error {
	p := tea.NewProgram(NewModel(ctx, sess, lang), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m *Model) Init() tea.Cmd { return nil }

// refresh re-renders the view and clamps the cursor.
func (m *Model) refresh() {
	m.view = m.sess.View(m.lang)
	m.row = clamp(m.row, 0, len(m.view.Rows)-1)
	m.col = clamp(m.col, 0, len(m.view.Columns)-1)
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}

// currentRow returns the id of the row under the cursor.
func (m *Model) currentRow() (core.RowID, bool) {
	if m.row < 0 || m.row >= len(m.view.Rows) {
		return "", false
	}
	return m.view.Rows[m.row].ID, true
}

// currentColumn returns the column under the cursor.
func (m *Model) currentColumn() (core.RenderedColumn, bool) {
	if m.col < 0 || m.col >= len(m.view.Columns) {
		return core.RenderedColumn{}, false
	}
	return m.view.Columns[m.col], true
}

// dispatch applies a state action synchronously.
func (m *Model) dispatch(a core.Action) {
	if err := m.sess.Dispatch(a); err != nil {
		m.err = fmt.Errorf("%s: %w", core.ActionName(a), err)
	} else {
		m.err = nil
	}
	m.refresh()
}

// dispatchCmd wraps a state action as a menu action.
func (m *Model) dispatchCmd(a core.Action) func() tea.Cmd {
	return func() tea.Cmd {
		m.dispatch(a)
		return nil
	}
}

// rowActionCmd runs a registered row action in the background.
func (m *Model) rowActionCmd(name string, id core.RowID) func() tea.Cmd {
	return func() tea.Cmd {
		return func() tea.Msg {
			ctx, cancel := context.WithTimeout(m.ctx, ActionTimeout)
			defer cancel()
			if err := m.sess.RunAction(ctx, name, id); err != nil {
				return ErrMsg{Err: err}
			}
			return StatusMsg(i18n.Lookup(name, m.lang) + ": " + string(id))
		}
	}
}

// reloadCmd fetches the rows again in the background.
func (m *Model) reloadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, ActionTimeout)
		defer cancel()
		if err := m.sess.Reload(ctx); err != nil {
			return ErrMsg{Err: err}
		}
		return StatusMsg(i18n.Lookup(i18n.KeyResetRows, m.lang))
	}
}

// copyRow copies the visible cells of row as tab-separated text.
func (m *Model) copyRow(_ context.Context, row core.Record, _ []core.Record) error {
	schema := m.sess.Store().Schema()
	cells := make([]string, 0, len(m.view.Columns))
	for _, c := range m.view.Columns {
		if desc, ok := schema.Column(c.ID); ok {
			cells = append(cells, core.Stringify(desc.Accessor(row)))
		}
	}
	return m.copy(strings.Join(cells, "\t"))
}

// startFilter opens the filter input for column id.
func (m *Model) startFilter(id string) tea.Cmd {
	m.mode = modeFilter
	m.filterCol = id
	m.input.SetValue(filterText(m.view.Filters[id]))
	m.input.Placeholder = filterPlaceholder(m.sess.Store().Schema(), id)
	return m.input.Focus()
}

// ----------------------------------------------------------------------------
// Update
// ----------------------------------------------------------------------------

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case StatusMsg:
		m.status, m.err = string(msg), nil
		m.refresh()
		return m, nil
	case ErrMsg:
		m.err = msg.Err
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		switch m.mode {
		case modeSearch, modeFilter:
			return m.updateInput(msg)
		case modeMenu:
			return m.updateMenu(msg)
		default:
			return m.updateTable(msg)
		}
	}
	return m, nil
}

func (m *Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		m.row = clamp(m.row-1, 0, len(m.view.Rows)-1)
	case "down", "j":
		m.row = clamp(m.row+1, 0, len(m.view.Rows)-1)
	case "left", "h":
		m.col = clamp(m.col-1, 0, len(m.view.Columns)-1)
	case "right", "l":
		m.col = clamp(m.col+1, 0, len(m.view.Columns)-1)
	case "n", "pgdown":
		if m.view.PageIndex+1 < m.view.PageCount {
			m.dispatch(core.SetPage{Index: m.view.PageIndex + 1})
		}
	case "p", "pgup":
		if m.view.PageIndex > 0 {
			m.dispatch(core.SetPage{Index: m.view.PageIndex - 1})
		}
	case "/":
		m.mode = modeSearch
		m.input.SetValue(m.view.GlobalFilter)
		m.input.Placeholder = i18n.Lookup(i18n.KeyFilterAnything, m.lang)
		return m, m.input.Focus()
	case "f":
		if c, ok := m.currentColumn(); ok {
			return m, m.startFilter(c.ID)
		}
	case "s":
		if c, ok := m.currentColumn(); ok {
			m.dispatch(core.ToggleSorting{Column: c.ID})
		}
	case "c":
		if c, ok := m.currentColumn(); ok {
			m.openMenu(buildColumnMenu(m, c))
		}
	case "m":
		if id, ok := m.currentRow(); ok {
			m.openMenu(buildRowMenu(m, id))
		}
	case "v":
		m.dispatch(core.ToggleSelectingMode{})
	case " ":
		if id, ok := m.currentRow(); ok {
			m.dispatch(core.ToggleRowSelected{ID: id})
		}
	case "a":
		m.dispatch(core.ToggleAllVisibleSelected{})
	case "x":
		m.dispatch(core.ClearFilters{})
	case "r":
		return m, m.reloadCmd()
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeTable
		m.input.Blur()
		return m, nil
	case "enter":
		value := m.input.Value()
		m.input.Blur()
		if m.mode == modeSearch {
			m.mode = modeTable
			m.dispatch(core.SetGlobalFilter{Query: value})
			return m, nil
		}
		m.mode = modeTable
		fv, err := ParseFilter(m.sess.Store().Schema(), m.filterCol, value)
		if err != nil {
			m.err = err
			return m, nil
		}
		m.dispatch(core.SetColumnFilter{Column: m.filterCol, Value: fv})
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) openMenu(menu *Menu) {
	m.menu = menu
	m.menuCursor = 0
	m.mode = modeMenu
}

func (m *Model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q":
		m.mode = modeTable
		m.menu = nil
	case "up", "k":
		m.menuCursor = clamp(m.menuCursor-1, 0, len(m.menu.Items)-1)
	case "down", "j":
		m.menuCursor = clamp(m.menuCursor+1, 0, len(m.menu.Items)-1)
	case "enter":
		if len(m.menu.Items) == 0 {
			return m, nil
		}
		item := m.menu.Items[m.menuCursor]
		if item.Submenu != nil {
			m.menu = item.Submenu
			m.menuCursor = 0
			return m, nil
		}
		if item.Label == backKey {
			m.mode = modeTable
			m.menu = nil
			return m, nil
		}
		if item.Action == nil {
			return m, nil
		}
		m.mode = modeTable
		m.menu = nil
		return m, item.Action()
	}
	return m, nil
}

// ----------------------------------------------------------------------------
// Filter input
// ----------------------------------------------------------------------------

// ParseFilter reads the filter of column id from one line of text.
// Range and date columns take "lo..hi" with either side optional; other
// columns take the text as-is. Empty input removes the filter.
func ParseFilter(schema *core.Schema[core.Record], id, text string) (core.FilterValue, error) {
	meta, ok := schema.Meta(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnknownColumnID, id)
	}
	text = strings.TrimSpace(text)
	lo, hi, _ := strings.Cut(text, "..")
	lo, hi = strings.TrimSpace(lo), strings.TrimSpace(hi)

	switch meta.Variant {
	case core.VariantRange:
		var f core.RangeFilter
		for _, b := range []struct {
			s   string
			dst **float64
		}{{lo, &f.Min}, {hi, &f.Max}} {
			if b.s == "" {
				continue
			}
			n, err := strconv.ParseFloat(b.s, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a number", core.ErrInvalidFilter, b.s)
			}
			*b.dst = &n
		}
		return f, nil
	case core.VariantDate:
		var f core.DateFilter
		if lo != "" {
			from, ok := core.ParseDate(lo)
			if !ok {
				return nil, fmt.Errorf("%w: invalid date %q", core.ErrInvalidFilter, lo)
			}
			f.From = from
		}
		if hi != "" {
			to, ok := core.ParseDate(hi)
			if !ok {
				return nil, fmt.Errorf("%w: invalid date %q", core.ErrInvalidFilter, hi)
			}
			f.To = &to
		}
		return f, nil
	case core.VariantSelect:
		return core.SelectFilter{Value: text}, nil
	default:
		return core.TextFilter{Query: text}, nil
	}
}

// filterText renders an active filter back into input text.
func filterText(v core.FilterValue) string {
	switch f := v.(type) {
	case core.TextFilter:
		return f.Query
	case core.SelectFilter:
		return f.Value
	case core.RangeFilter:
		var lo, hi string
		if f.Min != nil {
			lo = strconv.FormatFloat(*f.Min, 'f', -1, 64)
		}
		if f.Max != nil {
			hi = strconv.FormatFloat(*f.Max, 'f', -1, 64)
		}
		return lo + ".." + hi
	case core.DateFilter:
		var lo, hi string
		if !f.From.IsZero() {
			lo = f.From.Format("2006-01-02")
		}
		if f.To != nil {
			hi = f.To.Format("2006-01-02")
		}
		return lo + ".." + hi
	}
	return ""
}

func filterPlaceholder(schema *core.Schema[core.Record], id string) string {
	meta, _ := schema.Meta(id)
	switch meta.Variant {
	case core.VariantRange:
		return "min..max"
	case core.VariantDate:
		return "YYYY-MM-DD..YYYY-MM-DD"
	case core.VariantSelect:
		return strings.Join(meta.Options, " | ")
	}
	return meta.DisplayLabel()
}

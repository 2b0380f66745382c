package grid

import (
	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/i18n"
)

// View is a rendered snapshot of a session: the current page in the
// physical column order with localized labels.
type View struct {
	SessionID string        `json:"sessionId"`
	Table     string        `json:"table"`
	Label     string        `json:"label"`
	Language  i18n.Language `json:"language"`
	Version   uint64        `json:"version"`

	Columns []core.RenderedColumn `json:"columns"`
	Rows    []ViewRow             `json:"rows"`

	Filters      core.FilterState `json:"filters,omitempty"`
	GlobalFilter string           `json:"globalFilter,omitempty"`
	Chips        []ViewChip       `json:"chips,omitempty"`

	SelectingMode bool                  `json:"selectingMode"`
	Summary       core.SelectionSummary `json:"summary"`
	SelectedLabel string                `json:"selectedLabel"`

	PageIndex int    `json:"pageIndex"`
	PageSize  int    `json:"pageSize"`
	PageCount int    `json:"pageCount"`
	PageLabel string `json:"pageLabel"`

	Actions []string `json:"actions"`

	FetchError  *core.UserMessage `json:"fetchError,omitempty"`
	FilterError *core.UserMessage `json:"filterError,omitempty"`
}

// ViewRow is one row of the page. Cells follow View.Columns.
type ViewRow struct {
	ID       core.RowID `json:"id"`
	Selected bool       `json:"selected"`
	Cells    []string   `json:"cells"`
}

// ViewChip is a filter chip with its localized text.
type ViewChip struct {
	core.FilterChip
	Text string `json:"text"`
}

// View renders the session in lang. An empty lang uses the service default.
func (s *Session) View(lang i18n.Language) View {
	if lang == "" {
		lang = s.svc.language
	}
	st := s.State()
	schema := s.store.Schema()
	key := s.store.Key()

	v := View{
		SessionID:     s.ID,
		Table:         s.def.Info.Key,
		Label:         s.def.Info.Label,
		Language:      lang,
		Version:       st.Version,
		Columns:       s.store.Render(st),
		Filters:       st.Filters,
		GlobalFilter:  st.GlobalFilter,
		SelectingMode: st.SelectingMode,
		Summary:       s.store.Summary(st),
		PageIndex:     st.PageIndex,
		PageSize:      st.PageSize,
		PageCount:     s.store.PageCount(st),
		Actions:       s.Actions(),
	}
	v.SelectedLabel = i18n.SelectedRowsLabel(v.Summary, lang)
	v.PageLabel = i18n.PageLabel(v.PageIndex, v.PageCount, lang)

	accessors := make([]core.Accessor[core.Record], len(v.Columns))
	for i, c := range v.Columns {
		col, _ := schema.Column(c.ID)
		accessors[i] = col.Accessor
	}
	page := s.store.PageRows(st)
	v.Rows = make([]ViewRow, len(page))
	for i, row := range page {
		id := key(row)
		cells := make([]string, len(accessors))
		for j, get := range accessors {
			if get != nil {
				cells[j] = core.Stringify(get(row))
			}
		}
		v.Rows[i] = ViewRow{ID: id, Selected: st.Selection.Has(id), Cells: cells}
	}

	for _, chip := range s.store.Chips(st) {
		v.Chips = append(v.Chips, ViewChip{FilterChip: chip, Text: i18n.DescribeChip(chip, lang)})
	}

	if st.FetchErr != nil {
		msg := core.MapError(st.FetchErr)
		v.FetchError = &msg
	}
	if st.FilterErr != nil {
		msg := core.MapError(st.FilterErr)
		v.FilterError = &msg
	}
	return v
}

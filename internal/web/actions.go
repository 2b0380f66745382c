package web

// actions.go decodes state actions posted as JSON into core actions.
//
// The wire form is one object per action with a "type" naming the action
// and the fields it needs:
//
//	{"type":"set_column_filter","column":"age","value":{"min":18,"max":65}}
//	{"type":"set_column_filter","column":"lastUpdate","value":{"from":"2024-01-01"}}
//	{"type":"toggle_sorting","column":"age","direction":"desc"}
//	{"type":"toggle_row_selected","id":"p1"}
//
// Column filter values are decoded by the column's filter variant: text
// and select columns take a string, range columns {min,max} and date
// columns {from,to}.

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/gridstate/internal/core"
)

var (
	// ErrUnknownActionType is returned for an unrecognized "type".
	ErrUnknownActionType = errors.New("unknown action type")

	// ErrEmptyBody is returned when a request needs a JSON body.
	ErrEmptyBody = errors.New("request body is empty")

	// ErrBodyTooLarge is returned when a body exceeds MaxBodySize.
	ErrBodyTooLarge = errors.New("request body too large")
)

// ActionRequest is the JSON body of a state action.
type ActionRequest struct {
	Type      string          `json:"type"`
	Column    string          `json:"column,omitempty"`
	Value     json.RawMessage `json:"value,omitempty"`
	Query     string          `json:"query,omitempty"`
	ToIndex   int             `json:"toIndex,omitempty"`
	Side      string          `json:"side,omitempty"`
	Width     float64         `json:"width,omitempty"`
	Direction string          `json:"direction,omitempty"`
	ID        string          `json:"id,omitempty"`
	Enabled   bool            `json:"enabled,omitempty"`
	Index     int             `json:"index,omitempty"`
	Size      int             `json:"size,omitempty"`
}

// decodeActions accepts a single action object or an array of them.
func decodeActions(body []byte) ([]ActionRequest, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrEmptyBody
	}
	if body[0] == '[' {
		var reqs []ActionRequest
		if err := json.Unmarshal(body, &reqs); err != nil {
			return nil, fmt.Errorf("decode actions: %w", err)
		}
		return reqs, nil
	}
	var req ActionRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("decode action: %w", err)
	}
	return []ActionRequest{req}, nil
}

// toAction converts req into a core action for a store over schema.
func toAction(req ActionRequest, schema *core.Schema[core.Record]) (core.Action, error) {
	switch req.Type {
	case "set_column_filter":
		value, err := decodeFilterValue(req.Column, req.Value, schema)
		if err != nil {
			return nil, err
		}
		return core.SetColumnFilter{Column: req.Column, Value: value}, nil
	case "remove_filter":
		return core.RemoveFilter{Column: req.Column}, nil
	case "set_global_filter":
		return core.SetGlobalFilter{Query: req.Query}, nil
	case "clear_filters":
		return core.ClearFilters{}, nil
	case "reorder":
		return core.Reorder{Column: req.Column, ToIndex: req.ToIndex}, nil
	case "pin":
		side := core.PinSide(strings.ToLower(req.Side))
		if side != core.PinLeft && side != core.PinRight {
			return nil, fmt.Errorf("%w: pin side %q", core.ErrInvalidFilter, req.Side)
		}
		return core.Pin{Column: req.Column, Side: side}, nil
	case "unpin":
		return core.Unpin{Column: req.Column}, nil
	case "resize":
		return core.Resize{Column: req.Column, Width: req.Width}, nil
	case "reset_size":
		return core.ResetSize{Column: req.Column}, nil
	case "toggle_visibility":
		return core.ToggleVisibility{Column: req.Column}, nil
	case "toggle_sorting":
		a := core.ToggleSorting{Column: req.Column}
		if req.Direction != "" {
			dir := core.SortDirection(strings.ToLower(req.Direction))
			if dir != core.SortAsc && dir != core.SortDesc {
				return nil, fmt.Errorf("%w: sort direction %q", core.ErrInvalidFilter, req.Direction)
			}
			a.Direction = &dir
		}
		return a, nil
	case "clear_sort":
		return core.ClearSort{}, nil
	case "toggle_row_selected":
		return core.ToggleRowSelected{ID: core.RowID(req.ID)}, nil
	case "toggle_all_visible_selected":
		return core.ToggleAllVisibleSelected{}, nil
	case "select_all_visible":
		return core.SelectAllVisibleRows{}, nil
	case "clear_selection":
		return core.ClearSelection{}, nil
	case "set_selecting_mode":
		return core.SetSelectingMode{Enabled: req.Enabled}, nil
	case "toggle_selecting_mode":
		return core.ToggleSelectingMode{}, nil
	case "set_page":
		return core.SetPage{Index: req.Index}, nil
	case "set_page_size":
		return core.SetPageSize{Size: req.Size}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownActionType, req.Type)
	}
}

type rangeBody struct {
	Min *float64 `json:"min"`
	Max *float64 `json:"max"`
}

type dateBody struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// decodeFilterValue decodes raw by the filter variant of column. A missing
// value decodes to the variant's inert value, which removes the filter.
// Stale column ids decode to nil so the store ignores the action.
func decodeFilterValue(column string, raw json.RawMessage, schema *core.Schema[core.Record]) (core.FilterValue, error) {
	meta, ok := schema.Meta(column)
	if !ok {
		return nil, nil
	}
	if len(raw) == 0 || string(raw) == "null" {
		raw = nil
	}

	switch meta.Variant {
	case core.VariantText, core.VariantSelect:
		var s string
		if raw != nil {
			if err := json.Unmarshal(raw, &s); err != nil {
				var obj struct {
					Query string `json:"query"`
					Value string `json:"value"`
				}
				if err := json.Unmarshal(raw, &obj); err != nil {
					return nil, fmt.Errorf("%w: %s wants a string", core.ErrInvalidFilter, column)
				}
				s = obj.Query + obj.Value
			}
		}
		if meta.Variant == core.VariantText {
			return core.TextFilter{Query: s}, nil
		}
		return core.SelectFilter{Value: s}, nil

	case core.VariantRange:
		var b rangeBody
		if raw != nil {
			if err := json.Unmarshal(raw, &b); err != nil {
				return nil, fmt.Errorf("%w: %s wants {min,max}", core.ErrInvalidFilter, column)
			}
		}
		return core.RangeFilter{Min: b.Min, Max: b.Max}, nil

	case core.VariantDate:
		var b dateBody
		if raw != nil {
			if err := json.Unmarshal(raw, &b); err != nil {
				return nil, fmt.Errorf("%w: %s wants {from,to}", core.ErrInvalidFilter, column)
			}
		}
		var f core.DateFilter
		if b.From != "" {
			from, ok := core.ParseDate(b.From)
			if !ok {
				return nil, fmt.Errorf("%w: invalid date %q", core.ErrInvalidFilter, b.From)
			}
			f.From = from
		}
		if b.To != "" {
			to, ok := core.ParseDate(b.To)
			if !ok {
				return nil, fmt.Errorf("%w: invalid date %q", core.ErrInvalidFilter, b.To)
			}
			f.To = &to
		}
		return f, nil

	default:
		return nil, fmt.Errorf("%w: %s is not filterable", core.ErrInvalidFilter, column)
	}
}

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/gridstate/internal/application"
	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/grid"
	"github.com/spf13/cobra"
)

// stateFlags are the table state options shared by view and export.
type stateFlags struct {
	filters []string
	global  string
	sort    string
	hide    []string
}

func (f *stateFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringArrayVarP(&f.filters, "filter", "f", nil, `column filter "column=value"; range and date columns take "lo..hi" (repeatable)`)
	cmd.Flags().StringVarP(&f.global, "search", "s", "", "global filter across searchable columns")
	cmd.Flags().StringVar(&f.sort, "sort", "", `sort column, optionally "column:desc"`)
	cmd.Flags().StringSliceVar(&f.hide, "hide", nil, "columns to hide")
}

// actions converts the flags into state actions against schema.
func (f *stateFlags) actions(schema *core.Schema[core.Record]) ([]core.Action, error) {
	var out []core.Action
	for _, raw := range f.filters {
		id, text, ok := strings.Cut(raw, "=")
		if !ok {
			return nil, fmt.Errorf("invalid filter %q (expected column=value)", raw)
		}
		value, err := application.ParseFilter(schema, strings.TrimSpace(id), text)
		if err != nil {
			return nil, err
		}
		out = append(out, core.SetColumnFilter{Column: strings.TrimSpace(id), Value: value})
	}
	if f.global != "" {
		out = append(out, core.SetGlobalFilter{Query: f.global})
	}
	if f.sort != "" {
		a, err := parseSort(f.sort)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	for _, id := range f.hide {
		out = append(out, core.ToggleVisibility{Column: id})
	}
	return out, nil
}

// parseSort reads "column" or "column:asc|desc".
func parseSort(s string) (core.ToggleSorting, error) {
	id, dir, _ := strings.Cut(s, ":")
	var d core.SortDirection
	switch strings.ToLower(dir) {
	case "", "asc":
		d = core.SortAsc
	case "desc":
		d = core.SortDesc
	default:
		return core.ToggleSorting{}, fmt.Errorf("invalid sort direction %q (expected asc or desc)", dir)
	}
	return core.ToggleSorting{Column: id, Direction: &d}, nil
}

// openSession opens tableKey and applies actions. A failed fetch is
// returned as an error since the CLI cannot retry interactively.
func openSession(ctx context.Context, tableKey string, build func(*core.Schema[core.Record]) ([]core.Action, error)) (*grid.Session, error) {
	sess, err := current.Service.Open(ctx, tableKey)
	if err != nil {
		return nil, err
	}
	if err := sess.State().FetchErr; err != nil {
		return nil, err
	}
	if build == nil {
		return sess, nil
	}
	actions, err := build(sess.Store().Schema())
	if err != nil {
		return nil, err
	}
	for _, a := range actions {
		if err := sess.Dispatch(a); err != nil {
			return nil, fmt.Errorf("%s: %w", core.ActionName(a), err)
		}
	}
	return sess, nil
}

// Package templates holds the templ components of the HTML pages.
//
// Every control on the table page is a small form posting one state action
// to /sessions/{id}/form, which redirects back to the page.
package templates

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/grid"
	"github.com/JonMunkholm/gridstate/internal/i18n"
	"github.com/a-h/templ"
)

// TableGroup is one group of the table index.
type TableGroup struct {
	Name   string
	Tables []TableLink
}

// TableLink links to one registered table.
type TableLink struct {
	Key   string
	Label string
}

// Field is a hidden input of an action form.
type Field struct {
	Name  string
	Value string
}

func tableURL(key string) templ.SafeURL {
	return templ.URL("/tables/" + url.PathEscape(key))
}

func sessionURL(id, suffix string) templ.SafeURL {
	return templ.URL("/sessions/" + url.PathEscape(id) + "/" + suffix)
}

func rowDeleteURL(id string, row core.RowID) templ.SafeURL {
	return sessionURL(id, "rows/"+url.PathEscape(string(row))+"/delete")
}

func exportURL(id string) templ.SafeURL {
	return templ.URL("/api/sessions/" + url.PathEscape(id) + "/export?scope=all&format=xlsx")
}

func t(v grid.View, key string) string { return i18n.Lookup(key, v.Language) }

func sortArrow(c core.RenderedColumn) string {
	switch c.Sort {
	case core.SortAsc:
		return " ↑"
	case core.SortDesc:
		return " ↓"
	}
	return ""
}

func checkbox(checked bool) string {
	if checked {
		return "☑"
	}
	return "☐"
}

func chipRemoveFields(chip grid.ViewChip) []Field {
	if chip.Column == "" {
		return []Field{{"type", "set_global_filter"}, {"query", ""}}
	}
	return []Field{{"type", "remove_filter"}, {"column", chip.Column}}
}

func pageFields(index int) []Field {
	return []Field{{"type", "set_page"}, {"index", strconv.Itoa(index)}}
}

func confirmDelete(v grid.View) string {
	target := map[string]string{"target": i18n.DeleteTarget(v.Summary.Selected, v.Language)}
	return i18n.Format(i18n.KeyConfirmDeleteDesc, v.Language, target)
}

// columnStyles sizes the cells of each rendered column. Pinned cells stick
// at their offset from the pinned edge.
func columnStyles(cols []core.RenderedColumn) string {
	var b strings.Builder
	b.WriteString("<style>")
	for i, c := range cols {
		b.WriteString(`[data-col="` + strconv.Itoa(i) + `"]{min-width:`)
		b.WriteString(strconv.FormatFloat(c.Width, 'f', -1, 64) + "px")
		if c.Pin != "" {
			b.WriteString(";position:sticky;z-index:1;" + string(c.Pin) + ":")
			b.WriteString(strconv.FormatFloat(c.Offset, 'f', -1, 64) + "px")
		}
		b.WriteString("}")
	}
	b.WriteString("</style>")
	return b.String()
}

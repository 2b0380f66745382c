package application

import (
	"github.com/JonMunkholm/gridstate/internal/core"
	"github.com/JonMunkholm/gridstate/internal/i18n"
	tea "github.com/charmbracelet/bubbletea"
)

/* ----------------------------------------
	MENU TREE
---------------------------------------- */

// MenuItem is one entry of a context menu. Items with a Submenu open it;
// items without Action or Submenu are labels.
type MenuItem struct {
	Label   string
	Submenu *Menu
	Action  func() tea.Cmd
}

// Menu is a titled list of items with a link back to its parent.
type Menu struct {
	Title  string
	Items  []MenuItem
	Parent *Menu
}

// backKey marks the item returning to the parent menu.
const backKey = "BACK"

func linkParents(menu *Menu, parent *Menu) {
	menu.Parent = parent

	for i := range menu.Items {
		item := &menu.Items[i]

		if item.Label == backKey {
			item.Submenu = parent
			continue
		}

		if item.Submenu != nil {
			linkParents(item.Submenu, menu)
		}
	}
}

/* ----------------------------------------
	COLUMN MENU
---------------------------------------- */

// buildColumnMenu is the header menu of column c: sorting, pinning,
// visibility and the column filter.
func buildColumnMenu(m *Model, c core.RenderedColumn) *Menu {
	t := func(key string) string { return i18n.Lookup(key, m.lang) }
	asc, desc := core.SortAsc, core.SortDesc

	pin := &Menu{
		Title: t(i18n.KeyPinThisColumn),
		Items: []MenuItem{
			{Label: t(i18n.KeyPinLeft), Action: m.dispatchCmd(core.Pin{Column: c.ID, Side: core.PinLeft})},
			{Label: t(i18n.KeyPinRight), Action: m.dispatchCmd(core.Pin{Column: c.ID, Side: core.PinRight})},
			{Label: backKey},
		},
	}
	if c.Pin != "" {
		pin.Title = t(i18n.KeyUnpinThisColumn)
		pin.Items = append([]MenuItem{
			{Label: t(i18n.KeyUnpin), Action: m.dispatchCmd(core.Unpin{Column: c.ID})},
		}, pin.Items...)
	}

	root := &Menu{
		Title: c.Label,
		Items: []MenuItem{
			{Label: t(i18n.KeySortAscending), Action: m.dispatchCmd(core.ToggleSorting{Column: c.ID, Direction: &asc})},
			{Label: t(i18n.KeySortDescending), Action: m.dispatchCmd(core.ToggleSorting{Column: c.ID, Direction: &desc})},
			{Label: t(i18n.KeyClearSort), Action: m.dispatchCmd(core.ClearSort{})},
			{Label: t(i18n.KeyPinThisColumn) + " ->", Submenu: pin},
			{Label: t(i18n.KeyHide), Action: m.dispatchCmd(core.ToggleVisibility{Column: c.ID})},
		},
	}
	if meta, ok := m.sess.Store().Schema().Meta(c.ID); ok && meta.Variant != core.VariantNone {
		root.Items = append(root.Items, MenuItem{
			Label:  t(i18n.KeyFilterRowsByThisColumn),
			Action: func() tea.Cmd { return m.startFilter(c.ID) },
		})
	}

	linkParents(root, nil)
	return root
}

/* ----------------------------------------
	ROW MENU
---------------------------------------- */

// buildRowMenu lists the session's row actions for the row with id.
func buildRowMenu(m *Model, id core.RowID) *Menu {
	root := &Menu{Title: i18n.Lookup(i18n.KeyMore, m.lang)}
	for _, name := range m.sess.Actions() {
		root.Items = append(root.Items, MenuItem{
			Label:  i18n.Lookup(name, m.lang),
			Action: m.rowActionCmd(name, id),
		})
	}
	linkParents(root, nil)
	return root
}

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit key.Binding
	Help key.Binding

	NextEntity key.Binding
	PrevEntity key.Binding

	CursorUp   key.Binding
	CursorDown key.Binding
	NextCol    key.Binding
	PrevCol    key.Binding

	Sort    key.Binding
	HideCol key.Binding
	Filter  key.Binding
	PickCol key.Binding

	NextPage  key.Binding
	PrevPage  key.Binding
	FirstPage key.Binding
	LastPage  key.Binding
	PageSize  key.Binding

	Add     key.Binding
	Edit    key.Binding
	Toggle  key.Binding
	Upload  key.Binding
	Select  key.Binding
	Refresh key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		NextEntity: key.NewBinding(
			key.WithKeys("]", "tab"),
			key.WithHelp("]", "next entity"),
		),
		PrevEntity: key.NewBinding(
			key.WithKeys("[", "shift+tab"),
			key.WithHelp("[", "prev entity"),
		),
		CursorUp: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "row up"),
		),
		CursorDown: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "row down"),
		),
		NextCol: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "column right"),
		),
		PrevCol: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "column left"),
		),
		Sort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "sort column"),
		),
		HideCol: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "hide/show column"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		PickCol: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "filter by column"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("pgdown", "n"),
			key.WithHelp("n", "next page"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("pgup", "b"),
			key.WithHelp("b", "prev page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("g", "first page"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("G", "last page"),
		),
		PageSize: key.NewBinding(
			key.WithKeys("+"),
			key.WithHelp("+", "page size"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add record"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter", "edit row"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "enable/disable row"),
		),
		Upload: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "upload sheet"),
		),
		Select: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "select row"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Filter, k.Sort, k.Add, k.Edit, k.Upload, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextEntity, k.PrevEntity, k.CursorUp, k.CursorDown, k.NextCol, k.PrevCol},
		{k.Sort, k.HideCol, k.Filter, k.PickCol, k.Select},
		{k.NextPage, k.PrevPage, k.FirstPage, k.LastPage, k.PageSize},
		{k.Add, k.Edit, k.Toggle, k.Upload, k.Refresh, k.Quit},
	}
}

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	NextTab  key.Binding
	PrevTab  key.Binding
	Search   key.Binding
	Type     key.Binding
	Refresh  key.Binding
	New      key.Binding
	Edit     key.Binding
	Cancel   key.Binding
	Help     key.Binding
	Quit     key.Binding
	Confirm  key.Binding
	Deny     key.Binding
	Back     key.Binding
	NextFld  key.Binding
	PrevFld  key.Binding
	Submit   key.Binding
	TabIndex key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down, load more")),
		NextTab:  key.NewBinding(key.WithKeys("l", "right", "tab"), key.WithHelp("l/tab", "next tab")),
		PrevTab:  key.NewBinding(key.WithKeys("h", "left", "shift+tab"), key.WithHelp("h/S-tab", "prev tab")),
		TabIndex: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5"), key.WithHelp("1-5", "go to tab")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Type:     key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "type filter")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		New:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Cancel:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "cancel occurrence")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Confirm:  key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "confirm")),
		Deny:     key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "keep")),
		Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		NextFld:  key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
		PrevFld:  key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("S-tab", "prev field")),
		Submit:   key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Down, k.NextTab, k.Search, k.Refresh, k.New, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.NextTab, k.PrevTab, k.TabIndex},
		{k.Search, k.Type, k.Refresh},
		{k.New, k.Edit, k.Cancel},
		{k.Help, k.Quit},
	}
}

// formHelp lists the bindings active while a form is open.
type formHelp struct{ keys keyMap }

func (f formHelp) ShortHelp() []key.Binding {
	return []key.Binding{f.keys.NextFld, f.keys.PrevFld, f.keys.Submit, f.keys.Back}
}

func (f formHelp) FullHelp() [][]key.Binding {
	return [][]key.Binding{f.ShortHelp()}
}

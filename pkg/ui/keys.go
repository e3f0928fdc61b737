package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Query  key.Binding
	Filter key.Binding
	Copy   key.Binding
	Clear  key.Binding
	Scroll key.Binding
	Help   key.Binding
	Close  key.Binding
	Quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Query:  key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "query")),
		Filter: key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter log")),
		Copy:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy breakpoint")),
		Clear:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear log")),
		Scroll: key.NewBinding(key.WithKeys("up", "down", "k", "j", "pgup", "pgdown"), key.WithHelp("j/k", "scroll")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Close:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Query, k.Filter, k.Copy, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Query, k.Filter, k.Close},
		{k.Copy, k.Clear, k.Scroll},
		{k.Help, k.Quit},
	}
}

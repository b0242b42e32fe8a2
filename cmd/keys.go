package main

import (
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Details      key.Binding
	Back         key.Binding
	Refresh      key.Binding
	Poll         key.Binding
	Adapter      key.Binding
	Filter       key.Binding
	Sort         key.Binding
	Toggle24     key.Binding
	Toggle5      key.Binding
	Help         key.Binding
	Quit         key.Binding
	currentState viewState
}

func (k keyMap) ShortHelp() []key.Binding {
	bindings := []key.Binding{k.Help}

	switch k.currentState {
	case viewTable:
		bindings = append(bindings, k.Details, k.Refresh, k.Poll, k.Filter, k.Sort)
	case viewDetails:
		bindings = append(bindings, k.Back)
	}

	return append(bindings, k.Quit)
}

func (k keyMap) FullHelp() [][]key.Binding {
	switch k.currentState {
	case viewDetails:
		return [][]key.Binding{{k.Back, k.Quit}}
	default:
		return [][]key.Binding{
			{k.Help, k.Details, k.Back, k.Quit},
			{k.Refresh, k.Poll, k.Adapter},
			{k.Filter, k.Sort, k.Toggle24, k.Toggle5},
		}
	}
}

var defaultKeyBindings = keyMap{
	Details:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back/clear")),
	Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "scan now")),
	Poll:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "start/stop")),
	Adapter:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "next adapter")),
	Filter:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
	Sort:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8"), key.WithHelp("1-8", "sort")),
	Toggle24: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "2.4 GHz")),
	Toggle5:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "5 GHz")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

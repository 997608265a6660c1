package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Shuffle    key.Binding
	Randomize  key.Binding
	Spin       key.Binding
	Split      key.Binding
	Draw       key.Binding
	DrawBottom key.Binding
	Return     key.Binding
	ReturnAll  key.Binding
	Reset      key.Binding
	Continuous key.Binding
	FaceUp     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Shuffle:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shuffle")),
		Randomize:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "randomize")),
		Spin:       key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "spin")),
		Split:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "split/join")),
		Draw:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "draw")),
		DrawBottom: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "draw bottom")),
		Return:     key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "return last")),
		ReturnAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "return all")),
		Reset:      key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "reset")),
		Continuous: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "continuous")),
		FaceUp:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "face up/down")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Shuffle, k.Continuous, k.Draw, k.Split, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Shuffle, k.Randomize, k.Spin, k.Continuous},
		{k.Split, k.Draw, k.DrawBottom, k.FaceUp},
		{k.Return, k.ReturnAll, k.Reset},
		{k.Help, k.Quit},
	}
}

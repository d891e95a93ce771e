package config

import (
	"github.com/xqrs/barview"
	"github.com/xqrs/barview/keybind"
)

// KeyMap holds the application keybinds on top of the scroll view's own.
type KeyMap struct {
	Expand   keybind.Keybind
	Collapse keybind.Keybind
	Help     keybind.Keybind
	Quit     keybind.Keybind

	View barview.ScrollViewKeyMap
}

// KeyMap builds the keybinds, using the defaults for actions the file does
// not mention.
func (k KeysConfig) KeyMap() KeyMap {
	view := barview.DefaultScrollViewKeyMap()
	override(&view.Up, k.Up)
	override(&view.Down, k.Down)
	override(&view.PageUp, k.PageUp)
	override(&view.PageDown, k.PageDown)
	override(&view.Top, k.Top)

	km := KeyMap{
		Expand:   keybind.NewKeybind(keybind.WithKeys("e", "ctrl+e"), keybind.WithHelp("e", "expand")),
		Collapse: keybind.NewKeybind(keybind.WithKeys("c", "ctrl+w"), keybind.WithHelp("c", "collapse")),
		Help:     keybind.NewKeybind(keybind.WithKeys("?"), keybind.WithHelp("?", "help")),
		Quit:     keybind.NewKeybind(keybind.WithKeys("q", "ctrl+c"), keybind.WithHelp("q", "quit")),
		View:     view,
	}
	override(&km.Expand, k.Expand)
	override(&km.Collapse, k.Collapse)
	override(&km.Help, k.Help)
	override(&km.Quit, k.Quit)
	return km
}

// override replaces the keys of kb when keys is set. The help label follows
// the first configured key.
func override(kb *keybind.Keybind, keys []string) {
	if keys == nil {
		return
	}
	help := kb.Help()
	kb.SetHelp("", help.Desc)
	kb.SetKeys(keys...)
}

// ShortHelp returns the bindings shown in the one-line help footer.
func (k KeyMap) ShortHelp() []keybind.Keybind {
	return append([]keybind.Keybind{k.Expand, k.Collapse}, append(k.View.ShortHelp(), k.Help, k.Quit)...)
}

// FullHelp returns the bindings grouped into help columns.
func (k KeyMap) FullHelp() [][]keybind.Keybind {
	return append([][]keybind.Keybind{{k.Expand, k.Collapse}}, append(k.View.FullHelp(), []keybind.Keybind{k.Help, k.Quit})...)
}

// Package keybind maps terminal key events to named bindings and carries the
// help text shown for them.
package keybind

import (
	"slices"
	"strings"

	"github.com/gdamore/tcell/v3"
)

// Keybind is a set of equivalent keys plus the help text describing them.
// The zero value matches nothing.
type Keybind struct {
	keys     []string
	help     Help
	disabled bool
}

// Help is the key label and description shown in help views.
type Help struct {
	Key  string
	Desc string
}

type Option func(*Keybind)

func NewKeybind(options ...Option) Keybind {
	var k Keybind
	for _, option := range options {
		option(&k)
	}
	return k
}

// WithKeys sets the keys, for example "ctrl+e", "pgdn" or "K".
func WithKeys(keys ...string) Option {
	return func(k *Keybind) {
		k.keys = normalizeKeys(keys)
	}
}

func WithHelp(key, desc string) Option {
	return func(k *Keybind) {
		k.help = Help{Key: key, Desc: desc}
	}
}

// WithDisabled creates the binding in the disabled state.
func WithDisabled() Option {
	return func(k *Keybind) {
		k.disabled = true
	}
}

func (k Keybind) Keys() []string {
	return k.keys
}

// SetKeys replaces the keys. When the help label is empty it is derived from
// the first key.
func (k *Keybind) SetKeys(keys ...string) {
	k.keys = normalizeKeys(keys)
	if k.help.Key == "" && len(k.keys) > 0 {
		k.help.Key = k.keys[0]
	}
}

func (k Keybind) Help() Help {
	return k.help
}

func (k *Keybind) SetHelp(key, desc string) {
	k.help = Help{Key: key, Desc: desc}
}

// Enabled reports whether the binding has keys and is not disabled.
func (k Keybind) Enabled() bool {
	return !k.disabled && len(k.keys) > 0
}

func (k *Keybind) SetEnabled(enabled bool) {
	k.disabled = !enabled
}

// Matches reports whether event triggers any of the enabled keybinds.
func Matches(event *tcell.EventKey, keybinds ...Keybind) bool {
	if event == nil {
		return false
	}
	key := eventKeyString(event)
	if key == "" {
		return false
	}
	for _, keybind := range keybinds {
		if keybind.Enabled() && slices.Contains(keybind.keys, key) {
			return true
		}
	}
	return false
}

func normalizeKeys(keys []string) []string {
	normalized := make([]string, 0, len(keys))
	for _, key := range keys {
		if key = normalizeKey(key); key != "" && !slices.Contains(normalized, key) {
			normalized = append(normalized, key)
		}
	}
	return normalized
}

// modifiers is a set of modifier keys. Bits are in the order modifiers are
// written in a normalized key string.
type modifiers uint8

const (
	modCtrl modifiers = 1 << iota
	modAlt
	modShift
	modMeta
)

var modifierNames = []struct {
	mod  modifiers
	name string
	mask tcell.ModMask
}{
	{modCtrl, "ctrl", tcell.ModCtrl},
	{modAlt, "alt", tcell.ModAlt},
	{modShift, "shift", tcell.ModShift},
	{modMeta, "meta", tcell.ModMeta},
}

var modifierAliases = map[string]modifiers{
	"ctrl":    modCtrl,
	"control": modCtrl,
	"alt":     modAlt,
	"option":  modAlt,
	"shift":   modShift,
	"meta":    modMeta,
	"cmd":     modMeta,
}

// keyAliases maps alternative key names to the ones keyNames uses.
var keyAliases = map[string]string{
	"escape":    "esc",
	"return":    "enter",
	"pageup":    "pgup",
	"page_up":   "pgup",
	"pagedown":  "pgdn",
	"page_down": "pgdn",
	"space":     " ",
	"spacebar":  " ",
}

var keyNames = map[tcell.Key]string{
	tcell.KeyEnter:      "enter",
	tcell.KeyEscape:     "esc",
	tcell.KeyTab:        "tab",
	tcell.KeyBacktab:    "tab",
	tcell.KeyHome:       "home",
	tcell.KeyEnd:        "end",
	tcell.KeyUp:         "up",
	tcell.KeyDown:       "down",
	tcell.KeyLeft:       "left",
	tcell.KeyRight:      "right",
	tcell.KeyPgUp:       "pgup",
	tcell.KeyPgDn:       "pgdn",
	tcell.KeyDelete:     "delete",
	tcell.KeyBackspace:  "backspace",
	tcell.KeyBackspace2: "backspace",
}

// normalizeKey rewrites a key string such as "Shift+Ctrl+X" into its
// canonical form "ctrl+shift+x". It returns "" for strings without a key.
func normalizeKey(key string) string {
	key = strings.TrimSpace(key)
	// A lone "+" is the plus key, not a separator.
	if key == "" || key == "+" {
		return key
	}

	var (
		mods    modifiers
		primary string
	)
	for part := range strings.SplitSeq(key, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if mod, ok := modifierAliases[strings.ToLower(part)]; ok {
			mods |= mod
			continue
		}
		primary = part
		if len([]rune(part)) > 1 {
			primary = strings.ToLower(part)
			if alias, ok := keyAliases[primary]; ok {
				primary = alias
			}
		}
	}

	switch {
	case primary == "":
		return ""
	case primary == "backtab":
		mods, primary = mods|modShift, "tab"
	case mods != 0 && len([]rune(primary)) == 1:
		primary = strings.ToLower(primary)
	}
	return mods.join(primary)
}

func (m modifiers) join(primary string) string {
	var b strings.Builder
	for _, mod := range modifierNames {
		if m&mod.mod != 0 {
			b.WriteString(mod.name)
			b.WriteByte('+')
		}
	}
	b.WriteString(primary)
	return b.String()
}

func eventKeyString(event *tcell.EventKey) string {
	key := event.Key()
	if key >= tcell.KeyCtrlA && key <= tcell.KeyCtrlZ {
		return modCtrl.join(string(rune('a' + (key - tcell.KeyCtrlA))))
	}

	primary, ok := keyNames[key]
	if !ok && key == tcell.KeyRune {
		primary = event.Str()
	}
	if primary == "" {
		return normalizeKey(event.Name())
	}

	var mods modifiers
	for _, mod := range modifierNames {
		if event.Modifiers()&mod.mask != 0 {
			mods |= mod.mod
		}
	}
	switch key {
	case tcell.KeyBacktab:
		mods |= modShift
	case tcell.KeyRune:
		// Shifted runes arrive already shifted.
		mods &^= modShift
	}
	return mods.join(primary)
}

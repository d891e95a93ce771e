// Package help renders the enabled keybinds of a key map as a one-line
// summary or as aligned columns.
package help

import (
	"strings"

	"github.com/gdamore/tcell/v3"

	"github.com/xqrs/barview"
	"github.com/xqrs/barview/keybind"
)

type KeyMap interface {
	// ShortHelp returns keybinds for single-line help.
	ShortHelp() []keybind.Keybind
	// FullHelp returns keybind groups, where each top-level entry is a column.
	FullHelp() [][]keybind.Keybind
}

type Help struct {
	*barview.Box
	Styles Styles

	keyMap         KeyMap
	showAll        bool
	shortSeparator string
	fullSeparator  string
	ellipsis       string
}

func New() *Help {
	return &Help{
		Box:            barview.NewBox(),
		Styles:         DefaultStyles(),
		shortSeparator: " • ",
		fullSeparator:  "    ",
		ellipsis:       "…",
	}
}

func (h *Help) SetKeyMap(keyMap KeyMap) *Help {
	h.keyMap = keyMap
	h.MarkDirty()
	return h
}

// SetShowAll switches between the one-line and the column layout.
func (h *Help) SetShowAll(showAll bool) *Help {
	if h.showAll != showAll {
		h.showAll = showAll
		h.MarkDirty()
	}
	return h
}

func (h *Help) ShowAll() bool {
	return h.showAll
}

func (h *Help) SetShortSeparator(separator string) *Help {
	h.shortSeparator = separator
	return h
}

func (h *Help) SetFullSeparator(separator string) *Help {
	h.fullSeparator = separator
	return h
}

func (h *Help) SetEllipsis(ellipsis string) *Help {
	h.ellipsis = ellipsis
	return h
}

func (h *Help) SetStyles(styles Styles) *Help {
	h.Styles = styles
	h.MarkDirty()
	return h
}

// Height returns the number of rows the current mode needs at width.
func (h *Help) Height(width int) int {
	if h.keyMap == nil {
		return 0
	}
	if h.showAll {
		return len(h.fullLines(h.keyMap.FullHelp(), width))
	}
	if len(h.shortLine(h.keyMap.ShortHelp(), width)) == 0 {
		return 0
	}
	return 1
}

// Draw draws this primitive onto the screen.
func (h *Help) Draw(screen tcell.Screen) {
	h.Box.Draw(screen)
	if h.keyMap == nil {
		return
	}

	x, y, width, height := h.GetRect()
	var lines [][]segment
	if h.showAll {
		lines = h.fullLines(h.keyMap.FullHelp(), width)
	} else {
		lines = [][]segment{h.shortLine(h.keyMap.ShortHelp(), width)}
	}
	for row := 0; row < len(lines) && row < height; row++ {
		drawSegments(screen, x, y+row, width, lines[row])
	}
}

// MouseHandler ignores the mouse; help never takes the focus.
func (h *Help) MouseHandler(action barview.MouseAction, event *tcell.EventMouse) (barview.Primitive, barview.Command) {
	return nil, nil
}

// Text renders the lines of the current mode as plain text without
// trailing blanks.
func (h *Help) Text(width int) []string {
	if h.keyMap == nil {
		return nil
	}
	var lines [][]segment
	if h.showAll {
		lines = h.fullLines(h.keyMap.FullHelp(), width)
	} else if line := h.shortLine(h.keyMap.ShortHelp(), width); len(line) > 0 {
		lines = [][]segment{line}
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		var b strings.Builder
		for _, s := range line {
			b.WriteString(s.text)
		}
		out = append(out, strings.TrimRight(b.String(), " "))
	}
	return out
}

type segment struct {
	text  string
	style tcell.Style
}

func (h *Help) shortLine(bindings []keybind.Keybind, maxWidth int) []segment {
	sep := segment{text: orSpace(h.shortSeparator), style: h.Styles.ShortSeparatorStyle}

	var out []segment
	for _, kb := range bindings {
		if !kb.Enabled() {
			continue
		}
		item := shortItem(kb.Help(), h.Styles.ShortKeyStyle, h.Styles.ShortDescStyle)
		if len(item) == 0 {
			continue
		}
		candidate := append([]segment(nil), out...)
		if len(candidate) > 0 {
			candidate = append(candidate, sep)
		}
		candidate = append(candidate, item...)
		if maxWidth > 0 && width(candidate) > maxWidth {
			if len(out) == 0 {
				return nil
			}
			return append(out, h.ellipsisTail(out, maxWidth)...)
		}
		out = candidate
	}
	return out
}

type column struct {
	keys, descs  []string
	keyW, totalW int
}

func (h *Help) fullLines(groups [][]keybind.Keybind, maxWidth int) [][]segment {
	var columns []column
	for _, group := range groups {
		var c column
		for _, kb := range group {
			hp := kb.Help()
			if !kb.Enabled() || (hp.Key == "" && hp.Desc == "") {
				continue
			}
			c.keys = append(c.keys, hp.Key)
			c.descs = append(c.descs, hp.Desc)
			c.keyW = max(c.keyW, barview.StringWidth(hp.Key))
		}
		if len(c.keys) == 0 {
			continue
		}
		for i := range c.keys {
			w := c.keyW + barview.StringWidth(c.descs[i])
			if c.keys[i] != "" && c.descs[i] != "" {
				w++
			}
			c.totalW = max(c.totalW, w)
		}
		columns = append(columns, c)
	}
	if len(columns) == 0 {
		return nil
	}

	sepText := orSpace(h.fullSeparator)
	sepW := barview.StringWidth(sepText)

	// Take whole columns from the left while they fit.
	included, used := 0, 0
	for i, c := range columns {
		w := c.totalW
		if i > 0 {
			w += sepW
		}
		if maxWidth > 0 && used+w > maxWidth {
			break
		}
		included++
		used += w
	}
	if included == 0 {
		return [][]segment{{{text: h.ellipsis, style: h.Styles.EllipsisStyle}}}
	}

	rows := 0
	for _, c := range columns[:included] {
		rows = max(rows, len(c.keys))
	}

	lines := make([][]segment, rows)
	for row := range lines {
		var line []segment
		for i, c := range columns[:included] {
			if i > 0 {
				line = append(line, segment{text: sepText, style: h.Styles.FullSeparatorStyle})
			}
			last := i == included-1
			line = append(line, h.cell(c, row, last)...)
		}
		lines[row] = line
	}

	if included < len(columns) {
		lines[0] = append(lines[0], h.ellipsisTail(lines[0], maxWidth)...)
	}
	return lines
}

// cell renders one row of a column, padded to the column width unless it is
// the last column.
func (h *Help) cell(c column, row int, last bool) []segment {
	desc := h.Styles.FullDescStyle
	if row >= len(c.keys) {
		if last {
			return nil
		}
		return []segment{{text: strings.Repeat(" ", c.totalW), style: desc}}
	}

	key, text := c.keys[row], c.descs[row]
	var out []segment
	if key != "" {
		out = append(out, segment{text: key, style: h.Styles.FullKeyStyle})
	}
	if pad := c.keyW - barview.StringWidth(key); pad > 0 {
		out = append(out, segment{text: strings.Repeat(" ", pad), style: h.Styles.FullKeyStyle})
	}
	if key != "" && text != "" {
		out = append(out, segment{text: " ", style: desc})
	}
	if text != "" {
		out = append(out, segment{text: text, style: desc})
	}
	if !last {
		if pad := c.totalW - width(out); pad > 0 {
			out = append(out, segment{text: strings.Repeat(" ", pad), style: desc})
		}
	}
	return out
}

// ellipsisTail returns the truncation marker if it fits after current.
func (h *Help) ellipsisTail(current []segment, maxWidth int) []segment {
	if maxWidth <= 0 || h.ellipsis == "" {
		return nil
	}
	tail := []segment{{text: " " + h.ellipsis, style: h.Styles.EllipsisStyle}}
	if width(current)+width(tail) > maxWidth {
		return nil
	}
	return tail
}

func drawSegments(screen tcell.Screen, x, y, remaining int, segments []segment) {
	for _, s := range segments {
		if remaining <= 0 {
			return
		}
		if s.text == "" {
			continue
		}
		_, printed := barview.PrintWithStyle(screen, s.text, x, y, remaining, barview.AlignmentLeft, s.style)
		x += printed
		remaining -= printed
	}
}

func shortItem(help keybind.Help, keyStyle, descStyle tcell.Style) []segment {
	switch {
	case help.Key == "" && help.Desc == "":
		return nil
	case help.Key == "":
		return []segment{{text: help.Desc, style: descStyle}}
	case help.Desc == "":
		return []segment{{text: help.Key, style: keyStyle}}
	}
	return []segment{{text: help.Key, style: keyStyle}, {text: " ", style: descStyle}, {text: help.Desc, style: descStyle}}
}

func width(segments []segment) int {
	w := 0
	for _, s := range segments {
		w += barview.StringWidth(s.text)
	}
	return w
}

func orSpace(s string) string {
	if s == "" {
		return " "
	}
	return s
}

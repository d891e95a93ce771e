package barview

import (
	"math"

	"github.com/gdamore/tcell/v3"
	"github.com/gdamore/tcell/v3/color"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// HeaderBar draws a bar at the top of its rectangle whose height follows a
// [BarController]. It implements [Subscriber]; everything below the bar is
// left untouched so the bar can be layered over the scroll view it belongs
// to.
//
// A fractional height of at least one half is drawn as a half block row.
type HeaderBar struct {
	*Box

	state  State
	height float64

	text     string
	subtitle string

	compactColor  colorful.Color
	normalColor   colorful.Color
	expandedColor colorful.Color
	textStyle     tcell.Style
	subtitleStyle tcell.Style
}

// NewHeaderBar returns a header bar showing the given title.
func NewHeaderBar(title string) *HeaderBar {
	return &HeaderBar{
		Box:           NewBox(),
		state:         Normal,
		text:          title,
		compactColor:  Styles.BarCompactColor,
		normalColor:   Styles.BarNormalColor,
		expandedColor: Styles.BarExpandedColor,
		textStyle:     tcell.StyleDefault.Foreground(Styles.PrimaryTextColor).Bold(true),
		subtitleStyle: tcell.StyleDefault.Foreground(Styles.SecondaryTextColor),
	}
}

// BarStateChanged implements Subscriber.
func (h *HeaderBar) BarStateChanged(state State, height float64) {
	if h.state != state || h.height != height {
		h.state = state
		h.height = height
		h.MarkDirty()
	}
}

// State returns the last state the bar was notified of.
func (h *HeaderBar) State() State {
	return h.state
}

// BarHeight returns the last height the bar was notified of.
func (h *HeaderBar) BarHeight() float64 {
	return h.height
}

// SetText sets the title shown in the bar.
func (h *HeaderBar) SetText(text string) *HeaderBar {
	h.text = text
	h.MarkDirty()
	return h
}

// SetSubtitle sets the text shown below the title while the bar is taller
// than its normal height.
func (h *HeaderBar) SetSubtitle(subtitle string) *HeaderBar {
	h.subtitle = subtitle
	h.MarkDirty()
	return h
}

// SetColors sets the background colors used at each anchor. Colors between
// anchors are blended.
func (h *HeaderBar) SetColors(compact, normal, expanded colorful.Color) *HeaderBar {
	h.compactColor, h.normalColor, h.expandedColor = compact, normal, expanded
	h.MarkDirty()
	return h
}

// SetColorsHex is like SetColors with "#rrggbb" colors.
func (h *HeaderBar) SetColorsHex(compact, normal, expanded string) error {
	var colors [3]colorful.Color
	for i, hex := range []string{compact, normal, expanded} {
		c, err := colorful.Hex(hex)
		if err != nil {
			return err
		}
		colors[i] = c
	}
	h.SetColors(colors[0], colors[1], colors[2])
	return nil
}

// background returns the blended background for the current state.
func (h *HeaderBar) background() tcell.Color {
	var c colorful.Color
	if h.state > Normal {
		c = h.normalColor.BlendLab(h.expandedColor, float64(h.state-Normal))
	} else {
		c = h.compactColor.BlendLab(h.normalColor, float64(h.state))
	}
	r, g, b := c.Clamped().RGB255()
	return color.NewRGBColor(int32(r), int32(g), int32(b))
}

// rows returns the number of full rows and whether a half row follows.
func (h *HeaderBar) rows() (full int, half bool) {
	full = int(math.Floor(h.height))
	return full, h.height-float64(full) >= 0.5
}

// Draw draws the bar.
func (h *HeaderBar) Draw(screen tcell.Screen) {
	x, y, width, maxRows := h.GetRect()
	if width <= 0 || maxRows <= 0 || h.height <= 0 {
		return
	}

	full, half := h.rows()
	full = min(full, maxRows)
	background := h.background()
	fill := tcell.StyleDefault.Background(background)
	for row := 0; row < full; row++ {
		for column := x; column < x+width; column++ {
			screen.Put(column, y+row, " ", fill)
		}
	}
	if half && full < maxRows {
		edge := tcell.StyleDefault.Foreground(background)
		for column := x; column < x+width; column++ {
			screen.Put(column, y+full, BlockUpperHalfBlock, edge)
		}
	}
	if full == 0 {
		return
	}

	// Title and subtitle are centered together.
	var subtitle []string
	if h.state > Normal && h.subtitle != "" && width > 2 {
		subtitle = WordWrap(h.subtitle, width-2)
	}
	titleRow := max((full-1-len(subtitle))/2, 0)
	printText(screen, h.text, x+1, y+titleRow, width-2, AlignmentCenter, h.textStyle.Background(background), false)
	for i, line := range subtitle {
		row := titleRow + 1 + i
		if row >= full {
			break
		}
		printText(screen, line, x+1, y+row, width-2, AlignmentCenter, h.subtitleStyle.Background(background), false)
	}
}

var (
	_ Primitive  = &HeaderBar{}
	_ Subscriber = &HeaderBar{}
)

package barview

import (
	"github.com/gdamore/tcell/v3"
)

// Alignment is the horizontal alignment of printed text.
type Alignment int

const (
	AlignmentLeft Alignment = iota
	AlignmentCenter
	AlignmentRight
)

// PrintWithStyle prints text into the row at (x, y), at most maxWidth cells
// wide and aligned within them. It returns the number of bytes of text
// printed and the cells they cover.
func PrintWithStyle(screen tcell.Screen, text string, x, y, maxWidth int, alignment Alignment, style tcell.Style) (int, int) {
	return printText(screen, text, x, y, maxWidth, alignment, style, false)
}

// alignText positions text of the given graphemes within maxWidth cells. It
// returns the cell offset to start at and the graphemes that fit. Overflowing
// text is cut at the start for right alignment and on both sides when
// centered.
func alignText(text []grapheme, maxWidth int, alignment Alignment) (int, []grapheme) {
	total := 0
	for _, g := range text {
		total += g.width
	}

	offset := 0
	switch alignment {
	case AlignmentRight:
		for total > maxWidth {
			total -= text[0].width
			text = text[1:]
		}
		offset = maxWidth - total
	case AlignmentCenter:
		for excess := (total - maxWidth) / 2; excess > 0; {
			excess -= text[0].width
			total -= text[0].width
			text = text[1:]
		}
		if total < maxWidth {
			offset = maxWidth/2 - total/2
		}
	}

	fits, width := 0, offset
	for fits < len(text) && width+text[fits].width <= maxWidth {
		width += text[fits].width
		fits++
	}
	return offset, text[:fits]
}

// printText is PrintWithStyle where keepBackground leaves every cell's
// background as the screen already shows it.
func printText(screen tcell.Screen, text string, x, y, maxWidth int, alignment Alignment, style tcell.Style, keepBackground bool) (printed, printedWidth int) {
	screenWidth, screenHeight := screen.Size()
	if maxWidth <= 0 || text == "" || y < 0 || y >= screenHeight {
		return 0, 0
	}

	offset, visible := alignText(graphemes(text), maxWidth, alignment)
	x += offset
	for _, g := range visible {
		if x+g.width > screenWidth {
			break
		}
		if g.width > 0 {
			cellStyle := style
			if keepBackground {
				_, existing, _ := screen.Get(x, y)
				cellStyle = style.Background(existing.GetBackground())
			}
			// Wide characters cover their trailing cells.
			for i := 1; i < g.width; i++ {
				screen.Put(x+i, y, " ", cellStyle)
			}
			screen.Put(x, y, g.text, cellStyle)
		}
		x += g.width
		printed += len(g.text)
		printedWidth += g.width
	}
	return printed, printedWidth
}

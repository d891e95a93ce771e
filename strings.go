package barview

import (
	"strings"

	"github.com/gdamore/tcell/v3"
	"github.com/rivo/uniseg"
)

// Segment is a styled piece of text.
type Segment struct {
	Text  string
	Style tcell.Style
}

// Line is a list of styled segments making up one row of content.
type Line []Segment

// LineBuilder incrementally builds styled lines from text writes.
type LineBuilder struct {
	lines   []Line
	current Line
}

// NewLineBuilder returns a new line builder.
func NewLineBuilder() *LineBuilder {
	return &LineBuilder{}
}

// Write appends text with style, starting a new line at every newline.
func (b *LineBuilder) Write(text string, style tcell.Style) {
	for len(text) > 0 {
		nl := strings.IndexByte(text, '\n')
		if nl < 0 {
			b.writeSegment(text, style)
			return
		}
		b.writeSegment(text[:nl], style)
		b.NewLine()
		text = text[nl+1:]
	}
}

func (b *LineBuilder) writeSegment(text string, style tcell.Style) {
	if text == "" {
		return
	}
	if n := len(b.current); n > 0 && b.current[n-1].Style == style {
		b.current[n-1].Text += text
		return
	}
	b.current = append(b.current, Segment{Text: text, Style: style})
}

// NewLine flushes the current line.
func (b *LineBuilder) NewLine() {
	b.lines = append(b.lines, b.current)
	b.current = nil
}

// Finish returns all built lines. A trailing unterminated line is included.
func (b *LineBuilder) Finish() []Line {
	if len(b.current) > 0 {
		b.NewLine()
	}
	return b.lines
}

// grapheme is a user-perceived character and the cells it takes on screen.
type grapheme struct {
	text  string
	width int
}

func graphemes(text string) []grapheme {
	var (
		out   []grapheme
		state = -1
	)
	for text != "" {
		var (
			cluster string
			width   int
		)
		cluster, text, width, state = uniseg.FirstGraphemeClusterInString(text, state)
		out = append(out, grapheme{text: cluster, width: width})
	}
	return out
}

// StringWidth returns the number of cells text takes on screen.
func StringWidth(text string) int {
	return uniseg.StringWidth(text)
}

// WordWrap splits text into lines no wider than width. Lines are broken at
// the last line break opportunity that fits and mid-word only when a word is
// wider than the line. Newlines always end a line.
func WordWrap(text string, width int) []string {
	if width <= 0 {
		return nil
	}

	var (
		lines      []string
		start, pos int // Byte offsets of the current line and cluster.
		lineWidth  int
		breakPos   int // Offset of the last break opportunity in the line.
		breakWidth int // Line width up to breakPos.
		state      = -1
	)
	for rest := text; rest != ""; {
		var (
			cluster    string
			boundaries int
		)
		cluster, rest, boundaries, state = uniseg.StepString(rest, state)
		clusterWidth := boundaries >> uniseg.ShiftWidth

		if lineWidth+clusterWidth > width && pos > start {
			cut, cutWidth := pos, lineWidth
			if breakPos > start {
				cut, cutWidth = breakPos, breakWidth
			}
			if line := strings.TrimRight(text[start:cut], " "); line != "" {
				lines = append(lines, line)
			}
			start, breakPos = cut, cut
			lineWidth -= cutWidth
		}

		pos += len(cluster)
		lineWidth += clusterWidth

		switch boundaries & uniseg.MaskLine {
		case uniseg.LineCanBreak:
			breakPos, breakWidth = pos, lineWidth
		case uniseg.LineMustBreak:
			// The end of text is a mandatory break too.
			if rest != "" || uniseg.HasTrailingLineBreakInString(cluster) {
				lines = append(lines, strings.TrimRight(text[start:pos], "\r\n"))
				start, breakPos, lineWidth = pos, pos, 0
			}
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

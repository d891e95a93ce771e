package barview

import "github.com/gdamore/tcell/v3"

// ScrollLengths bundles content and viewport lengths in rows.
type ScrollLengths struct {
	ContentLen  int
	ViewportLen int
}

// subcell is the number of thumb steps per cell.
const subcell = 8

// GlyphSet defines the track and fractional thumb glyphs.
type GlyphSet struct {
	Track string

	// ThumbLower[i] fills the lower i+1 eighths of a cell, ThumbUpper[i] the
	// upper i+1 eighths.
	ThumbLower [subcell]string
	ThumbUpper [subcell]string
}

// MinimalGlyphSet returns a glyph set with an invisible track.
func MinimalGlyphSet() GlyphSet {
	g := UnicodeGlyphSet()
	g.Track = " "
	return g
}

// UnicodeGlyphSet returns a glyph set using only widely supported block
// elements.
func UnicodeGlyphSet() GlyphSet {
	return GlyphSet{
		Track:      BoxDrawingsLightVertical,
		ThumbLower: [subcell]string{"▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"},
		ThumbUpper: [subcell]string{"▔", "▔", "▀", "▀", "▀", "▀", "█", "█"},
	}
}

// ScrollBar is the vertical scroll indicator of a [ScrollView]. The thumb
// moves in eighths of a cell.
type ScrollBar struct {
	*Box

	contentLen  int
	viewportLen int
	offset      int

	trackStyle tcell.Style
	thumbStyle tcell.Style
	glyphSet   GlyphSet
}

// NewScrollBar returns a scroll bar which hides itself when everything fits.
func NewScrollBar() *ScrollBar {
	b := &ScrollBar{
		Box:        NewBox(),
		trackStyle: tcell.StyleDefault.Dim(true),
		thumbStyle: tcell.StyleDefault,
		glyphSet:   MinimalGlyphSet(),
	}
	b.SetDontClear(true)
	return b
}

// SetLengths sets content and viewport lengths.
func (s *ScrollBar) SetLengths(lengths ScrollLengths) *ScrollBar {
	s.contentLen = max(lengths.ContentLen, 0)
	s.viewportLen = max(lengths.ViewportLen, 0)
	return s
}

// SetOffset sets the offset of the viewport into the content.
func (s *ScrollBar) SetOffset(offset int) *ScrollBar {
	s.offset = max(offset, 0)
	return s
}

// SetGlyphSet applies a glyph set.
func (s *ScrollBar) SetGlyphSet(g GlyphSet) *ScrollBar {
	s.glyphSet = g
	return s
}

type scrollMetrics struct {
	trackCells int
	trackLen   int
	thumbLen   int
	thumbStart int
}

func computeScrollMetrics(trackCells, contentLen, viewportLen, offset int) scrollMetrics {
	trackLen := trackCells * subcell
	if trackLen <= 0 {
		return scrollMetrics{}
	}

	contentLen = max(contentLen, 1)
	viewportLen = min(max(viewportLen, 1), contentLen)
	maxOffset := max(contentLen-viewportLen, 0)
	offset = min(max(offset, 0), maxOffset)
	if maxOffset == 0 {
		return scrollMetrics{trackCells: trackCells, trackLen: trackLen, thumbLen: trackLen}
	}

	// The thumb is at least one cell long and proportional to the visible share.
	thumbLen := min(max(trackLen*viewportLen/contentLen, subcell), trackLen)
	thumbStart := (trackLen - thumbLen) * offset / maxOffset
	return scrollMetrics{trackCells: trackCells, trackLen: trackLen, thumbLen: thumbLen, thumbStart: thumbStart}
}

// cellFill returns which part of the cell at index the thumb covers, in
// eighths relative to the cell's top.
func cellFill(m scrollMetrics, index int) (start, length int) {
	if m.thumbLen == 0 {
		return 0, 0
	}
	cellStart := index * subcell
	from := max(m.thumbStart, cellStart)
	to := min(m.thumbStart+m.thumbLen, cellStart+subcell)
	if to <= from {
		return 0, 0
	}
	return from - cellStart, to - from
}

func (s *ScrollBar) glyph(start, length int) (string, tcell.Style) {
	switch {
	case length <= 0:
		return s.glyphSet.Track, s.trackStyle
	case length >= subcell:
		return s.glyphSet.ThumbLower[subcell-1], s.thumbStyle
	case start == 0:
		return s.glyphSet.ThumbUpper[length-1], s.thumbStyle
	}
	return s.glyphSet.ThumbLower[length-1], s.thumbStyle
}

// Draw draws the scroll bar.
func (s *ScrollBar) Draw(screen tcell.Screen) {
	s.Box.Draw(screen)

	x, y, _, height := s.GetRect()
	if height <= 0 || s.contentLen <= 0 {
		return
	}
	viewportLen := s.viewportLen
	if viewportLen <= 0 {
		viewportLen = height
	}
	if s.contentLen <= viewportLen {
		return
	}

	m := computeScrollMetrics(height, s.contentLen, viewportLen, s.offset)
	for cell := 0; cell < m.trackCells; cell++ {
		glyph, style := s.glyph(cellFill(m, cell))
		screen.Put(x, y+cell, glyph, style)
	}
}

var _ Primitive = &ScrollBar{}

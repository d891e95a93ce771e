package barview

import (
	"github.com/gdamore/tcell/v3"
	"github.com/gdamore/tcell/v3/color"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Theme defines the colors used when primitives are initialized.
type Theme struct {
	PrimitiveBackgroundColor tcell.Color // Main background color for primitives.
	PrimaryTextColor         tcell.Color // Primary text.
	SecondaryTextColor       tcell.Color // Secondary text (e.g. subtitles).

	// Header bar backgrounds at each anchor.
	BarCompactColor  colorful.Color
	BarNormalColor   colorful.Color
	BarExpandedColor colorful.Color
}

// Styles is the theme new primitives pick their colors from.
var Styles = Theme{
	PrimitiveBackgroundColor: color.Black,
	PrimaryTextColor:         color.White,
	SecondaryTextColor:       color.Yellow,

	BarCompactColor:  colorful.Color{R: 0.15, G: 0.15, B: 0.25},
	BarNormalColor:   colorful.Color{R: 0.12, G: 0.30, B: 0.45},
	BarExpandedColor: colorful.Color{R: 0.16, G: 0.55, B: 0.52},
}

package help

import (
	"github.com/gdamore/tcell/v3"

	"github.com/xqrs/barview"
)

type Styles struct {
	ShortKeyStyle       tcell.Style
	ShortDescStyle      tcell.Style
	ShortSeparatorStyle tcell.Style

	FullKeyStyle       tcell.Style
	FullDescStyle      tcell.Style
	FullSeparatorStyle tcell.Style

	EllipsisStyle tcell.Style
}

// DefaultStyles derives the help styles from the package theme.
func DefaultStyles() Styles {
	base := tcell.StyleDefault.Background(barview.Styles.PrimitiveBackgroundColor)
	key := base.Foreground(barview.Styles.SecondaryTextColor).Bold(true)
	desc := base.Foreground(barview.Styles.PrimaryTextColor)
	dim := base.Dim(true)
	return Styles{
		ShortKeyStyle:       key,
		ShortDescStyle:      desc,
		ShortSeparatorStyle: dim,
		FullKeyStyle:        key,
		FullDescStyle:       desc,
		FullSeparatorStyle:  dim,
		EllipsisStyle:       dim,
	}
}

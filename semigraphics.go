package barview

// Unicode characters used for drawing, as \u escapes to keep the source
// ASCII-safe.
const (
	BoxDrawingsLightVertical = "\u2502" // │
	BlockUpperHalfBlock      = "\u2580" // ▀
)

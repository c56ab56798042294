package core

// Color is a foreground color for a screen cell. The platform layer maps each
// value onto an ANSI 256-color code.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorPink  // pink rock
	ColorBrown // dirt under grass
	ColorDim   // background decor
)

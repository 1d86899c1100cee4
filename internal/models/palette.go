package models

// Color is a display tag from a fixed palette. The empty value means no color.
type Color string

const (
	ColorNone   Color = ""
	ColorRed    Color = "red"
	ColorOrange Color = "orange"
	ColorYellow Color = "yellow"
	ColorGreen  Color = "green"
	ColorTeal   Color = "teal"
	ColorBlue   Color = "blue"
	ColorPurple Color = "purple"
	ColorPink   Color = "pink"
	ColorGray   Color = "gray"
)

// palette maps every color key to the hex value used when rendering it
var palette = map[Color]string{
	ColorRed:    "#f7768e",
	ColorOrange: "#ff9e64",
	ColorYellow: "#e0af68",
	ColorGreen:  "#9ece6a",
	ColorTeal:   "#73daca",
	ColorBlue:   "#7aa2f7",
	ColorPurple: "#bb9af7",
	ColorPink:   "#ff79c6",
	ColorGray:   "#565f89",
}

// Palette lists the color keys in display order
func Palette() []Color {
	return []Color{ColorRed, ColorOrange, ColorYellow, ColorGreen, ColorTeal, ColorBlue, ColorPurple, ColorPink, ColorGray}
}

// Valid reports whether c is empty or a palette key
func (c Color) Valid() bool {
	if c == ColorNone {
		return true
	}
	_, ok := palette[c]
	return ok
}

// Hex returns the render color for c, or "" for none and unknown keys
func (c Color) Hex() string {
	return palette[c]
}

package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for map cells and chrome.
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
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// tilePalette cycles through distinguishable colors for tilesets.
var tilePalette = []Color{
	ColorGreen, ColorYellow, ColorBlue, ColorMagenta, ColorCyan,
	ColorOrange, ColorBrightGreen, ColorBrightBlue, ColorBrightMagenta,
}

// tileGlyphs are drawn for tiles by their column inside the tileset.
var tileGlyphs = []rune{'░', '▒', '▓', '█', '▚', '▞', '◆', '●'}

// TileColor returns the display color for a tileset index.
func TileColor(tileset uint16) Color {
	return tilePalette[int(tileset)%len(tilePalette)]
}

// TileGlyph returns the display rune for a tile's source column and row.
func TileGlyph(x, y uint16) rune {
	return tileGlyphs[(int(x)+int(y))%len(tileGlyphs)]
}

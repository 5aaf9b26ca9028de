package api

import "fmt"

// Glyph - упакованный цветной символ для текстовых клиентов:
//
//	[0:8]  - ASCII символ
//	[8:32] - RGB-цвет
type Glyph uint32

const (
	bitsChar   = 8
	bitsColor  = 24
	shiftColor = bitsChar

	maskChar  = (1 << bitsChar) - 1  // 0xFF
	maskColor = (1 << bitsColor) - 1 // 0xFFFFFF
)

// MakeGlyph упаковывает цвет 0xRRGGBB (старший байт отбрасывается) и символ.
func MakeGlyph(colorRGB uint32, char byte) Glyph {
	return Glyph((colorRGB&maskColor)<<shiftColor | (uint32(char) & maskChar))
}

func (g Glyph) Color() uint32 {
	return uint32(g>>shiftColor) & maskColor
}

func (g Glyph) Char() byte {
	return byte(g & maskChar)
}

// Symbol - символ строкой, как его ждет EntityView
func (g Glyph) Symbol() string {
	return string([]byte{g.Char()})
}

// HexColor - цвет в виде "#RRGGBB"
func (g Glyph) HexColor() string {
	return fmt.Sprintf("#%06X", g.Color())
}

func (g Glyph) String() string {
	char := g.Symbol()
	if c := g.Char(); c < 32 || c > 126 {
		char = fmt.Sprintf("\\x%02X", c)
	}
	return fmt.Sprintf("Glyph{char='%s', color=%s}", char, g.HexColor())
}

package api

import "testing"

func TestMakeGlyph(t *testing.T) {
	tests := []struct {
		name  string
		color uint32
		char  byte
		want  Glyph
	}{
		{"Orange A", 0xFFA500, 'A', Glyph(0xFFA50041)},
		{"Black space", 0x000000, ' ', Glyph(0x00000020)},
		{"Color truncation", 0x12345678, 'x', Glyph(0x34567878)},
		{"Max char", 0x404040, 0xFF, Glyph(0x404040FF)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MakeGlyph(tt.color, tt.char)
			if got != tt.want {
				t.Fatalf("MakeGlyph() = 0x%08X, want 0x%08X", uint32(got), uint32(tt.want))
			}
			if got.Char() != tt.char {
				t.Errorf("Char() = %q, want %q", got.Char(), tt.char)
			}
			if got.Color() != tt.color&0xFFFFFF {
				t.Errorf("Color() = 0x%06X, want 0x%06X", got.Color(), tt.color&0xFFFFFF)
			}
		})
	}
}

func TestGlyphFormatting(t *testing.T) {
	g := MakeGlyph(0x00FF00, '@')
	if g.Symbol() != "@" {
		t.Errorf("Symbol() = %q", g.Symbol())
	}
	if g.HexColor() != "#00FF00" {
		t.Errorf("HexColor() = %q", g.HexColor())
	}
	if g.String() != "Glyph{char='@', color=#00FF00}" {
		t.Errorf("String() = %q", g.String())
	}
	if s := MakeGlyph(0xFFFFFF, '\n').String(); s != "Glyph{char='\\x0A', color=#FFFFFF}" {
		t.Errorf("String() for control char = %q", s)
	}
}

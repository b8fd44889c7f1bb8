// Package glyph extracts dial label outlines from TrueType fonts.
//
// A Font wraps parsed TrueType data together with the vertical metric used
// to scale labels and an optional shaping face for multi-rune labels.
package glyph

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"

	gotextfont "github.com/go-text/typesetting/font"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/math/fixed"
)

// Font is a parsed TrueType font ready for outline extraction.
type Font struct {
	ttf    *truetype.Font
	ascent float64
	face   *gotextfont.Face
}

// ParseFont parses TTF bytes (or OTF bytes with TrueType outlines).
func ParseFont(data []byte) (*Font, error) {
	ttf, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	f := &Font{ttf: ttf}
	if asc, ok := parseTypoAscender(data); ok {
		f.ascent = asc
	}
	// Shaping is optional: labels still lay out through the kerning walk
	// when the shaping face cannot be parsed.
	if face, err := gotextfont.ParseTTF(bytes.NewReader(data)); err == nil {
		f.face = face
	}
	return f, nil
}

// LoadFont reads and parses a font file.
func LoadFont(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	return ParseFont(data)
}

// UnitsPerEm returns the font's design grid size.
func (f *Font) UnitsPerEm() float64 {
	return float64(f.ttf.FUnitsPerEm())
}

// Ascent returns the baseline-to-top distance in font units. It prefers the
// OS/2 typographic ascender, falling back to the font bounding box and
// finally to the em size.
func (f *Font) Ascent() float64 {
	if f.ascent > 0 {
		return f.ascent
	}
	bounds := f.ttf.Bounds(fixed.Int26_6(f.ttf.FUnitsPerEm()))
	if asc := float64(bounds.Max.Y); asc > 0 {
		return asc
	}
	return f.UnitsPerEm()
}

// parseTypoAscender pulls sTypoAscender out of the OS/2 table. The truetype
// parser does not expose it, so walk the sfnt table directory by hand.
func parseTypoAscender(data []byte) (float64, bool) {
	const (
		tableDirOffset = 12
		recordSize     = 16
		typoAscOffset  = 68
	)
	if len(data) < tableDirOffset {
		return 0, false
	}
	numTables := int(binary.BigEndian.Uint16(data[4:6]))
	if len(data) < tableDirOffset+numTables*recordSize {
		return 0, false
	}
	for i := 0; i < numTables; i++ {
		recOff := tableDirOffset + i*recordSize
		if string(data[recOff:recOff+4]) != "OS/2" {
			continue
		}
		tableOffset := int(binary.BigEndian.Uint32(data[recOff+8 : recOff+12]))
		tableLen := int(binary.BigEndian.Uint32(data[recOff+12 : recOff+16]))
		if tableOffset < 0 || tableLen < typoAscOffset+2 || tableOffset+tableLen > len(data) {
			return 0, false
		}
		raw := int16(binary.BigEndian.Uint16(data[tableOffset+typoAscOffset : tableOffset+typoAscOffset+2]))
		return float64(raw), raw > 0
	}
	return 0, false
}

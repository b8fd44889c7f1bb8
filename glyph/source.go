package glyph

import "github.com/unixpickle/dialmesh/poly"

// Source extracts label outlines from a font in the shape the dial pipeline
// consumes.
type Source struct {
	Font    *Font
	Options Options
}

// Contours returns the outline rings of label, scaled so the font ascent
// maps to size and centered on the origin.
func (s *Source) Contours(label string, size float64) ([]poly.Ring, error) {
	return LabelOutlines(s.Font, label, size, s.Options)
}

package glyph

import (
	"errors"
	"math"

	"github.com/golang/freetype/truetype"
	"github.com/unixpickle/dialmesh/poly"
	"github.com/unixpickle/model3d/model2d"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Options control outline extraction.
type Options struct {
	CurveSegments int     // line segments per quadratic; 0 means 8
	Kerning       bool
	Spacing       float64 // advance multiplier; 0 means 1
}

// LabelOutlines returns the flattened outline rings of label, scaled so the
// font ascent maps to size and centered on the origin. Dial glyphs are
// placed by their center, so no other alignment exists. A label with no
// outlines (e.g. all whitespace) yields nil, nil.
func LabelOutlines(f *Font, label string, size float64, opt Options) ([]poly.Ring, error) {
	if f == nil || f.ttf == nil {
		return nil, errors.New("nil font")
	}
	if size <= 0 {
		return nil, errors.New("size must be positive")
	}
	if opt.CurveSegments <= 0 {
		opt.CurveSegments = 8
	}
	if opt.Spacing == 0 {
		opt.Spacing = 1
	}
	if opt.Spacing < 0 {
		return nil, errors.New("spacing must be non-negative")
	}

	scale := size / f.Ascent()

	// truetype loads glyphs at a 26.6 fixed-point scale. Loading at 64*upem
	// keeps one font unit equal to 64 in the GlyphBuf, so coordinates divide
	// back to font units exactly and the float scale applies afterwards.
	fixedScale := fixed.Int26_6(int32(f.UnitsPerEm() * 64))

	var rings []poly.Ring
	var gb truetype.GlyphBuf
	for _, g := range f.shapeLabel(label, opt) {
		gb = truetype.GlyphBuf{}
		if err := gb.Load(f.ttf, fixedScale, g.index, xfont.HintingNone); err != nil {
			continue
		}
		rings = append(rings, glyphRings(&gb, g.penX, scale, opt.CurveSegments)...)
	}
	if len(rings) == 0 {
		return nil, nil
	}

	lo, hi := rings[0].Bounds()
	for _, r := range rings[1:] {
		rLo, rHi := r.Bounds()
		lo.X = math.Min(lo.X, rLo.X)
		lo.Y = math.Min(lo.Y, rLo.Y)
		hi.X = math.Max(hi.X, rHi.X)
		hi.Y = math.Max(hi.Y, rHi.Y)
	}
	center := lo.Mid(hi)
	for i, r := range rings {
		rings[i] = r.Map(func(c model2d.Coord) model2d.Coord {
			return c.Sub(center)
		})
	}
	return rings, nil
}

// glyphRings splits a loaded glyph into its contours and flattens each one.
// penX is in font units; scale maps font units to model units.
func glyphRings(gb *truetype.GlyphBuf, penX, scale float64, segs int) []poly.Ring {
	var out []poly.Ring
	start := 0
	for _, end := range gb.Ends {
		contour := gb.Points[start:end]
		start = end
		if ring := flattenContour(contour, penX, scale, segs); ring != nil {
			out = append(out, ring)
		}
	}
	return out
}

// flattenContour walks one TrueType contour, expanding implied on-curve
// points between consecutive off-curve controls and flattening each
// quadratic into segs line segments. The result is an open ring; the edge
// from the last vertex back to the first is implicit.
func flattenContour(pts []truetype.Point, penX, scale float64, segs int) poly.Ring {
	if len(pts) == 0 {
		return nil
	}

	toVec := func(p truetype.Point) model2d.Coord {
		return model2d.Coord{
			X: (float64(p.X)/64.0 + penX) * scale,
			Y: (float64(p.Y) / 64.0) * scale,
		}
	}
	onCurve := func(p truetype.Point) bool { return p.Flags&0x01 != 0 }

	n := len(pts)

	// Anchor the walk at an on-curve point. When both endpoints are
	// off-curve the anchor is the implied midpoint between them, and the
	// walk begins at pts[0] so that control stays pending until the close.
	var anchor model2d.Coord
	anchorIdx := 0
	if onCurve(pts[0]) {
		anchor = toVec(pts[0])
	} else if onCurve(pts[n-1]) {
		anchor = toVec(pts[n-1])
		anchorIdx = n - 1
	} else {
		anchor = toVec(pts[n-1]).Mid(toVec(pts[0]))
		anchorIdx = n - 1
	}

	ring := make(poly.Ring, 0, n*segs+4)
	ring = append(ring, anchor)

	prevOn := anchor
	var ctrl model2d.Coord
	haveCtrl := false

	i := (anchorIdx + 1) % n
	for steps := 0; steps < n; steps++ {
		p := pts[i]
		i = (i + 1) % n

		if onCurve(p) {
			on := toVec(p)
			if haveCtrl {
				ring = append(ring, flattenQuad(prevOn, ctrl, on, segs)...)
				haveCtrl = false
			} else {
				ring = append(ring, on)
			}
			prevOn = on
			continue
		}

		c := toVec(p)
		if haveCtrl {
			// Consecutive off-curve points imply an on-curve midpoint.
			implied := ctrl.Mid(c)
			ring = append(ring, flattenQuad(prevOn, ctrl, implied, segs)...)
			prevOn = implied
		}
		ctrl = c
		haveCtrl = true
	}

	if haveCtrl {
		ring = append(ring, flattenQuad(prevOn, ctrl, anchor, segs)...)
	}

	// The closing edge back to ring[0] is implicit in an open ring.
	for len(ring) > 1 && ring[len(ring)-1] == ring[0] {
		ring = ring[:len(ring)-1]
	}
	if len(ring) < 3 {
		return nil
	}
	return ring
}

func flattenQuad(p0, p1, p2 model2d.Coord, segs int) []model2d.Coord {
	out := make([]model2d.Coord, 0, segs)
	for i := 1; i <= segs; i++ {
		t := float64(i) / float64(segs)
		u := 1 - t
		out = append(out, p0.Scale(u*u).Add(p1.Scale(2*u*t)).Add(p2.Scale(t*t)))
	}
	return out
}

package glyph

import (
	"github.com/go-text/typesetting/di"
	ot "github.com/go-text/typesetting/font/opentype"
	"github.com/go-text/typesetting/shaping"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/math/fixed"
)

var kernFeature = ot.MustNewTag("kern")

// positionedGlyph is a glyph index with its pen position in font units.
type positionedGlyph struct {
	index truetype.Index
	penX  float64
}

// shapeLabel positions the glyphs of label. HarfBuzz shaping is used when
// the font parsed into a shaping face; otherwise a kern-and-advance walk
// over the runes stands in.
func (f *Font) shapeLabel(label string, opt Options) []positionedGlyph {
	if f.face != nil {
		return f.shapeHarfBuzz(label, opt)
	}
	return f.shapeAdvances(label, opt)
}

func (f *Font) shapeHarfBuzz(label string, opt Options) []positionedGlyph {
	runes := []rune(label)
	if len(runes) == 0 {
		return nil
	}

	var features []shaping.FontFeature
	if !opt.Kerning {
		// HarfBuzz kerns by default; turn it off explicitly when unwanted.
		features = append(features, shaping.FontFeature{Tag: kernFeature, Value: 0})
	}

	shaper := shaping.HarfbuzzShaper{}
	out := shaper.Shape(shaping.Input{
		Text:         runes,
		RunStart:     0,
		RunEnd:       len(runes),
		Direction:    di.DirectionLTR,
		Face:         f.face,
		FontFeatures: features,
		Size:         fixed.I(int(f.ttf.FUnitsPerEm())),
	})

	glyphs := make([]positionedGlyph, 0, len(out.Glyphs))
	penX := 0.0
	for _, g := range out.Glyphs {
		glyphs = append(glyphs, positionedGlyph{
			index: truetype.Index(g.GlyphID),
			penX:  penX + float64(out.ToFontUnit(g.XOffset)),
		})
		penX += float64(out.ToFontUnit(g.XAdvance)) * opt.Spacing
	}
	return glyphs
}

func (f *Font) shapeAdvances(label string, opt Options) []positionedGlyph {
	fixedScale := fixed.Int26_6(int32(f.UnitsPerEm() * 64))

	var glyphs []positionedGlyph
	penX := 0.0
	var prev truetype.Index
	hasPrev := false
	for _, r := range label {
		idx := f.ttf.Index(r)
		if opt.Kerning && hasPrev {
			k := f.ttf.Kern(fixedScale, prev, idx)
			penX += (float64(k) / 64.0) * opt.Spacing
		}
		glyphs = append(glyphs, positionedGlyph{index: idx, penX: penX})
		adv := f.ttf.HMetric(fixedScale, idx).AdvanceWidth
		penX += (float64(adv) / 64.0) * opt.Spacing
		prev, hasPrev = idx, true
	}
	return glyphs
}

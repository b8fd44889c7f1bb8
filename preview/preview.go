// Package preview renders a flat raster of a generated dial.
package preview

import (
	"errors"
	"image/color"

	"github.com/unixpickle/dialmesh"
	"github.com/unixpickle/model3d/model2d"
)

// DefaultPixelsPerMM controls raster resolution when Options leaves it zero.
const DefaultPixelsPerMM = 4.0

// Options describes the dial band to draw behind the numerals.
type Options struct {
	// InnerRadius and OuterRadius bound the band in millimeters.
	InnerRadius float64
	OuterRadius float64

	// PixelsPerMM scales the raster. Zero means DefaultPixelsPerMM.
	PixelsPerMM float64
}

// Render rasterizes the placed numerals over the dial band and writes the
// image to path. The extension picks the format, as in model2d.SaveImage.
// Failed slots are skipped; an empty result set still draws the band.
func Render(path string, results []dialmesh.SlotResult, opts Options) error {
	if opts.InnerRadius < 0 || opts.OuterRadius <= opts.InnerRadius {
		return errors.New("preview: band radii are out of order")
	}
	scale := opts.PixelsPerMM
	if scale == 0 {
		scale = DefaultPixelsPerMM
	}

	glyphMesh := model2d.NewMesh()
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		for _, p := range r.Polygons {
			for _, ring := range p.Rings() {
				for i, a := range ring {
					b := ring[(i+1)%len(ring)]
					glyphMesh.Add(&model2d.Segment{a, b})
				}
			}
		}
	}
	var glyphs model2d.Solid
	if glyphMesh.NumSegments() > 0 {
		glyphs = glyphMesh.Solid()
	}

	outer := opts.OuterRadius
	min := model2d.XY(-outer, -outer)
	max := model2d.XY(outer, outer)
	band := model2d.CheckedFuncSolid(min, max, func(c model2d.Coord) bool {
		rad := c.Norm()
		if rad < opts.InnerRadius || rad > outer {
			return false
		}
		return glyphs == nil || !glyphs.Contains(c)
	})

	// Raster rows grow downward while dial Y grows up; mirror so the
	// twelve o'clock slot renders at the top of the image.
	flip := &model2d.VecScale{Scale: model2d.XY(1, -1)}
	solids := []any{model2d.TransformSolid(flip, band)}
	colors := []color.Color{color.Gray{Y: 0xd0}}
	if glyphs != nil {
		solids = append(solids, model2d.TransformSolid(flip, glyphs))
		colors = append(colors, color.Gray{Y: 0x20})
	}
	return model2d.RasterizeColor(path, solids, colors, scale)
}

// Package layout computes where numerals sit on a watch dial.
//
// The dial lives in a y-up coordinate system with the origin at the dial
// center and twelve o'clock along +Y. Angles are measured clockwise from
// twelve o'clock, so three o'clock is pi/2. A glyph occupies a slot: a
// band between the inner and outer radii, centered on the slot's angle.
package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/unixpickle/model3d/model2d"
)

const (
	// MinBand is the smallest usable band dimension in mm. Anything
	// below it leaves no legible glyph.
	MinBand = 0.1

	// DefaultFitPadding keeps a safety fraction of the available band
	// so neighboring glyphs never touch.
	DefaultFitPadding = 0.9
)

// ErrInsufficientSpace indicates that the configured radii and margins
// leave no room for glyphs. It applies to the dial as a whole, not to a
// single slot.
var ErrInsufficientSpace = errors.New("layout: insufficient space for numerals")

// Params describes one slot on the dial.
type Params struct {
	// Slot is the hour position: 0 is twelve o'clock, 3 is three
	// o'clock. Values wrap modulo 12.
	Slot int

	// SlotCount is how many slots share the dial, usually 12 or 4. It
	// sets the angular width of each slot but not its angle.
	SlotCount int

	InnerRadius float64 // mm
	OuterRadius float64 // mm

	// Margin is the radial clearance between a glyph and each radius, mm.
	Margin float64

	// LateralMargin is the tangential clearance on each side of a
	// glyph, mm.
	LateralMargin float64

	// FitPadding is the fraction of the band a glyph may fill. Zero
	// selects DefaultFitPadding; 1 lets glyphs touch the band edges.
	FitPadding float64

	// Upright keeps glyphs vertical instead of rotating them to face
	// the dial center.
	Upright bool
}

func (p Params) padding() float64 {
	if p.FitPadding == 0 {
		return DefaultFitPadding
	}
	return p.FitPadding
}

// Placement positions a glyph in dial space. It is a scale followed by a
// clockwise rotation followed by a translation.
type Placement struct {
	Center   model2d.Coord
	Rotation float64 // radians, clockwise from twelve o'clock
	Scale    float64
}

// SlotAngle returns the clockwise angle from twelve o'clock of an hour
// slot. The slot count never changes these angles: slot 3 is pi/2 on a
// four slot dial just as on a twelve slot dial.
func SlotAngle(slot int) float64 {
	return float64(((slot%12)+12)%12) * math.Pi / 6
}

// Bands computes the space available to one glyph after margins. The
// radial band spans between the radii; the lateral band is the slot's
// arc length at mid radius. Both must clear MinBand or the whole dial is
// unusable and ErrInsufficientSpace is returned.
func Bands(p Params) (radial, lateral float64, err error) {
	if p.SlotCount <= 0 {
		return 0, 0, fmt.Errorf("%w: slot count %d", ErrInsufficientSpace, p.SlotCount)
	}
	radial = p.OuterRadius - p.InnerRadius - 2*p.Margin
	mid := (p.InnerRadius + p.OuterRadius) / 2
	lateral = mid*2*math.Pi/float64(p.SlotCount) - 2*p.LateralMargin
	if radial < MinBand || lateral < MinBand {
		return 0, 0, fmt.Errorf("%w: radial band %.3gmm, lateral band %.3gmm",
			ErrInsufficientSpace, radial, lateral)
	}
	return radial, lateral, nil
}

// Place computes the placement for a glyph whose local bounding box has
// the given size and is centered on its local origin. The glyph is
// scaled uniformly until its box fills the padded band, positioned at
// mid radius on the slot angle, and rotated to face the dial center
// unless Upright is set.
func Place(p Params, glyphSize model2d.Coord) (Placement, error) {
	radial, lateral, err := Bands(p)
	if err != nil {
		return Placement{}, err
	}
	w := math.Max(glyphSize.X, 1e-9)
	h := math.Max(glyphSize.Y, 1e-9)
	scale := p.padding() * math.Min(lateral/w, radial/h)

	theta := SlotAngle(p.Slot)
	mid := (p.InnerRadius + p.OuterRadius) / 2
	pl := Placement{
		Center: model2d.Coord{X: mid * math.Sin(theta), Y: mid * math.Cos(theta)},
		Scale:  scale,
	}
	if !p.Upright {
		pl.Rotation = theta
	}
	return pl, nil
}

// Apply maps a glyph-local coordinate into dial space. The local +Y axis
// ends up pointing away from the dial center when Rotation equals the
// slot angle.
func (pl Placement) Apply(c model2d.Coord) model2d.Coord {
	sin, cos := math.Sincos(pl.Rotation)
	x := c.X * pl.Scale
	y := c.Y * pl.Scale
	return model2d.Coord{
		X: pl.Center.X + x*cos + y*sin,
		Y: pl.Center.Y - x*sin + y*cos,
	}
}

// WithScale returns a copy of the placement with the scale replaced.
func (pl Placement) WithScale(s float64) Placement {
	pl.Scale = s
	return pl
}

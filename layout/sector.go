package layout

import (
	"math"

	"github.com/unixpickle/model3d/model2d"
)

// A Sector is the wedge of the dial band assigned to one slot: the area
// between two radii and two clockwise-from-twelve angles. It describes
// the true curved boundary, unlike the rectangular band approximation
// used by Place.
type Sector struct {
	InnerRadius float64
	OuterRadius float64
	Start       float64 // radians, clockwise from twelve o'clock
	End         float64 // may be numerically below Start when wrapping
}

// SectorFor computes the sector available to a slot after margins. The
// lateral margin converts to an angular padding at mid radius.
func SectorFor(p Params) Sector {
	theta := SlotAngle(p.Slot)
	mid := (p.InnerRadius + p.OuterRadius) / 2
	var pad float64
	if mid > 0 {
		pad = p.LateralMargin / mid
	}
	half := math.Pi/float64(p.SlotCount) - pad
	if half < 0 {
		half = 0
	}
	return Sector{
		InnerRadius: p.InnerRadius + p.Margin,
		OuterRadius: p.OuterRadius - p.Margin,
		Start:       normalizeAngle(theta - half),
		End:         normalizeAngle(theta + half),
	}
}

// Contains checks a dial-space point against the sector.
func (s Sector) Contains(c model2d.Coord) bool {
	r := math.Hypot(c.X, c.Y)
	if r < s.InnerRadius || r > s.OuterRadius {
		return false
	}
	phi := math.Atan2(c.X, c.Y) // clockwise from twelve o'clock
	if phi < 0 {
		phi += 2 * math.Pi
	}
	if s.Start <= s.End {
		return phi >= s.Start && phi <= s.End
	}
	// The sector wraps past twelve o'clock.
	return phi >= s.Start || phi <= s.End
}

// FitScale refines a placement's scale against the sector's curved
// bounds by binary search. The bounding box scale used by Place treats
// the band as a rectangle; the true wedge usually allows a different
// size. Returns the largest scale in [initial/10, initial*3] whose
// transformed contour vertices all stay inside the sector, or initial
// unchanged when even the smallest candidate pokes out.
func FitScale(contours [][]model2d.Coord, pl Placement, s Sector, initial float64) float64 {
	if initial <= 0 || len(contours) == 0 {
		return initial
	}
	fits := func(scale float64) bool {
		q := pl.WithScale(scale)
		for _, ring := range contours {
			for _, c := range ring {
				if !s.Contains(q.Apply(c)) {
					return false
				}
			}
		}
		return true
	}
	lo, hi := initial/10, initial*3
	best := 0.0
	if fits(lo) {
		best = lo
	}
	for i := 0; i < 50 && hi-lo > 1e-4*initial; i++ {
		mid := (lo + hi) / 2
		if fits(mid) {
			best = mid
			lo = mid
		} else {
			hi = mid
		}
	}
	if best == 0 {
		return initial
	}
	return best
}

func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

package poly

import (
	"fmt"
	"math"

	"github.com/unixpickle/model3d/model2d"
)

const (
	// CleanEpsilon is the distance below which consecutive ring vertices
	// are considered duplicates, in model units (mm).
	CleanEpsilon = 1e-7

	// MinRingArea is the smallest enclosed area a ring may have before it
	// is considered degenerate, in mm^2.
	MinRingArea = 1e-6
)

// Normalize turns raw extracted contours into canonical polygons.
//
// Rings are cleaned first: a repeated closing vertex is dropped, as are
// consecutive near-duplicate vertices and exactly collinear middle
// vertices. Cleaning up-front keeps the vertex set stable, so that the
// triangulation and the extruded side walls later agree on indices.
//
// Each cleaned ring is then classified by containment parity: a ring
// enclosed by an even number of other rings is an exterior, odd is a
// hole. The incoming winding is ignored, which makes the result
// independent of the font's outline convention, and every ring is
// rewound canonically (exteriors counter-clockwise, holes clockwise).
// Holes attach to the innermost exterior that contains them.
//
// Contours describing multiple disjoint parts produce multiple polygons,
// ordered by their first ring's appearance in the input.
func Normalize(rings []Ring) ([]*Polygon, error) {
	cleaned := make([]Ring, 0, len(rings))
	for i, r := range rings {
		c := cleanRing(r)
		if len(c) < 3 || c.Area() < MinRingArea {
			return nil, fmt.Errorf("%w: contour %d collapses during cleaning", ErrDegenerateGeometry, i)
		}
		cleaned = append(cleaned, c)
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: no contours", ErrDegenerateGeometry)
	}

	depths := make([]int, len(cleaned))
	for i, r := range cleaned {
		for j, other := range cleaned {
			if i == j {
				continue
			}
			if other.Contains(representative(r)) {
				depths[i]++
			}
		}
	}

	var polys []*Polygon
	owner := make([]int, len(cleaned))
	polyOf := make(map[int]*Polygon)
	for i, r := range cleaned {
		if depths[i]%2 != 0 {
			continue
		}
		if r.SignedArea() < 0 {
			r = r.Reversed()
		}
		p := &Polygon{Exterior: r}
		polys = append(polys, p)
		polyOf[i] = p
	}
	if len(polys) == 0 {
		return nil, fmt.Errorf("%w: no exterior contour", ErrDegenerateGeometry)
	}

	for i, r := range cleaned {
		if depths[i]%2 == 0 {
			continue
		}
		owner[i] = -1
		best := math.Inf(1)
		for j := range cleaned {
			if _, ok := polyOf[j]; !ok {
				continue
			}
			if !cleaned[j].Contains(representative(r)) {
				continue
			}
			if a := cleaned[j].Area(); a < best {
				best = a
				owner[i] = j
			}
		}
		if owner[i] < 0 {
			return nil, fmt.Errorf("%w: hole contour %d outside every exterior", ErrDegenerateGeometry, i)
		}
		parent := polyOf[owner[i]]
		if !parent.Exterior.ContainsRing(r) {
			return nil, fmt.Errorf("%w: hole contour %d crosses its exterior", ErrDegenerateGeometry, i)
		}
		if r.SignedArea() > 0 {
			r = r.Reversed()
		}
		parent.Holes = append(parent.Holes, r)
	}

	for _, p := range polys {
		for i, a := range p.Holes {
			for _, b := range p.Holes[i+1:] {
				if a.IntersectsRing(b) {
					return nil, fmt.Errorf("%w: holes intersect", ErrDegenerateGeometry)
				}
			}
		}
	}
	return polys, nil
}

// cleanRing drops the repeated closing vertex, merges consecutive
// near-duplicates, and removes exactly collinear middle vertices. Runs
// until stable.
func cleanRing(r Ring) Ring {
	out := r.Clone()
	for {
		n := len(out)
		if n == 0 {
			return out
		}
		if n > 1 && near(out[0], out[n-1]) {
			out = out[:n-1]
			continue
		}
		changed := false
		for i := 0; i < len(out) && len(out) >= 3; i++ {
			prev := out[(i+len(out)-1)%len(out)]
			cur := out[i]
			next := out[(i+1)%len(out)]
			if near(cur, next) || collinear(prev, cur, next) {
				out = append(out[:i], out[i+1:]...)
				changed = true
				i--
			}
		}
		if !changed {
			return out
		}
	}
}

func near(a, b model2d.Coord) bool {
	return math.Abs(a.X-b.X) <= CleanEpsilon && math.Abs(a.Y-b.Y) <= CleanEpsilon
}

func collinear(a, b, c model2d.Coord) bool {
	cross := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	return cross == 0
}

// representative picks a test point for containment queries. Font
// contours never share vertices, so a vertex of one ring is never on
// another ring's boundary and the even-odd test is unambiguous.
func representative(r Ring) model2d.Coord {
	return r[0]
}

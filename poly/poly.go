// Package poly represents glyph contours as polygons with holes and
// triangulates them for extrusion.
//
// A Polygon is one connected part of a glyph: a single exterior ring plus
// zero or more hole rings strictly inside it. Rings are stored open (no
// repeated closing vertex) in a canonical winding: exteriors
// counter-clockwise, holes clockwise, in a y-up coordinate system.
package poly

import (
	"errors"
	"math"

	"github.com/unixpickle/model3d/model2d"
)

var (
	// ErrDegenerateGeometry indicates contours that cannot form a valid
	// polygon: a near-zero-area exterior, a hole outside every exterior,
	// or rings that collapse entirely during cleaning.
	ErrDegenerateGeometry = errors.New("poly: degenerate geometry")

	// ErrTriangulation indicates that ear clipping could not produce a
	// triangulation covering the polygon's area.
	ErrTriangulation = errors.New("poly: triangulation failed")
)

// A Ring is a closed loop of 2D points, stored without a repeated closing
// vertex.
type Ring []model2d.Coord

// SignedArea computes the shoelace area of the ring. The result is
// positive for counter-clockwise rings in a y-up coordinate system.
func (r Ring) SignedArea() float64 {
	var sum float64
	for i, a := range r {
		b := r[(i+1)%len(r)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Area computes the unsigned enclosed area.
func (r Ring) Area() float64 {
	return math.Abs(r.SignedArea())
}

// Contains checks whether c is inside the ring using even-odd ray
// crossing. Points exactly on the boundary may land on either side.
func (r Ring) Contains(c model2d.Coord) bool {
	inside := false
	for i, a := range r {
		b := r[(i+1)%len(r)]
		if (a.Y > c.Y) != (b.Y > c.Y) &&
			c.X < (b.X-a.X)*(c.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}
	return inside
}

// ContainsRing checks that every vertex of other is inside r and that no
// edge of other crosses an edge of r.
func (r Ring) ContainsRing(other Ring) bool {
	for _, c := range other {
		if !r.Contains(c) {
			return false
		}
	}
	return !r.IntersectsRing(other)
}

// IntersectsRing checks whether any edge of r properly crosses any edge
// of other.
func (r Ring) IntersectsRing(other Ring) bool {
	for i, a1 := range r {
		a2 := r[(i+1)%len(r)]
		for j, b1 := range other {
			b2 := other[(j+1)%len(other)]
			if segmentsCross(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

// IsSimple checks that no two non-adjacent edges of the ring intersect.
func (r Ring) IsSimple() bool {
	n := len(r)
	if n < 3 {
		return false
	}
	for i := 0; i < n; i++ {
		a1, a2 := r[i], r[(i+1)%n]
		for j := i + 1; j < n; j++ {
			if j == i || (j+1)%n == i || j == (i+1)%n {
				continue
			}
			b1, b2 := r[j], r[(j+1)%n]
			if segmentsCross(a1, a2, b1, b2) {
				return false
			}
		}
	}
	return true
}

// Bounds returns the axis-aligned bounding box of the ring.
func (r Ring) Bounds() (min, max model2d.Coord) {
	if len(r) == 0 {
		return
	}
	min, max = r[0], r[0]
	for _, c := range r[1:] {
		min.X = math.Min(min.X, c.X)
		min.Y = math.Min(min.Y, c.Y)
		max.X = math.Max(max.X, c.X)
		max.Y = math.Max(max.Y, c.Y)
	}
	return
}

// Reversed returns a copy of the ring with the opposite winding.
func (r Ring) Reversed() Ring {
	res := make(Ring, len(r))
	for i, c := range r {
		res[len(r)-1-i] = c
	}
	return res
}

// Clone returns a deep copy of the ring.
func (r Ring) Clone() Ring {
	return append(Ring{}, r...)
}

// Map returns a new ring with f applied to every vertex.
func (r Ring) Map(f func(model2d.Coord) model2d.Coord) Ring {
	res := make(Ring, len(r))
	for i, c := range r {
		res[i] = f(c)
	}
	return res
}

// A Polygon is one exterior ring with zero or more holes strictly inside
// it. Construct polygons with Normalize to get canonical winding.
type Polygon struct {
	Exterior Ring
	Holes    []Ring
}

// Rings returns the exterior followed by the holes.
func (p *Polygon) Rings() []Ring {
	res := make([]Ring, 0, 1+len(p.Holes))
	res = append(res, p.Exterior)
	return append(res, p.Holes...)
}

// NumVertices counts the vertices across all rings.
func (p *Polygon) NumVertices() int {
	n := len(p.Exterior)
	for _, h := range p.Holes {
		n += len(h)
	}
	return n
}

// Area computes the enclosed area: the exterior minus the holes.
func (p *Polygon) Area() float64 {
	a := p.Exterior.Area()
	for _, h := range p.Holes {
		a -= h.Area()
	}
	return a
}

// Bounds returns the bounding box of the exterior ring.
func (p *Polygon) Bounds() (min, max model2d.Coord) {
	return p.Exterior.Bounds()
}

// Map returns a new polygon with f applied to every vertex of every ring.
// The ring structure and winding are preserved as long as f preserves
// orientation.
func (p *Polygon) Map(f func(model2d.Coord) model2d.Coord) *Polygon {
	res := &Polygon{Exterior: p.Exterior.Map(f)}
	for _, h := range p.Holes {
		res.Holes = append(res.Holes, h.Map(f))
	}
	return res
}

// Clone returns a deep copy of the polygon.
func (p *Polygon) Clone() *Polygon {
	res := &Polygon{Exterior: p.Exterior.Clone()}
	for _, h := range p.Holes {
		res.Holes = append(res.Holes, h.Clone())
	}
	return res
}

// Flatten concatenates the polygon's rings into a single vertex slice and
// reports the [start, end) span of each ring within it. The exterior comes
// first. Triangulate indexes into this same flattening, which lets callers
// pair cap triangles with side walls over shared indices.
func (p *Polygon) Flatten() ([]model2d.Coord, [][2]int) {
	verts := make([]model2d.Coord, 0, p.NumVertices())
	spans := make([][2]int, 0, 1+len(p.Holes))
	for _, r := range p.Rings() {
		start := len(verts)
		verts = append(verts, r...)
		spans = append(spans, [2]int{start, len(verts)})
	}
	return verts, spans
}

// segmentsCross reports a proper crossing between segments a1-a2 and
// b1-b2. Shared endpoints do not count as crossings.
func segmentsCross(a1, a2, b1, b2 model2d.Coord) bool {
	if a1 == b1 || a1 == b2 || a2 == b1 || a2 == b2 {
		return false
	}
	d1 := crossSign(b1, b2, a1)
	d2 := crossSign(b1, b2, a2)
	d3 := crossSign(a1, a2, b1)
	d4 := crossSign(a1, a2, b2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	// Collinear overlap counts as a crossing too.
	if d1 == 0 && onSegment2(b1, b2, a1) {
		return true
	}
	if d2 == 0 && onSegment2(b1, b2, a2) {
		return true
	}
	if d3 == 0 && onSegment2(a1, a2, b1) {
		return true
	}
	if d4 == 0 && onSegment2(a1, a2, b2) {
		return true
	}
	return false
}

func crossSign(a, b, c model2d.Coord) int {
	v := (b.X-a.X)*(c.Y-a.Y) - (b.Y-a.Y)*(c.X-a.X)
	if v > 0 {
		return 1
	} else if v < 0 {
		return -1
	}
	return 0
}

func onSegment2(a, b, c model2d.Coord) bool {
	return c.X >= math.Min(a.X, b.X) && c.X <= math.Max(a.X, b.X) &&
		c.Y >= math.Min(a.Y, b.Y) && c.Y <= math.Max(a.Y, b.Y)
}

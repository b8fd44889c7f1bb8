package distort

import (
	"math"

	"github.com/unixpickle/dialmesh/poly"
	"github.com/unixpickle/model3d/model2d"
)

// Filter strengths at intensity 1, as fractions of the glyph's
// character size (largest bounding box dimension).
const (
	edgeScale      = 0.05
	roughnessScale = 0.03
	stretchScale   = 0.1
	erosionScale   = 0.2

	// noiseFrequency is how many coherent noise periods span one
	// character size.
	noiseFrequency = 8
)

func charSize2D(p *poly.Polygon) float64 {
	min, max := p.Bounds()
	return math.Max(max.X-min.X, max.Y-min.Y)
}

// vertexMean is the glyph's local center for radial filters.
func vertexMean(p *poly.Polygon) model2d.Coord {
	var sum model2d.Coord
	n := 0
	for _, r := range p.Rings() {
		for _, c := range r {
			sum = sum.Add(c)
			n++
		}
	}
	if n == 0 {
		return model2d.Coord{}
	}
	return sum.Scale(1 / float64(n))
}

// ringNormals computes per-vertex normals pointing away from the
// material. With canonical winding (exterior counter-clockwise, holes
// clockwise) the right-hand edge perpendicular does this for both ring
// kinds: outward on exteriors, into the cavity on holes.
func ringNormals(r poly.Ring) []model2d.Coord {
	n := len(r)
	out := make([]model2d.Coord, n)
	for i := range r {
		prev := r[(i+n-1)%n]
		next := r[(i+1)%n]
		tx := (r[i].X - prev.X) + (next.X - r[i].X)
		ty := (r[i].Y - prev.Y) + (next.Y - r[i].Y)
		l := math.Hypot(tx, ty)
		if l > 0 {
			out[i] = model2d.Coord{X: ty / l, Y: -tx / l}
		}
	}
	return out
}

// offsetLimit caps a vertex displacement at half its shortest adjacent
// edge, which keeps neighboring vertices from folding over each other.
func offsetLimit(r poly.Ring, i int) float64 {
	n := len(r)
	prev := r[(i+n-1)%n]
	next := r[(i+1)%n]
	d0 := math.Hypot(r[i].X-prev.X, r[i].Y-prev.Y)
	d1 := math.Hypot(next.X-r[i].X, next.Y-r[i].Y)
	return 0.5 * math.Min(d0, d1)
}

func perturbRings(p *poly.Polygon, offset func(ring, vertex int, c model2d.Coord) float64) *poly.Polygon {
	out := &poly.Polygon{}
	for ri, r := range p.Rings() {
		normals := ringNormals(r)
		nr := make(poly.Ring, len(r))
		for i, c := range r {
			off := offset(ri, i, c)
			limit := offsetLimit(r, i)
			off = clamp(off, -limit, limit)
			nr[i] = model2d.Coord{
				X: c.X + normals[i].X*off,
				Y: c.Y + normals[i].Y*off,
			}
		}
		if ri == 0 {
			out.Exterior = nr
		} else {
			out.Holes = append(out.Holes, nr)
		}
	}
	return out
}

func irregularEdges(p *poly.Polygon, s Spec) *poly.Polygon {
	base := s.Intensity * edgeScale * charSize2D(p)
	return perturbRings(p, func(ring, vertex int, c model2d.Coord) float64 {
		return hashSym(s.Seed, ring, vertex) * base
	})
}

func roughenContours(p *poly.Polygon, s Spec) *poly.Polygon {
	size := charSize2D(p)
	base := s.Intensity * roughnessScale * size
	field := newNoiseField(s.Seed, noiseFrequency/math.Max(size, 1e-9))
	return perturbRings(p, func(ring, vertex int, c model2d.Coord) float64 {
		return field.at2(c.X, c.Y) * base
	})
}

func stretchContours(p *poly.Polygon, s Spec) *poly.Polygon {
	center := vertexMean(p)
	var rmax float64
	for _, r := range p.Rings() {
		for _, c := range r {
			rmax = math.Max(rmax, math.Hypot(c.X-center.X, c.Y-center.Y))
		}
	}
	if rmax == 0 {
		return p.Clone()
	}
	return p.Map(func(c model2d.Coord) model2d.Coord {
		d := c.Add(center.Scale(-1))
		r := math.Hypot(d.X, d.Y)
		k := 1 + s.Intensity*stretchScale*(r/rmax)
		return center.Add(d.Scale(k))
	})
}

func erodeContours(p *poly.Polygon, s Spec) *poly.Polygon {
	center := vertexMean(p)
	k := 1 - s.Intensity*erosionScale
	return p.Map(func(c model2d.Coord) model2d.Coord {
		return center.Add(c.Add(center.Scale(-1)).Scale(k))
	})
}

package poly

import (
	"fmt"
	"math"
	"sort"

	"github.com/unixpickle/model3d/model2d"
)

// Ear clipping with hole bridging, following Mapbox's earcut algorithm.
// Holes are joined to the exterior through bridge edges so that a single
// ring remains, which is then clipped one ear at a time with rescue
// passes for imperfect input. The z-order curve acceleration from the
// original is omitted since glyph contours stay small.

// coverageTolerance is the maximum relative difference between the
// polygon area and the summed triangle area before triangulation is
// considered failed.
const coverageTolerance = 1e-6

// Triangulate splits the polygon into triangles indexed into Flatten's
// vertex order. Every returned triangle winds counter-clockwise. If the
// triangles do not cover the polygon's area (exterior minus holes), an
// error wrapping ErrTriangulation is returned.
func (p *Polygon) Triangulate() ([][3]int, error) {
	verts, spans := p.Flatten()
	want := p.Area()
	if want < MinRingArea {
		return nil, fmt.Errorf("%w: polygon encloses no area", ErrTriangulation)
	}

	outer := linkedRing(verts[spans[0][0]:spans[0][1]], spans[0][0], true)
	if outer == nil || outer.next == outer.prev {
		return nil, fmt.Errorf("%w: exterior ring collapses", ErrTriangulation)
	}
	if len(spans) > 1 {
		outer = eliminateHoles(verts, spans[1:], outer)
	}

	var tris [][3]int
	earcutLinked(outer, &tris, 0)
	if len(tris) == 0 {
		return nil, fmt.Errorf("%w: no triangles produced", ErrTriangulation)
	}

	var got float64
	for _, t := range tris {
		got += triangleArea(verts[t[0]], verts[t[1]], verts[t[2]])
	}
	if dev := math.Abs(got-want) / want; dev > coverageTolerance {
		return nil, fmt.Errorf("%w: %.3g%% of the area left uncovered", ErrTriangulation, dev*100)
	}
	return tris, nil
}

func triangleArea(a, b, c model2d.Coord) float64 {
	return math.Abs((b.X-a.X)*(c.Y-a.Y)-(b.Y-a.Y)*(c.X-a.X)) / 2
}

type earNode struct {
	i          int // index into the flattened vertex slice
	x, y       float64
	prev, next *earNode
	steiner    bool
}

// area is negative when the corner p->q->r turns counter-clockwise.
func area(p, q, r *earNode) float64 {
	return (q.y-p.y)*(r.x-q.x) - (q.x-p.x)*(r.y-q.y)
}

func nodesEqual(a, b *earNode) bool {
	return a.x == b.x && a.y == b.y
}

func insertNode(i int, c model2d.Coord, last *earNode) *earNode {
	n := &earNode{i: i, x: c.X, y: c.Y}
	if last == nil {
		n.prev = n
		n.next = n
	} else {
		n.next = last.next
		n.prev = last
		last.next.prev = n
		last.next = n
	}
	return n
}

func removeNode(n *earNode) {
	n.next.prev = n.prev
	n.prev.next = n.next
}

// linkedRing builds a circular doubly linked list from a ring, ordered so
// that its signed area is positive when wantPositive is set (exteriors)
// and negative otherwise (holes).
func linkedRing(verts []model2d.Coord, base int, wantPositive bool) *earNode {
	var last *earNode
	if wantPositive == (Ring(verts).SignedArea() > 0) {
		for i := 0; i < len(verts); i++ {
			last = insertNode(base+i, verts[i], last)
		}
	} else {
		for i := len(verts) - 1; i >= 0; i-- {
			last = insertNode(base+i, verts[i], last)
		}
	}
	if last != nil && nodesEqual(last, last.next) {
		removeNode(last)
		last = last.next
	}
	return last
}

// filterPoints removes duplicate and collinear nodes between start and
// end until no more can be removed.
func filterPoints(start, end *earNode) *earNode {
	if start == nil {
		return nil
	}
	if end == nil {
		end = start
	}
	p := start
	for {
		again := false
		if !p.steiner && (nodesEqual(p, p.next) || area(p.prev, p, p.next) == 0) {
			removeNode(p)
			p = p.prev
			end = p
			if p == p.next {
				break
			}
			again = true
		} else {
			p = p.next
		}
		if !again && p == end {
			break
		}
	}
	return end
}

// earcutLinked clips ears from the ring until it is exhausted. When no
// ear can be found it escalates: filter points, cure local
// self-intersections, then split the remaining polygon in two.
func earcutLinked(ear *earNode, tris *[][3]int, pass int) {
	if ear == nil {
		return
	}
	stop := ear
	for ear.prev != ear.next {
		prev := ear.prev
		next := ear.next
		if isEar(ear) {
			*tris = append(*tris, [3]int{prev.i, ear.i, next.i})
			removeNode(ear)
			ear = next.next
			stop = next.next
			continue
		}
		ear = next
		if ear == stop {
			switch pass {
			case 0:
				earcutLinked(filterPoints(ear, nil), tris, 1)
			case 1:
				ear = cureLocalIntersections(filterPoints(ear, nil), tris)
				earcutLinked(ear, tris, 2)
			case 2:
				splitEarcut(ear, tris)
			}
			return
		}
	}
}

func isEar(ear *earNode) bool {
	a, b, c := ear.prev, ear, ear.next
	if area(a, b, c) >= 0 {
		return false // reflex corner
	}
	x0 := math.Min(a.x, math.Min(b.x, c.x))
	y0 := math.Min(a.y, math.Min(b.y, c.y))
	x1 := math.Max(a.x, math.Max(b.x, c.x))
	y1 := math.Max(a.y, math.Max(b.y, c.y))
	for p := c.next; p != a; p = p.next {
		if p.x >= x0 && p.x <= x1 && p.y >= y0 && p.y <= y1 &&
			pointInTriangle(a.x, a.y, b.x, b.y, c.x, c.y, p.x, p.y) &&
			area(p.prev, p, p.next) >= 0 {
			return false
		}
	}
	return true
}

// cureLocalIntersections fixes cases where two adjacent edges cross by
// clipping the crossing pair as a triangle.
func cureLocalIntersections(start *earNode, tris *[][3]int) *earNode {
	p := start
	for {
		a, b := p.prev, p.next.next
		if !nodesEqual(a, b) && edgesIntersect(a, p, p.next, b) &&
			locallyInside(a, b) && locallyInside(b, a) {
			*tris = append(*tris, [3]int{a.i, p.i, b.i})
			removeNode(p)
			removeNode(p.next)
			p = b
			start = b
		}
		p = p.next
		if p == start {
			break
		}
	}
	return filterPoints(p, nil)
}

// splitEarcut searches for a valid diagonal, splits the ring along it,
// and triangulates both halves independently.
func splitEarcut(start *earNode, tris *[][3]int) {
	a := start
	for {
		for b := a.next.next; b != a.prev; b = b.next {
			if a.i != b.i && isValidDiagonal(a, b) {
				c := splitPolygon(a, b)
				a = filterPoints(a, a.next)
				c = filterPoints(c, c.next)
				earcutLinked(a, tris, 0)
				earcutLinked(c, tris, 0)
				return
			}
		}
		a = a.next
		if a == start {
			return
		}
	}
}

// eliminateHoles links every hole ring into the exterior ring through
// bridge edges, leftmost hole first.
func eliminateHoles(verts []model2d.Coord, holeSpans [][2]int, outer *earNode) *earNode {
	queue := make([]*earNode, 0, len(holeSpans))
	for _, span := range holeSpans {
		list := linkedRing(verts[span[0]:span[1]], span[0], false)
		if list == nil {
			continue
		}
		if list == list.next {
			list.steiner = true
		}
		queue = append(queue, leftmost(list))
	}
	sort.Slice(queue, func(i, j int) bool {
		if queue[i].x != queue[j].x {
			return queue[i].x < queue[j].x
		}
		return queue[i].y < queue[j].y
	})
	for _, h := range queue {
		outer = eliminateHole(h, outer)
	}
	return outer
}

func eliminateHole(hole, outer *earNode) *earNode {
	bridge := findHoleBridge(hole, outer)
	if bridge == nil {
		return outer
	}
	bridgeReverse := splitPolygon(bridge, hole)
	filterPoints(bridgeReverse, bridgeReverse.next)
	return filterPoints(bridge, bridge.next)
}

// findHoleBridge finds an exterior vertex visible from the hole's
// leftmost vertex, David Eberly style: cast a leftward ray, then refine
// among vertices inside the candidate triangle.
func findHoleBridge(hole, outer *earNode) *earNode {
	p := outer
	hx, hy := hole.x, hole.y
	qx := math.Inf(-1)
	var m *earNode

	for {
		if hy <= p.y && hy >= p.next.y && p.next.y != p.y {
			x := p.x + (hy-p.y)*(p.next.x-p.x)/(p.next.y-p.y)
			if x <= hx && x > qx {
				qx = x
				m = p
				if p.x >= p.next.x {
					m = p.next
				}
				if x == hx {
					// The ray hits a vertex exactly.
					return m
				}
			}
		}
		p = p.next
		if p == outer {
			break
		}
	}
	if m == nil {
		return nil
	}

	stop := m
	mx, my := m.x, m.y
	tanMin := math.Inf(1)
	p = m
	for {
		ax, cx := qx, hx
		if hy < my {
			ax, cx = hx, qx
		}
		if hx >= p.x && p.x >= mx && hx != p.x &&
			pointInTriangle(ax, hy, mx, my, cx, hy, p.x, p.y) {
			tan := math.Abs(hy-p.y) / (hx - p.x)
			if locallyInside(p, hole) &&
				(tan < tanMin || (tan == tanMin && (p.x > m.x || (p.x == m.x && sectorContains(m, p))))) {
				m = p
				tanMin = tan
			}
		}
		p = p.next
		if p == stop {
			break
		}
	}
	return m
}

// sectorContains reports whether the angular sector at vertex m contains
// the sector at vertex p, with both at the same coordinates.
func sectorContains(m, p *earNode) bool {
	return area(m.prev, m, p.prev) < 0 && area(p.next, m, m.next) < 0
}

func leftmost(start *earNode) *earNode {
	p := start
	best := start
	for {
		if p.x < best.x || (p.x == best.x && p.y < best.y) {
			best = p
		}
		p = p.next
		if p == start {
			return best
		}
	}
}

func pointInTriangle(ax, ay, bx, by, cx, cy, px, py float64) bool {
	return (cx-px)*(ay-py) >= (ax-px)*(cy-py) &&
		(ax-px)*(by-py) >= (bx-px)*(ay-py) &&
		(bx-px)*(cy-py) >= (cx-px)*(by-py)
}

// isValidDiagonal reports whether a-b is a chord that stays inside the
// polygon and crosses no edges.
func isValidDiagonal(a, b *earNode) bool {
	return a.next.i != b.i && a.prev.i != b.i && !intersectsPolygon(a, b) &&
		(locallyInside(a, b) && locallyInside(b, a) && middleInside(a, b) &&
			(area(a.prev, a, b.prev) != 0 || area(a, b.prev, b) != 0) ||
			nodesEqual(a, b) && area(a.prev, a, a.next) > 0 && area(b.prev, b, b.next) > 0)
}

func edgesIntersect(p1, q1, p2, q2 *earNode) bool {
	o1 := sgn(area(p1, q1, p2))
	o2 := sgn(area(p1, q1, q2))
	o3 := sgn(area(p2, q2, p1))
	o4 := sgn(area(p2, q2, q1))
	if o1 != o2 && o3 != o4 {
		return true
	}
	if o1 == 0 && onSegmentNode(p1, p2, q1) {
		return true
	}
	if o2 == 0 && onSegmentNode(p1, q2, q1) {
		return true
	}
	if o3 == 0 && onSegmentNode(p2, p1, q2) {
		return true
	}
	if o4 == 0 && onSegmentNode(p2, q1, q2) {
		return true
	}
	return false
}

func onSegmentNode(p, q, r *earNode) bool {
	return q.x <= math.Max(p.x, r.x) && q.x >= math.Min(p.x, r.x) &&
		q.y <= math.Max(p.y, r.y) && q.y >= math.Min(p.y, r.y)
}

func sgn(v float64) int {
	if v > 0 {
		return 1
	} else if v < 0 {
		return -1
	}
	return 0
}

// intersectsPolygon checks the diagonal a-b against every edge of the
// ring containing a.
func intersectsPolygon(a, b *earNode) bool {
	p := a
	for {
		if p.i != a.i && p.next.i != a.i && p.i != b.i && p.next.i != b.i &&
			edgesIntersect(p, p.next, a, b) {
			return true
		}
		p = p.next
		if p == a {
			return false
		}
	}
}

// locallyInside reports whether the diagonal from a to b heads into the
// polygon interior at a.
func locallyInside(a, b *earNode) bool {
	if area(a.prev, a, a.next) < 0 {
		return area(a, b, a.next) >= 0 && area(a, a.prev, b) >= 0
	}
	return area(a, b, a.prev) < 0 || area(a, a.next, b) < 0
}

// middleInside checks that the midpoint of a-b lies inside the ring.
func middleInside(a, b *earNode) bool {
	p := a
	inside := false
	px := (a.x + b.x) / 2
	py := (a.y + b.y) / 2
	for {
		if ((p.y > py) != (p.next.y > py)) && p.next.y != p.y &&
			px < (p.next.x-p.x)*(py-p.y)/(p.next.y-p.y)+p.x {
			inside = !inside
		}
		p = p.next
		if p == a {
			return inside
		}
	}
}

// splitPolygon links a and b with a bridge. Applied within one ring it
// splits the ring in two; applied across rings it merges them.
func splitPolygon(a, b *earNode) *earNode {
	a2 := &earNode{i: a.i, x: a.x, y: a.y}
	b2 := &earNode{i: b.i, x: b.x, y: b.y}
	an := a.next
	bp := b.prev

	a.next = b
	b.prev = a
	a2.next = an
	an.prev = a2
	b2.next = a2
	a2.prev = b2
	bp.next = b2
	b2.prev = bp
	return b2
}

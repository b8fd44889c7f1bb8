package glyph

import (
	"math"
	"testing"

	"github.com/golang/freetype/truetype"
	"github.com/unixpickle/dialmesh/poly"
	"github.com/unixpickle/model3d/model2d"
	"golang.org/x/image/math/fixed"
)

func ttPoint(x, y float64, on bool) truetype.Point {
	var flags uint32
	if on {
		flags = 1
	}
	return truetype.Point{
		X:     fixed.Int26_6(int32(x * 64)),
		Y:     fixed.Int26_6(int32(y * 64)),
		Flags: flags,
	}
}

func checkRing(t *testing.T, got poly.Ring, want []model2d.Coord) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("ring has %d points, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if math.Abs(got[i].X-want[i].X) > 1e-9 || math.Abs(got[i].Y-want[i].Y) > 1e-9 {
			t.Errorf("point %d is %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFlattenQuad(t *testing.T) {
	p0 := model2d.Coord{X: 0, Y: 0}
	p1 := model2d.Coord{X: 1, Y: 2}
	p2 := model2d.Coord{X: 2, Y: 0}
	pts := flattenQuad(p0, p1, p2, 4)
	if len(pts) != 4 {
		t.Fatalf("got %d points, want 4", len(pts))
	}
	if pts[3] != p2 {
		t.Errorf("final point is %v, want %v", pts[3], p2)
	}
	// At t=0.5 a quadratic evaluates to (p0 + 2*p1 + p2)/4.
	mid := model2d.Coord{X: 1, Y: 1}
	if math.Abs(pts[1].X-mid.X) > 1e-9 || math.Abs(pts[1].Y-mid.Y) > 1e-9 {
		t.Errorf("midpoint is %v, want %v", pts[1], mid)
	}
}

func TestFlattenContourLines(t *testing.T) {
	pts := []truetype.Point{
		ttPoint(0, 0, true),
		ttPoint(2, 0, true),
		ttPoint(2, 2, true),
		ttPoint(0, 2, true),
	}
	ring := flattenContour(pts, 0, 1, 8)
	checkRing(t, ring, []model2d.Coord{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2}, {X: 0, Y: 2},
	})
}

func TestFlattenContourQuadratic(t *testing.T) {
	pts := []truetype.Point{
		ttPoint(0, 0, true),
		ttPoint(1, 1, false),
		ttPoint(2, 0, true),
	}
	ring := flattenContour(pts, 0, 1, 2)
	checkRing(t, ring, []model2d.Coord{
		{X: 0, Y: 0}, {X: 1, Y: 0.5}, {X: 2, Y: 0},
	})
}

func TestFlattenContourImpliedOnCurve(t *testing.T) {
	pts := []truetype.Point{
		ttPoint(0, 0, true),
		ttPoint(1, 1, false),
		ttPoint(3, 1, false),
		ttPoint(4, 0, true),
	}
	ring := flattenContour(pts, 0, 1, 1)
	checkRing(t, ring, []model2d.Coord{
		{X: 0, Y: 0}, {X: 2, Y: 1}, {X: 4, Y: 0},
	})
}

func TestFlattenContourAllOffCurve(t *testing.T) {
	pts := []truetype.Point{
		ttPoint(1, 0, false),
		ttPoint(0, 1, false),
		ttPoint(-1, 0, false),
		ttPoint(0, -1, false),
	}
	ring := flattenContour(pts, 0, 1, 1)
	checkRing(t, ring, []model2d.Coord{
		{X: 0.5, Y: -0.5}, {X: 0.5, Y: 0.5}, {X: -0.5, Y: 0.5}, {X: -0.5, Y: -0.5},
	})
	if !ring.IsSimple() {
		t.Error("ring from all off-curve contour is not simple")
	}
}

func TestFlattenContourOffCurveStart(t *testing.T) {
	// The contour starts on an off-curve point but ends on-curve, so the
	// walk anchors at the trailing point.
	pts := []truetype.Point{
		ttPoint(1, 1, false),
		ttPoint(2, 0, true),
		ttPoint(2, 2, true),
		ttPoint(0, 0, true),
	}
	ring := flattenContour(pts, 0, 1, 1)
	checkRing(t, ring, []model2d.Coord{
		{X: 0, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 2},
	})
}

func TestFlattenContourPenAndScale(t *testing.T) {
	pts := []truetype.Point{
		ttPoint(0, 0, true),
		ttPoint(2, 4, true),
		ttPoint(4, 0, true),
	}
	ring := flattenContour(pts, 10, 0.5, 4)
	checkRing(t, ring, []model2d.Coord{
		{X: 5, Y: 0}, {X: 6, Y: 2}, {X: 7, Y: 0},
	})
}

func TestFlattenContourDegenerate(t *testing.T) {
	if ring := flattenContour(nil, 0, 1, 8); ring != nil {
		t.Errorf("empty contour produced %v", ring)
	}
	two := []truetype.Point{ttPoint(0, 0, true), ttPoint(1, 0, true)}
	if ring := flattenContour(two, 0, 1, 8); ring != nil {
		t.Errorf("two-point contour produced %v", ring)
	}
}

func TestLabelOutlinesNilFont(t *testing.T) {
	if _, err := LabelOutlines(nil, "12", 10, Options{}); err == nil {
		t.Fatal("expected an error for a nil font")
	}
}

package glyph

import (
	"math"
	"testing"

	"github.com/unixpickle/dialmesh/poly"
)

var systemFontPaths = []string{
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	"/usr/share/fonts/truetype/freefont/FreeSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/usr/share/fonts/dejavu/DejaVuSans.ttf",
	"/System/Library/Fonts/Supplemental/Arial.ttf",
}

func loadSystemFont(t *testing.T) *Font {
	t.Helper()
	for _, path := range systemFontPaths {
		if f, err := LoadFont(path); err == nil {
			return f
		}
	}
	t.Skip("no system TrueType font available")
	return nil
}

func labelBounds(t *testing.T, rings []poly.Ring) (lo, hi [2]float64) {
	t.Helper()
	if len(rings) == 0 {
		t.Fatal("no rings")
	}
	rLo, rHi := rings[0].Bounds()
	lo = [2]float64{rLo.X, rLo.Y}
	hi = [2]float64{rHi.X, rHi.Y}
	for _, r := range rings[1:] {
		rLo, rHi = r.Bounds()
		lo[0] = math.Min(lo[0], rLo.X)
		lo[1] = math.Min(lo[1], rLo.Y)
		hi[0] = math.Max(hi[0], rHi.X)
		hi[1] = math.Max(hi[1], rHi.Y)
	}
	return lo, hi
}

func TestSourceContoursCentered(t *testing.T) {
	src := &Source{Font: loadSystemFont(t), Options: Options{CurveSegments: 8, Kerning: true}}
	rings, err := src.Contours("12", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rings) < 2 {
		t.Fatalf("expected at least one ring per digit, got %d", len(rings))
	}
	lo, hi := labelBounds(t, rings)
	if math.Abs(lo[0]+hi[0]) > 1e-9 || math.Abs(lo[1]+hi[1]) > 1e-9 {
		t.Errorf("bounds not centered: [%v %v] to [%v %v]", lo[0], lo[1], hi[0], hi[1])
	}
	height := hi[1] - lo[1]
	if height < 3 || height > 15 {
		t.Errorf("height %v is not near the requested size", height)
	}
}

func TestSourceContoursNormalize(t *testing.T) {
	src := &Source{Font: loadSystemFont(t), Options: Options{CurveSegments: 16}}
	for _, label := range []string{"8", "12", "IX"} {
		rings, err := src.Contours(label, 10)
		if err != nil {
			t.Fatalf("%s: %v", label, err)
		}
		polys, err := poly.Normalize(rings)
		if err != nil {
			t.Fatalf("%s: %v", label, err)
		}
		if len(polys) == 0 {
			t.Fatalf("%s: no polygons", label)
		}
		for _, p := range polys {
			if p.Exterior.SignedArea() <= 0 {
				t.Errorf("%s: exterior not counterclockwise", label)
			}
		}
	}
}

func TestSourceContoursScale(t *testing.T) {
	src := &Source{Font: loadSystemFont(t), Options: Options{CurveSegments: 8}}
	small, err := src.Contours("7", 10)
	if err != nil {
		t.Fatal(err)
	}
	large, err := src.Contours("7", 20)
	if err != nil {
		t.Fatal(err)
	}
	sLo, sHi := labelBounds(t, small)
	lLo, lHi := labelBounds(t, large)
	ratio := (lHi[1] - lLo[1]) / (sHi[1] - sLo[1])
	if math.Abs(ratio-2) > 1e-6 {
		t.Errorf("doubling the size scaled the height by %v", ratio)
	}
}

func TestSourceContoursSpacing(t *testing.T) {
	font := loadSystemFont(t)
	narrow := &Source{Font: font, Options: Options{CurveSegments: 8, Spacing: 1}}
	wide := &Source{Font: font, Options: Options{CurveSegments: 8, Spacing: 2}}
	nRings, err := narrow.Contours("11", 10)
	if err != nil {
		t.Fatal(err)
	}
	wRings, err := wide.Contours("11", 10)
	if err != nil {
		t.Fatal(err)
	}
	nLo, nHi := labelBounds(t, nRings)
	wLo, wHi := labelBounds(t, wRings)
	if wHi[0]-wLo[0] <= nHi[0]-nLo[0] {
		t.Error("doubled spacing did not widen the label")
	}
}

func TestSourceContoursValidation(t *testing.T) {
	src := &Source{Font: loadSystemFont(t)}
	if _, err := src.Contours("12", 0); err == nil {
		t.Error("expected an error for zero size")
	}
	if _, err := src.Contours("12", -1); err == nil {
		t.Error("expected an error for negative size")
	}
	bad := &Source{Font: src.Font, Options: Options{Spacing: -1}}
	if _, err := bad.Contours("12", 10); err == nil {
		t.Error("expected an error for negative spacing")
	}
	rings, err := src.Contours("", 10)
	if err != nil {
		t.Fatal(err)
	}
	if rings != nil {
		t.Errorf("empty label produced %d rings", len(rings))
	}
}

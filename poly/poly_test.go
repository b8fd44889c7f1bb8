package poly

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/model3d/model2d"
)

func squareRing(cx, cy, half float64) Ring {
	return Ring{
		{X: cx - half, Y: cy - half},
		{X: cx + half, Y: cy - half},
		{X: cx + half, Y: cy + half},
		{X: cx - half, Y: cy + half},
	}
}

func TestRingSignedArea(t *testing.T) {
	sq := squareRing(0, 0, 1)
	assert.InDelta(t, 4.0, sq.SignedArea(), 1e-12)
	assert.InDelta(t, -4.0, sq.Reversed().SignedArea(), 1e-12)
	assert.InDelta(t, 4.0, sq.Reversed().Area(), 1e-12)
}

func TestRingContains(t *testing.T) {
	sq := squareRing(0, 0, 1)
	assert.True(t, sq.Contains(model2d.Coord{X: 0, Y: 0}))
	assert.True(t, sq.Contains(model2d.Coord{X: 0.9, Y: -0.9}))
	assert.False(t, sq.Contains(model2d.Coord{X: 1.5, Y: 0}))
	assert.False(t, sq.Contains(model2d.Coord{X: 0, Y: -2}))
}

func TestRingIsSimple(t *testing.T) {
	assert.True(t, squareRing(0, 0, 1).IsSimple())

	bowtie := Ring{
		{X: 0, Y: 0},
		{X: 2, Y: 2},
		{X: 2, Y: 0},
		{X: 0, Y: 2},
	}
	assert.False(t, bowtie.IsSimple())
}

func TestRingBounds(t *testing.T) {
	r := Ring{{X: -1, Y: 2}, {X: 3, Y: -4}, {X: 0, Y: 0}}
	min, max := r.Bounds()
	assert.Equal(t, model2d.Coord{X: -1, Y: -4}, min)
	assert.Equal(t, model2d.Coord{X: 3, Y: 2}, max)
}

func TestRingContainsRing(t *testing.T) {
	outer := squareRing(0, 0, 2)
	inner := squareRing(0, 0, 1)
	assert.True(t, outer.ContainsRing(inner))
	assert.False(t, inner.ContainsRing(outer))

	// Overlapping rings contain neither.
	shifted := squareRing(1.5, 0, 1)
	assert.False(t, outer.ContainsRing(shifted))
	assert.False(t, shifted.ContainsRing(outer))
}

func TestPolygonAreaAndFlatten(t *testing.T) {
	p := &Polygon{
		Exterior: squareRing(0, 0, 2),
		Holes:    []Ring{squareRing(0, 0, 0.5).Reversed()},
	}
	assert.InDelta(t, 15.0, p.Area(), 1e-12)
	assert.Equal(t, 8, p.NumVertices())

	verts, spans := p.Flatten()
	require.Len(t, verts, 8)
	require.Equal(t, [][2]int{{0, 4}, {4, 8}}, spans)
	assert.Equal(t, p.Exterior[0], verts[0])
	assert.Equal(t, p.Holes[0][0], verts[4])
}

func TestPolygonMapPreservesStructure(t *testing.T) {
	p := &Polygon{
		Exterior: squareRing(0, 0, 2),
		Holes:    []Ring{squareRing(0, 0, 1).Reversed()},
	}
	q := p.Map(func(c model2d.Coord) model2d.Coord {
		return c.Scale(3)
	})
	assert.InDelta(t, 9*p.Area(), q.Area(), 1e-9)
	assert.True(t, q.Exterior.SignedArea() > 0)
	assert.True(t, q.Holes[0].SignedArea() < 0)

	// The original must be untouched.
	assert.Equal(t, model2d.Coord{X: -2, Y: -2}, p.Exterior[0])
}

package distort

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/dialmesh/poly"
	"github.com/unixpickle/dialmesh/solid"
	"github.com/unixpickle/model3d/model2d"
)

func squareRing(cx, cy, half float64) poly.Ring {
	return poly.Ring{
		{X: cx - half, Y: cy - half},
		{X: cx + half, Y: cy - half},
		{X: cx + half, Y: cy + half},
		{X: cx - half, Y: cy + half},
	}
}

func regularRing(n int, radius float64) poly.Ring {
	r := make(poly.Ring, n)
	for i := range r {
		theta := float64(i) / float64(n) * 2 * math.Pi
		r[i] = model2d.Coord{X: radius * math.Cos(theta), Y: radius * math.Sin(theta)}
	}
	return r
}

func holedPoly(t *testing.T) *poly.Polygon {
	t.Helper()
	polys, err := poly.Normalize([]poly.Ring{
		squareRing(0, 0, 2),
		squareRing(0, 0, 0.8),
	})
	require.NoError(t, err)
	require.Len(t, polys, 1)
	return polys[0]
}

func allKinds() []Kind {
	return []Kind{EdgeIrregularity, SurfaceRoughness, PerspectiveStretch, Erosion}
}

func TestSpecValidate(t *testing.T) {
	for _, k := range allKinds() {
		assert.NoError(t, Spec{Kind: k, Intensity: 0}.Validate())
		assert.NoError(t, Spec{Kind: k, Intensity: 1}.Validate())
		assert.NoError(t, Spec{Kind: k, Intensity: 0.5, Seed: -7}.Validate())
	}
	assert.ErrorIs(t, Spec{Intensity: -0.1}.Validate(), ErrInvalidParameter)
	assert.ErrorIs(t, Spec{Intensity: 1.1}.Validate(), ErrInvalidParameter)
	assert.ErrorIs(t, Spec{Intensity: math.NaN()}.Validate(), ErrInvalidParameter)
	assert.ErrorIs(t, Spec{Kind: Kind(99), Intensity: 0.5}.Validate(), ErrInvalidParameter)
}

func TestKindText(t *testing.T) {
	for _, k := range allKinds() {
		text, err := k.MarshalText()
		require.NoError(t, err)
		var back Kind
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, k, back)
	}
	var k Kind
	assert.ErrorIs(t, k.UnmarshalText([]byte("melting")), ErrInvalidParameter)
}

func TestApplyPolygonZeroIntensityIsIdentity(t *testing.T) {
	p := holedPoly(t)
	for _, k := range allKinds() {
		out, err := ApplyPolygon(p, Spec{Kind: k, Intensity: 0, Seed: 42})
		require.NoError(t, err)
		assert.Same(t, p, out, "kind %v", k)
	}
}

func TestApplyPolygonRejectsBadSpec(t *testing.T) {
	p := holedPoly(t)
	_, err := ApplyPolygon(p, Spec{Kind: EdgeIrregularity, Intensity: 2})
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestApplyPolygonReproducible(t *testing.T) {
	for _, k := range allKinds() {
		s := Spec{Kind: k, Intensity: 0.7, Seed: 42}
		a, err := ApplyPolygon(holedPoly(t), s)
		require.NoError(t, err)
		b, err := ApplyPolygon(holedPoly(t), s)
		require.NoError(t, err)
		assert.Equal(t, a, b, "kind %v must be bit-identical across runs", k)
	}
}

func TestApplyPolygonSeedMatters(t *testing.T) {
	a, err := ApplyPolygon(holedPoly(t), Spec{Kind: EdgeIrregularity, Intensity: 1, Seed: 1})
	require.NoError(t, err)
	b, err := ApplyPolygon(holedPoly(t), Spec{Kind: EdgeIrregularity, Intensity: 1, Seed: 2})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestEdgeIrregularityConvexStaysSimple(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		p := &poly.Polygon{Exterior: regularRing(16, 1)}
		out, err := ApplyPolygon(p, Spec{Kind: EdgeIrregularity, Intensity: 1, Seed: seed})
		require.NoError(t, err, "seed %d", seed)
		assert.True(t, out.Exterior.IsSimple(), "seed %d", seed)
	}
}

func TestEdgeIrregularityBounded(t *testing.T) {
	p := &poly.Polygon{Exterior: squareRing(0, 0, 1)}
	out, err := ApplyPolygon(p, Spec{Kind: EdgeIrregularity, Intensity: 1, Seed: 3})
	require.NoError(t, err)

	// Offsets cap at 5% of the character size (here 2mm) per vertex.
	for i, c := range out.Exterior {
		motion := math.Hypot(c.X-p.Exterior[i].X, c.Y-p.Exterior[i].Y)
		assert.LessOrEqual(t, motion, 0.1+1e-12, "vertex %d", i)
	}
}

func TestSurfaceRoughnessCoherentAndSimple(t *testing.T) {
	p := &poly.Polygon{Exterior: regularRing(64, 10)}
	out, err := ApplyPolygon(p, Spec{Kind: SurfaceRoughness, Intensity: 1, Seed: 11})
	require.NoError(t, err)
	assert.True(t, out.Exterior.IsSimple())
	assert.NotEqual(t, p.Exterior, out.Exterior)
}

func TestErosionShrinksWithinBounds(t *testing.T) {
	p := holedPoly(t)
	out, err := ApplyPolygon(p, Spec{Kind: Erosion, Intensity: 1, Seed: 5})
	require.NoError(t, err)

	inMin, inMax := p.Bounds()
	outMin, outMax := out.Bounds()
	assert.GreaterOrEqual(t, outMin.X, inMin.X)
	assert.GreaterOrEqual(t, outMin.Y, inMin.Y)
	assert.LessOrEqual(t, outMax.X, inMax.X)
	assert.LessOrEqual(t, outMax.Y, inMax.Y)
	assert.InDelta(t, p.Area()*0.8*0.8, out.Area(), 1e-9)
}

func TestErosionZeroOneScale(t *testing.T) {
	p := holedPoly(t)
	out, err := ApplyPolygon(p, Spec{Kind: Erosion, Intensity: 0.5})
	require.NoError(t, err)
	// Half intensity shrinks by half the full erosion scale.
	assert.InDelta(t, p.Area()*0.9*0.9, out.Area(), 1e-9)
}

func TestPerspectiveStretchGrowsOutward(t *testing.T) {
	p := holedPoly(t)
	out, err := ApplyPolygon(p, Spec{Kind: PerspectiveStretch, Intensity: 1})
	require.NoError(t, err)
	require.Len(t, out.Holes, 1)

	_, inMax := p.Bounds()
	_, outMax := out.Bounds()
	assert.Greater(t, outMax.X, inMax.X)
	assert.Greater(t, out.Area(), p.Area())
}

func TestContainmentViolationReported(t *testing.T) {
	// A hole poking out of its exterior is invalid however it arose;
	// filters must report it, not patch around it.
	broken := &poly.Polygon{
		Exterior: squareRing(0, 0, 1),
		Holes:    []poly.Ring{squareRing(1, 0, 0.5).Reversed()},
	}
	_, err := ApplyPolygon(broken, Spec{Kind: Erosion, Intensity: 0.01})
	assert.ErrorIs(t, err, ErrContainmentViolated)
}

func buildPrism(t *testing.T) *solid.Mesh {
	t.Helper()
	polys, err := poly.Normalize([]poly.Ring{squareRing(0, 0, 1)})
	require.NoError(t, err)
	mesh, err := solid.Build(polys[0], 2)
	require.NoError(t, err)
	return mesh
}

func TestApplyMeshZeroIntensityIsIdentity(t *testing.T) {
	mesh := buildPrism(t)
	before := mesh.Clone()
	for _, k := range allKinds() {
		require.NoError(t, ApplyMesh(mesh, Spec{Kind: k, Intensity: 0, Seed: 9}))
	}
	assert.Equal(t, before, mesh)
}

func TestApplyMeshReproducible(t *testing.T) {
	for _, k := range allKinds() {
		s := Spec{Kind: k, Intensity: 0.6, Seed: 1234}
		a := buildPrism(t)
		require.NoError(t, ApplyMesh(a, s))
		b := buildPrism(t)
		require.NoError(t, ApplyMesh(b, s))
		assert.Equal(t, a, b, "kind %v", k)
	}
}

func TestApplyMeshRoughnessKeepsTopology(t *testing.T) {
	mesh := buildPrism(t)
	require.NoError(t, ApplyMesh(mesh, Spec{Kind: SurfaceRoughness, Intensity: 1, Seed: 7}))

	d := solid.Validate(mesh, 0)
	assert.True(t, d.Manifold(), "diagnostics: %v", d)
	assert.True(t, d.Volume > 0)
}

func TestErodeSurfaceKeepsBasePlane(t *testing.T) {
	mesh := buildPrism(t)
	before := mesh.Volume()
	require.NoError(t, ApplyMesh(mesh, Spec{Kind: Erosion, Intensity: 1, Seed: 0}))

	for i, v := range mesh.Vertices {
		if i < 4 { // bottom ring
			assert.InDelta(t, 0.0, v.Z, 1e-12)
		}
	}
	assert.InDelta(t, 2.0*0.8, mesh.Max().Z, 1e-9)
	assert.Less(t, mesh.Volume(), before)
}

func TestApplyMeshRejectsBadSpec(t *testing.T) {
	mesh := buildPrism(t)
	before := mesh.Clone()
	err := ApplyMesh(mesh, Spec{Kind: SurfaceRoughness, Intensity: -1})
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Equal(t, before, mesh, "a rejected spec must leave the mesh alone")
}

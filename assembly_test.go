package dialmesh

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unixpickle/dialmesh/layout"
	"github.com/unixpickle/dialmesh/poly"
	"github.com/unixpickle/dialmesh/solid"
	"github.com/unixpickle/model3d/model3d"
)

func cardinalResults(t *testing.T, numbering layout.Numbering) []SlotResult {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Numbering = numbering
	cfg.Slots = layout.Cardinals
	results, err := Generate(context.Background(), cfg, &ringSource{})
	require.NoError(t, err)
	require.Len(t, results, 4)
	return results
}

func TestAssembleCombinesInSlotOrder(t *testing.T) {
	results := cardinalResults(t, layout.Roman)
	a := Assemble(results, false)

	require.Len(t, a.Entries(), 4)
	var got []string
	var wantVolume float64
	for _, e := range a.Entries() {
		got = append(got, e.Label)
		wantVolume += e.Mesh.Volume()
	}
	assert.Equal(t, []string{"XII", "III", "VI", "IX"}, got)
	assert.InDelta(t, wantVolume, a.Combined().Volume(), 1e-9)
	assert.Len(t, a.Combined().Faces, 4*len(results[0].Mesh.Faces))
}

func TestAssembleNeverAliases(t *testing.T) {
	results := cardinalResults(t, layout.Decimal)
	a := Assemble(results, false)

	combined := a.Combined().Volume()
	entry := a.Entries()[1].Mesh.Volume()

	results[0].Mesh.Vertices[0] = model3d.Coord3D{X: 999, Y: 999, Z: 999}
	results[1].Mesh.Vertices[0] = model3d.Coord3D{}

	assert.Equal(t, combined, a.Combined().Volume())
	assert.Equal(t, entry, a.Entries()[1].Mesh.Volume())
}

func TestAssembleSkipsFailures(t *testing.T) {
	polys, err := poly.Normalize([]poly.Ring{{
		{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1},
	}})
	require.NoError(t, err)
	prism, err := solid.Build(polys[0], 1)
	require.NoError(t, err)

	results := []SlotResult{
		{Label: "12", Hour: 12, Mesh: prism},
		{Label: "3", Hour: 3, Err: errors.New("contour failure")},
		{Label: "6", Hour: 6, Err: errors.New("repair failure"), Unrepaired: prism.Clone()},
	}

	strict := Assemble(results, false)
	require.Len(t, strict.Entries(), 1)
	assert.Equal(t, "12", strict.Entries()[0].Label)

	lenient := Assemble(results, true)
	require.Len(t, lenient.Entries(), 2)
	assert.Equal(t, "12", lenient.Entries()[0].Label)
	assert.Equal(t, "6", lenient.Entries()[1].Label)
	assert.InDelta(t, 2*prism.Volume(), lenient.Combined().Volume(), 1e-9)
}

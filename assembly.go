package dialmesh

import (
	"github.com/unixpickle/dialmesh/layout"
	"github.com/unixpickle/dialmesh/solid"
)

// An Entry is one slot's finished mesh with its provenance.
type Entry struct {
	Label     string
	Hour      int
	Placement layout.Placement
	Mesh      *solid.Mesh
}

// An Assembly holds finished slot meshes in slot order together with
// their merged combination. Meshes are copied in, never aliased, so later
// mutation of a source mesh cannot corrupt the combined output. Entries
// are immutable once collected.
type Assembly struct {
	entries  []Entry
	combined *solid.Mesh
}

// Assemble collects the successful results in slot order. Failed slots
// are skipped; the caller decides separately what to report about them.
// With acceptUnrepaired set, slots whose repair failed contribute their
// defective mesh instead of being skipped.
func Assemble(results []SlotResult, acceptUnrepaired bool) *Assembly {
	a := &Assembly{combined: &solid.Mesh{}}
	for _, r := range results {
		mesh := r.Mesh
		if mesh == nil && acceptUnrepaired {
			mesh = r.Unrepaired
		}
		if mesh == nil {
			continue
		}
		entry := Entry{
			Label:     r.Label,
			Hour:      r.Hour,
			Placement: r.Placement,
			Mesh:      mesh.Clone(),
		}
		a.entries = append(a.entries, entry)
		a.combined.Append(entry.Mesh)
	}
	return a
}

// Entries returns the collected entries in slot order.
func (a *Assembly) Entries() []Entry {
	return a.entries
}

// Combined returns the merged dial mesh.
func (a *Assembly) Combined() *solid.Mesh {
	return a.combined
}

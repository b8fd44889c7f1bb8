package solid

import (
	"fmt"
	"math"
)

const (
	// DefaultEpsilon is the coincidence distance in mm under which two
	// vertices count as duplicates.
	DefaultEpsilon = 1e-6

	// minFaceArea is the area in mm^2 under which a face counts as
	// degenerate.
	minFaceArea = 1e-12
)

// Diagnostics summarizes one validation pass over a mesh.
type Diagnostics struct {
	BoundaryEdges     int // edges with exactly one face
	NonManifoldEdges  int // edges shared by more than two faces
	WindingConflicts  int // edges traversed twice in the same direction
	DegenerateFaces   int // faces with repeated vertices or near-zero area
	DuplicateVertices int // vertices within epsilon of an earlier vertex
	Volume            float64
}

// Manifold reports whether every edge joins exactly two faces with
// opposite traversal directions.
func (d Diagnostics) Manifold() bool {
	return d.BoundaryEdges == 0 && d.NonManifoldEdges == 0 && d.WindingConflicts == 0
}

// Watertight reports whether the mesh encloses a positive volume with
// no way for the slicer to leak in.
func (d Diagnostics) Watertight() bool {
	return d.Manifold() && d.Volume > 0
}

// OK reports whether the mesh is printable as-is.
func (d Diagnostics) OK() bool {
	return d.Watertight() && d.DegenerateFaces == 0 && d.DuplicateVertices == 0
}

func (d Diagnostics) String() string {
	return fmt.Sprintf(
		"boundary=%d nonmanifold=%d winding=%d degenerate=%d duplicates=%d volume=%.4f",
		d.BoundaryEdges, d.NonManifoldEdges, d.WindingConflicts,
		d.DegenerateFaces, d.DuplicateVertices, d.Volume)
}

// Validate inspects a mesh for printability defects without modifying
// it. A non-positive eps selects DefaultEpsilon.
func Validate(m *Mesh, eps float64) Diagnostics {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	d := Diagnostics{Volume: m.Volume()}

	type edgeUse struct {
		fwd, rev int
	}
	edges := map[[2]int]*edgeUse{}
	noteEdge := func(a, b int) {
		key := [2]int{a, b}
		forward := true
		if a > b {
			key = [2]int{b, a}
			forward = false
		}
		use := edges[key]
		if use == nil {
			use = &edgeUse{}
			edges[key] = use
		}
		if forward {
			use.fwd++
		} else {
			use.rev++
		}
	}

	for _, f := range m.Faces {
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			d.DegenerateFaces++
			continue
		}
		a := m.Vertices[f[0]]
		b := m.Vertices[f[1]]
		c := m.Vertices[f[2]]
		if b.Sub(a).Cross(c.Sub(a)).Norm()/2 < minFaceArea {
			d.DegenerateFaces++
		}
		noteEdge(f[0], f[1])
		noteEdge(f[1], f[2])
		noteEdge(f[2], f[0])
	}

	for _, use := range edges {
		total := use.fwd + use.rev
		switch {
		case total == 1:
			d.BoundaryEdges++
		case total > 2:
			d.NonManifoldEdges++
		case use.fwd == 2 || use.rev == 2:
			d.WindingConflicts++
		}
	}

	d.DuplicateVertices = countDuplicates(m, eps)
	return d
}

// countDuplicates counts vertices lying within eps of an earlier vertex
// using a uniform grid, so big meshes stay linear.
func countDuplicates(m *Mesh, eps float64) int {
	grid := map[[3]int][]int{}
	cell := func(v int) [3]int {
		c := m.Vertices[v]
		return [3]int{
			int(math.Floor(c.X / eps)),
			int(math.Floor(c.Y / eps)),
			int(math.Floor(c.Z / eps)),
		}
	}
	count := 0
	for i := range m.Vertices {
		key := cell(i)
		found := false
	search:
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					nk := [3]int{key[0] + dx, key[1] + dy, key[2] + dz}
					for _, j := range grid[nk] {
						if m.Vertices[i].Dist(m.Vertices[j]) <= eps {
							found = true
							break search
						}
					}
				}
			}
		}
		if found {
			count++
		} else {
			grid[key] = append(grid[key], i)
		}
	}
	return count
}

package solid

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/unixpickle/model3d/model3d"
)

// maxBoundaryWarp is how far out of plane a boundary loop may bend,
// relative to its diameter, before fan filling is refused.
const maxBoundaryWarp = 0.2

// ErrRepairFailed indicates defects that could not be fixed: boundary
// loops that fork or dead-end, loops too warped to fill, or a mesh that
// still fails validation afterwards.
var ErrRepairFailed = errors.New("solid: mesh repair failed")

// Repair attempts to fix validation defects without reshaping the
// surface. Near-coincident vertices merge into one, degenerate faces
// drop, and each boundary loop is filled with a fan around its
// centroid. Fans assume roughly planar, star-shaped loops, which holds
// for the small gaps that extrusion or distortion can open up.
//
// The input mesh is never modified; on success a repaired copy is
// returned and revalidated.
func Repair(m *Mesh, eps float64) (*Mesh, error) {
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	out := mergeVertices(m, eps)
	out.Faces = dropDegenerate(out)
	if err := fillBoundaryLoops(out); err != nil {
		return nil, err
	}
	if d := Validate(out, eps); !d.OK() {
		return nil, fmt.Errorf("%w: still broken afterwards: %v", ErrRepairFailed, d)
	}
	return out, nil
}

// mergeVertices clusters vertices closer than eps onto one
// representative and drops vertices no face references.
func mergeVertices(m *Mesh, eps float64) *Mesh {
	grid := map[[3]int][]int{}
	cellOf := func(c model3d.Coord3D) [3]int {
		return [3]int{
			int(math.Floor(c.X / eps)),
			int(math.Floor(c.Y / eps)),
			int(math.Floor(c.Z / eps)),
		}
	}
	rep := make([]int, len(m.Vertices))
	for i, v := range m.Vertices {
		key := cellOf(v)
		rep[i] = i
	search:
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					nk := [3]int{key[0] + dx, key[1] + dy, key[2] + dz}
					for _, j := range grid[nk] {
						if v.Dist(m.Vertices[j]) <= eps {
							rep[i] = j
							break search
						}
					}
				}
			}
		}
		if rep[i] == i {
			grid[key] = append(grid[key], i)
		}
	}

	out := &Mesh{Faces: make([][3]int, 0, len(m.Faces))}
	newIndex := map[int]int{}
	remap := func(old int) int {
		r := rep[old]
		if ni, ok := newIndex[r]; ok {
			return ni
		}
		ni := len(out.Vertices)
		newIndex[r] = ni
		out.Vertices = append(out.Vertices, m.Vertices[r])
		return ni
	}
	for _, f := range m.Faces {
		out.Faces = append(out.Faces, [3]int{remap(f[0]), remap(f[1]), remap(f[2])})
	}
	return out
}

func dropDegenerate(m *Mesh) [][3]int {
	kept := make([][3]int, 0, len(m.Faces))
	for _, f := range m.Faces {
		if f[0] == f[1] || f[1] == f[2] || f[2] == f[0] {
			continue
		}
		a := m.Vertices[f[0]]
		b := m.Vertices[f[1]]
		c := m.Vertices[f[2]]
		if b.Sub(a).Cross(c.Sub(a)).Norm()/2 < minFaceArea {
			continue
		}
		kept = append(kept, f)
	}
	return kept
}

// fillBoundaryLoops chains directed boundary edges into loops and fills
// each one. A new face traverses each boundary edge in reverse, which
// restores two-faces-per-edge with opposite directions.
func fillBoundaryLoops(m *Mesh) error {
	directed := map[[2]int]int{}
	for _, f := range m.Faces {
		directed[[2]int{f[0], f[1]}]++
		directed[[2]int{f[1], f[2]}]++
		directed[[2]int{f[2], f[0]}]++
	}

	next := map[int]int{}
	starts := []int{}
	for e, n := range directed {
		if n != 1 || directed[[2]int{e[1], e[0]}] != 0 {
			continue
		}
		if _, ok := next[e[0]]; ok {
			return fmt.Errorf("%w: boundary forks at vertex %d", ErrRepairFailed, e[0])
		}
		next[e[0]] = e[1]
		starts = append(starts, e[0])
	}
	if len(starts) == 0 {
		return nil
	}
	sort.Ints(starts)

	visited := map[int]bool{}
	for _, s := range starts {
		if visited[s] {
			continue
		}
		loop := []int{s}
		visited[s] = true
		for v := next[s]; v != s; {
			if visited[v] {
				return fmt.Errorf("%w: boundary loop tangles at vertex %d", ErrRepairFailed, v)
			}
			visited[v] = true
			loop = append(loop, v)
			nv, ok := next[v]
			if !ok {
				return fmt.Errorf("%w: boundary dead-ends at vertex %d", ErrRepairFailed, v)
			}
			v = nv
		}
		if err := fillLoop(m, loop); err != nil {
			return err
		}
	}
	return nil
}

func fillLoop(m *Mesh, loop []int) error {
	if len(loop) < 3 {
		return fmt.Errorf("%w: boundary loop of %d vertices", ErrRepairFailed, len(loop))
	}
	if len(loop) == 3 {
		m.Faces = append(m.Faces, [3]int{loop[2], loop[1], loop[0]})
		return nil
	}

	var centroid model3d.Coord3D
	for _, v := range loop {
		centroid = centroid.Add(m.Vertices[v])
	}
	centroid = centroid.Scale(1 / float64(len(loop)))

	// Newell's method gives a plane normal for the loop.
	var normal model3d.Coord3D
	for i, vi := range loop {
		a := m.Vertices[vi]
		b := m.Vertices[loop[(i+1)%len(loop)]]
		normal.X += (a.Y - b.Y) * (a.Z + b.Z)
		normal.Y += (a.Z - b.Z) * (a.X + b.X)
		normal.Z += (a.X - b.X) * (a.Y + b.Y)
	}
	if normal.Norm() == 0 {
		return fmt.Errorf("%w: boundary loop encloses no area", ErrRepairFailed)
	}
	nHat := normal.Scale(1 / normal.Norm())

	var warp, diameter float64
	for i, vi := range loop {
		warp = math.Max(warp, math.Abs(m.Vertices[vi].Sub(centroid).Dot(nHat)))
		for _, vj := range loop[i+1:] {
			diameter = math.Max(diameter, m.Vertices[vi].Dist(m.Vertices[vj]))
		}
	}
	if diameter == 0 || warp > maxBoundaryWarp*diameter {
		return fmt.Errorf("%w: boundary loop of %d vertices too warped to fill",
			ErrRepairFailed, len(loop))
	}

	ci := len(m.Vertices)
	m.Vertices = append(m.Vertices, centroid)
	for i, a := range loop {
		b := loop[(i+1)%len(loop)]
		m.Faces = append(m.Faces, [3]int{b, a, ci})
	}
	return nil
}

// Package solid extrudes dial polygons into printable triangle meshes
// and checks them for manifoldness.
package solid

import (
	"math"

	"github.com/unixpickle/model3d/model3d"
)

// A Mesh is an indexed triangle surface. Faces index into Vertices and
// wind counter-clockwise when seen from outside the enclosed volume.
type Mesh struct {
	Vertices []model3d.Coord3D
	Faces    [][3]int
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Vertices: append([]model3d.Coord3D{}, m.Vertices...),
		Faces:    append([][3]int{}, m.Faces...),
	}
}

// Append copies another mesh into this one, offsetting face indices.
// The appended mesh is not referenced afterwards.
func (m *Mesh) Append(other *Mesh) {
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, f := range other.Faces {
		m.Faces = append(m.Faces, [3]int{f[0] + base, f[1] + base, f[2] + base})
	}
}

// Triangles converts the mesh to model3d triangles, for export and for
// solid containment queries.
func (m *Mesh) Triangles() []*model3d.Triangle {
	tris := make([]*model3d.Triangle, len(m.Faces))
	for i, f := range m.Faces {
		tris[i] = &model3d.Triangle{
			m.Vertices[f[0]], m.Vertices[f[1]], m.Vertices[f[2]],
		}
	}
	return tris
}

// Volume computes the signed volume via the divergence theorem. It is
// positive when a closed mesh winds consistently outward, and
// meaningless on meshes with boundary.
func (m *Mesh) Volume() float64 {
	var sum float64
	for _, f := range m.Faces {
		a := m.Vertices[f[0]]
		b := m.Vertices[f[1]]
		c := m.Vertices[f[2]]
		sum += a.Dot(b.Cross(c))
	}
	return sum / 6
}

// Min returns the lower corner of the bounding box, or the zero
// coordinate for an empty mesh.
func (m *Mesh) Min() model3d.Coord3D {
	var min model3d.Coord3D
	for i, v := range m.Vertices {
		if i == 0 {
			min = v
			continue
		}
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		min.Z = math.Min(min.Z, v.Z)
	}
	return min
}

// Max returns the upper corner of the bounding box, or the zero
// coordinate for an empty mesh.
func (m *Mesh) Max() model3d.Coord3D {
	var max model3d.Coord3D
	for i, v := range m.Vertices {
		if i == 0 {
			max = v
			continue
		}
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
		max.Z = math.Max(max.Z, v.Z)
	}
	return max
}

// VertexNormals computes area-weighted outward normals per vertex.
// Vertices referenced by no face get a zero normal.
func (m *Mesh) VertexNormals() []model3d.Coord3D {
	normals := make([]model3d.Coord3D, len(m.Vertices))
	for _, f := range m.Faces {
		a := m.Vertices[f[0]]
		b := m.Vertices[f[1]]
		c := m.Vertices[f[2]]
		// The cross product's length is twice the face area, which
		// weights the average naturally.
		n := b.Sub(a).Cross(c.Sub(a))
		for _, idx := range f {
			normals[idx] = normals[idx].Add(n)
		}
	}
	for i, n := range normals {
		if l := n.Norm(); l > 0 {
			normals[i] = n.Scale(1 / l)
		}
	}
	return normals
}

// MinEdgeLengths returns, per vertex, the length of its shortest
// incident edge. Vertices with no faces get +Inf.
func (m *Mesh) MinEdgeLengths() []float64 {
	lens := make([]float64, len(m.Vertices))
	for i := range lens {
		lens[i] = math.Inf(1)
	}
	note := func(i, j int) {
		d := m.Vertices[i].Dist(m.Vertices[j])
		lens[i] = math.Min(lens[i], d)
		lens[j] = math.Min(lens[j], d)
	}
	for _, f := range m.Faces {
		note(f[0], f[1])
		note(f[1], f[2])
		note(f[2], f[0])
	}
	return lens
}

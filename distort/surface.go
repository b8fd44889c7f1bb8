package distort

import (
	"math"

	"github.com/unixpickle/dialmesh/solid"
	"github.com/unixpickle/model3d/model3d"
)

// surfaceLane separates the mesh hash stream from the ring streams, so
// contour-stage and mesh-stage runs of the same seed do not correlate.
const surfaceLane = 1 << 16

func charSize3D(m *solid.Mesh) float64 {
	min, max := m.Min(), m.Max()
	return math.Max(max.X-min.X, math.Max(max.Y-min.Y, max.Z-min.Z))
}

// centerXY is the vertex mean projected to the dial plane. Radial mesh
// filters act in that plane and anchor z at the dial surface, so glyph
// bottoms stay flat on z=0.
func centerXY(m *solid.Mesh) model3d.Coord3D {
	var sum model3d.Coord3D
	for _, v := range m.Vertices {
		sum = sum.Add(v)
	}
	if len(m.Vertices) == 0 {
		return sum
	}
	sum = sum.Scale(1 / float64(len(m.Vertices)))
	sum.Z = 0
	return sum
}

func perturbSurface(m *solid.Mesh, offset func(i int, v model3d.Coord3D) float64) {
	normals := m.VertexNormals()
	limits := m.MinEdgeLengths()
	for i, v := range m.Vertices {
		if normals[i].Norm() == 0 {
			continue
		}
		off := offset(i, v)
		if limit := 0.5 * limits[i]; !math.IsInf(limit, 1) {
			off = clamp(off, -limit, limit)
		}
		m.Vertices[i] = v.Add(normals[i].Scale(off))
	}
}

func irregularSurface(m *solid.Mesh, s Spec) {
	base := s.Intensity * edgeScale * charSize3D(m)
	perturbSurface(m, func(i int, v model3d.Coord3D) float64 {
		return hashSym(s.Seed, surfaceLane, i) * base
	})
}

func roughenSurface(m *solid.Mesh, s Spec) {
	size := charSize3D(m)
	base := s.Intensity * roughnessScale * size
	field := newNoiseField(s.Seed, noiseFrequency/math.Max(size, 1e-9))
	perturbSurface(m, func(i int, v model3d.Coord3D) float64 {
		return field.at3(v.X, v.Y, v.Z) * base
	})
}

func stretchSurface(m *solid.Mesh, s Spec) {
	center := centerXY(m)
	var rmax float64
	for _, v := range m.Vertices {
		rmax = math.Max(rmax, math.Hypot(v.X-center.X, v.Y-center.Y))
	}
	if rmax == 0 {
		return
	}
	for i, v := range m.Vertices {
		dx, dy := v.X-center.X, v.Y-center.Y
		r := math.Hypot(dx, dy)
		k := 1 + s.Intensity*stretchScale*(r/rmax)
		m.Vertices[i] = model3d.Coord3D{
			X: center.X + dx*k,
			Y: center.Y + dy*k,
			Z: v.Z,
		}
	}
}

func erodeSurface(m *solid.Mesh, s Spec) {
	center := centerXY(m)
	k := 1 - s.Intensity*erosionScale
	for i, v := range m.Vertices {
		m.Vertices[i] = model3d.Coord3D{
			X: center.X + (v.X-center.X)*k,
			Y: center.Y + (v.Y-center.Y)*k,
			Z: v.Z * k,
		}
	}
}

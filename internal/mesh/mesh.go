// Package mesh implements an indexed triangle mesh with the analysis and
// repair primitives the facet kernel exposes to the conversion pipeline.
package mesh

import (
	"github.com/philipparndt/mesh2step/internal/geometry"
)

// Mesh is a triangle mesh. Points may contain duplicates (STL facet soup
// keeps one point per vertex occurrence); topological queries work on a
// canonicalized view so connectivity survives duplication.
type Mesh struct {
	Points    []geometry.Vector3
	Triangles [][3]int
}

// New creates an empty mesh
func New() *Mesh {
	return &Mesh{}
}

// NewIndexed creates a mesh from an indexed vertex/triangle list, for
// example from a 3MF model document. Triangles with out-of-bounds indices
// are dropped; malformed indices are a loader defect, not a repair concern.
func NewIndexed(points []geometry.Vector3, triangles [][3]int) *Mesh {
	m := &Mesh{Points: points}
	for _, t := range triangles {
		if t[0] < 0 || t[0] >= len(points) ||
			t[1] < 0 || t[1] >= len(points) ||
			t[2] < 0 || t[2] >= len(points) {
			continue
		}
		m.Triangles = append(m.Triangles, t)
	}
	return m
}

// AddFacet appends one triangle as three new points. No welding happens
// here; duplicate point removal is a repair step.
func (m *Mesh) AddFacet(a, b, c geometry.Vector3) {
	base := len(m.Points)
	m.Points = append(m.Points, a, b, c)
	m.Triangles = append(m.Triangles, [3]int{base, base + 1, base + 2})
}

// CountPoints returns the number of points in the mesh
func (m *Mesh) CountPoints() int {
	return len(m.Points)
}

// CountFacets returns the number of triangles in the mesh
func (m *Mesh) CountFacets() int {
	return len(m.Triangles)
}

// CountEdges returns the number of unique undirected edges
func (m *Mesh) CountEdges() int {
	return len(m.edgeUses(m.canonicalTriangles()))
}

// Area returns the total surface area
func (m *Mesh) Area() float64 {
	total := 0.0
	for _, t := range m.Triangles {
		total += geometry.TriangleArea(m.Points[t[0]], m.Points[t[1]], m.Points[t[2]])
	}
	return total
}

// Volume returns the enclosed volume computed by the divergence theorem.
// The value is only meaningful for a closed, consistently oriented mesh.
func (m *Mesh) Volume() float64 {
	total := 0.0
	for _, t := range m.Triangles {
		a, b, c := m.Points[t[0]], m.Points[t[1]], m.Points[t[2]]
		total += a.Dot(b.Cross(c)) / 6
	}
	if total < 0 {
		return -total
	}
	return total
}

// BoundingBox returns the axis-aligned bounding box of all points
func (m *Mesh) BoundingBox() geometry.BoundingBox {
	bbox := geometry.NewBoundingBox()
	for _, p := range m.Points {
		bbox.Extend(p)
	}
	return bbox
}

// Vertices returns the three corner points of triangle i
func (m *Mesh) Vertices(i int) (a, b, c geometry.Vector3) {
	t := m.Triangles[i]
	return m.Points[t[0]], m.Points[t[1]], m.Points[t[2]]
}

// Clone returns a deep copy of the mesh
func (m *Mesh) Clone() *Mesh {
	c := &Mesh{
		Points:    make([]geometry.Vector3, len(m.Points)),
		Triangles: make([][3]int, len(m.Triangles)),
	}
	copy(c.Points, m.Points)
	copy(c.Triangles, m.Triangles)
	return c
}

package mesh

import (
	"testing"

	"github.com/philipparndt/mesh2step/internal/geometry"
)

// crossingTriangles is a horizontal triangle pierced by the edge of a
// vertical one.
func crossingTriangles() *Mesh {
	m := New()
	m.AddFacet(
		geometry.Vector3{X: 0, Y: 0, Z: 0},
		geometry.Vector3{X: 2, Y: 0, Z: 0},
		geometry.Vector3{X: 0, Y: 2, Z: 0},
	)
	m.AddFacet(
		geometry.Vector3{X: 0.5, Y: 0.25, Z: -1},
		geometry.Vector3{X: 0.5, Y: 0.25, Z: 1},
		geometry.Vector3{X: 3, Y: 3, Z: 1},
	)
	return m
}

func TestHasSelfIntersections(t *testing.T) {
	if !crossingTriangles().HasSelfIntersections() {
		t.Error("crossing triangles should self-intersect")
	}
	if indexedCube().HasSelfIntersections() {
		t.Error("cube should not self-intersect")
	}
}

func TestSharedVertexIsNotAnIntersection(t *testing.T) {
	m := New()
	shared := geometry.Vector3{X: 0, Y: 0, Z: 0}
	m.AddFacet(shared,
		geometry.Vector3{X: 1, Y: 0, Z: 0},
		geometry.Vector3{X: 0, Y: 1, Z: 0})
	m.AddFacet(shared,
		geometry.Vector3{X: 1, Y: 0, Z: 1},
		geometry.Vector3{X: 0, Y: 1, Z: 1})
	if m.HasSelfIntersections() {
		t.Error("triangles sharing a vertex are adjacent, not intersecting")
	}
}

func TestRemoveSelfIntersections(t *testing.T) {
	m := crossingTriangles()
	if removed := m.RemoveSelfIntersections(); removed != 2 {
		t.Errorf("removed %d facets, want 2", removed)
	}
	if m.HasSelfIntersections() {
		t.Error("intersections should be gone")
	}

	clean := indexedCube()
	if removed := clean.RemoveSelfIntersections(); removed != 0 {
		t.Errorf("removed %d facets from a clean cube, want 0", removed)
	}
}

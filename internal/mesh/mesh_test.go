package mesh

import (
	"math"
	"testing"

	"github.com/philipparndt/mesh2step/internal/geometry"
)

func cubePoints() []geometry.Vector3 {
	return []geometry.Vector3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 1},
		{X: 1, Y: 1, Z: 1},
		{X: 0, Y: 1, Z: 1},
	}
}

// cubeTriangles is a unit cube with outward facing windings
func cubeTriangles() [][3]int {
	return [][3]int{
		{0, 2, 1}, {0, 3, 2}, // bottom
		{4, 5, 6}, {4, 6, 7}, // top
		{0, 1, 5}, {0, 5, 4}, // front
		{2, 3, 7}, {2, 7, 6}, // back
		{0, 4, 7}, {0, 7, 3}, // left
		{1, 2, 6}, {1, 6, 5}, // right
	}
}

func indexedCube() *Mesh {
	return NewIndexed(cubePoints(), cubeTriangles())
}

// soupCube builds the same cube the way the STL reader does, with three
// fresh points per facet.
func soupCube() *Mesh {
	points := cubePoints()
	m := New()
	for _, t := range cubeTriangles() {
		m.AddFacet(points[t[0]], points[t[1]], points[t[2]])
	}
	return m
}

func signedVolume(m *Mesh) float64 {
	total := 0.0
	for _, t := range m.Triangles {
		a, b, c := m.Points[t[0]], m.Points[t[1]], m.Points[t[2]]
		total += a.Dot(b.Cross(c)) / 6
	}
	return total
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCubeMetrics(t *testing.T) {
	m := indexedCube()

	if got := m.CountPoints(); got != 8 {
		t.Errorf("CountPoints = %d, want 8", got)
	}
	if got := m.CountFacets(); got != 12 {
		t.Errorf("CountFacets = %d, want 12", got)
	}
	if got := m.CountEdges(); got != 18 {
		t.Errorf("CountEdges = %d, want 18", got)
	}
	if !m.IsSolid() {
		t.Error("cube should be solid")
	}
	if m.HasNonManifolds() {
		t.Error("cube should be manifold")
	}
	if got := m.Volume(); !almostEqual(got, 1) {
		t.Errorf("Volume = %v, want 1", got)
	}
	if got := m.Area(); !almostEqual(got, 6) {
		t.Errorf("Area = %v, want 6", got)
	}
}

func TestEmptyMeshIsNotSolid(t *testing.T) {
	if New().IsSolid() {
		t.Error("empty mesh must not be solid")
	}
}

func TestSoupCubeTopology(t *testing.T) {
	m := soupCube()

	if got := m.CountPoints(); got != 36 {
		t.Fatalf("CountPoints = %d, want 36", got)
	}
	// Topological queries must see through the duplicated points.
	if !m.IsSolid() {
		t.Error("soup cube should be solid")
	}
	if got := m.CountEdges(); got != 18 {
		t.Errorf("CountEdges = %d, want 18", got)
	}
}

func TestRemoveDuplicatedPoints(t *testing.T) {
	m := soupCube()

	removed := m.RemoveDuplicatedPoints()
	if removed != 28 {
		t.Errorf("removed %d points, want 28", removed)
	}
	if got := m.CountPoints(); got != 8 {
		t.Errorf("CountPoints = %d, want 8", got)
	}
	if !m.IsSolid() {
		t.Error("welded cube should still be solid")
	}
	if got := m.Volume(); !almostEqual(got, 1) {
		t.Errorf("Volume = %v, want 1", got)
	}
	if again := m.RemoveDuplicatedPoints(); again != 0 {
		t.Errorf("second pass removed %d points, want 0", again)
	}
}

func TestRemoveDuplicatedFacets(t *testing.T) {
	tests := []struct {
		name  string
		extra [3]int
	}{
		{"same winding", [3]int{0, 2, 1}},
		{"reversed winding", [3]int{1, 2, 0}},
		{"rotated winding", [3]int{2, 1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewIndexed(cubePoints(), append(cubeTriangles(), tt.extra))
			if removed := m.RemoveDuplicatedFacets(); removed != 1 {
				t.Errorf("removed %d facets, want 1", removed)
			}
			if got := m.CountFacets(); got != 12 {
				t.Errorf("CountFacets = %d, want 12", got)
			}
		})
	}
}

func TestRemoveDegenerateFacets(t *testing.T) {
	points := append(cubePoints(), geometry.Vector3{X: 0.5, Y: 0, Z: 0})
	triangles := append(cubeTriangles(),
		[3]int{0, 1, 8}, // collinear corners, zero area
		[3]int{0, 1, 1}, // repeated corner
	)
	m := NewIndexed(points, triangles)

	if removed := m.RemoveDegenerateFacets(0); removed != 2 {
		t.Errorf("removed %d facets, want 2", removed)
	}
	if got := m.CountFacets(); got != 12 {
		t.Errorf("CountFacets = %d, want 12", got)
	}
}

func TestRemoveNonManifolds(t *testing.T) {
	points := append(cubePoints(), geometry.Vector3{X: 0.5, Y: -1, Z: 0.5})
	triangles := append(cubeTriangles(), [3]int{0, 1, 8})
	m := NewIndexed(points, triangles)

	if !m.HasNonManifolds() {
		t.Fatal("fin triangle should make edge 0-1 non-manifold")
	}
	if removed := m.RemoveNonManifolds(); removed != 1 {
		t.Errorf("removed %d facets, want 1", removed)
	}
	if m.HasNonManifolds() {
		t.Error("mesh should be manifold after removal")
	}
	if !m.IsSolid() {
		t.Error("cube should be solid after the fin is removed")
	}
}

func TestFillHoles(t *testing.T) {
	m := NewIndexed(cubePoints(), cubeTriangles()[:11])
	if m.IsSolid() {
		t.Fatal("cube with a missing facet must not be solid")
	}

	if filled := m.FillHoles(1000); filled != 1 {
		t.Errorf("filled %d holes, want 1", filled)
	}
	if !m.IsSolid() {
		t.Error("cube should be solid after hole filling")
	}
	if got := m.Volume(); !almostEqual(got, 1) {
		t.Errorf("Volume = %v, want 1", got)
	}
}

func TestFillHolesRespectsEdgeBound(t *testing.T) {
	m := NewIndexed(cubePoints(), cubeTriangles()[:11])
	if filled := m.FillHoles(2); filled != 0 {
		t.Errorf("filled %d holes, want 0 with a 2 edge bound", filled)
	}
	if m.IsSolid() {
		t.Error("hole should remain open")
	}
}

func TestHarmonizeNormalsFlipsStray(t *testing.T) {
	triangles := cubeTriangles()
	triangles[5][1], triangles[5][2] = triangles[5][2], triangles[5][1]
	m := NewIndexed(cubePoints(), triangles)

	flipped := m.HarmonizeNormals()
	if flipped != 1 {
		t.Errorf("flipped %d facets, want 1", flipped)
	}
	if got := signedVolume(m); !almostEqual(got, 1) {
		t.Errorf("signed volume = %v, want 1", got)
	}
}

func TestHarmonizeNormalsOrientsOutward(t *testing.T) {
	triangles := cubeTriangles()
	for i := range triangles {
		triangles[i][1], triangles[i][2] = triangles[i][2], triangles[i][1]
	}
	m := NewIndexed(cubePoints(), triangles)
	if got := signedVolume(m); got >= 0 {
		t.Fatalf("inverted cube should have negative signed volume, got %v", got)
	}

	flipped := m.HarmonizeNormals()
	if flipped != 12 {
		t.Errorf("flipped %d facets, want 12", flipped)
	}
	if got := signedVolume(m); !almostEqual(got, 1) {
		t.Errorf("signed volume = %v, want 1", got)
	}
}

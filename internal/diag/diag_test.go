package diag

import (
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/philipparndt/mesh2step/internal/geometry"
	"github.com/philipparndt/mesh2step/internal/kernel/facet"
	"github.com/philipparndt/mesh2step/internal/mesh"
)

func cubeMesh() *mesh.Mesh {
	points := []geometry.Vector3{
		{X: 0, Y: 0, Z: 0},
		{X: 1, Y: 0, Z: 0},
		{X: 1, Y: 1, Z: 0},
		{X: 0, Y: 1, Z: 0},
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 1},
		{X: 1, Y: 1, Z: 1},
		{X: 0, Y: 1, Z: 1},
	}
	triangles := [][3]int{
		{0, 2, 1}, {0, 3, 2},
		{4, 5, 6}, {4, 6, 7},
		{0, 1, 5}, {0, 5, 4},
		{2, 3, 7}, {2, 7, 6},
		{0, 4, 7}, {0, 7, 3},
		{1, 2, 6}, {1, 6, 5},
	}
	return mesh.NewIndexed(points, triangles)
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnalyzeSolid(t *testing.T) {
	k := facet.New(zap.NewNop())
	info := NewAnalyzer(zap.NewNop()).Analyze(k.AdoptMesh(cubeMesh()), false)

	if info.Points != 8 || info.Facets != 12 || info.Edges != 18 {
		t.Errorf("counts = %d/%d/%d, want 8/12/18", info.Points, info.Facets, info.Edges)
	}
	if !info.IsSolid {
		t.Error("cube should be solid")
	}
	if info.Volume == nil {
		t.Error("Volume = nil, want 1")
	} else if !almostEqual(*info.Volume, 1) {
		t.Errorf("Volume = %v, want 1", *info.Volume)
	}
	if !almostEqual(info.Area, 6) {
		t.Errorf("Area = %v, want 6", info.Area)
	}
	if info.HasNonManifolds == nil || *info.HasNonManifolds {
		t.Errorf("HasNonManifolds = %v, want false", info.HasNonManifolds)
	}
	if info.HasSelfIntersections == nil || *info.HasSelfIntersections {
		t.Errorf("HasSelfIntersections = %v, want false", info.HasSelfIntersections)
	}
}

func TestAnalyzeOpenShellHasNoVolume(t *testing.T) {
	m := cubeMesh()
	m.Triangles = m.Triangles[:11]
	k := facet.New(zap.NewNop())

	info := NewAnalyzer(zap.NewNop()).Analyze(k.AdoptMesh(m), false)
	if info.IsSolid {
		t.Error("open shell must not be solid")
	}
	if info.Volume != nil {
		t.Errorf("Volume = %v, want nil for a shell", *info.Volume)
	}
}

func TestAnalyzeSkipExpensive(t *testing.T) {
	k := facet.New(zap.NewNop())
	info := NewAnalyzer(zap.NewNop()).Analyze(k.AdoptMesh(cubeMesh()), true)

	if info.HasNonManifolds != nil {
		t.Error("HasNonManifolds must stay nil when skipped")
	}
	if info.HasSelfIntersections != nil {
		t.Error("HasSelfIntersections must stay nil when skipped")
	}
	// The cheap fields are still populated.
	if info.Facets != 12 {
		t.Errorf("Facets = %d, want 12", info.Facets)
	}
}

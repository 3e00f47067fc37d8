package report

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/philipparndt/mesh2step/internal/diag"
)

func marshal(t *testing.T, r *Result) map[string]any {
	t.Helper()
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	return out
}

func TestFailureResult(t *testing.T) {
	r := New("missing.stl", "out.step", "stl", 0.01)
	r.Fail(StageValidation, errors.New("Input file not found"))

	out := marshal(t, r)
	if out["success"] != false {
		t.Error("success should be false")
	}
	if out["error"] != "Input file not found" {
		t.Errorf("error = %v", out["error"])
	}
	if out["stage"] != "validation" {
		t.Errorf("stage = %v", out["stage"])
	}
	if _, ok := out["output_size"]; ok {
		t.Error("output_size must be absent on failure")
	}
	if _, ok := out["is_solid"]; ok {
		t.Error("is_solid must be absent before reconstruction")
	}
}

func TestSuccessResultOmitsErrorFields(t *testing.T) {
	r := New("part.stl", "part.step", "stl", 0.01)
	r.Success = true
	r.OutputSize = 4096
	solid := true
	r.IsSolid = &solid

	out := marshal(t, r)
	if out["success"] != true {
		t.Error("success should be true")
	}
	if out["output_size"] != float64(4096) {
		t.Errorf("output_size = %v", out["output_size"])
	}
	if out["is_solid"] != true {
		t.Errorf("is_solid = %v", out["is_solid"])
	}
	if _, ok := out["error"]; ok {
		t.Error("error must be absent on success")
	}
	if _, ok := out["stage"]; ok {
		t.Error("stage must be absent on success")
	}
}

func TestInfoOnlySuccessOmitsOutputSize(t *testing.T) {
	r := New("part.stl", "", "stl", 0.01)
	r.Success = true

	out := marshal(t, r)
	if out["success"] != true {
		t.Error("success should be true")
	}
	if _, ok := out["output_size"]; ok {
		t.Error("output_size must be absent when nothing was exported")
	}
}

func TestMeshInfoIndexingAndAliases(t *testing.T) {
	r := New("multi.3mf", "multi.step", "3mf", 0.01)
	r.MeshInfoBefore = []diag.MeshInfo{
		{Points: 8, Facets: 12},
		{Points: 4, Facets: 4},
	}
	r.MeshInfoAfter = []diag.MeshInfo{
		{Points: 8, Facets: 12},
		{Points: 4, Facets: 4},
	}

	out := marshal(t, r)
	for _, key := range []string{
		"mesh_info_before_0", "mesh_info_before_1",
		"mesh_info_after_0", "mesh_info_after_1",
		"mesh_info_before", "mesh_info_after",
	} {
		if _, ok := out[key]; !ok {
			t.Errorf("missing key %s", key)
		}
	}

	// The unsuffixed aliases carry the first mesh.
	alias := out["mesh_info_before"].(map[string]any)
	if alias["points"] != float64(8) {
		t.Errorf("alias points = %v, want 8", alias["points"])
	}
}

func TestMeshInfoExpensiveFieldsOmittedWhenSkipped(t *testing.T) {
	r := New("big.stl", "big.step", "stl", 0.01)
	r.MeshInfoBefore = []diag.MeshInfo{{Points: 3, Facets: 1}}

	out := marshal(t, r)
	info := out["mesh_info_before_0"].(map[string]any)
	if _, ok := info["has_non_manifolds"]; ok {
		t.Error("has_non_manifolds must be omitted when the check was skipped")
	}
	if _, ok := info["has_self_intersections"]; ok {
		t.Error("has_self_intersections must be omitted when the check was skipped")
	}
	// Volume stays present as null for open shells.
	if v, ok := info["volume"]; !ok || v != nil {
		t.Errorf("volume = %v, want explicit null", v)
	}
}

func TestAddRepairsPrefixesMeshIndex(t *testing.T) {
	r := New("a.3mf", "a.step", "3mf", 0.01)
	r.AddRepairs(0, []string{"Removed 10 duplicate points"})
	r.AddRepairs(1, []string{"Harmonized normals"})

	if r.Repairs[0] != "Mesh 1: Removed 10 duplicate points" {
		t.Errorf("repairs[0] = %q", r.Repairs[0])
	}
	if r.Repairs[1] != "Mesh 2: Harmonized normals" {
		t.Errorf("repairs[1] = %q", r.Repairs[1])
	}
}

func TestMergeFieldPresence(t *testing.T) {
	r := New("a.stl", "a.step", "stl", 0.01)
	out := marshal(t, r)
	if _, ok := out["merged_planar_faces"]; ok {
		t.Error("merged_planar_faces must be absent before reconstruction")
	}
	if _, ok := out["merged_per_solid"]; ok {
		t.Error("merged_per_solid must be absent unless set")
	}

	merged := false
	r.MergedPlanarFaces = &merged
	r.SkippedMergeReason = "Mesh too large (200000 facets)"
	out = marshal(t, r)
	if out["merged_planar_faces"] != false {
		t.Errorf("merged_planar_faces = %v, want false", out["merged_planar_faces"])
	}
	if out["skipped_merge_reason"] != "Mesh too large (200000 facets)" {
		t.Errorf("skipped_merge_reason = %v", out["skipped_merge_reason"])
	}
}

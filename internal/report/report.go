// Package report builds the machine readable conversion result printed
// to stdout as a single JSON document.
package report

import (
	"encoding/json"
	"fmt"

	"github.com/philipparndt/mesh2step/internal/diag"
)

// Stage identifies the pipeline phase where a failure occurred
type Stage string

const (
	StageImport     Stage = "import"
	StageValidation Stage = "validation"
	StageLoad       Stage = "load"
	StageRead       Stage = "read"
	StageConversion Stage = "conversion"
	StageExport     Stage = "export"
)

// Result is the conversion outcome. Error and Stage are set only on
// failure, OutputSize only on success. MeshInfoBefore and MeshInfoAfter
// hold one snapshot per mesh; consumers that predate multi-mesh support
// read the unsuffixed aliases of the first mesh.
type Result struct {
	Success     bool
	Input       string
	Output      string
	InputFormat string
	Tolerance   float64

	MeshInfoBefore []diag.MeshInfo
	MeshInfoAfter  []diag.MeshInfo
	Repairs        []string

	IsSolid            *bool
	MergedPlanarFaces  *bool
	MergedPerSolid     bool
	SkippedMergeReason string

	OutputSize int64
	Error      string
	Stage      Stage
}

// New creates a result carrying the request parameters
func New(input, output, format string, tolerance float64) *Result {
	return &Result{
		Input:       input,
		Output:      output,
		InputFormat: format,
		Tolerance:   tolerance,
	}
}

// Fail marks the result as failed at the given stage
func (r *Result) Fail(stage Stage, err error) {
	r.Success = false
	r.Stage = stage
	r.Error = err.Error()
}

// AddRepairs appends repair log entries for the given mesh, prefixed
// with its one-based position.
func (r *Result) AddRepairs(meshIndex int, repairs []string) {
	for _, entry := range repairs {
		r.Repairs = append(r.Repairs, fmt.Sprintf("Mesh %d: %s", meshIndex+1, entry))
	}
}

// MarshalJSON flattens the per-mesh diagnostics into indexed keys and
// applies the presence rules for conditional fields.
func (r *Result) MarshalJSON() ([]byte, error) {
	out := map[string]any{
		"success":      r.Success,
		"input":        r.Input,
		"output":       r.Output,
		"input_format": r.InputFormat,
		"tolerance":    r.Tolerance,
	}
	for i, info := range r.MeshInfoBefore {
		out[fmt.Sprintf("mesh_info_before_%d", i)] = info
	}
	for i, info := range r.MeshInfoAfter {
		out[fmt.Sprintf("mesh_info_after_%d", i)] = info
	}
	if len(r.MeshInfoBefore) > 0 {
		out["mesh_info_before"] = r.MeshInfoBefore[0]
	}
	if len(r.MeshInfoAfter) > 0 {
		out["mesh_info_after"] = r.MeshInfoAfter[0]
	}
	if r.Repairs != nil {
		out["repairs"] = r.Repairs
	}
	if r.IsSolid != nil {
		out["is_solid"] = *r.IsSolid
	}
	if r.MergedPlanarFaces != nil {
		out["merged_planar_faces"] = *r.MergedPlanarFaces
	}
	if r.MergedPerSolid {
		out["merged_per_solid"] = true
	}
	if r.SkippedMergeReason != "" {
		out["skipped_merge_reason"] = r.SkippedMergeReason
	}
	if r.Success && r.OutputSize > 0 {
		out["output_size"] = r.OutputSize
	}
	if r.Error != "" {
		out["error"] = r.Error
		out["stage"] = string(r.Stage)
	}
	return json.Marshal(out)
}

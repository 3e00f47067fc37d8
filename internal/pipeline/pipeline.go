// Package pipeline orchestrates a single conversion: load, diagnose,
// repair, reconstruct, export, report. Failures never escape as errors
// or panics; every outcome is encoded in the result.
package pipeline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/philipparndt/mesh2step/internal/diag"
	"github.com/philipparndt/mesh2step/internal/heuristics"
	"github.com/philipparndt/mesh2step/internal/kernel"
	"github.com/philipparndt/mesh2step/internal/reconstruct"
	"github.com/philipparndt/mesh2step/internal/repair"
	"github.com/philipparndt/mesh2step/internal/report"
	"github.com/philipparndt/mesh2step/internal/threemf"
)

// FormatSTL and Format3MF are the supported input formats
const (
	FormatSTL = "stl"
	Format3MF = "3mf"
)

// DefaultTolerance is used when the caller gives none
const DefaultTolerance = 0.01

// Options configures a single conversion
type Options struct {
	Input     string
	Output    string
	Format    string
	Tolerance float64
	Repair    bool
	InfoOnly  bool
}

// DetectFormat derives the input format from the file extension,
// defaulting to STL.
func DetectFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".3mf") {
		return Format3MF
	}
	return FormatSTL
}

// Converter runs conversions against a geometry kernel
type Converter struct {
	kernel   kernel.Kernel
	loader   *threemf.Loader
	analyzer *diag.Analyzer
	repairer *repair.Repairer
	limits   heuristics.Limits
	log      *zap.Logger
}

// NewConverter wires a converter on top of the given kernel
func NewConverter(k kernel.Kernel, limits heuristics.Limits, log *zap.Logger) *Converter {
	return &Converter{
		kernel:   k,
		loader:   threemf.NewLoader(log),
		analyzer: diag.NewAnalyzer(log),
		repairer: repair.NewRepairer(log),
		limits:   limits,
		log:      log,
	}
}

// Convert runs the full pipeline. The returned result is always usable,
// even when a stage panicked.
func (c *Converter) Convert(opts Options) (result *report.Result) {
	if opts.Format == "" {
		opts.Format = DetectFormat(opts.Input)
	}
	if opts.Tolerance == 0 {
		opts.Tolerance = DefaultTolerance
	}
	result = report.New(opts.Input, opts.Output, opts.Format, opts.Tolerance)

	defer func() {
		if r := recover(); r != nil {
			c.log.Error("conversion panicked", zap.Any("panic", r))
			result.Fail(report.StageConversion, fmt.Errorf("%v", r))
		}
	}()

	c.log.Info("conversion started",
		zap.String("input", opts.Input),
		zap.String("output", opts.Output),
		zap.String("format", opts.Format),
		zap.Float64("tolerance", opts.Tolerance),
		zap.Bool("repair", opts.Repair))

	if _, err := os.Stat(opts.Input); err != nil {
		result.Fail(report.StageValidation, errors.New("Input file not found"))
		return result
	}

	meshes, err := c.load(opts)
	if err != nil {
		result.Fail(report.StageLoad,
			fmt.Errorf("Failed to load %s file: %v", strings.ToUpper(opts.Format), err))
		return result
	}

	if len(meshes) == 0 || (len(meshes) == 1 && meshes[0].CountFacets() == 0) {
		result.Fail(report.StageRead,
			fmt.Errorf("%s contains no facets", strings.ToUpper(opts.Format)))
		return result
	}

	totalFacets := 0
	for _, m := range meshes {
		totalFacets += m.CountFacets()
	}

	skipExpensive := c.limits.SkipExpensiveChecks(totalFacets)
	if skipExpensive {
		c.log.Info("large mesh, skipping expensive checks", zap.Int("facets", totalFacets))
	}

	result.Repairs = []string{}
	for i, m := range meshes {
		c.log.Debug("processing mesh",
			zap.Int("mesh", i+1),
			zap.Int("of", len(meshes)),
			zap.Int("facets", m.CountFacets()))
		result.MeshInfoBefore = append(result.MeshInfoBefore, c.analyzer.Analyze(m, skipExpensive))
		if opts.Repair {
			result.AddRepairs(i, c.repairer.Run(m, skipExpensive))
			result.MeshInfoAfter = append(result.MeshInfoAfter, c.analyzer.Analyze(m, skipExpensive))
		}
	}

	if opts.InfoOnly {
		c.log.Debug("info only mode, skipping reconstruction")
		result.Success = true
		return result
	}

	builder := reconstruct.NewBuilder(c.kernel, c.limits, c.log)
	assembly, err := builder.Build(meshes, opts.Tolerance)
	if err != nil {
		result.Fail(report.StageConversion, err)
		return result
	}
	result.IsSolid = &assembly.IsSolid
	merged := assembly.MergedPlanarFaces
	result.MergedPlanarFaces = &merged
	result.MergedPerSolid = assembly.MergedPerSolid
	result.SkippedMergeReason = assembly.SkippedMergeReason

	c.log.Info("exporting STEP file", zap.String("output", opts.Output))
	if err := c.kernel.ExportSTEP([]kernel.Shape{assembly.Final}, opts.Output); err != nil {
		result.Fail(report.StageExport, err)
		return result
	}
	info, err := os.Stat(opts.Output)
	if err != nil || info.Size() == 0 {
		result.Fail(report.StageExport, errors.New("STEP export failed"))
		return result
	}

	result.Success = true
	result.OutputSize = info.Size()
	c.log.Info("conversion complete", zap.Int64("output_size", info.Size()))
	return result
}

func (c *Converter) load(opts Options) ([]kernel.Mesh, error) {
	if opts.Format == Format3MF {
		raw, err := c.loader.Load(opts.Input)
		if err != nil {
			return nil, err
		}
		meshes := make([]kernel.Mesh, 0, len(raw))
		for _, m := range raw {
			meshes = append(meshes, c.kernel.AdoptMesh(m))
		}
		return meshes, nil
	}
	m, err := c.kernel.ReadMesh(opts.Input)
	if err != nil {
		return nil, err
	}
	return []kernel.Mesh{m}, nil
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/philipparndt/mesh2step/internal/config"
	"github.com/philipparndt/mesh2step/internal/heuristics"
	"github.com/philipparndt/mesh2step/internal/kernel/facet"
	"github.com/philipparndt/mesh2step/internal/logger"
	"github.com/philipparndt/mesh2step/internal/pipeline"
	"github.com/philipparndt/mesh2step/internal/preconditions"
	"github.com/philipparndt/mesh2step/internal/report"
	"github.com/philipparndt/mesh2step/internal/ui"
	"github.com/philipparndt/mesh2step/version"
)

type CLI struct {
	Convert    *ConvertCmd    `cmd:"" help:"Convert a mesh file (STL, 3MF) to a STEP solid"`
	Inspect    *InspectCmd    `cmd:"" help:"Inspect a mesh file and print its diagnostics"`
	Version    *VersionCmd    `cmd:"" help:"Show version information"`
	Completion *CompletionCmd `cmd:"" help:"Generate shell completion scripts"`
}

type ConvertCmd struct {
	Input     string  `arg:"" help:"Input mesh file (.stl or .3mf)"`
	Output    string  `arg:"" help:"Output STEP file path"`
	Tolerance float64 `help:"Reconstruction tolerance in model units" default:"0.01"`
	NoRepair  bool    `help:"Skip the mesh repair pipeline"`
	Format    string  `help:"Input format, detected from the extension when omitted" enum:"auto,stl,3mf" default:"auto"`
	Config    string  `help:"YAML configuration file" type:"path"`
	LogFile   string  `help:"Write logs to this file (rotated)" type:"path"`
	Verbose   bool    `help:"Enable debug logging" short:"v"`
}

// Help adds additional help text with examples
func (c *ConvertCmd) Help() string {
	return renderConvertHelp()
}

func (c *ConvertCmd) Run() error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	log := buildLogger(cfg, c.LogFile, c.Verbose)
	defer log.Sync()

	if c.Verbose {
		ui.PrintTitle("mesh2step")
		ui.PrintKeyValue("Input", c.Input)
		ui.PrintKeyValue("Output", c.Output)
		ui.PrintKeyValue("Tolerance", fmt.Sprintf("%g", c.Tolerance))
		if c.LogFile != "" {
			ui.PrintInfo("Logging to " + c.LogFile)
		}
		ui.PrintSeparator()
	}

	result := runConvert(cfg.Limits, log, pipeline.Options{
		Input:     c.Input,
		Output:    c.Output,
		Format:    resolveFormat(c.Format, c.Input),
		Tolerance: c.Tolerance,
		Repair:    !c.NoRepair,
	})
	if c.Verbose {
		printConvertSummary(result)
	}
	return emit(result)
}

type InspectCmd struct {
	Input   string `arg:"" help:"Mesh file to inspect (.stl or .3mf)"`
	Verbose bool   `help:"Enable debug logging" short:"v"`
}

func (c *InspectCmd) Run() error {
	if err := preconditions.ValidateInput(c.Input); err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}

	cfg := config.Default()
	log := buildLogger(cfg, "", c.Verbose)
	defer log.Sync()

	result := runConvert(cfg.Limits, log, pipeline.Options{
		Input:     c.Input,
		Tolerance: pipeline.DefaultTolerance,
		Repair:    false,
		InfoOnly:  true,
	})
	if c.Verbose {
		printInspectSummary(result)
	}
	return emit(result)
}

type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	info := version.Get()
	fmt.Println(info.String())
	return nil
}

// runConvert validates the output location and runs the pipeline. Every
// failure still produces a result, matching the stdout JSON contract.
func runConvert(limits heuristics.Limits, log *zap.Logger, opts pipeline.Options) *report.Result {
	if opts.Output != "" {
		if err := preconditions.ValidateOutput(opts.Output); err != nil {
			result := report.New(opts.Input, opts.Output, opts.Format, opts.Tolerance)
			result.Fail(report.StageValidation, err)
			return result
		}
	}
	converter := pipeline.NewConverter(facet.New(log), limits, log)
	return converter.Convert(opts)
}

// printConvertSummary mirrors the JSON result on stderr for humans
// watching a verbose run.
func printConvertSummary(result *report.Result) {
	for _, entry := range result.Repairs {
		ui.PrintItem(entry)
	}
	if result.SkippedMergeReason != "" {
		ui.PrintHighlight(result.SkippedMergeReason)
	}
	if result.Success {
		ui.PrintSuccess(fmt.Sprintf("Wrote %s (%d bytes)", result.Output, result.OutputSize))
		return
	}
	ui.PrintWarning(fmt.Sprintf("Conversion failed at stage %s: %s", result.Stage, result.Error))
}

// printInspectSummary renders per-mesh diagnostics on stderr
func printInspectSummary(result *report.Result) {
	if !result.Success {
		ui.PrintWarning(fmt.Sprintf("Inspection failed at stage %s: %s", result.Stage, result.Error))
		return
	}
	ui.PrintHeader("Diagnostics")
	for i, info := range result.MeshInfoBefore {
		ui.PrintStep(fmt.Sprintf("Mesh %d", i+1))
		ui.PrintKeyValue("Points", fmt.Sprintf("%d", info.Points))
		ui.PrintKeyValue("Facets", fmt.Sprintf("%d", info.Facets))
		ui.PrintKeyValue("Edges", fmt.Sprintf("%d", info.Edges))
		ui.PrintKeyValue("Solid", fmt.Sprintf("%t", info.IsSolid))
	}
}

// buildLogger assembles the zap logger from configuration and flags
func buildLogger(cfg *config.Config, logFile string, verbose bool) *zap.Logger {
	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	fileCfg := cfg.Logging.File
	if logFile != "" {
		fileCfg = logger.DefaultFileConfig(logFile)
	}
	return logger.New(level, fileCfg, true)
}

func emit(result *report.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.NewLoader().Load(path)
}

func resolveFormat(format, input string) string {
	if format == "" || format == "auto" {
		return pipeline.DetectFormat(input)
	}
	return format
}

// Parse parses command line arguments and executes the appropriate command
func Parse() {
	cli := &CLI{}
	ctx := kong.Parse(cli,
		kong.Name("mesh2step"),
		kong.Description("Convert triangulated mesh files to STEP solids"),
		kong.UsageOnError(),
	)
	err := ctx.Run()
	if err != nil {
		ui.PrintError(err.Error())
		os.Exit(1)
	}
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"baml/internal/buildpipeline"
	"baml/internal/driver"
)

var buildCmd = &cobra.Command{
	Use:   "build [flags] [dir]",
	Short: "Render every page of a baml project",
	Long: `Build renders every *.baml under the source directory into the output
directory, keeping the directory layout. Settings come from baml.toml; flags
override them. [dir] replaces [build].src.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().String("out", "", "output directory (default [build].out)")
	buildCmd.Flags().String("format", "pretty", "output layout (pretty|compact)")
	buildCmd.Flags().Int("jobs", 0, "parallel renders (0 = GOMAXPROCS)")
	buildCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	buildCmd.Flags().Bool("no-cache", false, "do not use the render cache")
	buildCmd.Flags().Bool("clean-cache", false, "drop the render cache before building")
	buildCmd.Flags().String("diagnostics", "pretty", "failure report format (pretty|short|json)")
	buildCmd.Flags().Int("max-diagnostics", 0, "maximum diagnostics to print (0 = all)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	noCache, err := cmd.Flags().GetBool("no-cache")
	if err != nil {
		return err
	}
	cleanCache, err := cmd.Flags().GetBool("clean-cache")
	if err != nil {
		return err
	}
	diagValue, err := cmd.Flags().GetString("diagnostics")
	if err != nil {
		return err
	}
	diagFormat, err := readDiagnosticsFormat(diagValue)
	if err != nil {
		return err
	}
	maxDiags, err := cmd.Flags().GetInt("max-diagnostics")
	if err != nil {
		return err
	}
	dirArg := ""
	if len(args) == 1 {
		dirArg = args[0]
	}
	layout, err := resolveLayout(cmd, dirArg)
	if err != nil {
		return err
	}
	if layout.manifest == nil && dirArg == "" {
		return errors.New("no baml.toml found; pass a source directory or run `baml init`")
	}

	s, err := startSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	req := &buildpipeline.BuildRequest{
		SrcDir: layout.srcDir,
		OutDir: layout.outDir,
		Render: layout.render,
		Jobs:   layout.jobs,
		Timer:  s.timer,
	}
	if !noCache {
		cache, cacheErr := driver.OpenDiskCache("baml")
		switch {
		case cacheErr != nil:
			s.infof("warning: render cache disabled: %v\n", cacheErr)
		case cleanCache:
			if err := cache.DropAll(); err != nil {
				s.infof("warning: failed to clean render cache: %v\n", err)
			}
			req.Cache = cache
		default:
			req.Cache = cache
		}
	}

	var result buildpipeline.BuildResult
	if shouldUseTUI(mode, s.quiet) {
		files, planErr := buildpipeline.Plan(layout.srcDir)
		if planErr != nil {
			return s.fail(planErr, nil)
		}
		title := fmt.Sprintf("build %s", displayDir(layout.srcDir))
		result, err = runBuildWithUI(s.ctx, s.stdout, title, files, req)
	} else {
		result, err = buildpipeline.Build(s.ctx, req)
	}
	if err != nil {
		return s.fail(err, nil)
	}

	if result.Dir != nil && result.Failed() > 0 {
		if err := printDiagnostics(s, diagFormat, maxDiags, result.Dir.Diagnostics(), result.Dir.FileSet); err != nil {
			return err
		}
		s.dumpRing()
		s.infof("%d of %d pages failed\n", result.Failed(), len(result.Dir.Files))
		return errReported
	}

	cached := 0
	if result.Dir != nil {
		for i := range result.Dir.Files {
			if result.Dir.Files[i].Cached {
				cached++
			}
		}
	}
	s.infof("built %d pages into %s (%d cached)\n", len(result.Written), displayDir(layout.outDir), cached)
	if s.timings {
		printStageTimings(s.stderr, result.Timings)
	}
	return nil
}

// displayDir shortens dir relative to the working directory when it is inside it.
func displayDir(dir string) string {
	wd, err := os.Getwd()
	if err != nil {
		return dir
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	rel, err := filepath.Rel(wd, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return dir
	}
	return rel
}

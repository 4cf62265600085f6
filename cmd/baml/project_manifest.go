package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"baml/internal/project"
	"baml/internal/render"
)

// loadProjectManifest finds baml.toml above startDir. A missing manifest is
// not an error; a broken one is.
func loadProjectManifest(startDir string) (*project.Manifest, bool, error) {
	m, ok, err := project.Load(startDir)
	if err != nil {
		return nil, ok, err
	}
	return m, ok, nil
}

// projectLayout is the effective configuration of build/test after
// applying the manifest and then the command line on top.
type projectLayout struct {
	manifest *project.Manifest // nil without baml.toml
	srcDir   string
	outDir   string
	testDir  string
	render   render.Options
	jobs     int
	tidy     string
	tidyArgs []string
}

func resolveLayout(cmd *cobra.Command, dirArg string) (*projectLayout, error) {
	m, found, err := loadProjectManifest(".")
	if err != nil {
		return nil, err
	}
	cfg := project.Default("")
	if found {
		cfg = m.Config
	}
	l := &projectLayout{
		srcDir:   cfg.Build.Src,
		outDir:   cfg.Build.Out,
		testDir:  cfg.Test.Dir,
		jobs:     cfg.Build.Jobs,
		tidy:     cfg.Test.Tidy,
		tidyArgs: cfg.Test.TidyArgs,
	}
	if found {
		l.manifest = m
		l.srcDir, l.outDir, l.testDir = m.SrcDir(), m.OutDir(), m.TestDir()
	}
	if l.render.Mode, err = render.ParseMode(cfg.Build.Format); err != nil {
		return nil, err
	}

	if dirArg != "" {
		abs, err := filepath.Abs(dirArg)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %q: %w", dirArg, err)
		}
		l.srcDir, l.testDir = abs, abs
	}

	flags := cmd.Flags()
	if f := flags.Lookup("out"); f != nil && f.Changed {
		l.outDir = f.Value.String()
	}
	if f := flags.Lookup("format"); f != nil && f.Changed {
		if l.render.Mode, err = render.ParseMode(f.Value.String()); err != nil {
			return nil, err
		}
	}
	if f := flags.Lookup("jobs"); f != nil && f.Changed {
		if l.jobs, err = flags.GetInt("jobs"); err != nil {
			return nil, err
		}
	}
	if f := flags.Lookup("tidy"); f != nil && f.Changed {
		l.tidy = f.Value.String()
	}
	return l, nil
}

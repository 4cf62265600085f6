package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"baml/internal/fixture"
)

var testCmd = &cobra.Command{
	Use:   "test [flags] [dir]",
	Short: "Check rendered pages against .html fixtures",
	Long: `Test renders every name.baml in the fixture directory and compares it
with name.html after normalizing both through tidy. [dir] replaces [test].dir.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTest,
}

func init() {
	testCmd.Flags().String("tidy", "tidy", "normalizer command (default [test].tidy)")
	testCmd.Flags().Bool("no-tidy", false, "compare output byte for byte")
	testCmd.Flags().Int("jobs", 0, "parallel fixtures (0 = GOMAXPROCS)")
	testCmd.Flags().BoolP("verbose", "v", false, "show diagnostics and diffs for failures")
}

func runTest(cmd *cobra.Command, args []string) error {
	noTidy, err := cmd.Flags().GetBool("no-tidy")
	if err != nil {
		return err
	}
	verbose, err := cmd.Flags().GetBool("verbose")
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

	s, err := startSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	opts := fixture.Options{Render: layout.render, Jobs: layout.jobs}
	if !noTidy {
		opts.Normalizer = fixture.TidyNormalizer{Command: layout.tidy, Args: layout.tidyArgs}
	}

	sum, err := fixture.Run(s.ctx, layout.testDir, opts)
	if err != nil {
		return s.fail(fmt.Errorf("fixtures in %s: %w", displayDir(layout.testDir), err), nil)
	}
	fixture.Report(s.stdout, sum, fixture.ReportOpts{Color: s.color, Verbose: verbose, Pretty: s.prettyOpts()})
	if !sum.OK() {
		s.dumpRing()
		return errReported
	}
	return nil
}

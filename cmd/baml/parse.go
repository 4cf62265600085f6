package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"baml/internal/diagfmt"
	"baml/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.baml",
	Short: "Parse a baml source file and dump its tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().String("format", "tree", "output format (tree|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "tree" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	s, err := startSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	result, err := driver.Parse(s.ctx, args[0], driver.Options{Timer: s.timer})
	if err != nil {
		if result == nil {
			return s.fail(err, nil)
		}
		return s.fail(err, result.FileSet)
	}

	if format == "json" {
		return diagfmt.FormatASTJSON(s.stdout, result.Doc)
	}
	return diagfmt.FormatASTPretty(s.stdout, result.Doc, result.FileSet)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"baml/internal/diagfmt"
	"baml/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.baml",
	Short: "Tokenize a baml source file",
	Long:  `Tokenize breaks down a baml source file into its constituent tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	s, err := startSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	result, err := driver.Tokenize(s.ctx, args[0], driver.Options{Timer: s.timer})
	if err != nil {
		if result == nil {
			return s.fail(err, nil)
		}
		return s.fail(err, result.FileSet)
	}

	// Выводим токены в выбранном формате
	if format == "json" {
		return diagfmt.FormatTokensJSON(s.stdout, result.Tokens)
	}
	return diagfmt.FormatTokensPretty(s.stdout, result.Tokens, result.FileSet)
}

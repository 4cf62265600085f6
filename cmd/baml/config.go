package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"baml/internal/project"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the project manifest with defaults filled in",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, found, err := loadProjectManifest(".")
		if err != nil {
			return err
		}
		if !found {
			return errors.New("no baml.toml found")
		}
		text, err := project.Encode(m.Config)
		if err != nil {
			return fmt.Errorf("failed to encode manifest: %w", err)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "# %s\n", m.Path)
		fmt.Fprint(out, text)
		return nil
	},
}

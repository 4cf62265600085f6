package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"baml/internal/project"
)

var initCmd = &cobra.Command{
	Use:   "init [path|name]",
	Short: "Initialize a new baml project",
	Long: `Initialize a new baml project by creating a project manifest (baml.toml)
and an index page (src/index.baml). If [path|name] is omitted, initializes
the current directory. A non-existing name creates a directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	res, err := project.Init(target)
	if err != nil {
		return err
	}

	rel := res.Root
	if wd, err := os.Getwd(); err == nil {
		if r, err2 := filepath.Rel(wd, res.Root); err2 == nil {
			rel = r
		}
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized baml project %q in %s\n", res.Name, rel)
	for _, f := range res.Created {
		fmt.Fprintf(out, "  - %s\n", filepath.ToSlash(f))
	}
	for _, f := range res.Existed {
		fmt.Fprintf(out, "  - %s (existing)\n", filepath.ToSlash(f))
	}
	return nil
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"baml/internal/driver"
	"baml/internal/render"
)

// defaultEntry is rendered when no file is given.
const defaultEntry = "simple.baml"

var renderCmd = &cobra.Command{
	Use:   "render [flags] [file.baml|-]",
	Short: "Render a baml file to HTML",
	Long: `Render compiles one baml file and writes the HTML to stdout (or -o).
Without an argument simple.baml in the working directory is rendered;
"-" reads the source from stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().StringP("output", "o", "", "write HTML to file instead of stdout")
	renderCmd.Flags().String("format", "pretty", "output layout (pretty|compact)")
	renderCmd.Flags().Int("indent", 2, "spaces per nesting level (pretty)")
	renderCmd.Flags().Bool("tabs", false, "indent with tabs (pretty)")
}

func readRenderOptions(cmd *cobra.Command) (render.Options, error) {
	var opts render.Options
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	if opts.Mode, err = render.ParseMode(format); err != nil {
		return opts, err
	}
	if opts.IndentWidth, err = cmd.Flags().GetInt("indent"); err != nil {
		return opts, fmt.Errorf("failed to get indent flag: %w", err)
	}
	if opts.IndentWidth < 0 || opts.IndentWidth > 16 {
		return opts, fmt.Errorf("--indent must be within 0..16, got %d", opts.IndentWidth)
	}
	if opts.UseTabs, err = cmd.Flags().GetBool("tabs"); err != nil {
		return opts, fmt.Errorf("failed to get tabs flag: %w", err)
	}
	return opts, nil
}

func runRender(cmd *cobra.Command, args []string) error {
	renderOpts, err := readRenderOptions(cmd)
	if err != nil {
		return err
	}
	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	target := defaultEntry
	if len(args) == 1 {
		target = args[0]
	}

	s, err := startSession(cmd)
	if err != nil {
		return err
	}
	defer s.close()

	opts := driver.Options{Render: renderOpts, Timer: s.timer}
	var result *driver.Result
	if target == "-" {
		content, readErr := io.ReadAll(cmd.InOrStdin())
		if readErr != nil {
			return fmt.Errorf("failed to read stdin: %w", readErr)
		}
		result, err = driver.RenderSource(s.ctx, "<stdin>", content, opts)
	} else {
		result, err = driver.Render(s.ctx, target, opts)
	}
	if err != nil {
		if result == nil {
			return s.fail(err, nil)
		}
		return s.fail(err, result.FileSet)
	}

	if output == "" {
		_, err = s.stdout.Write(result.HTML)
		return err
	}
	if err := os.WriteFile(output, result.HTML, 0o600); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	s.infof("wrote %s (%d bytes)\n", output, len(result.HTML))
	return nil
}

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"baml/internal/diagfmt"
	"baml/internal/observ"
	"baml/internal/source"
	"baml/internal/trace"
)

// session bundles what every command sets up from the persistent flags:
// color, tracing, profiling and the phase timer.
type session struct {
	ctx     context.Context
	stdout  io.Writer
	stderr  io.Writer
	color   bool
	quiet   bool
	timings bool
	timer   *observ.Timer
	tracer  trace.Tracer
	prof    *observ.Profiler
}

func startSession(cmd *cobra.Command) (*session, error) {
	flags := cmd.Root().PersistentFlags()
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor, err := resolveColor(colorFlag, isTerminal(os.Stderr))
	if err != nil {
		return nil, err
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	// fatih/color по умолчанию смотрит только на stdout
	color.NoColor = !useColor

	s := &session{
		stdout:  cmd.OutOrStdout(),
		stderr:  cmd.ErrOrStderr(),
		color:   useColor,
		quiet:   quiet,
		timings: timings,
		tracer:  trace.Nop,
	}
	if timings {
		s.timer = observ.NewTimer()
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	tracer, err := setupTracing(cmd)
	if err != nil {
		return nil, err
	}
	s.tracer = tracer
	s.ctx = trace.WithTracer(ctx, tracer)

	if s.prof, err = setupProfiling(cmd); err != nil {
		s.closeTracer()
		return nil, err
	}
	return s, nil
}

// resolveColor maps --color to a decision. "always"/"never" are accepted as
// aliases of on/off.
func resolveColor(value string, tty bool) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return tty, nil
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// setupTracing inspects trace-related flags and creates the tracer.
func setupTracing(cmd *cobra.Command) (trace.Tracer, error) {
	flags := cmd.Root().PersistentFlags()
	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		return trace.Nop, nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace format: %w", err)
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	return tracer, nil
}

// setupProfiling starts the profiles requested on the command line.
func setupProfiling(cmd *cobra.Command) (*observ.Profiler, error) {
	flags := cmd.Root().PersistentFlags()
	cpuProfile, err := flags.GetString("cpu-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	memProfile, err := flags.GetString("mem-profile")
	if err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	p, err := observ.StartProfile(cpuProfile, memProfile)
	if err != nil {
		return nil, fmt.Errorf("failed to start profiling: %w", err)
	}
	return p, nil
}

// close stops profiling, prints timings and flushes the tracer.
func (s *session) close() {
	if err := s.prof.Stop(); err != nil {
		fmt.Fprintf(s.stderr, "profile: %v\n", err)
	}
	if s.timings && s.timer != nil {
		fmt.Fprint(s.stderr, s.timer.Summary())
	}
	s.closeTracer()
}

func (s *session) closeTracer() {
	if err := s.tracer.Flush(); err != nil {
		fmt.Fprintf(s.stderr, "trace: flush error: %v\n", err)
	}
	if err := s.tracer.Close(); err != nil {
		fmt.Fprintf(s.stderr, "trace: close error: %v\n", err)
	}
}

func (s *session) prettyOpts() diagfmt.PrettyOpts {
	base, _ := os.Getwd()
	return diagfmt.PrettyOpts{
		Color:     s.color,
		Context:   2,
		PathMode:  diagfmt.PathModeAuto,
		BaseDir:   base,
		ShowNotes: true,
	}
}

// fail prints err as a diagnostic, dumps the trace ring if there is one
// and returns errReported so main only sets the exit status.
func (s *session) fail(err error, fs *source.FileSet) error {
	if err == nil {
		return nil
	}
	diagfmt.PrettyError(s.stderr, err, fs, s.prettyOpts())
	s.dumpRing()
	return errReported
}

func (s *session) dumpRing() {
	ring, ok := trace.RingOf(s.tracer)
	if !ok {
		return
	}
	if err := ring.Dump(s.stderr, trace.FormatText); err != nil {
		fmt.Fprintf(s.stderr, "trace: dump error: %v\n", err)
	}
}

// infof prints progress chatter unless --quiet.
func (s *session) infof(format string, args ...any) {
	if s.quiet {
		return
	}
	fmt.Fprintf(s.stderr, format, args...)
}

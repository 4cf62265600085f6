package fixture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Normalizer brings two HTML documents to a comparable form.
type Normalizer interface {
	Normalize(ctx context.Context, html []byte) ([]byte, error)
}

// NormalizerFunc adapts a function to Normalizer.
type NormalizerFunc func(ctx context.Context, html []byte) ([]byte, error)

func (f NormalizerFunc) Normalize(ctx context.Context, html []byte) ([]byte, error) {
	return f(ctx, html)
}

// Identity compares documents byte for byte.
var Identity Normalizer = NormalizerFunc(func(_ context.Context, html []byte) ([]byte, error) {
	return html, nil
})

// TidyNormalizer pipes HTML through an external tidy process.
type TidyNormalizer struct {
	Command string   // "tidy" when empty
	Args    []string // nil: DefaultTidyArgs
}

// DefaultTidyArgs keep tidy quiet so stdout holds only the document.
var DefaultTidyArgs = []string{"-q", "--show-warnings", "no", "--show-errors", "0"}

// Normalize runs tidy with html on stdin. tidy signals warnings and errors
// through its exit status; the status is ignored and stdout is used as is.
// Only a failure to start the process is an error.
func (n TidyNormalizer) Normalize(ctx context.Context, html []byte) ([]byte, error) {
	name := n.Command
	if name == "" {
		name = "tidy"
	}
	args := n.Args
	if args == nil {
		args = DefaultTidyArgs
	}
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdin = bytes.NewReader(html)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return stdout.Bytes(), nil
}

// String describes the command line, for reports.
func (n TidyNormalizer) String() string {
	name := n.Command
	if name == "" {
		name = "tidy"
	}
	args := n.Args
	if args == nil {
		args = DefaultTidyArgs
	}
	return strings.Join(append([]string{name}, args...), " ")
}

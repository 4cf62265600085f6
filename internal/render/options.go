package render

import "fmt"

// Mode selects the output layout.
type Mode uint8

const (
	// ModePretty prints one tag per line, indented by nesting depth.
	ModePretty Mode = iota
	// ModeCompact prints the whole document without whitespace between nodes.
	ModeCompact
)

func (m Mode) String() string {
	switch m {
	case ModePretty:
		return "pretty"
	case ModeCompact:
		return "compact"
	default:
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
}

// ParseMode maps a CLI/manifest value onto a Mode. Empty means pretty.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "", "pretty":
		return ModePretty, nil
	case "compact":
		return ModeCompact, nil
	default:
		return ModePretty, fmt.Errorf("unknown render format %q (want pretty or compact)", s)
	}
}

type Options struct {
	IndentWidth int
	UseTabs     bool
	Mode        Mode
}

func (o Options) withDefaults() Options {
	if o.IndentWidth <= 0 {
		o.IndentWidth = 2
	}
	return o
}

package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Defaults applied to a manifest that leaves a key out.
const (
	DefaultSrc    = "src"
	DefaultOut    = "dist"
	DefaultFormat = "pretty"
	DefaultTest   = "test"
	DefaultTidy   = "tidy"
)

// DefaultTidyArgs quiet tidy down to the normalized document only.
var DefaultTidyArgs = []string{"-q", "--show-warnings", "no", "--show-errors", "0"}

// ErrManifest marks every manifest validation failure.
var ErrManifest = errors.New("invalid manifest")

type Config struct {
	Project ProjectConfig `toml:"project"`
	Build   BuildConfig   `toml:"build"`
	Test    TestConfig    `toml:"test"`
}

type ProjectConfig struct {
	Name string `toml:"name"`
}

type BuildConfig struct {
	Src    string `toml:"src"`
	Out    string `toml:"out"`
	Format string `toml:"format"`
	Jobs   int    `toml:"jobs"`
}

type TestConfig struct {
	Dir      string   `toml:"dir"`
	Tidy     string   `toml:"tidy"`
	TidyArgs []string `toml:"tidy_args"`
}

// Manifest is a loaded baml.toml. Root is the directory holding it; every
// relative path in Config resolves against Root.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Default returns the configuration `baml init` writes for name.
func Default(name string) Config {
	cfg := Config{Project: ProjectConfig{Name: name}}
	cfg.applyDefaults(nil)
	return cfg
}

// Load finds baml.toml above startDir and decodes it. ok is false when no
// manifest exists; that is not an error.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, false, err
	}
	m, err := LoadFile(path)
	if err != nil {
		return nil, true, err
	}
	return m, true, nil
}

// LoadFile decodes and validates the manifest at path.
func LoadFile(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %q: %w", path, err)
	}
	var cfg Config
	meta, err := toml.DecodeFile(abs, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %w", ErrManifest, abs, err)
	}
	if !meta.IsDefined("project", "name") || strings.TrimSpace(cfg.Project.Name) == "" {
		return nil, fmt.Errorf("%w: %s: missing [project].name", ErrManifest, abs)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: %s: unknown key %s", ErrManifest, abs, undecoded[0])
	}
	if err := cfg.applyDefaults(&meta); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrManifest, abs, err)
	}
	return &Manifest{Path: abs, Root: filepath.Dir(abs), Config: cfg}, nil
}

func (c *Config) applyDefaults(meta *toml.MetaData) error {
	if c.Build.Src == "" {
		c.Build.Src = DefaultSrc
	}
	if c.Build.Out == "" {
		c.Build.Out = DefaultOut
	}
	switch c.Build.Format {
	case "":
		c.Build.Format = DefaultFormat
	case "pretty", "compact":
	default:
		return fmt.Errorf("[build].format must be \"pretty\" or \"compact\", got %q", c.Build.Format)
	}
	if c.Build.Jobs < 0 {
		return fmt.Errorf("[build].jobs must not be negative, got %d", c.Build.Jobs)
	}
	if c.Test.Dir == "" {
		c.Test.Dir = DefaultTest
	}
	if c.Test.Tidy == "" {
		c.Test.Tidy = DefaultTidy
	}
	// пустой список в файле означает "без аргументов", отсутствие ключа: дефолт
	if meta == nil || !meta.IsDefined("test", "tidy_args") {
		c.Test.TidyArgs = append([]string(nil), DefaultTidyArgs...)
	}
	return nil
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(m.Root, p)
}

// SrcDir is the absolute directory scanned for *.baml files.
func (m *Manifest) SrcDir() string { return m.resolve(m.Config.Build.Src) }

// OutDir is the absolute output directory for *.html files.
func (m *Manifest) OutDir() string { return m.resolve(m.Config.Build.Out) }

// TestDir is the absolute fixture directory.
func (m *Manifest) TestDir() string { return m.resolve(m.Config.Test.Dir) }

// Encode renders cfg as TOML.
func Encode(cfg Config) (string, error) {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(cfg); err != nil {
		return "", err
	}
	return sb.String(), nil
}

package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the file FindConfig looks for.
const ConfigFileName = "lox.yml"

// DefaultPrompt is shown before each REPL line unless configured otherwise.
const DefaultPrompt = "> "

var ErrConfigNotFound = errors.New(ConfigFileName + " not found")

// ColorMode controls ANSI highlighting of diagnostics.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// IsValid reports whether the mode is recognised.
func (m ColorMode) IsValid() bool {
	switch m {
	case ColorAuto, ColorAlways, ColorNever:
		return true
	default:
		return false
	}
}

// ParseColorMode normalises a user-supplied mode. The empty string means auto.
func ParseColorMode(value string) (ColorMode, error) {
	mode := ColorMode(strings.ToLower(strings.TrimSpace(value)))
	if mode == "" {
		return ColorAuto, nil
	}
	if !mode.IsValid() {
		return "", fmt.Errorf("unsupported color mode %q (want auto, always or never)", value)
	}
	return mode, nil
}

// ResolveColor decides whether output written to fd should be highlighted.
// Auto mode highlights terminals only and honours NO_COLOR.
func ResolveColor(mode ColorMode, fd uintptr) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	return IsTerminal(fd)
}

// IsTerminal reports whether fd refers to an interactive terminal.
func IsTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Config holds the settings read from lox.yml.
type Config struct {
	Path     string
	Prompt   string
	Color    ColorMode
	PrintAST bool
	History  bool
}

// DefaultConfig returns the settings used when no lox.yml is present.
func DefaultConfig() *Config {
	return &Config{Prompt: DefaultPrompt, Color: ColorAuto}
}

// ValidationError aggregates config validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "config: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("config validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

type configFile struct {
	Prompt   *string `yaml:"prompt"`
	Color    string  `yaml:"color"`
	PrintAST bool    `yaml:"print_ast"`
	History  bool    `yaml:"history"`
}

// LoadConfig parses lox.yml from disk. An empty file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw configFile
	if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: parse %s: %w", absPath, err)
	}

	cfg, err := raw.toConfig(absPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (raw configFile) toConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Path = path
	cfg.PrintAST = raw.PrintAST
	cfg.History = raw.History

	var errs ValidationError
	if raw.Prompt != nil {
		if strings.ContainsAny(*raw.Prompt, "\r\n") {
			errs.Issues = append(errs.Issues, "prompt must be a single line")
		}
		cfg.Prompt = *raw.Prompt
	}
	if raw.Color != "" {
		mode, err := ParseColorMode(raw.Color)
		if err != nil {
			errs.Issues = append(errs.Issues, "color: "+err.Error())
		} else {
			cfg.Color = mode
		}
	}
	if len(errs.Issues) > 0 {
		return nil, &errs
	}
	return cfg, nil
}

// FindConfig walks from start towards the filesystem root and returns the
// first lox.yml found. It wraps ErrConfigNotFound when none exists.
func FindConfig(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ConfigFileName, origin, ErrConfigNotFound)
		}
		dir = parent
	}
}

// DiscoverConfig loads the nearest lox.yml above start, or the defaults when
// there is none.
func DiscoverConfig(start string) (*Config, error) {
	path, err := FindConfig(start)
	if errors.Is(err, ErrConfigNotFound) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return LoadConfig(path)
}

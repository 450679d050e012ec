// Package config holds runtime configuration: defaults, the YAML settings
// file, environment overrides, CLI flag binding, and validation.
package config

import (
	"path/filepath"
	"strings"

	"github.com/go-errors/errors"
	"github.com/mcuadros/go-defaults"
	"gopkg.in/yaml.v3"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// ParseColorMode maps user input onto a ColorMode.
func ParseColorMode(s string) (ColorMode, error) {
	switch ColorMode(strings.ToLower(strings.TrimSpace(s))) {
	case ColorAuto:
		return ColorAuto, nil
	case ColorAlways:
		return ColorAlways, nil
	case ColorNever:
		return ColorNever, nil
	}
	return "", errors.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", s)
}

func (m *ColorMode) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseColorMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// DefaultInfoExtension is the suffix of CivitAI metadata sidecars.
const DefaultInfoExtension = "civitai.info"

// DefaultSettingsFile is loaded from the working directory when present and
// no --config flag was given.
const DefaultSettingsFile = "lorarenamer.yaml"

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then layered with the settings file, the environment, and CLI flags (see
// [Load]) before being passed by pointer to the packages that need it.
type Config struct {
	// Paths.
	LoraDir      string // Root scanned for sidecars. Required.
	SettingsFile string // YAML settings file; empty means DefaultSettingsFile if it exists.
	TrashDir     string // Overrides the platform trash location.

	// Renamer behavior.
	DeleteDuplicateFiles bool   `default:"false"` // Remove groups whose upstream id already exists under the canonical name.
	UseSend2Trash        bool   `default:"true"`  // Removal goes to the trash instead of unlinking.
	InfoExtension        string `default:"civitai.info"`
	DryRun               bool

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode `default:"auto"`
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with every default applied from the struct
// tags. Used as the base before [Load] layers other sources on top.
func DefaultConfig() Config {
	var cfg Config
	defaults.SetDefaults(&cfg)
	return cfg
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and required values.
func (c *Config) Validate() error {
	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return errors.New("invalid color mode (use 'auto', 'always' or 'never')")
	}

	ext := strings.TrimPrefix(strings.TrimSpace(c.InfoExtension), ".")
	if ext == "" {
		return errors.New("info extension must not be empty")
	}
	if strings.ContainsAny(ext, `/\`) {
		return errors.Errorf("invalid info extension %q (must not contain path separators)", c.InfoExtension)
	}
	c.InfoExtension = ext

	if c.LoraDir == "" {
		return errors.New("no LoRA directory configured (pass lora_dir, --lora-dir, LORA_DIR or set lora_dir in the settings file)")
	}
	if c.TrashDir != "" && !filepath.IsAbs(c.TrashDir) {
		abs, err := filepath.Abs(c.TrashDir)
		if err != nil {
			return errors.Errorf("cannot resolve trash directory %q: %w", c.TrashDir, err)
		}
		c.TrashDir = abs
	}
	return nil
}

// RemovalMode describes what happens to duplicate groups, for log headers.
func (c *Config) RemovalMode() string {
	switch {
	case !c.DeleteDuplicateFiles:
		return "keep (duplicates are skipped)"
	case c.UseSend2Trash:
		return "move to trash"
	default:
		return "delete permanently"
	}
}

package config

// This file implements CLI flag binding and the final layering in Load.
// Flags are grouped into paths, behavior, and display. Only flags the user
// actually passed override lower layers; negated flags (e.g. --no-trash) are
// applied after parsing so the defaults hold unless set.

import (
	"github.com/go-errors/errors"
	"github.com/spf13/pflag"
)

// Flags holds the values bound to a flag set until [Load] applies them.
type Flags struct {
	fs     *pflag.FlagSet
	values Config

	envFile    string
	noTrash    bool
	forceColor bool
	noColor    bool
	color      string
}

// BindFlags registers every option on fs and returns the holder that
// [Load] reads after fs has been parsed.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs}
	definePathFlags(fs, f)
	defineBehaviorFlags(fs, f)
	defineDisplayFlags(fs, f)
	return f
}

// definePathFlags registers --lora-dir, --config, --env-file, --trash-dir.
func definePathFlags(fs *pflag.FlagSet, f *Flags) {
	fs.StringVarP(&f.values.LoraDir, "lora-dir", "d", "", "LoRA directory to scan (default: lora_dir setting)")
	fs.StringVar(&f.values.SettingsFile, "config", "", "YAML settings file (default: ./"+DefaultSettingsFile+" if present)")
	fs.StringVar(&f.envFile, "env-file", ".env", "Environment file to load before reading LORA_* variables")
	fs.StringVar(&f.values.TrashDir, "trash-dir", "", "Trash location override (default: platform trash)")
	fs.StringVar(&f.values.InfoExtension, "info-ext", DefaultInfoExtension, "Metadata sidecar suffix")
}

// defineBehaviorFlags registers --delete-duplicates, --no-trash, --dry-run.
func defineBehaviorFlags(fs *pflag.FlagSet, f *Flags) {
	fs.BoolVarP(&f.values.DeleteDuplicateFiles, "delete-duplicates", "D", false, "Remove groups whose model id already exists under the canonical name")
	fs.BoolVar(&f.noTrash, "no-trash", false, "Delete duplicates permanently instead of moving them to the trash")
	fs.BoolVarP(&f.values.DryRun, "dry-run", "n", false, "Preview only; do not rename or remove anything")
}

// defineDisplayFlags registers --color, --no-color, --force-color, verbose, --check, --log.
func defineDisplayFlags(fs *pflag.FlagSet, f *Flags) {
	fs.StringVar(&f.color, "color", string(ColorAuto), "Colored logs: auto | always | never")
	fs.BoolVar(&f.forceColor, "force-color", false, "Same as --color=always")
	fs.BoolVar(&f.noColor, "no-color", false, "Same as --color=never")
	fs.BoolVarP(&f.values.Verbose, "verbose", "v", false, "Verbose output")
	fs.BoolVarP(&f.values.CheckOnly, "check", "c", false, "Run diagnostics and exit")
	fs.StringVarP(&f.values.LogFile, "log", "l", "", "Append logs to file")
}

// SettingsFile returns the --config value, if any.
func (f *Flags) SettingsFile() string { return f.values.SettingsFile }

// apply copies every explicitly set flag into cfg.
func (f *Flags) apply(cfg *Config) error {
	changed := f.fs.Changed
	if changed("lora-dir") {
		cfg.LoraDir = NormalizeDirArg(f.values.LoraDir)
	}
	if changed("trash-dir") {
		cfg.TrashDir = f.values.TrashDir
	}
	if changed("info-ext") {
		cfg.InfoExtension = f.values.InfoExtension
	}
	if changed("delete-duplicates") {
		cfg.DeleteDuplicateFiles = f.values.DeleteDuplicateFiles
	}
	if changed("log") {
		cfg.LogFile = f.values.LogFile
	}
	if changed("color") {
		mode, err := ParseColorMode(f.color)
		if err != nil {
			return err
		}
		cfg.ColorMode = mode
	}
	cfg.DryRun = f.values.DryRun
	cfg.Verbose = f.values.Verbose
	cfg.CheckOnly = f.values.CheckOnly

	if f.noTrash {
		cfg.UseSend2Trash = false
	}
	if f.noColor {
		cfg.ColorMode = ColorNever
	} else if f.forceColor {
		cfg.ColorMode = ColorAlways
	}
	return nil
}

// Load builds the effective Config. Precedence, lowest first: defaults,
// settings file, environment, flags, then the optional positional lora_dir.
func Load(f *Flags, args []string) (Config, error) {
	cfg := DefaultConfig()
	cfg.SettingsFile = f.SettingsFile()

	if err := applySettingsFile(&cfg); err != nil {
		return cfg, err
	}
	if err := ApplyEnv(&cfg, f.envFile); err != nil {
		return cfg, err
	}
	if err := f.apply(&cfg); err != nil {
		return cfg, err
	}

	switch len(args) {
	case 0:
	case 1:
		cfg.LoraDir = NormalizeDirArg(args[0])
	default:
		return cfg, errors.Errorf("expected at most one lora_dir argument, got %d", len(args))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

package config

// This file loads the two layers below the flags: the YAML settings file and the
// process environment (optionally seeded from a .env file).

import (
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/go-errors/errors"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variable names read by [ApplyEnv].
const (
	EnvLoraDir          = "LORA_DIR"
	EnvDeleteDuplicates = "LORA_RENAMER_DELETE_DUPLICATES"
	EnvUseTrash         = "LORA_RENAMER_USE_TRASH"
	EnvTrashDir         = "LORA_RENAMER_TRASH_DIR"
	EnvLogFile          = "LORA_RENAMER_LOG"
)

// Settings mirrors the YAML settings file. Pointer fields distinguish "not set"
// from zero values so only keys present in the file override defaults.
type Settings struct {
	LoraDir              *string    `yaml:"lora_dir"`
	DeleteDuplicateFiles *bool      `yaml:"delete_duplicate_files"`
	UseSend2Trash        *bool      `yaml:"use_send2trash"`
	TrashDir             *string    `yaml:"trash_dir"`
	InfoExtension        *string    `yaml:"info_extension"`
	LogFile              *string    `yaml:"log_file"`
	Color                *ColorMode `yaml:"color"`
}

// LoadSettings reads and decodes a YAML settings file.
func LoadSettings(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading settings: %w", err)
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, errors.Errorf("parsing settings %s: %w", path, err)
	}
	return &s, nil
}

// Apply copies every key present in the settings file into cfg.
func (s *Settings) Apply(cfg *Config) {
	if s.LoraDir != nil {
		cfg.LoraDir = NormalizeDirArg(*s.LoraDir)
	}
	if s.DeleteDuplicateFiles != nil {
		cfg.DeleteDuplicateFiles = *s.DeleteDuplicateFiles
	}
	if s.UseSend2Trash != nil {
		cfg.UseSend2Trash = *s.UseSend2Trash
	}
	if s.TrashDir != nil {
		cfg.TrashDir = *s.TrashDir
	}
	if s.InfoExtension != nil {
		cfg.InfoExtension = *s.InfoExtension
	}
	if s.LogFile != nil {
		cfg.LogFile = *s.LogFile
	}
	if s.Color != nil {
		cfg.ColorMode = *s.Color
	}
}

// applySettingsFile loads cfg.SettingsFile, or DefaultSettingsFile when it
// exists. An explicitly named file that is missing is an error.
func applySettingsFile(cfg *Config) error {
	path := cfg.SettingsFile
	if path == "" {
		if _, err := os.Stat(DefaultSettingsFile); err != nil {
			return nil
		}
		path = DefaultSettingsFile
	}
	s, err := LoadSettings(path)
	if err != nil {
		return err
	}
	s.Apply(cfg)
	cfg.SettingsFile = path
	return nil
}

// ApplyEnv seeds the environment from envFile (if it exists) and applies the
// LORA_* variables to cfg. Variables already set in the process win over the
// file, matching godotenv.Load semantics.
func ApplyEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return errors.Errorf("loading %s: %w", envFile, err)
		}
	}

	if v, ok := lookupEnv(EnvLoraDir); ok {
		cfg.LoraDir = NormalizeDirArg(v)
	}
	if v, ok := lookupEnv(EnvTrashDir); ok {
		cfg.TrashDir = v
	}
	if v, ok := lookupEnv(EnvLogFile); ok {
		cfg.LogFile = v
	}
	if err := envBool(EnvDeleteDuplicates, &cfg.DeleteDuplicateFiles); err != nil {
		return err
	}
	return envBool(EnvUseTrash, &cfg.UseSend2Trash)
}

func lookupEnv(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func envBool(key string, dst *bool) error {
	v, ok := lookupEnv(key)
	if !ok {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return errors.Errorf("%s must be a boolean (got %q)", key, v)
	}
	*dst = b
	return nil
}

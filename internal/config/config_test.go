package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-errors/errors"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.False(t, cfg.DeleteDuplicateFiles)
	assert.True(t, cfg.UseSend2Trash)
	assert.Equal(t, DefaultInfoExtension, cfg.InfoExtension)
	assert.Equal(t, ColorAuto, cfg.ColorMode)
}

func TestNormalizeDirArg(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no trailing slash", "/models/Lora", "/models/Lora"},
		{"single trailing slash", "/models/Lora/", "/models/Lora"},
		{"multiple trailing slashes", "/models/Lora///", "/models/Lora"},
		{"root path", "/", "/"},
		{"relative path", "Lora", "Lora"},
		{"relative with slash", "Lora/", "Lora"},
		{"empty string", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDirArg(tt.in))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults with dir", func(c *Config) {}, false},
		{"missing dir", func(c *Config) { c.LoraDir = "" }, true},
		{"empty color", func(c *Config) { c.ColorMode = "" }, true},
		{"unknown color", func(c *Config) { c.ColorMode = "rainbow" }, true},
		{"empty extension", func(c *Config) { c.InfoExtension = " " }, true},
		{"extension with separator", func(c *Config) { c.InfoExtension = "a/b" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.LoraDir = "/models/Lora"
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_StripsLeadingDotFromExtension(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LoraDir = "/models/Lora"
	cfg.InfoExtension = ".civitai.info"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "civitai.info", cfg.InfoExtension)
}

func TestRemovalMode(t *testing.T) {
	cfg := DefaultConfig()
	assert.Contains(t, cfg.RemovalMode(), "keep")
	cfg.DeleteDuplicateFiles = true
	assert.Equal(t, "move to trash", cfg.RemovalMode())
	cfg.UseSend2Trash = false
	assert.Equal(t, "delete permanently", cfg.RemovalMode())
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	writeFile(t, path, "lora_dir: /srv/lora/\ndelete_duplicate_files: true\nuse_send2trash: false\ncolor: never\n")

	s, err := LoadSettings(path)
	require.NoError(t, err)

	cfg := DefaultConfig()
	s.Apply(&cfg)
	assert.Equal(t, "/srv/lora", cfg.LoraDir)
	assert.True(t, cfg.DeleteDuplicateFiles)
	assert.False(t, cfg.UseSend2Trash)
	assert.Equal(t, ColorNever, cfg.ColorMode)
	assert.Equal(t, DefaultInfoExtension, cfg.InfoExtension, "absent keys keep defaults")
}

func TestLoadSettings_InvalidColor(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	writeFile(t, path, "color: rainbow\n")
	_, err := LoadSettings(path)
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvLoraDir, "/env/lora/")
	t.Setenv(EnvDeleteDuplicates, "true")
	t.Setenv(EnvUseTrash, "0")

	cfg := DefaultConfig()
	require.NoError(t, ApplyEnv(&cfg, ""))
	assert.Equal(t, "/env/lora", cfg.LoraDir)
	assert.True(t, cfg.DeleteDuplicateFiles)
	assert.False(t, cfg.UseSend2Trash)
}

func TestApplyEnv_BadBool(t *testing.T) {
	t.Setenv(EnvUseTrash, "sometimes")
	cfg := DefaultConfig()
	assert.Error(t, ApplyEnv(&cfg, ""))
}

func TestApplyEnv_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	writeFile(t, envFile, EnvTrashDir+"="+filepath.Join(dir, "trash")+"\n")
	t.Setenv(EnvTrashDir, "")
	os.Unsetenv(EnvTrashDir)

	cfg := DefaultConfig()
	require.NoError(t, ApplyEnv(&cfg, envFile))
	assert.Equal(t, filepath.Join(dir, "trash"), cfg.TrashDir)
}

func TestApplyEnv_MissingDotEnvIsFine(t *testing.T) {
	cfg := DefaultConfig()
	assert.NoError(t, ApplyEnv(&cfg, filepath.Join(t.TempDir(), "missing.env")))
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	settings := filepath.Join(dir, "settings.yaml")
	writeFile(t, settings, "lora_dir: /from/settings\ndelete_duplicate_files: true\n")
	t.Setenv(EnvLoraDir, "/from/env")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f := BindFlags(fs)
	require.NoError(t, fs.Parse([]string{
		"--config", settings,
		"--env-file", filepath.Join(dir, "none.env"),
		"--lora-dir", "/from/flag/",
		"--no-trash",
	}))

	cfg, err := Load(f, nil)
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.LoraDir)
	assert.True(t, cfg.DeleteDuplicateFiles, "settings value survives when no flag overrides it")
	assert.False(t, cfg.UseSend2Trash)
	assert.Equal(t, settings, cfg.SettingsFile)
}

func TestLoad_PositionalDirWins(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	f := BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--env-file", "", "-d", "/flag", "-n", "--no-color"}))

	cfg, err := Load(f, []string{"/positional/"})
	require.NoError(t, err)
	assert.Equal(t, "/positional", cfg.LoraDir)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, ColorNever, cfg.ColorMode)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		args []string
	}{
		{"missing settings file", []string{"--config", "/nonexistent/lorarenamer.yaml"}, []string{"/x"}},
		{"bad color", []string{"--color", "rainbow"}, []string{"/x"}},
		{"too many args", nil, []string{"/a", "/b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			f := BindFlags(fs)
			require.NoError(t, fs.Parse(append([]string{"--env-file", ""}, tt.argv...)))
			_, err := Load(f, tt.args)
			assert.Error(t, err)
		})
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestErrorsCarryStack(t *testing.T) {
	cfg := DefaultConfig()
	err := cfg.Validate()
	require.Error(t, err)
	var stackErr *errors.Error
	require.True(t, errors.As(err, &stackErr))
	assert.NotEmpty(t, stackErr.ErrorStack())

	_, err = ParseColorMode("purple")
	assert.True(t, errors.As(err, &stackErr))

	t.Setenv(EnvUseTrash, "maybe")
	err = ApplyEnv(&cfg, "")
	assert.True(t, errors.As(err, &stackErr))
}

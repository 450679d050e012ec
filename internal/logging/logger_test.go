package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/lorarenamer/internal/config"
)

func newTestLogger(t *testing.T, cfg config.Config) (*Logger, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	cfg.ColorMode = config.ColorNever
	l, err := New(&cfg, &out, &errOut)
	require.NoError(t, err)
	t.Cleanup(func() { l.Close() })
	return l, &out, &errOut
}

func TestNewLogger_NoFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = ""
	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	defer l.Close()
	l.Info("test message")
}

func TestLogger_Levels(t *testing.T) {
	l, out, errOut := newTestLogger(t, config.DefaultConfig())

	l.Info("renamed %d files", 3)
	l.Success("ok")
	l.Warn("careful")
	l.Error("broken: %s", "x")

	assert.Contains(t, out.String(), "[INFO] renamed 3 files\n")
	assert.Contains(t, out.String(), "[SUCCESS] ok\n")
	assert.Contains(t, out.String(), "[WARN] careful\n")
	assert.NotContains(t, out.String(), "broken")
	assert.Contains(t, errOut.String(), "[ERROR] broken: x\n")
}

func TestLogger_DebugGatedByVerbose(t *testing.T) {
	l, out, _ := newTestLogger(t, config.DefaultConfig())

	l.Debug(false, "hidden")
	assert.Empty(t, out.String())

	l.Debug(true, "shown")
	assert.Contains(t, out.String(), "[DEBUG] shown")
}

func TestNewLogger_WithFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "nested", "lorarenamer.log")
	l, _, _ := newTestLogger(t, cfg)

	l.Info("to file")
	l.Error("also to file")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[INFO] to file")
	assert.Contains(t, string(b), "[ERROR] also to file")
	assert.NotContains(t, string(b), "\x1b[", "file sink is never colored")
}

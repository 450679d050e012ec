package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testArgs(t *testing.T, extra ...string) []string {
	envFile := filepath.Join(t.TempDir(), "missing.env")
	return append([]string{"--no-color", "--env-file", envFile}, extra...)
}

func TestRun_RenamesAndExitsZero(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo.civitai.info"),
		[]byte(`{"model": {"name": "Anime: Style"}, "name": "v2", "id": 42}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo.safetensors"), []byte("w"), 0o644))

	assert.Equal(t, 0, run(testArgs(t, dir)))
	assert.FileExists(t, filepath.Join(dir, "Anime__Style__v2.safetensors"))
	assert.FileExists(t, filepath.Join(dir, "Anime__Style__v2.civitai.info"))
}

func TestRun_MissingDirExitsOne(t *testing.T) {
	assert.Equal(t, 1, run(testArgs(t, filepath.Join(t.TempDir(), "missing"))))
}

func TestRun_Check(t *testing.T) {
	assert.Equal(t, 0, run(testArgs(t, "--check", t.TempDir())))
	assert.Equal(t, 1, run(testArgs(t, "--check", filepath.Join(t.TempDir(), "missing"))))
}

func TestRun_BadArgs(t *testing.T) {
	assert.Equal(t, 1, run(testArgs(t, "a", "b")))
	assert.Equal(t, 1, run(testArgs(t, "--color", "purple", t.TempDir())))
}

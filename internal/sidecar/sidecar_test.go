package sidecar

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		json      string
		wantModel string
		wantVer   string
		wantID    ID
		wantErr   error
	}{
		{
			name:      "numeric id",
			json:      `{"model": {"name": "Anime: Style", "type": "LORA"}, "name": "v2", "id": 42}`,
			wantModel: "Anime: Style", wantVer: "v2", wantID: "42",
		},
		{
			name:      "string id",
			json:      `{"model": {"name": "Detail"}, "name": "v1.0", "id": " abc "}`,
			wantModel: "Detail", wantVer: "v1.0", wantID: "abc",
		},
		{
			name:      "null id",
			json:      `{"model": {"name": "Detail"}, "name": "v1.0", "id": null}`,
			wantModel: "Detail", wantVer: "v1.0", wantID: "",
		},
		{
			name:      "missing id",
			json:      `{"model": {"name": "Detail"}, "name": "v1.0"}`,
			wantModel: "Detail", wantVer: "v1.0", wantID: "",
		},
		{
			name:      "object id",
			json:      `{"model": {"name": "Detail"}, "name": "v1.0", "id": {"value": 3}}`,
			wantModel: "Detail", wantVer: "v1.0", wantID: "",
		},
		{
			name:      "bool id",
			json:      `{"model": {"name": "Detail"}, "name": "v1.0", "id": true}`,
			wantModel: "Detail", wantVer: "v1.0", wantID: "",
		},
		{
			name:    "missing model",
			json:    `{"name": "v1.0", "id": 1}`,
			wantVer: "v1.0", wantID: "1", wantErr: ErrIncomplete,
		},
		{
			name:      "blank version",
			json:      `{"model": {"name": "Detail"}, "name": "  ", "id": 1}`,
			wantModel: "Detail", wantVer: "  ", wantID: "1", wantErr: ErrIncomplete,
		},
		{
			name:    "not json",
			json:    `{"model": `,
			wantErr: ErrMalformed,
		},
		{
			name:    "model is not an object",
			json:    `{"model": "x", "name": "v1"}`,
			wantErr: ErrMalformed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Parse([]byte(tt.json))
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, IsSkippable(err))
			} else {
				require.NoError(t, err)
				assert.True(t, r.Complete())
			}
			assert.Equal(t, tt.wantModel, r.ModelName())
			assert.Equal(t, tt.wantVer, r.Version())
			assert.Equal(t, tt.wantID, r.ID)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "foo.civitai.info")
	require.NoError(t, os.WriteFile(path, []byte(`{"model":{"name":"M"},"name":"V","id":7,"modelId":3}`), 0o644))

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ID("7"), r.ID)
	assert.Equal(t, ID("3"), r.ModelID)

	_, err = Load(filepath.Join(dir, "missing.civitai.info"))
	require.Error(t, err)
	assert.False(t, IsSkippable(err), "I/O errors are not content errors")
	assert.True(t, os.IsNotExist(err))
}

func TestLoadID(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.civitai.info")
	bad := filepath.Join(dir, "bad.civitai.info")
	require.NoError(t, os.WriteFile(good, []byte(`{"id": 99}`), 0o644))
	require.NoError(t, os.WriteFile(bad, []byte(`nope`), 0o644))

	id, ok := LoadID(good)
	assert.True(t, ok)
	assert.Equal(t, ID("99"), id)

	_, ok = LoadID(bad)
	assert.False(t, ok)

	_, ok = LoadID(filepath.Join(dir, "missing"))
	assert.False(t, ok)
}

// Package sidecar models the CivitAI model-version metadata that the web UI
// caches next to each LoRA file, and parses it from disk.
package sidecar

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/go-errors/errors"
)

// Sentinel errors for sidecars that cannot drive a rename. Both are non-fatal:
// callers skip the file group and continue.
var (
	ErrMalformed  = errors.New("malformed sidecar JSON")
	ErrIncomplete = errors.New("sidecar does not contain model name or version")
)

// Record is the subset of a model-version document the renamer needs.
// Unknown fields are ignored.
type Record struct {
	ID        ID     `json:"id"`
	ModelID   ID     `json:"modelId"`
	Name      string `json:"name"` // Version label, e.g. "v2".
	BaseModel string `json:"baseModel"`
	Model     Model  `json:"model"`
}

type Model struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ModelName returns model.name.
func (r Record) ModelName() string { return r.Model.Name }

// Version returns the version label (top-level name).
func (r Record) Version() string { return r.Name }

// Complete reports whether both the model name and version are present.
func (r Record) Complete() bool {
	return strings.TrimSpace(r.Model.Name) != "" && strings.TrimSpace(r.Name) != ""
}

// ID is an opaque upstream identifier. CivitAI emits numbers, but strings are
// accepted too; both are kept as their textual form so they compare equal
// regardless of the JSON type. Any other JSON value (object, array, bool)
// decodes as an empty ID, since the id only matters on collision.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*id = ""
	switch {
	case len(data) == 0:
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			*id = ID(strings.TrimSpace(s))
		}
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		var n json.Number
		if err := json.Unmarshal(data, &n); err == nil {
			*id = ID(n.String())
		}
	}
	return nil
}

// Empty reports whether no id was present.
func (id ID) Empty() bool { return id == "" }

func (id ID) String() string { return string(id) }

// Parse decodes a sidecar document. Invalid JSON yields ErrMalformed; a
// document without model name or version yields ErrIncomplete alongside the
// partially decoded record.
func Parse(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, errors.Errorf("%w: %v", ErrMalformed, err)
	}
	if !r.Complete() {
		return r, ErrIncomplete
	}
	return r, nil
}

// Load reads and parses the sidecar at path. Read failures are returned
// unwrapped from the filesystem so callers can tell them from content errors.
func Load(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	return Parse(data)
}

// LoadID returns only the id of the sidecar at path. Any failure to read or
// decode it yields an empty ID and ok=false.
func LoadID(path string) (id ID, ok bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	var r struct {
		ID ID `json:"id"`
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return "", false
	}
	return r.ID, !r.ID.Empty()
}

// IsSkippable reports whether err describes sidecar content (rather than I/O)
// and the group should be skipped instead of aborting the run.
func IsSkippable(err error) bool {
	return errors.Is(err, ErrMalformed) || errors.Is(err, ErrIncomplete)
}

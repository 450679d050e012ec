// Package trash removes files either reversibly, by moving them into the
// desktop trash, or permanently.
package trash

import (
	"os"

	"github.com/Bios-Marcel/wastebasket/v2"
	"github.com/go-errors/errors"
)

// Remover deletes a single file.
type Remover interface {
	Remove(path string) error
	// Describe names the removal mode for log lines ("moved to trash", ...).
	Describe() string
}

// Permanent unlinks files.
type Permanent struct{}

func (Permanent) Remove(path string) error { return os.Remove(path) }

func (Permanent) Describe() string { return "deleted permanently" }

// System moves files into the operating system's trash: the freedesktop.org
// home trash on Linux and BSD, ~/.Trash on macOS, the Recycle Bin on Windows.
type System struct{}

func (System) Remove(path string) error {
	if _, err := os.Lstat(path); err != nil {
		return err
	}
	if err := wastebasket.Trash(path); err != nil {
		return errors.WrapPrefix(err, "moving "+path+" to trash", 0)
	}
	return nil
}

func (System) Describe() string { return "moved to trash" }

// New returns the Remover for the configured mode. dir selects a trash
// directory managed by [Bin]; empty means the system trash.
func New(useTrash bool, dir string) (Remover, error) {
	switch {
	case !useTrash:
		return Permanent{}, nil
	case dir == "":
		return System{}, nil
	}
	return NewBin(dir)
}

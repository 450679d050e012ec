// Package check provides environment diagnostics (--check mode) and the
// pre-run validation (Preflight) for the LoRA directory and trash store.
package check

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-errors/errors"

	"github.com/backmassage/lorarenamer/internal/config"
	"github.com/backmassage/lorarenamer/internal/display"
	"github.com/backmassage/lorarenamer/internal/naming"
	"github.com/backmassage/lorarenamer/internal/renamer"
	"github.com/backmassage/lorarenamer/internal/trash"
)

// Sentinel errors returned by Preflight.
var (
	ErrNotWritable      = errors.New("LoRA directory is not writable")
	ErrTrashUnavailable = errors.New("trash directory is not usable")
)

// Logger is the minimal logging interface needed by RunCheck.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck prints what a run would operate on: the directory and its
// permissions, the sidecars found, the removal mode and the trash location.
// It returns false when a run could not succeed.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkDir(cfg.LoraDir, log)
	if ok {
		checkSidecars(cfg, log)
	}
	log.Info("Duplicates: %s", cfg.RemovalMode())
	if !checkTrash(cfg, log) {
		ok = false
	}
	return ok
}

func checkDir(dir string, log Logger) bool {
	fi, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Error("Directory %s does not exist", dir)
		return false
	case err != nil:
		log.Error("Cannot stat %s: %v", dir, err)
		return false
	case !fi.IsDir():
		log.Error("%s is not a directory", dir)
		return false
	}
	log.Success("Directory: %s", dir)

	if err := writable(dir); err != nil {
		log.Error("Directory %s is not writable: %v", dir, err)
		return false
	}
	log.Success("Directory is writable")
	return true
}

// checkSidecars reports the sidecar count and the combined size of the files
// grouped with them.
func checkSidecars(cfg *config.Config, log Logger) {
	sidecars, err := renamer.Discover(cfg.LoraDir, cfg.InfoExtension, renamer.OptionsFromConfig(cfg).ExcludeDirs...)
	if err != nil {
		log.Warn("Could not scan %s: %v", cfg.LoraDir, err)
		return
	}
	files, size := groupUsage(sidecars, cfg.InfoExtension)
	log.Info("Sidecars: %s (%s %s, %s)",
		display.FormatCount(len(sidecars)),
		display.FormatCount(files), display.Plural(files, "file", "files"),
		display.FormatBytes(size))
}

func checkTrash(cfg *config.Config, log Logger) bool {
	if !cfg.DeleteDuplicateFiles || !cfg.UseSend2Trash {
		return true
	}
	if cfg.TrashDir == "" {
		log.Success("Trash: system trash")
		return true
	}
	bin, err := trash.NewBin(cfg.TrashDir)
	if err != nil {
		log.Error("Trash: %v", err)
		return false
	}
	if err := writable(existingAncestor(bin.FilesDir())); err != nil {
		log.Error("Trash %s is not writable: %v", bin.FilesDir(), err)
		return false
	}
	log.Success("Trash: %s", bin.FilesDir())
	return true
}

// Preflight validates what a run needs before it starts touching files: an
// existing LoRA directory must be writable (unless dry running) and the trash
// directory must be writable when duplicates go there. A missing directory is
// not an error here; the run reports it as its status.
func Preflight(cfg *config.Config) error {
	fi, err := os.Stat(cfg.LoraDir)
	if err == nil && fi.IsDir() && !cfg.DryRun {
		if err := writable(cfg.LoraDir); err != nil {
			return errors.WrapPrefix(ErrNotWritable, cfg.LoraDir, 0)
		}
	}
	if cfg.DeleteDuplicateFiles && cfg.UseSend2Trash && cfg.TrashDir != "" {
		bin, err := trash.NewBin(cfg.TrashDir)
		if err != nil {
			return errors.WrapPrefix(ErrTrashUnavailable, err.Error(), 0)
		}
		if err := writable(existingAncestor(bin.FilesDir())); err != nil {
			return errors.WrapPrefix(ErrTrashUnavailable, bin.FilesDir(), 0)
		}
	}
	return nil
}

// --- internal helpers ---

// groupUsage counts the regular files sharing a base with any sidecar and
// sums their sizes. Each file is counted once.
func groupUsage(sidecars []string, ext string) (files int, size int64) {
	seen := make(map[string]bool)
	byDir := make(map[string][]string)
	for _, path := range sidecars {
		dir := filepath.Dir(path)
		name := filepath.Base(path)
		byDir[dir] = append(byDir[dir], name[:len(name)-len(ext)-1])
	}
	for dir, bases := range byDir {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.IsDir() || seen[filepath.Join(dir, e.Name())] {
				continue
			}
			for _, base := range bases {
				if _, ok := naming.SplitGroupName(e.Name(), base); !ok {
					continue
				}
				seen[filepath.Join(dir, e.Name())] = true
				files++
				if fi, err := e.Info(); err == nil {
					size += fi.Size()
				}
				break
			}
		}
	}
	return files, size
}

// existingAncestor returns path or its nearest existing parent.
func existingAncestor(path string) string {
	for {
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(path)
		if parent == path {
			return path
		}
		path = parent
	}
}

package renamer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-errors/errors"
	"github.com/gobwas/glob"

	"github.com/backmassage/lorarenamer/internal/config"
	"github.com/backmassage/lorarenamer/internal/naming"
	"github.com/backmassage/lorarenamer/internal/sidecar"
	"github.com/backmassage/lorarenamer/internal/trash"
)

// Logger is the logging surface the renamer needs. Defined here so tests can
// record decisions without the console logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// Options controls a run.
type Options struct {
	InfoExtension    string   // Sidecar suffix without leading dot.
	DeleteDuplicates bool     // Remove groups whose id already holds the canonical name.
	DryRun           bool
	Verbose          bool
	RemovalMode      string   // Shown in the batch header.
	ExcludeDirs      []string // Subtrees never scanned, e.g. a trash_dir inside the root.
}

// OptionsFromConfig derives run options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		InfoExtension:    cfg.InfoExtension,
		DeleteDuplicates: cfg.DeleteDuplicateFiles,
		DryRun:           cfg.DryRun,
		Verbose:          cfg.Verbose,
		RemovalMode:      cfg.RemovalMode(),
		ExcludeDirs:      excludeDirs(cfg),
	}
}

// excludeDirs keeps a configured trash_dir out of the scan even when this run
// does not remove anything: earlier runs may have filled it.
func excludeDirs(cfg *config.Config) []string {
	if cfg.TrashDir != "" {
		return []string{cfg.TrashDir}
	}
	return nil
}

// Renamer renames sidecar file groups under one root. A Renamer is meant for
// a single Run; it keeps per-run state.
type Renamer struct {
	opts    Options
	log     Logger
	remover trash.Remover

	claims *naming.Claims              // non-nil in dry runs
	bases  map[string]map[string]bool // dir → live group bases
}

// New returns a Renamer. remover may be nil when duplicates are not deleted.
func New(opts Options, log Logger, remover trash.Remover) *Renamer {
	if opts.InfoExtension == "" {
		opts.InfoExtension = config.DefaultInfoExtension
	}
	return &Renamer{opts: opts, log: log, remover: remover}
}

// Run is the top-level entry point: it builds the removal strategy from cfg
// and renames everything under cfg.LoraDir.
func Run(ctx context.Context, cfg *config.Config, log Logger) (*Summary, error) {
	var remover trash.Remover
	if cfg.DeleteDuplicateFiles {
		var err error
		remover, err = trash.New(cfg.UseSend2Trash, cfg.TrashDir)
		if err != nil {
			return &Summary{Status: err.Error()}, errors.WrapPrefix(err, "preparing trash", 0)
		}
	}
	return New(OptionsFromConfig(cfg), log, remover).Run(ctx, cfg.LoraDir)
}

// Run scans root and processes every sidecar. A missing root is reported
// through Summary.Status with a nil error; filesystem failures other than
// the per-group and per-file skips abort the run with an error.
func (r *Renamer) Run(ctx context.Context, root string) (*Summary, error) {
	s := &Summary{}

	fi, err := os.Stat(root)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		s.Status = fmt.Sprintf("Directory %s does not exist", root)
		r.log.Error("%s", s.Status)
		return s, nil
	case err != nil:
		return s, errors.Wrap(err, 0)
	case !fi.IsDir():
		s.Status = fmt.Sprintf("%s is not a directory", root)
		r.log.Error("%s", s.Status)
		return s, nil
	}
	if r.opts.DeleteDuplicates && r.remover == nil {
		return s, errors.New("duplicate deletion enabled without a remover")
	}

	sidecars, err := Discover(root, r.opts.InfoExtension, r.opts.ExcludeDirs...)
	if err != nil {
		return s, errors.WrapPrefix(err, "discovering sidecars", 0)
	}

	s.Total = len(sidecars)
	r.indexBases(sidecars)
	if r.opts.DryRun {
		r.claims = naming.NewClaims()
	}

	r.logBatchHeader(root, s)

	for i, path := range sidecars {
		if ctx.Err() != nil {
			r.log.Warn("Interrupted, %d of %d sidecars left unprocessed", len(sidecars)-i, len(sidecars))
			s.Interrupted = true
			break
		}
		s.Current = i + 1
		if err := r.processSidecar(path, s); err != nil {
			return s, err
		}
	}

	s.Status = StatusDone
	if s.Interrupted {
		s.Status = StatusInterrupted
	}
	r.logSummary(s)
	return s, nil
}

// indexBases records the group base of every discovered sidecar per directory.
func (r *Renamer) indexBases(sidecars []string) {
	r.bases = make(map[string]map[string]bool)
	for _, path := range sidecars {
		dir := filepath.Dir(path)
		base, _ := splitSidecar(filepath.Base(path), r.opts.InfoExtension)
		if r.bases[dir] == nil {
			r.bases[dir] = make(map[string]bool)
		}
		r.bases[dir][base] = true
	}
}

type action int

const (
	actionKeep action = iota
	actionRename
	actionDuplicate
	actionConflict
)

// decision is the outcome for one file group.
type decision struct {
	action    action
	newBase   string
	target    string // Canonical sidecar path that drove the decision.
	qualified bool   // newBase carries the id segment.
}

// processSidecar handles one file group: load → decide → rename/remove/skip.
func (r *Renamer) processSidecar(path string, s *Summary) error {
	dir, name := filepath.Dir(path), filepath.Base(path)
	base, suffix := splitSidecar(name, r.opts.InfoExtension)

	exists, err := r.exists(path)
	if err != nil {
		return err
	}
	if !exists {
		r.log.Debug(r.opts.Verbose, "Skipping \"%s\" as it no longer exists", name)
		s.Skipped++
		return nil
	}

	rec, err := sidecar.Load(path)
	if err != nil {
		if !sidecar.IsSkippable(err) {
			return errors.WrapPrefix(err, "reading "+path, 0)
		}
		if errors.Is(err, sidecar.ErrIncomplete) {
			r.log.Warn("Skipping \"%s\" as it does not contain model name or version", name)
		} else {
			r.log.Warn("Skipping \"%s\": %v", name, err)
		}
		s.Invalid++
		return nil
	}

	d, err := r.decide(dir, base, suffix, rec)
	if err != nil {
		return err
	}

	switch d.action {
	case actionKeep:
		r.log.Debug(r.opts.Verbose, "Already named: %s", name)
		s.Unchanged++
		return nil

	case actionConflict:
		r.log.Warn("Skipping \"%s\" as \"%s\" already exists and the sidecar has no id to tell them apart",
			name, filepath.Base(d.target))
		s.Skipped++
		return nil

	case actionDuplicate:
		s.Duplicates++
		if !r.opts.DeleteDuplicates {
			r.log.Warn("Skipping \"%s\" as \"%s\" already exists (same model id %s)",
				name, filepath.Base(d.target), rec.ID)
			s.Skipped++
			return nil
		}
		return r.removeGroup(dir, base, s)
	}

	if d.qualified {
		r.log.Info("Name taken by another model version, using id %s: %s", rec.ID, d.newBase)
	}
	return r.renameGroup(dir, base, d.newBase, rec.ID.String(), s)
}

// decide computes the canonical name for a group and what to do with it.
// The plain name is tried first; if it is held by a different upstream id
// the id-qualified name is tried once. The canonical sidecar always carries
// the configured extension, whatever casing it had on disk.
func (r *Renamer) decide(dir, base, suffix string, rec sidecar.Record) (decision, error) {
	current := filepath.Join(dir, naming.FileName(base, suffix))
	d := decision{newBase: naming.BaseName(rec.ModelName(), rec.Version(), "")}

	for {
		d.target = filepath.Join(dir, naming.FileName(d.newBase, r.opts.InfoExtension))
		if d.target == current {
			d.action = actionKeep
			return d, nil
		}

		occupant, exists, err := r.occupant(d.target)
		if err != nil {
			return d, err
		}
		if exists {
			// Case-insensitive filesystems resolve a case-only rename to the
			// group's own sidecar.
			same, err := r.sameFile(d.target, current)
			if err != nil {
				return d, err
			}
			exists = !same
		}
		switch {
		case !exists:
			d.action = actionRename
			return d, nil
		case !rec.ID.Empty() && occupant == rec.ID:
			d.action = actionDuplicate
			return d, nil
		case d.qualified:
			// Different occupant even with the id; per-file skips apply.
			d.action = actionRename
			return d, nil
		case rec.ID.Empty():
			d.action = actionConflict
			return d, nil
		}

		r.log.Debug(r.opts.Verbose, "\"%s\" belongs to id %q, qualifying with id %s",
			filepath.Base(d.target), occupant, rec.ID)
		d.newBase = naming.BaseName(rec.ModelName(), rec.Version(), rec.ID.String())
		d.qualified = true
	}
}

// renameGroup moves every file of the group from base to newBase, keeping
// each file's extension. The sidecar's extension is normalized to the
// configured one. Files whose target exists as a different file are skipped.
func (r *Renamer) renameGroup(dir, base, newBase, id string, s *Summary) error {
	files, err := r.groupFiles(dir, base)
	if err != nil {
		return err
	}

	renamed := 0
	sidecarMoved := false
	for _, name := range files {
		ext, ok := naming.SplitGroupName(name, base)
		if !ok {
			continue
		}
		isSidecar := strings.EqualFold(ext, r.opts.InfoExtension)
		if isSidecar {
			ext = r.opts.InfoExtension
		}
		newName := naming.FileName(newBase, ext)
		if newName == name {
			continue
		}

		src, dst := filepath.Join(dir, name), filepath.Join(dir, newName)
		taken, err := r.exists(dst)
		if err != nil {
			return err
		}
		if taken {
			same, err := r.sameFile(dst, src)
			if err != nil {
				return err
			}
			taken = !same
		}
		if taken {
			r.log.Warn("Skipping \"%s\" as \"%s\" already exists", name, newName)
			s.Conflicts++
			continue
		}

		if r.opts.DryRun {
			r.claims.Move(src, dst, id)
			r.log.Info("[DRY] Would rename %s -> %s", name, newName)
		} else {
			if err := os.Rename(src, dst); err != nil {
				return errors.WrapPrefix(err, "renaming "+src, 0)
			}
			r.log.Info("%s -> %s", name, newName)
		}
		renamed++
		if isSidecar {
			sidecarMoved = true
		}
	}

	s.Renamed += renamed
	if renamed > 0 {
		s.Groups++
		r.bases[dir][newBase] = true
	}
	if sidecarMoved {
		delete(r.bases[dir], base)
	}
	return nil
}

// removeGroup removes every file of a duplicate group through the remover.
func (r *Renamer) removeGroup(dir, base string, s *Summary) error {
	files, err := r.groupFiles(dir, base)
	if err != nil {
		return err
	}

	how := r.remover.Describe()
	for _, name := range files {
		path := filepath.Join(dir, name)
		var size int64
		if fi, err := os.Lstat(path); err == nil {
			size = fi.Size()
		}

		if r.opts.DryRun {
			r.claims.Vacate(path)
			r.log.Warn("[DRY] Would remove duplicate \"%s\" (%s)", name, how)
		} else {
			if err := r.remover.Remove(path); err != nil {
				return errors.WrapPrefix(err, "removing "+path, 0)
			}
			r.log.Warn("Removed duplicate \"%s\" (%s)", name, how)
		}
		s.Removed++
		s.RemovedBytes += size
	}
	delete(r.bases[dir], base)
	return nil
}

// groupFiles lists the regular files in dir named "<base>.*", excluding files
// that belong to a longer sibling group ("<base>.<more>.*" with its own
// sidecar) and files a dry run has already moved away. Names are sorted.
func (r *Renamer) groupFiles(dir, base string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.WrapPrefix(err, "listing "+dir, 0)
	}
	g, err := glob.Compile(glob.QuoteMeta(base) + ".*")
	if err != nil {
		return nil, errors.WrapPrefix(err, "matching group "+base, 0)
	}

	var longer []string
	for b := range r.bases[dir] {
		if strings.HasPrefix(b, base+".") {
			longer = append(longer, b)
		}
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !g.Match(e.Name()) {
			continue
		}
		if ownedBy(e.Name(), longer) {
			continue
		}
		if r.claims != nil {
			if _, exists, known := r.claims.Lookup(filepath.Join(dir, e.Name())); known && !exists {
				continue
			}
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func ownedBy(name string, bases []string) bool {
	for _, b := range bases {
		if _, ok := naming.SplitGroupName(name, b); ok {
			return true
		}
	}
	return false
}

// exists reports whether path is occupied, consulting dry-run claims first.
func (r *Renamer) exists(path string) (bool, error) {
	if r.claims != nil {
		if _, exists, known := r.claims.Lookup(path); known {
			return exists, nil
		}
	}
	_, err := os.Lstat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.WrapPrefix(err, "checking "+path, 0)
	}
	return true, nil
}

// sameFile reports whether a and b name the same file on disk (a hard link,
// or a case variant on a case-insensitive filesystem). Paths a dry run has
// touched are never the same file.
func (r *Renamer) sameFile(a, b string) (bool, error) {
	if r.claims != nil {
		if _, _, known := r.claims.Lookup(a); known {
			return false, nil
		}
		if _, _, known := r.claims.Lookup(b); known {
			return false, nil
		}
	}
	fa, err := os.Lstat(a)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.WrapPrefix(err, "checking "+a, 0)
	}
	fb, err := os.Lstat(b)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errors.WrapPrefix(err, "checking "+b, 0)
	}
	return os.SameFile(fa, fb), nil
}

// occupant reports whether the sidecar path is occupied and the upstream id
// inside it. Unreadable or id-less sidecars yield an empty id.
func (r *Renamer) occupant(path string) (sidecar.ID, bool, error) {
	if r.claims != nil {
		if id, exists, known := r.claims.Lookup(path); known {
			return sidecar.ID(id), exists, nil
		}
	}
	exists, err := r.exists(path)
	if err != nil || !exists {
		return "", false, err
	}
	id, _ := sidecar.LoadID(path)
	return id, true, nil
}

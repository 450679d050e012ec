package trash

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-errors/errors"
)

const infoSuffix = ".trashinfo"

// Bin moves files into a configured trash directory laid out like a
// freedesktop.org trash: payloads under files/, metadata under info/, so the
// directory can be browsed and restored by hand or by any trash tool.
type Bin struct {
	filesDir string
	infoDir  string
	now      func() time.Time
}

// ErrNoTrashDir is returned by NewBin without a directory.
var ErrNoTrashDir = errors.New("no trash directory given")

// NewBin returns a Bin rooted at dir. Directories are created on first use.
func NewBin(dir string) (*Bin, error) {
	if dir == "" {
		return nil, ErrNoTrashDir
	}
	return &Bin{
		filesDir: filepath.Join(dir, "files"),
		infoDir:  filepath.Join(dir, "info"),
		now:      time.Now,
	}, nil
}

// FilesDir returns where trashed payloads land.
func (b *Bin) FilesDir() string { return b.filesDir }

func (b *Bin) Describe() string { return "moved to trash" }

// Remove moves path into the trash under a name that does not clash with
// anything already there.
func (b *Bin) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if _, err := os.Lstat(abs); err != nil {
		return err
	}
	if err := b.ensureDirs(); err != nil {
		return err
	}

	name, info, err := b.reserve(abs)
	if err != nil {
		return err
	}
	dst := filepath.Join(b.filesDir, name)

	if err := moveFile(abs, dst); err != nil {
		os.Remove(info)
		return errors.WrapPrefix(err, "moving "+abs+" to trash", 0)
	}
	return nil
}

func (b *Bin) ensureDirs() error {
	if err := os.MkdirAll(b.filesDir, 0o700); err != nil {
		return err
	}
	return os.MkdirAll(b.infoDir, 0o700)
}

// reserve picks a free trash name for the file at abs, appending " (n)"
// before the extension on clashes, and atomically creates its .trashinfo
// file. It returns the chosen name and the info file path.
func (b *Bin) reserve(abs string) (name, infoPath string, err error) {
	base := filepath.Base(abs)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	for n := 1; ; n++ {
		name = base
		if n > 1 {
			name = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		}
		if _, err := os.Lstat(filepath.Join(b.filesDir, name)); err == nil {
			continue
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", "", err
		}
		infoPath = filepath.Join(b.infoDir, name+infoSuffix)
		f, err := os.OpenFile(infoPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", err
		}
		if err := b.writeInfo(f, abs); err != nil {
			os.Remove(infoPath)
			return "", "", err
		}
		return name, infoPath, nil
	}
}

func (b *Bin) writeInfo(f *os.File, original string) error {
	_, werr := fmt.Fprintf(f, "[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		escapePath(original), b.now().Format("2006-01-02T15:04:05"))
	cerr := f.Close()
	if werr != nil {
		return werr
	}
	return cerr
}

// escapePath percent-encodes a path for the Path= key, keeping '/' separators.
func escapePath(p string) string {
	return (&url.URL{Path: filepath.ToSlash(p)}).EscapedPath()
}

// moveFile renames src to dst, falling back to copy and unlink when they are
// on different filesystems.
func moveFile(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil || !errors.Is(err, syscall.EXDEV) {
		return err
	}
	if err := copyFile(src, dst); err != nil {
		os.Remove(dst)
		return err
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	fi, err := in.Stat()
	if err != nil {
		return err
	}
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, fi.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

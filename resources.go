package retrocon

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync/atomic"

	"github.com/ryanlewis/retrocon/internal/fontgen"
)

// ResourceLoader opens named font resources such as "chars_8x12.bin".
type ResourceLoader interface {
	Open(name string) (io.ReadCloser, error)
}

// cleanFSPath validates and cleans a path for use with fs.FS.
// It ensures the path is valid according to fs.ValidPath rules and
// prevents directory traversal attacks.
func cleanFSPath(p string) (string, error) {
	if p == "" {
		return "", errors.New("path cannot be empty")
	}
	// fs.FS disallows leading slash and uses '/' only
	if strings.HasPrefix(p, "/") {
		return "", errors.New("absolute paths not allowed")
	}
	if strings.ContainsRune(p, '\\') {
		return "", errors.New("backslashes not allowed in fs paths")
	}
	if !fs.ValidPath(p) {
		// rejects ".", ".." segments, empty elements, etc.
		return "", fmt.Errorf("invalid fs path: %s", p)
	}
	clean := path.Clean(p)
	if clean == "." || strings.HasPrefix(clean, "../") {
		return "", errors.New("path traversal not allowed")
	}
	return clean, nil
}

// FSLoader loads resources from a directory of an fs.FS.
//
// Example with embed.FS:
//
//	//go:embed chars/*.bin
//	var chars embed.FS
//
//	loader := retrocon.NewFSLoader(chars, "chars")
//	con, err := retrocon.New(80, 25, retrocon.WithLoader(loader))
type FSLoader struct {
	fsys fs.FS
	dir  string
	id   uint64
}

var fsLoaderIDs atomic.Uint64

// NewFSLoader returns a loader reading resources from dir inside fsys.
// An empty dir means the root of fsys.
func NewFSLoader(fsys fs.FS, dir string) *FSLoader {
	return &FSLoader{fsys: fsys, dir: dir, id: fsLoaderIDs.Add(1)}
}

// NewDirLoader returns a loader reading resources from an OS directory.
func NewDirLoader(dir string) *FSLoader {
	return NewFSLoader(os.DirFS(dir), "")
}

// Open implements ResourceLoader. Names are validated so they cannot
// escape the loader's directory.
func (l *FSLoader) Open(name string) (io.ReadCloser, error) {
	if l == nil || l.fsys == nil {
		return nil, fmt.Errorf("filesystem cannot be nil")
	}
	if strings.Contains(name, "/") {
		return nil, fmt.Errorf("resource name %q must not contain a path", name)
	}
	clean, err := cleanFSPath(path.Join(l.dir, name))
	if err != nil {
		return nil, err
	}
	file, err := l.fsys.Open(clean)
	if err != nil {
		return nil, fmt.Errorf("failed to open resource %s: %w", clean, err)
	}
	return file, nil
}

// String identifies the loader in font cache keys.
func (l *FSLoader) String() string {
	return "fs:" + l.dir
}

// CacheKey implements CacheKeyer. Every loader made by NewFSLoader has its
// own key; a zero FSLoader is not cached.
func (l *FSLoader) CacheKey() string {
	if l == nil || l.id == 0 {
		return ""
	}
	return fmt.Sprintf("fs#%d:%s", l.id, l.dir)
}

// BuiltinLoader synthesises the standard charsets in memory, so a console
// works without any font files.
type BuiltinLoader struct{}

// Open implements ResourceLoader for the standard charset resource names.
func (BuiltinLoader) Open(name string) (io.ReadCloser, error) {
	cs, err := ParseCharset(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open resource %s: %w", name, fs.ErrNotExist)
	}
	w, h := cs.Size()
	data, err := fontgen.Bytes(w, h)
	if err != nil {
		return nil, fmt.Errorf("failed to generate %s: %w", name, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// String identifies the loader in font cache keys.
func (BuiltinLoader) String() string {
	return "builtin"
}

// CacheKey implements CacheKeyer. All builtin loaders serve the same fonts.
func (BuiltinLoader) CacheKey() string {
	return "builtin"
}

// LoadFont opens and parses one font resource without caching.
func LoadFont(l ResourceLoader, name string) (*Font, error) {
	if l == nil {
		return nil, ErrNilLoader
	}
	rc, err := l.Open(name)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	font, err := ParseFont(rc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", name, err)
	}
	return font, nil
}

// CacheKeyer is implemented by loaders whose fonts may be shared through a
// FontCache. CacheKey must differ between loaders that can serve different
// data for one name. Loaders without it, or returning "", are never cached.
type CacheKeyer interface {
	CacheKey() string
}

// loaderKey returns the cache key of l, or false if l must not be cached.
func loaderKey(l ResourceLoader) (string, bool) {
	k, ok := l.(CacheKeyer)
	if !ok {
		return "", false
	}
	key := k.CacheKey()
	return key, key != ""
}

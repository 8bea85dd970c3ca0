package blob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Filesystem implements Store on a local directory. Keys map to relative
// file paths under the root; a key like "@taskpile/items" becomes
// <root>/@taskpile/items.json. Each key is replaced atomically via a temp
// file and rename.
type Filesystem struct {
	root string
}

// FilesystemOptions configures the fs driver.
type FilesystemOptions struct {
	Root string `mapstructure:"root"`
}

// NewFilesystem returns a filesystem blob store rooted at root, creating it
// if needed.
func NewFilesystem(root string) (*Filesystem, error) {
	if root == "" {
		root = "./shopdata"
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create blob root: %w", err)
	}
	return &Filesystem{root: root}, nil
}

func (f *Filesystem) Driver() Driver { return DriverFilesystem }

func (f *Filesystem) pathFor(key string) (string, error) {
	k, err := sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(f.root, filepath.FromSlash(k)) + ".json", nil
}

func (f *Filesystem) ReadMany(ctx context.Context, keys []string) (map[string][]byte, error) {
	out := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := f.pathFor(key)
		if err != nil {
			return nil, err
		}
		b, err := os.ReadFile(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		out[key] = b
	}
	return out, nil
}

func (f *Filesystem) WriteMany(ctx context.Context, entries map[string][]byte) error {
	for key, b := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		p, err := f.pathFor(key)
		if err != nil {
			return err
		}
		if err := writeAtomic(p, b); err != nil {
			return fmt.Errorf("write %s: %w", key, err)
		}
	}
	return nil
}

func (f *Filesystem) Close() error { return nil }

// writeAtomic streams b to a temp file next to p and renames it into place.
func writeAtomic(p string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(p), ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), p)
}

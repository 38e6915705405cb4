package blob

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore implements Store on a local directory. It is the write
// fallback when object storage is unreachable and the only backend in
// bare dev setups.
type LocalStore struct {
	root string
}

// NewLocalStore creates a LocalStore rooted at dir, creating it if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &LocalStore{root: abs}, nil
}

func (s *LocalStore) Name() string { return "local" }

// keyPath maps a slash-separated key to an absolute path under root.
// Keys that would escape the root are rejected.
func (s *LocalStore) keyPath(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" {
		return "", newError(s.Name(), ClassOther, fmt.Errorf("empty key"))
	}
	p := filepath.Join(s.root, filepath.FromSlash(clean))
	if !strings.HasPrefix(p, s.root+string(filepath.Separator)) {
		return "", newError(s.Name(), ClassOther, fmt.Errorf("key escapes storage root: %q", key))
	}
	return p, nil
}

// Put stores data under key. The content type is not persisted; local
// reads infer it from the extension like the serving layer does.
func (s *LocalStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	p, err := s.keyPath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return newError(s.Name(), ClassOther, err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return newError(s.Name(), ClassOther, err)
	}
	return nil
}

// Get retrieves the object. Content type is inferred from the extension.
func (s *LocalStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	p, err := s.keyPath(key)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", newError(s.Name(), ClassNotFound, err)
		}
		return nil, "", newError(s.Name(), ClassOther, err)
	}
	return data, mime.TypeByExtension(path.Ext(key)), nil
}

// Exists reports whether key is present as a regular file.
func (s *LocalStore) Exists(ctx context.Context, key string) bool {
	p, err := s.keyPath(key)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// DeletePrefix removes the subtree under prefix and counts the files it held.
func (s *LocalStore) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	p, err := s.keyPath(prefix)
	if err != nil {
		return 0, err
	}

	count := 0
	walkErr := filepath.WalkDir(p, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			count++
		}
		return nil
	})
	if walkErr != nil {
		if os.IsNotExist(walkErr) {
			return 0, nil
		}
		return 0, newError(s.Name(), ClassOther, walkErr)
	}

	if err := os.RemoveAll(p); err != nil {
		return 0, newError(s.Name(), ClassOther, err)
	}
	return count, nil
}

// Ensure LocalStore implements Store.
var _ Store = (*LocalStore)(nil)

// utils/localstore.go
package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps image blobs under a root directory on disk. URLs are
// "/uploads/<key>" and served by the fiber static handler.
type LocalStore struct {
	Root    string
	BaseURL string
}

// NewLocalStore creates the root directory if needed.
func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, os.ModePerm); err != nil {
		return nil, err
	}
	return &LocalStore{Root: root, BaseURL: "/uploads"}, nil
}

func (s *LocalStore) path(key string) string {
	return filepath.Join(s.Root, filepath.FromSlash(key))
}

// Save writes the blob to disk and returns its public URL.
func (s *LocalStore) Save(key string, r io.Reader, contentType string) (string, error) {
	dest := s.path(key)
	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return "", err
	}
	dst, err := os.Create(dest)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", err
	}
	return s.BaseURL + "/" + key, nil
}

// Delete removes one blob and prunes directories it leaves empty.
func (s *LocalStore) Delete(key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return err
	}
	s.pruneEmptyDirs(filepath.Dir(s.path(key)))
	return nil
}

// DeletePrefix removes the whole subtree under prefix, then prunes any
// parent directories that became empty as a result.
func (s *LocalStore) DeletePrefix(prefix string) error {
	dir := s.path(strings.TrimSuffix(prefix, "/"))
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	s.pruneEmptyDirs(filepath.Dir(dir))
	return nil
}

// pruneEmptyDirs removes dir and its parents while they are empty, stopping
// at the store root. os.Remove refuses non-empty directories, which is the
// termination condition.
func (s *LocalStore) pruneEmptyDirs(dir string) {
	root := filepath.Clean(s.Root)
	for dir != root && strings.HasPrefix(dir, root) {
		if err := os.Remove(dir); err != nil {
			return
		}
		dir = filepath.Dir(dir)
	}
}

// List walks the subtree under prefix and returns the stored keys.
func (s *LocalStore) List(prefix string) ([]StoredObject, error) {
	dir := s.path(strings.TrimSuffix(prefix, "/"))
	var objs []StoredObject
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.Root, path)
		if err != nil {
			return err
		}
		objs = append(objs, StoredObject{Key: filepath.ToSlash(rel), ModTime: info.ModTime()})
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("list %s: %w", prefix, err)
	}
	return objs, nil
}

// KeyFromURL strips the "/uploads/" prefix off a URL returned by Save.
func (s *LocalStore) KeyFromURL(url string) string {
	return strings.TrimPrefix(url, s.BaseURL+"/")
}

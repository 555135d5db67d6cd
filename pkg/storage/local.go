package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore writes files to a directory served statically under publicPath.
type LocalStore struct {
	dir        string
	publicPath string
}

func NewLocalStore(dir, publicPath string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, publicPath: "/" + strings.Trim(publicPath, "/")}, nil
}

func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	name, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write file: %w", err)
	}
	return path.Join(s.publicPath, name), nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	name, err := cleanKey(key)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete file: %w", err)
	}
	return nil
}

// cleanKey refuses keys that would escape the upload directory.
func cleanKey(key string) (string, error) {
	name := filepath.Base(key)
	if name != key || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return name, nil
}

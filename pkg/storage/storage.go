// Package storage is a bucket/key object store on the local filesystem.
package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrNotFound    = errors.New("object not found")
	ErrInvalidPath = errors.New("invalid object path")
)

type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, r io.Reader) (int64, error)
	Open(ctx context.Context, bucket, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, bucket, key string) error
}

type LocalStore struct {
	root string
}

func NewLocalStore(root string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create storage root %s", root)
	}
	return &LocalStore{root: root}, nil
}

// resolve maps bucket/key to a path under root, rejecting traversal.
func (s *LocalStore) resolve(bucket, key string) (string, error) {
	if bucket == "" || key == "" || strings.Contains(bucket, "..") || strings.ContainsAny(bucket, `/\`) {
		return "", ErrInvalidPath
	}
	clean := filepath.Clean("/" + key)
	if clean == "/" {
		return "", ErrInvalidPath
	}
	base := filepath.Join(s.root, bucket)
	full := filepath.Join(base, clean)
	if !strings.HasPrefix(full, base+string(os.PathSeparator)) {
		return "", ErrInvalidPath
	}
	return full, nil
}

func (s *LocalStore) Put(ctx context.Context, bucket, key string, r io.Reader) (int64, error) {
	path, err := s.resolve(bucket, key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, errors.Wrap(err, "create object directory")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return 0, errors.Wrap(err, "create temp object")
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, r)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, errors.Wrap(err, "write object")
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, errors.Wrap(err, "commit object")
	}
	return n, nil
}

func (s *LocalStore) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	path, err := s.resolve(bucket, key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	return f, errors.Wrap(err, "open object")
}

// Delete is idempotent; a missing object is not an error.
func (s *LocalStore) Delete(ctx context.Context, bucket, key string) error {
	path, err := s.resolve(bucket, key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "delete object")
	}
	return nil
}

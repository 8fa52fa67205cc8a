package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
)

// ArtifactStorage holds the named blobs that make up persisted indexes.
type ArtifactStorage interface {
	// Read returns ErrArtifactNotFound when name does not exist.
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	// Delete is a no-op for missing names.
	Delete(ctx context.Context, name string) error
	// Stat returns ErrArtifactNotFound when name does not exist. The stamp
	// changes whenever name is rewritten.
	Stat(ctx context.Context, name string) (Stamp, error)
}

// Stamp identifies one written version of an artifact.
type Stamp struct {
	Size    int64
	Version int64
}

// FileStorage keeps artifacts as files in one directory.
type FileStorage struct {
	dir string
}

var _ ArtifactStorage = (*FileStorage)(nil)

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

func (s *FileStorage) Dir() string {
	return s.dir
}

func (s *FileStorage) Read(_ context.Context, name string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrArtifactNotFound
	}
	return data, err
}

// Write replaces name atomically through a temp file in the same directory.
func (s *FileStorage) Write(_ context.Context, name string, data []byte) error {
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename artifact: %w", err)
	}
	return nil
}

func (s *FileStorage) Stat(_ context.Context, name string) (Stamp, error) {
	info, err := os.Stat(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return Stamp{}, ErrArtifactNotFound
	}
	if err != nil {
		return Stamp{}, err
	}
	return Stamp{Size: info.Size(), Version: info.ModTime().UnixNano()}, nil
}

func (s *FileStorage) Delete(_ context.Context, name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// BadgerStorage keeps artifacts in an embedded badger database.
type BadgerStorage struct {
	db *badger.DB
}

var _ ArtifactStorage = (*BadgerStorage)(nil)

const badgerPrefix = "vectorindex:"

// OpenBadgerStorage opens (or creates) a badger database at path. An empty
// path opens an in-memory database.
func OpenBadgerStorage(path string) (*BadgerStorage, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStorage{db: db}, nil
}

func (s *BadgerStorage) Close() error {
	return s.db.Close()
}

func (s *BadgerStorage) Read(_ context.Context, name string) ([]byte, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerPrefix + name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrArtifactNotFound
	}
	return data, err
}

func (s *BadgerStorage) Write(_ context.Context, name string, data []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(badgerPrefix+name), data)
	})
}

func (s *BadgerStorage) Stat(_ context.Context, name string) (Stamp, error) {
	var stamp Stamp
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(badgerPrefix + name))
		if err != nil {
			return err
		}
		stamp = Stamp{Size: item.ValueSize(), Version: int64(item.Version())}
		return nil
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return Stamp{}, ErrArtifactNotFound
	}
	return stamp, err
}

func (s *BadgerStorage) Delete(_ context.Context, name string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(badgerPrefix + name))
	})
}

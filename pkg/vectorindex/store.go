package vectorindex

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

type LoadStatus int

const (
	StatusAbsent LoadStatus = iota
	StatusLoaded
	StatusCorrupt
)

func (s LoadStatus) String() string {
	switch s {
	case StatusLoaded:
		return "loaded"
	case StatusCorrupt:
		return "corrupt"
	default:
		return "absent"
	}
}

// Store persists one index per document key as two artifacts:
// <key>_index.vec and <key>_sentences.json.
type Store struct {
	storage ArtifactStorage
	cache   *cache.Cache
}

type StoreOption func(*Store)

// WithCache keeps loaded indexes in memory for ttl. A cached index is only
// served while both artifacts still carry the stamps it was loaded with, so
// deletes and rewrites from other processes are picked up on the next Load.
// A ttl <= 0 disables the cache.
func WithCache(ttl time.Duration) StoreOption {
	return func(s *Store) {
		if ttl <= 0 {
			s.cache = nil
			return
		}
		s.cache = cache.New(ttl, 2*ttl)
	}
}

type cachedIndex struct {
	idx       *Index
	vectors   Stamp
	sentences Stamp
}

func (s *Store) stamps(ctx context.Context, key string) (vec, sent Stamp, ok bool) {
	vec, err := s.storage.Stat(ctx, VectorsName(key))
	if err != nil {
		return Stamp{}, Stamp{}, false
	}
	sent, err = s.storage.Stat(ctx, SentencesName(key))
	if err != nil {
		return Stamp{}, Stamp{}, false
	}
	return vec, sent, true
}

// cached returns the cached index for key if its artifacts are unchanged.
func (s *Store) cached(ctx context.Context, key string) (*Index, bool) {
	if s.cache == nil {
		return nil, false
	}
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	entry := v.(cachedIndex)
	vec, sent, ok := s.stamps(ctx, key)
	if ok && vec == entry.vectors && sent == entry.sentences {
		return entry.idx, true
	}
	s.cache.Delete(key)
	return nil, false
}

func NewStore(storage ArtifactStorage, opts ...StoreOption) *Store {
	s := &Store{storage: storage}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func VectorsName(key string) string   { return key + "_index.vec" }
func SentencesName(key string) string { return key + "_sentences.json" }

func ValidateKey(key string) error {
	if strings.TrimSpace(key) == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

func (s *Store) Persist(ctx context.Context, key string, idx *Index) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if idx.Len() == 0 {
		return ErrEmptyIndex
	}

	blob, err := encodeVectors(idx)
	if err != nil {
		return err
	}
	sentences, err := encodeChunks(idx.chunks)
	if err != nil {
		return fmt.Errorf("encode sentences: %w", err)
	}

	if err := s.storage.Write(ctx, SentencesName(key), sentences); err != nil {
		return fmt.Errorf("persist sentences: %w", err)
	}
	if err := s.storage.Write(ctx, VectorsName(key), blob); err != nil {
		return fmt.Errorf("persist vectors: %w", err)
	}

	if s.cache != nil {
		if vec, sent, ok := s.stamps(ctx, key); ok {
			s.cache.SetDefault(key, cachedIndex{idx: idx, vectors: vec, sentences: sent})
		} else {
			s.cache.Delete(key)
		}
	}
	return nil
}

// Load reports whether a usable index exists for key. For StatusCorrupt the
// returned error explains why; otherwise an error means the key was invalid
// or the storage itself failed.
func (s *Store) Load(ctx context.Context, key string) (*Index, LoadStatus, error) {
	if err := ValidateKey(key); err != nil {
		return nil, StatusAbsent, err
	}

	if idx, ok := s.cached(ctx, key); ok {
		return idx, StatusLoaded, nil
	}

	// stamped before reading so a concurrent rewrite invalidates the entry
	var vecStamp, sentStamp Stamp
	stamped := false
	if s.cache != nil {
		vecStamp, sentStamp, stamped = s.stamps(ctx, key)
	}

	blob, blobErr := s.storage.Read(ctx, VectorsName(key))
	sentences, sentErr := s.storage.Read(ctx, SentencesName(key))

	blobMissing := errors.Is(blobErr, ErrArtifactNotFound)
	sentMissing := errors.Is(sentErr, ErrArtifactNotFound)

	switch {
	case blobMissing && sentMissing:
		return nil, StatusAbsent, nil
	case blobMissing:
		return nil, StatusCorrupt, fmt.Errorf("%w: %s missing", ErrCorruptArtifact, VectorsName(key))
	case sentMissing:
		return nil, StatusCorrupt, fmt.Errorf("%w: %s missing", ErrCorruptArtifact, SentencesName(key))
	case blobErr != nil:
		return nil, StatusCorrupt, fmt.Errorf("%w: read vectors: %v", ErrCorruptArtifact, blobErr)
	case sentErr != nil:
		return nil, StatusCorrupt, fmt.Errorf("%w: read sentences: %v", ErrCorruptArtifact, sentErr)
	}

	vectors, err := decodeVectors(blob)
	if err != nil {
		return nil, StatusCorrupt, err
	}
	chunks, err := decodeChunks(sentences)
	if err != nil {
		return nil, StatusCorrupt, err
	}

	idx, err := Build(vectors, chunks)
	if err != nil {
		return nil, StatusCorrupt, fmt.Errorf("%w: %v", ErrCorruptArtifact, err)
	}

	if stamped {
		s.cache.SetDefault(key, cachedIndex{idx: idx, vectors: vecStamp, sentences: sentStamp})
	}
	return idx, StatusLoaded, nil
}

// Delete removes both artifacts; missing artifacts are not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Delete(key)
	}
	if err := s.storage.Delete(ctx, VectorsName(key)); err != nil {
		return fmt.Errorf("delete vectors: %w", err)
	}
	if err := s.storage.Delete(ctx, SentencesName(key)); err != nil {
		return fmt.Errorf("delete sentences: %w", err)
	}
	return nil
}

package retriever

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"classroom-ai-be/internal/pkg/logger"
	"classroom-ai-be/pkg/chunker"
	"classroom-ai-be/pkg/embedding"
	"classroom-ai-be/pkg/events"
	"classroom-ai-be/pkg/extractor"
	"classroom-ai-be/pkg/lock"
	"classroom-ai-be/pkg/vectorindex"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const DefaultTopK = 10

var (
	ErrMissingKey      = errors.New("retriever: document key is required")
	ErrExtractionEmpty = errors.New("retriever: document has no extractable text")
	ErrChunkingEmpty   = errors.New("retriever: document produced no chunks")
)

// IndexBuildError reports why the index for Key could not be built.
type IndexBuildError struct {
	Key string
	Err error
}

func (e *IndexBuildError) Error() string {
	return fmt.Sprintf("build index %s: %v", e.Key, e.Err)
}

func (e *IndexBuildError) Unwrap() error {
	return e.Err
}

// Document identifies what to index. Key names the persisted artifacts.
type Document struct {
	Key  string
	Path string
}

type IndexStore interface {
	Load(ctx context.Context, key string) (*vectorindex.Index, vectorindex.LoadStatus, error)
	Persist(ctx context.Context, key string, idx *vectorindex.Index) error
	Delete(ctx context.Context, key string) error
}

type IndexRecord struct {
	Key        string
	Dimension  int
	ChunkCount int
	Duration   time.Duration
}

// IndexRecorder keeps the relational "this document is indexed" bookkeeping
// in step with the persisted artifacts.
type IndexRecorder interface {
	Record(ctx context.Context, rec IndexRecord) error
	Invalidate(ctx context.Context, key string) error
}

type nopRecorder struct{}

func (nopRecorder) Record(context.Context, IndexRecord) error { return nil }
func (nopRecorder) Invalidate(context.Context, string) error  { return nil }

type Retriever struct {
	extractor extractor.Extractor
	chunker   chunker.Chunker
	embedder  embedding.Provider
	store     IndexStore
	locker    lock.Locker
	recorder  IndexRecorder
	publisher events.Publisher
	logger    logger.ILogger
	tracer    trace.Tracer
	topK      int
}

type Option func(*Retriever)

func WithLocker(l lock.Locker) Option {
	return func(r *Retriever) { r.locker = l }
}

func WithRecorder(rec IndexRecorder) Option {
	return func(r *Retriever) { r.recorder = rec }
}

func WithPublisher(p events.Publisher) Option {
	return func(r *Retriever) { r.publisher = p }
}

func WithTopK(k int) Option {
	return func(r *Retriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

func New(
	ext extractor.Extractor,
	ch chunker.Chunker,
	embedder embedding.Provider,
	store IndexStore,
	log logger.ILogger,
	opts ...Option,
) *Retriever {
	r := &Retriever{
		extractor: ext,
		chunker:   ch,
		embedder:  embedder,
		store:     store,
		locker:    lock.NewKeyedMutex(),
		recorder:  nopRecorder{},
		publisher: events.NopPublisher{},
		logger:    log,
		tracer:    otel.Tracer("classroom-ai-be/retriever"),
		topK:      DefaultTopK,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve returns the k chunks of doc nearest to query, best first. The
// index is built and persisted on first use and reused afterwards. k <= 0
// means the configured default.
func (r *Retriever) Retrieve(ctx context.Context, doc Document, query string, k int) ([]string, error) {
	if k <= 0 {
		k = r.topK
	}

	ctx, span := r.tracer.Start(ctx, "retriever.Retrieve", trace.WithAttributes(
		attribute.String("document.key", doc.Key),
		attribute.Int("top_k", k),
	))
	defer span.End()

	chunks, err := r.retrieve(ctx, doc, query, k)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("results", len(chunks)))
	return chunks, nil
}

func (r *Retriever) retrieve(ctx context.Context, doc Document, query string, k int) ([]string, error) {
	if doc.Key == "" {
		return nil, ErrMissingKey
	}

	idx, err := r.EnsureIndex(ctx, doc)
	if err != nil {
		return nil, err
	}

	qv, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(qv) != 1 {
		return nil, fmt.Errorf("embed query: %w", embedding.ErrCountMismatch)
	}

	matches, err := idx.Search(qv[0], k)
	if err != nil {
		return nil, fmt.Errorf("search index %s: %w", doc.Key, err)
	}

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Chunk
	}
	return out, nil
}

// EnsureIndex loads the persisted index for doc, building it when absent and
// rebuilding it when corrupt.
func (r *Retriever) EnsureIndex(ctx context.Context, doc Document) (*vectorindex.Index, error) {
	if doc.Key == "" {
		return nil, ErrMissingKey
	}

	idx, status, err := r.store.Load(ctx, doc.Key)
	if status == vectorindex.StatusLoaded {
		return idx, nil
	}
	if status == vectorindex.StatusAbsent && err != nil {
		return nil, err
	}

	unlock, err := r.locker.Lock(ctx, doc.Key)
	if err != nil {
		return nil, fmt.Errorf("lock index %s: %w", doc.Key, err)
	}
	defer unlock()

	// another request may have finished the build while we waited
	idx, status, err = r.store.Load(ctx, doc.Key)
	switch status {
	case vectorindex.StatusLoaded:
		return idx, nil
	case vectorindex.StatusCorrupt:
		if err := r.invalidate(ctx, doc.Key, err); err != nil {
			return nil, err
		}
	default:
		if err != nil {
			return nil, err
		}
	}

	return r.build(ctx, doc)
}

// Invalidate drops the persisted index for key and its bookkeeping.
func (r *Retriever) Invalidate(ctx context.Context, key string) error {
	unlock, err := r.locker.Lock(ctx, key)
	if err != nil {
		return fmt.Errorf("lock index %s: %w", key, err)
	}
	defer unlock()
	return r.invalidate(ctx, key, nil)
}

func (r *Retriever) invalidate(ctx context.Context, key string, cause error) error {
	details := map[string]interface{}{"document_key": key}
	if cause != nil {
		details["cause"] = cause.Error()
	}
	r.logger.Warn("RETRIEVER", "Invalidating index", details)

	if err := r.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete index %s: %w", key, err)
	}
	if err := r.recorder.Invalidate(ctx, key); err != nil {
		r.logger.Error("RETRIEVER", "Failed to drop index record", map[string]interface{}{
			"document_key": key,
			"error":        err.Error(),
		})
	}

	r.publish(ctx, events.New(events.TypeIndexInvalidated, details))
	return nil
}

func (r *Retriever) build(ctx context.Context, doc Document) (*vectorindex.Index, error) {
	ctx, span := r.tracer.Start(ctx, "retriever.build", trace.WithAttributes(
		attribute.String("document.key", doc.Key),
	))
	defer span.End()

	started := time.Now()
	fail := func(err error) (*vectorindex.Index, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("RETRIEVER", "Index build failed", map[string]interface{}{
			"document_key": doc.Key,
			"path":         doc.Path,
			"error":        err.Error(),
		})
		return nil, &IndexBuildError{Key: doc.Key, Err: err}
	}

	text := r.extractor.Extract(ctx, doc.Path)
	if strings.TrimSpace(text) == "" {
		return fail(ErrExtractionEmpty)
	}

	chunks := r.chunker.Split(text)
	if len(chunks) == 0 {
		return fail(ErrChunkingEmpty)
	}

	vectors, err := r.embedder.Embed(ctx, chunks)
	if err != nil {
		return fail(fmt.Errorf("embed chunks: %w", err))
	}
	if err := embedding.CheckBatch(chunks, vectors); err != nil {
		return fail(err)
	}

	idx, err := vectorindex.Build(vectors, chunks)
	if err != nil {
		return fail(err)
	}

	if err := r.store.Persist(ctx, doc.Key, idx); err != nil {
		return fail(err)
	}

	rec := IndexRecord{
		Key:        doc.Key,
		Dimension:  idx.Dimension(),
		ChunkCount: idx.Len(),
		Duration:   time.Since(started),
	}
	if err := r.recorder.Record(ctx, rec); err != nil {
		r.logger.Error("RETRIEVER", "Failed to record index", map[string]interface{}{
			"document_key": doc.Key,
			"error":        err.Error(),
		})
	}

	span.SetAttributes(
		attribute.Int("chunks", rec.ChunkCount),
		attribute.Int("dimension", rec.Dimension),
	)
	r.logger.Info("RETRIEVER", "Index built", map[string]interface{}{
		"document_key": doc.Key,
		"chunks":       rec.ChunkCount,
		"dimension":    rec.Dimension,
		"duration_ms":  rec.Duration.Milliseconds(),
	})

	r.publish(ctx, events.New(events.TypeIndexBuilt, map[string]interface{}{
		"document_key": doc.Key,
		"chunks":       rec.ChunkCount,
		"dimension":    rec.Dimension,
	}))
	return idx, nil
}

func (r *Retriever) publish(ctx context.Context, evt events.Event) {
	if err := r.publisher.Publish(ctx, evt); err != nil {
		r.logger.Warn("RETRIEVER", "Failed to publish "+evt.EventType()+" event", map[string]interface{}{"error": err.Error()})
	}
}

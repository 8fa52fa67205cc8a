package service

import (
	"context"
	"strconv"

	"classroom-ai-be/internal/entity"
	"classroom-ai-be/internal/repository/unitofwork"
	"classroom-ai-be/pkg/rag/retriever"
)

// FileIndexRecorder keeps teacher_ai_file_indexes in step with the
// persisted index artifacts.
type FileIndexRecorder struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewFileIndexRecorder(uowFactory unitofwork.RepositoryFactory) *FileIndexRecorder {
	return &FileIndexRecorder{uowFactory: uowFactory}
}

var _ retriever.IndexRecorder = (*FileIndexRecorder)(nil)

func (r *FileIndexRecorder) Record(ctx context.Context, rec retriever.IndexRecord) error {
	row := &entity.FileIndex{
		DocumentKey: rec.Key,
		Dimension:   rec.Dimension,
		ChunkCount:  rec.ChunkCount,
		Stats: map[string]interface{}{
			"build_ms":  rec.Duration.Milliseconds(),
			"chunks":    rec.ChunkCount,
			"dimension": rec.Dimension,
		},
	}
	if id, err := strconv.ParseInt(rec.Key, 10, 64); err == nil {
		row.FileId = &id
	}
	return r.uowFactory.NewUnitOfWork(ctx).FileIndexRepository().Upsert(ctx, row)
}

func (r *FileIndexRecorder) Invalidate(ctx context.Context, key string) error {
	return r.uowFactory.NewUnitOfWork(ctx).FileIndexRepository().DeleteByDocumentKey(ctx, key)
}

// List returns every recorded index, oldest first.
func (r *FileIndexRecorder) List(ctx context.Context) ([]*entity.FileIndex, error) {
	return r.uowFactory.NewUnitOfWork(ctx).FileIndexRepository().FindAll(ctx)
}

package contract

import (
	"context"

	"classroom-ai-be/internal/entity"
)

type TeacherFileRepository interface {
	FindById(ctx context.Context, id int64) (*entity.TeacherFile, error)
}

type FileIndexRepository interface {
	// Upsert inserts or replaces the row keyed by DocumentKey.
	Upsert(ctx context.Context, index *entity.FileIndex) error
	DeleteByDocumentKey(ctx context.Context, key string) error
	FindByDocumentKey(ctx context.Context, key string) (*entity.FileIndex, error)
	FindAll(ctx context.Context) ([]*entity.FileIndex, error)
}

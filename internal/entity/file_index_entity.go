package entity

import (
	"time"

	"github.com/google/uuid"
)

// FileIndex records that a persisted vector index exists for a document key.
type FileIndex struct {
	Id          uuid.UUID
	DocumentKey string
	FileId      *int64
	Dimension   int
	ChunkCount  int
	Stats       map[string]interface{}
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

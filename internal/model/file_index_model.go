package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type FileIndex struct {
	Id          uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DocumentKey string            `gorm:"type:varchar(255);not null;uniqueIndex"`
	FileId      *int64            `gorm:"index"`
	Dimension   int               `gorm:"not null"`
	ChunkCount  int               `gorm:"not null"`
	Stats       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt   time.Time         `gorm:"autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"autoUpdateTime"`
}

func (FileIndex) TableName() string {
	return "teacher_ai_file_indexes"
}

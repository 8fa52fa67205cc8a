package mapper

import (
	"time"

	"classroom-ai-be/internal/entity"
	"classroom-ai-be/internal/model"

	"gorm.io/datatypes"
)

type FileMapper struct{}

func NewFileMapper() *FileMapper {
	return &FileMapper{}
}

func (m *FileMapper) TeacherFileToEntity(f *model.TeacherFile) *entity.TeacherFile {
	if f == nil {
		return nil
	}
	return &entity.TeacherFile{
		Id:        f.Id,
		CourseId:  f.CourseId,
		TeacherId: f.TeacherId,
		Name:      f.Name,
		Path:      f.Path,
		Checksum:  f.Checksum,
	}
}

func (m *FileMapper) FileIndexToEntity(f *model.FileIndex) *entity.FileIndex {
	if f == nil {
		return nil
	}

	var updatedAt *time.Time
	if !f.UpdatedAt.IsZero() {
		t := f.UpdatedAt
		updatedAt = &t
	}

	return &entity.FileIndex{
		Id:          f.Id,
		DocumentKey: f.DocumentKey,
		FileId:      f.FileId,
		Dimension:   f.Dimension,
		ChunkCount:  f.ChunkCount,
		Stats:       map[string]interface{}(f.Stats),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

func (m *FileMapper) FileIndexToModel(f *entity.FileIndex) *model.FileIndex {
	if f == nil {
		return nil
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.FileIndex{
		Id:          f.Id,
		DocumentKey: f.DocumentKey,
		FileId:      f.FileId,
		Dimension:   f.Dimension,
		ChunkCount:  f.ChunkCount,
		Stats:       datatypes.JSONMap(f.Stats),
		CreatedAt:   f.CreatedAt,
		UpdatedAt:   updatedAt,
	}
}

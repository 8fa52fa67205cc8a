package implementation

import (
	"context"
	"errors"

	"classroom-ai-be/internal/entity"
	"classroom-ai-be/internal/mapper"
	"classroom-ai-be/internal/model"
	"classroom-ai-be/internal/repository/contract"
	"classroom-ai-be/internal/repository/specification"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TeacherFileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FileMapper
}

func NewTeacherFileRepository(db *gorm.DB) contract.TeacherFileRepository {
	return &TeacherFileRepositoryImpl{
		db:     db,
		mapper: mapper.NewFileMapper(),
	}
}

func (r *TeacherFileRepositoryImpl) FindById(ctx context.Context, id int64) (*entity.TeacherFile, error) {
	var m model.TeacherFile
	query := specification.ByID{ID: id}.Apply(r.db.WithContext(ctx))
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.TeacherFileToEntity(&m), nil
}

type FileIndexRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FileMapper
}

func NewFileIndexRepository(db *gorm.DB) contract.FileIndexRepository {
	return &FileIndexRepositoryImpl{
		db:     db,
		mapper: mapper.NewFileMapper(),
	}
}

func (r *FileIndexRepositoryImpl) Upsert(ctx context.Context, index *entity.FileIndex) error {
	m := r.mapper.FileIndexToModel(index)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "document_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"file_id", "dimension", "chunk_count", "stats", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*index = *r.mapper.FileIndexToEntity(m)
	return nil
}

func (r *FileIndexRepositoryImpl) DeleteByDocumentKey(ctx context.Context, key string) error {
	query := specification.ByDocumentKey{Key: key}.Apply(r.db.WithContext(ctx))
	return query.Delete(&model.FileIndex{}).Error
}

func (r *FileIndexRepositoryImpl) FindByDocumentKey(ctx context.Context, key string) (*entity.FileIndex, error) {
	var m model.FileIndex
	query := specification.ByDocumentKey{Key: key}.Apply(r.db.WithContext(ctx))
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.FileIndexToEntity(&m), nil
}

func (r *FileIndexRepositoryImpl) FindAll(ctx context.Context) ([]*entity.FileIndex, error) {
	var models []*model.FileIndex
	query := specification.OrderBy{Field: "created_at"}.Apply(r.db.WithContext(ctx))
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.FileIndex, len(models))
	for i, m := range models {
		entities[i] = r.mapper.FileIndexToEntity(m)
	}
	return entities, nil
}

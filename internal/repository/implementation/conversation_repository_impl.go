package implementation

import (
	"context"
	"errors"
	"fmt"

	"classroom-ai-be/internal/entity"
	"classroom-ai-be/internal/mapper"
	"classroom-ai-be/internal/model"
	"classroom-ai-be/internal/repository/contract"
	"classroom-ai-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

// translateCreateError needs gorm.Config.TranslateError.
func translateCreateError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%w: %v", contract.ErrDuplicateKey, err)
	}
	return err
}

type TeacherConversationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewTeacherConversationRepository(db *gorm.DB) contract.TeacherConversationRepository {
	return &TeacherConversationRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *TeacherConversationRepositoryImpl) Create(ctx context.Context, conversation *entity.TeacherConversation) error {
	m := r.mapper.TeacherConversationToModel(conversation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateCreateError(err)
	}
	*conversation = *r.mapper.TeacherConversationToEntity(m)
	return nil
}

func (r *TeacherConversationRepositoryImpl) Update(ctx context.Context, conversation *entity.TeacherConversation) error {
	m := r.mapper.TeacherConversationToModel(conversation)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*conversation = *r.mapper.TeacherConversationToEntity(m)
	return nil
}

func (r *TeacherConversationRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.TeacherConversation{}, "id = ?", id).Error
}

func (r *TeacherConversationRepositoryImpl) FindById(ctx context.Context, id uuid.UUID) (*entity.TeacherConversation, error) {
	var m model.TeacherConversation
	query := applySpecifications(r.db.WithContext(ctx), specification.ByID{ID: id})
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.TeacherConversationToEntity(&m), nil
}

func (r *TeacherConversationRepositoryImpl) FindAllByTeacherId(ctx context.Context, teacherId int64) ([]*entity.TeacherConversation, error) {
	var models []*model.TeacherConversation
	query := applySpecifications(r.db.WithContext(ctx),
		specification.ByTeacherID{TeacherID: teacherId},
		specification.OrderBy{Field: "created_at"},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.TeacherConversation, len(models))
	for i, m := range models {
		entities[i] = r.mapper.TeacherConversationToEntity(m)
	}
	return entities, nil
}

type StudentConversationRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewStudentConversationRepository(db *gorm.DB) contract.StudentConversationRepository {
	return &StudentConversationRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *StudentConversationRepositoryImpl) Create(ctx context.Context, conversation *entity.StudentConversation) error {
	m := r.mapper.StudentConversationToModel(conversation)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return translateCreateError(err)
	}
	*conversation = *r.mapper.StudentConversationToEntity(m)
	return nil
}

func (r *StudentConversationRepositoryImpl) Update(ctx context.Context, conversation *entity.StudentConversation) error {
	m := r.mapper.StudentConversationToModel(conversation)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*conversation = *r.mapper.StudentConversationToEntity(m)
	return nil
}

func (r *StudentConversationRepositoryImpl) FindByCourseSection(ctx context.Context, courseId, courseSectionId int64) (*entity.StudentConversation, error) {
	var m model.StudentConversation
	query := applySpecifications(r.db.WithContext(ctx),
		specification.ByCourseSection{CourseID: courseId, CourseSectionID: courseSectionId},
	)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.StudentConversationToEntity(&m), nil
}

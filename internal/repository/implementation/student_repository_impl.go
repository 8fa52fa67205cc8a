package implementation

import (
	"context"
	"errors"

	"classroom-ai-be/internal/entity"
	"classroom-ai-be/internal/mapper"
	"classroom-ai-be/internal/model"
	"classroom-ai-be/internal/repository/contract"
	"classroom-ai-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StudentMapper
}

func NewEnrollmentRepository(db *gorm.DB) contract.EnrollmentRepository {
	return &EnrollmentRepositoryImpl{
		db:     db,
		mapper: mapper.NewStudentMapper(),
	}
}

func (r *EnrollmentRepositoryImpl) FindStudentById(ctx context.Context, id int64) (*entity.Student, error) {
	var m model.Student
	if err := (specification.ByID{ID: id}).Apply(r.db.WithContext(ctx)).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.StudentToEntity(&m), nil
}

func (r *EnrollmentRepositoryImpl) FindAllByCourseId(ctx context.Context, courseId int64) ([]*entity.Student, error) {
	var models []*model.Student
	query := applySpecifications(r.db.WithContext(ctx),
		specification.ByCourse{CourseID: courseId},
		specification.OrderBy{Field: "id"},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.StudentsToEntities(models), nil
}

type StudentFeedbackRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.StudentMapper
}

func NewStudentFeedbackRepository(db *gorm.DB) contract.StudentFeedbackRepository {
	return &StudentFeedbackRepositoryImpl{
		db:     db,
		mapper: mapper.NewStudentMapper(),
	}
}

func (r *StudentFeedbackRepositoryImpl) Upsert(ctx context.Context, feedback *entity.StudentFeedback) error {
	m := r.mapper.FeedbackToModel(feedback)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "conversation_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"feedback", "updated_at"}),
		}).
		Create(m).Error
	if err != nil {
		return err
	}
	*feedback = *r.mapper.FeedbackToEntity(m)
	return nil
}

func (r *StudentFeedbackRepositoryImpl) FindAllByConversationId(ctx context.Context, conversationId uuid.UUID) ([]*entity.StudentFeedback, error) {
	var models []*model.StudentFeedback
	query := applySpecifications(r.db.WithContext(ctx),
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "user_id"},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.StudentFeedback, len(models))
	for i, m := range models {
		entities[i] = r.mapper.FeedbackToEntity(m)
	}
	return entities, nil
}

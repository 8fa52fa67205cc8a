package implementation

import (
	"context"

	"classroom-ai-be/internal/entity"
	"classroom-ai-be/internal/mapper"
	"classroom-ai-be/internal/model"
	"classroom-ai-be/internal/repository/contract"
	"classroom-ai-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TeacherMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewTeacherMessageRepository(db *gorm.DB) contract.TeacherMessageRepository {
	return &TeacherMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *TeacherMessageRepositoryImpl) Create(ctx context.Context, message *entity.TeacherMessage) error {
	m := r.mapper.TeacherMessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.TeacherMessageToEntity(m)
	return nil
}

func (r *TeacherMessageRepositoryImpl) FindAllByConversationId(ctx context.Context, conversationId uuid.UUID) ([]*entity.TeacherMessage, error) {
	var models []*model.TeacherMessage
	query := applySpecifications(r.db.WithContext(ctx),
		specification.ByConversationID{ConversationID: conversationId},
		specification.Chronological{},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.TeacherMessagesToEntities(models), nil
}

func (r *TeacherMessageRepositoryImpl) DeleteAllByConversationId(ctx context.Context, conversationId uuid.UUID) error {
	query := specification.ByConversationID{ConversationID: conversationId}.Apply(r.db.WithContext(ctx))
	return query.Delete(&model.TeacherMessage{}).Error
}

type StudentMessageRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConversationMapper
}

func NewStudentMessageRepository(db *gorm.DB) contract.StudentMessageRepository {
	return &StudentMessageRepositoryImpl{
		db:     db,
		mapper: mapper.NewConversationMapper(),
	}
}

func (r *StudentMessageRepositoryImpl) Create(ctx context.Context, message *entity.StudentMessage) error {
	m := r.mapper.StudentMessageToModel(message)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*message = *r.mapper.StudentMessageToEntity(m)
	return nil
}

func (r *StudentMessageRepositoryImpl) FindAllByConversationAndStudent(ctx context.Context, conversationId uuid.UUID, studentId int64) ([]*entity.StudentMessage, error) {
	var models []*model.StudentMessage
	query := applySpecifications(r.db.WithContext(ctx),
		specification.ByConversationID{ConversationID: conversationId},
		specification.ByStudentID{StudentID: studentId},
		specification.Chronological{},
	)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.StudentMessagesToEntities(models), nil
}

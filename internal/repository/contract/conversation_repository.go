package contract

import (
	"context"
	"errors"

	"classroom-ai-be/internal/entity"

	"github.com/google/uuid"
)

// ErrDuplicateKey is returned by Create when the row's key is already taken.
var ErrDuplicateKey = errors.New("duplicate key")

type TeacherConversationRepository interface {
	Create(ctx context.Context, conversation *entity.TeacherConversation) error
	Update(ctx context.Context, conversation *entity.TeacherConversation) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.TeacherConversation, error)
	FindAllByTeacherId(ctx context.Context, teacherId int64) ([]*entity.TeacherConversation, error)
}

type StudentConversationRepository interface {
	Create(ctx context.Context, conversation *entity.StudentConversation) error
	Update(ctx context.Context, conversation *entity.StudentConversation) error
	FindByCourseSection(ctx context.Context, courseId, courseSectionId int64) (*entity.StudentConversation, error)
}

package contract

import (
	"context"

	"classroom-ai-be/internal/entity"

	"github.com/google/uuid"
)

// Message repositories are append-only. Find methods return messages
// ordered by (sent_at, id).

type TeacherMessageRepository interface {
	Create(ctx context.Context, message *entity.TeacherMessage) error
	FindAllByConversationId(ctx context.Context, conversationId uuid.UUID) ([]*entity.TeacherMessage, error)
	DeleteAllByConversationId(ctx context.Context, conversationId uuid.UUID) error
}

type StudentMessageRepository interface {
	Create(ctx context.Context, message *entity.StudentMessage) error
	FindAllByConversationAndStudent(ctx context.Context, conversationId uuid.UUID, studentId int64) ([]*entity.StudentMessage, error)
}

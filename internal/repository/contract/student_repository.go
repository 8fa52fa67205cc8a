package contract

import (
	"context"

	"classroom-ai-be/internal/entity"

	"github.com/google/uuid"
)

// EnrollmentRepository reads the students table owned by course management.
type EnrollmentRepository interface {
	FindStudentById(ctx context.Context, id int64) (*entity.Student, error)
	FindAllByCourseId(ctx context.Context, courseId int64) ([]*entity.Student, error)
}

type StudentFeedbackRepository interface {
	// Upsert keeps one row per (student, conversation).
	Upsert(ctx context.Context, feedback *entity.StudentFeedback) error
	FindAllByConversationId(ctx context.Context, conversationId uuid.UUID) ([]*entity.StudentFeedback, error)
}

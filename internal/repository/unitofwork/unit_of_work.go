package unitofwork

import (
	"context"

	"classroom-ai-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	TeacherFileRepository() contract.TeacherFileRepository
	FileIndexRepository() contract.FileIndexRepository

	TeacherConversationRepository() contract.TeacherConversationRepository
	TeacherMessageRepository() contract.TeacherMessageRepository
	StudentConversationRepository() contract.StudentConversationRepository
	StudentMessageRepository() contract.StudentMessageRepository

	EnrollmentRepository() contract.EnrollmentRepository
	StudentFeedbackRepository() contract.StudentFeedbackRepository
}

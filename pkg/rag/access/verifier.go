package access

import (
	"context"

	"classroom-ai-be/internal/constant"
	"classroom-ai-be/internal/entity"
	"classroom-ai-be/internal/pkg/serverutils"
	"classroom-ai-be/internal/repository/unitofwork"
)

// Verifier applies the role and ownership rules shared by the chat endpoints.
// Failures are AppErrors carrying the status the client sees.
type Verifier struct{}

func NewVerifier() *Verifier {
	return &Verifier{}
}

func (v *Verifier) RequireTeacher(user serverutils.Identity) error {
	if user.Type != constant.UserTypeTeacher {
		return serverutils.NewForbiddenError("Access forbidden")
	}
	return nil
}

func (v *Verifier) RequireStudent(user serverutils.Identity) error {
	if user.Type != constant.UserTypeStudent {
		return serverutils.NewForbiddenError("Access forbidden.")
	}
	return nil
}

// VerifyOwner rejects teachers acting on someone else's conversation.
func (v *Verifier) VerifyOwner(conversation *entity.TeacherConversation, teacherId int64) error {
	if conversation.TeacherId != teacherId {
		return serverutils.NewUnauthorizedError("Not authorized.")
	}
	return nil
}

// VerifyEnrollment returns the student when they belong to courseId.
func (v *Verifier) VerifyEnrollment(ctx context.Context, uow unitofwork.UnitOfWork, studentId, courseId int64) (*entity.Student, error) {
	student, err := uow.EnrollmentRepository().FindStudentById(ctx, studentId)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load student", err)
	}
	if student == nil {
		return nil, serverutils.NewNotFoundError("User not found.")
	}
	if student.CourseId != courseId {
		return nil, serverutils.NewForbiddenError("Access forbidden.")
	}
	return student, nil
}

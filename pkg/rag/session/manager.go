package session

import (
	"context"
	"strings"

	"classroom-ai-be/internal/entity"
	"classroom-ai-be/internal/pkg/serverutils"
	"classroom-ai-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// DefaultCourseID and DefaultSectionID place conversations whose first turn
// did not name a course.
const (
	DefaultCourseID  int64 = 1
	DefaultSectionID int64 = 1
)

// Manager resolves teacher conversations by their external UUID.
type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// ParseID validates the UUID taken from a request path.
func (m *Manager) ParseID(raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, serverutils.NewBadRequestError("The UUID of conversation is required.")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, serverutils.NewBadRequestError("The UUID of conversation is invalid.")
	}
	return id, nil
}

// Find loads an existing conversation. A missing row is reported as 400, the
// status clients already expect for unknown ids.
func (m *Manager) Find(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.TeacherConversation, error) {
	conversation, err := uow.TeacherConversationRepository().FindById(ctx, id)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load conversation", err)
	}
	if conversation == nil {
		return nil, serverutils.NewBadRequestError("The UUID of conversation is invalid.")
	}
	return conversation, nil
}

// Create stores a conversation under a client-chosen id.
func (m *Manager) Create(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID, teacherId int64, courseId, sectionId *int64) (*entity.TeacherConversation, error) {
	conversation := &entity.TeacherConversation{
		Id:              id,
		TeacherId:       teacherId,
		CourseId:        DefaultCourseID,
		CourseSectionId: DefaultSectionID,
	}
	if courseId != nil {
		conversation.CourseId = *courseId
	}
	if sectionId != nil {
		conversation.CourseSectionId = *sectionId
	}

	if err := uow.TeacherConversationRepository().Create(ctx, conversation); err != nil {
		return nil, serverutils.NewInternalError("Failed to create conversation", err)
	}
	return conversation, nil
}

func (m *Manager) SetSummary(ctx context.Context, uow unitofwork.UnitOfWork, conversation *entity.TeacherConversation, summary string) error {
	conversation.Summary = &summary
	return uow.TeacherConversationRepository().Update(ctx, conversation)
}

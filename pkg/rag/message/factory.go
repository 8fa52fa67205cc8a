package message

import (
	"context"
	"time"

	"classroom-ai-be/internal/constant"
	"classroom-ai-be/internal/entity"
	"classroom-ai-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Factory persists one exchange as a user message followed by an assistant
// message. Both share the same timestamp; the sequence id keeps them ordered.
type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) SaveTeacherTurn(ctx context.Context, uow unitofwork.UnitOfWork, conversationId uuid.UUID, input, answer string, now time.Time) error {
	repo := uow.TeacherMessageRepository()
	for _, m := range []entity.TeacherMessage{
		{ConversationId: conversationId, Sender: constant.SenderUser, Content: input, SentAt: now},
		{ConversationId: conversationId, Sender: constant.SenderAssistant, Content: answer, SentAt: now},
	} {
		m := m
		if err := repo.Create(ctx, &m); err != nil {
			return err
		}
	}
	return nil
}

func (f *Factory) SaveStudentTurn(ctx context.Context, uow unitofwork.UnitOfWork, conversationId uuid.UUID, studentId int64, input, answer string, now time.Time) error {
	repo := uow.StudentMessageRepository()
	for _, m := range []entity.StudentMessage{
		{ConversationId: conversationId, StudentId: studentId, Sender: constant.SenderUser, Content: input, SentAt: now},
		{ConversationId: conversationId, StudentId: studentId, Sender: constant.SenderAssistant, Content: answer, SentAt: now},
	} {
		m := m
		if err := repo.Create(ctx, &m); err != nil {
			return err
		}
	}
	return nil
}

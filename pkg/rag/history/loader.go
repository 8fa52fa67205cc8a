package history

import (
	"context"

	"classroom-ai-be/internal/constant"
	"classroom-ai-be/internal/entity"
	"classroom-ai-be/internal/repository/unitofwork"
	"classroom-ai-be/pkg/llm"

	"github.com/google/uuid"
)

// Loader replays persisted conversations as LLM turns.
type Loader struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewLoader(uowFactory unitofwork.RepositoryFactory) *Loader {
	return &Loader{uowFactory: uowFactory}
}

// TeacherHistory returns every message of the conversation ordered by
// (sent_at, id). An unknown conversation yields an empty history.
func (l *Loader) TeacherHistory(ctx context.Context, conversationId uuid.UUID) ([]llm.Message, error) {
	rows, err := l.TeacherMessages(ctx, conversationId)
	if err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, llm.Message{Role: roleOf(row.Sender), Content: row.Content})
	}
	return messages, nil
}

// TeacherMessages returns the raw rows behind TeacherHistory.
func (l *Loader) TeacherMessages(ctx context.Context, conversationId uuid.UUID) ([]*entity.TeacherMessage, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)
	return uow.TeacherMessageRepository().FindAllByConversationId(ctx, conversationId)
}

// StudentHistory returns one student's messages in a deployed conversation.
func (l *Loader) StudentHistory(ctx context.Context, conversationId uuid.UUID, studentId int64) ([]llm.Message, error) {
	uow := l.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.StudentMessageRepository().FindAllByConversationAndStudent(ctx, conversationId, studentId)
	if err != nil {
		return nil, err
	}

	messages := make([]llm.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, llm.Message{Role: roleOf(row.Sender), Content: row.Content})
	}
	return messages, nil
}

func roleOf(sender string) string {
	if sender == constant.SenderAssistant {
		return llm.RoleAssistant
	}
	return llm.RoleUser
}

package service

import (
	"context"
	"fmt"
	"testing"

	"classroom-ai-be/internal/constant"
	"classroom-ai-be/internal/dto"
	"classroom-ai-be/internal/entity"
	"classroom-ai-be/internal/repository/memory"
	"classroom-ai-be/pkg/events"
	"classroom-ai-be/pkg/llm"
	"classroom-ai-be/pkg/rag/retriever"
	"classroom-ai-be/pkg/vectorindex"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatFirstTurnSummarizesAndPersists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	start, err := f.chat.StartConversation(ctx, teacher)
	require.NoError(t, err)
	id := start.Uuid.String()

	res, err := f.chat.Chat(ctx, teacher, id, &dto.ChatRequest{UserInput: "  請解釋牛頓第一定律 "})
	require.NoError(t, err)
	assert.Equal(t, "這是回答。", res.Answer)

	hist, err := f.chat.History(ctx, teacher, id)
	require.NoError(t, err)
	require.Len(t, hist.History, 2)
	assert.Equal(t, constant.SenderUser, hist.History[0].Sender)
	assert.Equal(t, "請解釋牛頓第一定律", hist.History[0].Message)
	assert.Equal(t, constant.SenderAssistant, hist.History[1].Sender)
	assert.Equal(t, "這是回答。", hist.History[1].Message)
	assert.Less(t, hist.History[0].Id, hist.History[1].Id)

	list, err := f.chat.List(ctx, teacher)
	require.NoError(t, err)
	require.Len(t, list.Conversations, 1)
	assert.Equal(t, "牛頓第一定律", list.Conversations[0].Summary)
	assert.Equal(t, int64(1), list.Conversations[0].CourseId)

	assert.Equal(t, []string{events.TypeConversationSummarized}, f.events.types)
}

func TestChatLaterTurnsReplayHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.NewString()

	_, err := f.chat.Chat(ctx, teacher, id, &dto.ChatRequest{UserInput: "第一題"})
	require.NoError(t, err)
	callsAfterFirst := len(f.llm.calls)

	_, err = f.chat.Chat(ctx, teacher, id, &dto.ChatRequest{UserInput: "第二題"})
	require.NoError(t, err)

	assert.Equal(t, callsAfterFirst+1, len(f.llm.calls), "no summary on later turns")
	msgs := f.llm.lastCall()
	assert.Equal(t, []llm.Message{
		{Role: llm.RoleSystem, Content: ""},
		{Role: llm.RoleSystem, Content: constant.ContextMessagePrefix},
		{Role: llm.RoleUser, Content: "第一題"},
		{Role: llm.RoleAssistant, Content: "這是回答。"},
		{Role: llm.RoleUser, Content: "第二題"},
	}, msgs)

	hist, err := f.chat.History(ctx, teacher, id)
	require.NoError(t, err)
	assert.Len(t, hist.History, 4)
}

func TestChatGroundedOnFile(t *testing.T) {
	f := newFixture(t)
	f.store.AddTeacherFile(entity.TeacherFile{Id: 12, TeacherId: teacher.Id, Path: "lessons/12.pdf"})
	f.retriever.chunks = []string{"今天天氣很好。", "我們去公園吧！"}

	_, err := f.chat.Chat(context.Background(), teacher, uuid.NewString(), &dto.ChatRequest{
		UserInput:       "天氣如何？",
		FileId:          int64p(12),
		CourseId:        int64p(3),
		CourseSectionId: int64p(4),
	})
	require.NoError(t, err)

	require.Len(t, f.retriever.docs, 1)
	assert.Equal(t, retriever.Document{Key: "12", Path: "/srv/uploads/lessons/12.pdf"}, f.retriever.docs[0])

	msgs := f.llm.lastCall()
	assert.Equal(t, constant.GroundingInstruction, msgs[0].Content)
	assert.Equal(t, "相關上下文：\n\n今天天氣很好。\n我們去公園吧！", msgs[1].Content)

	list, err := f.chat.List(context.Background(), teacher)
	require.NoError(t, err)
	require.Len(t, list.Conversations, 1)
	assert.Equal(t, int64(3), list.Conversations[0].CourseId)
	assert.Equal(t, int64(4), list.Conversations[0].CourseSectionId)
}

func TestChatValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.AddTeacherFile(entity.TeacherFile{Id: 1, Path: "/abs/blank.pdf"})

	owned := uuid.NewString()
	_, err := f.chat.Chat(ctx, teacher, owned, &dto.ChatRequest{UserInput: "hi"})
	require.NoError(t, err)

	tests := []struct {
		name   string
		user   func() error
		status int
	}{
		{"student forbidden", func() error {
			_, err := f.chat.Chat(ctx, student(1), owned, &dto.ChatRequest{UserInput: "hi"})
			return err
		}, 403},
		{"bad uuid", func() error {
			_, err := f.chat.Chat(ctx, teacher, "not-a-uuid", &dto.ChatRequest{UserInput: "hi"})
			return err
		}, 400},
		{"blank input", func() error {
			_, err := f.chat.Chat(ctx, teacher, owned, &dto.ChatRequest{UserInput: "   "})
			return err
		}, 400},
		{"other owner", func() error {
			_, err := f.chat.Chat(ctx, otherTeacher, owned, &dto.ChatRequest{UserInput: "hi"})
			return err
		}, 401},
		{"unknown file", func() error {
			_, err := f.chat.Chat(ctx, teacher, owned, &dto.ChatRequest{UserInput: "hi", FileId: int64p(99)})
			return err
		}, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, statusOf(t, tt.user()))
		})
	}
}

func TestChatRetrievalFailures(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"no text", &retriever.IndexBuildError{Key: "1", Err: retriever.ErrExtractionEmpty}, 400},
		{"no chunks", &retriever.IndexBuildError{Key: "1", Err: retriever.ErrChunkingEmpty}, 400},
		{"dimension", fmt.Errorf("search index 1: %w", vectorindex.ErrDimensionMismatch), 500},
		{"embedder down", fmt.Errorf("embed query: %w", context.DeadlineExceeded), 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.store.AddTeacherFile(entity.TeacherFile{Id: 1, Path: "/abs/lesson.pdf"})
			f.retriever.err = tt.err

			id := uuid.NewString()
			_, err := f.chat.Chat(context.Background(), teacher, id, &dto.ChatRequest{UserInput: "q", FileId: int64p(1)})
			assert.Equal(t, tt.status, statusOf(t, err))

			_, err = f.chat.History(context.Background(), teacher, id)
			assert.Equal(t, 400, statusOf(t, err), "failed turn must not create the conversation")
		})
	}
}

func TestChatLLMFailurePersistsApology(t *testing.T) {
	f := newFixture(t)
	f.llm.chatErr = fmt.Errorf("upstream 503")
	f.llm.sumErr = fmt.Errorf("upstream 503")
	ctx := context.Background()
	id := uuid.NewString()

	res, err := f.chat.Chat(ctx, teacher, id, &dto.ChatRequest{UserInput: "hello"})
	require.NoError(t, err)
	assert.Equal(t, constant.ApologyAnswer, res.Answer)

	hist, err := f.chat.History(ctx, teacher, id)
	require.NoError(t, err)
	require.Len(t, hist.History, 2)
	assert.Equal(t, constant.ApologyAnswer, hist.History[1].Message)

	list, err := f.chat.List(ctx, teacher)
	require.NoError(t, err)
	assert.Equal(t, constant.SummaryFallback, list.Conversations[0].Summary)
}

func TestDeleteConversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.NewString()

	_, err := f.chat.Chat(ctx, teacher, id, &dto.ChatRequest{UserInput: "hello"})
	require.NoError(t, err)

	assert.Equal(t, 401, statusOf(t, f.chat.Delete(ctx, otherTeacher, id)))
	require.NoError(t, f.chat.Delete(ctx, teacher, id))

	_, err = f.chat.History(ctx, teacher, id)
	assert.Equal(t, 400, statusOf(t, err))

	list, err := f.chat.List(ctx, teacher)
	require.NoError(t, err)
	assert.Empty(t, list.Conversations)
}

func TestListWithoutSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.chat.List(ctx, teacher)
	require.NoError(t, err)
	assert.NotNil(t, empty.Conversations)

	repo := memory.NewRepositoryFactory(f.store).NewUnitOfWork(ctx).TeacherConversationRepository()
	require.NoError(t, repo.Create(ctx, &entity.TeacherConversation{TeacherId: teacher.Id, CourseId: 1, CourseSectionId: 1}))
	require.NoError(t, repo.Create(ctx, &entity.TeacherConversation{TeacherId: otherTeacher.Id, CourseId: 1, CourseSectionId: 1}))

	list, err := f.chat.List(ctx, teacher)
	require.NoError(t, err)
	require.Len(t, list.Conversations, 1)
	assert.Equal(t, constant.NoSummary, list.Conversations[0].Summary)

	_, err = f.chat.List(ctx, student(1))
	assert.Equal(t, 403, statusOf(t, err))
}

func TestFirstTurnRaceUsesWinningConversation(t *testing.T) {
	tests := []struct {
		name       string
		winner     int64
		wantStatus int
	}{
		{"same teacher continues", teacher.Id, 0},
		{"other teacher is rejected", otherTeacher.Id, 401},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			id := uuid.New()

			repo := memory.NewRepositoryFactory(f.store).NewUnitOfWork(ctx).TeacherConversationRepository()
			var insertErr error
			f.llm.beforeAnswer = func() {
				insertErr = repo.Create(ctx, &entity.TeacherConversation{Id: id, TeacherId: tt.winner, CourseId: 1, CourseSectionId: 1})
			}

			res, err := f.chat.Chat(ctx, teacher, id.String(), &dto.ChatRequest{UserInput: "hello"})
			require.NoError(t, insertErr)
			if tt.wantStatus != 0 {
				assert.Equal(t, tt.wantStatus, statusOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "這是回答。", res.Answer)

			history, err := f.chat.History(ctx, teacher, id.String())
			require.NoError(t, err)
			assert.Len(t, history.History, 2)
		})
	}
}

func TestDeployIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := uuid.NewString()

	_, err := f.chat.Chat(ctx, teacher, id, &dto.ChatRequest{UserInput: "hello", CourseId: int64p(5), CourseSectionId: int64p(6)})
	require.NoError(t, err)

	first, err := f.chat.Deploy(ctx, teacher, id)
	require.NoError(t, err)
	second, err := f.chat.Deploy(ctx, teacher, id)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(5), first.CourseId)
	assert.Equal(t, int64(6), first.CourseSectionId)
	assert.Equal(t, id, first.SourceConversationId.String())
	assert.Equal(t, []string{events.TypeConversationSummarized, events.TypeConversationDeployed}, f.events.types)

	_, err = f.chat.Deploy(ctx, otherTeacher, id)
	assert.Equal(t, 401, statusOf(t, err))
	_, err = f.chat.Deploy(ctx, teacher, uuid.NewString())
	assert.Equal(t, 400, statusOf(t, err))
}

func TestDeployRepointsSection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a, b := uuid.NewString(), uuid.NewString()

	for _, id := range []string{a, b} {
		_, err := f.chat.Chat(ctx, teacher, id, &dto.ChatRequest{UserInput: "hello"})
		require.NoError(t, err)
	}

	first, err := f.chat.Deploy(ctx, teacher, a)
	require.NoError(t, err)
	second, err := f.chat.Deploy(ctx, teacher, b)
	require.NoError(t, err)

	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, b, second.SourceConversationId.String())
}

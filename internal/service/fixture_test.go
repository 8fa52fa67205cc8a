package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"classroom-ai-be/internal/constant"
	"classroom-ai-be/internal/pkg/logger"
	"classroom-ai-be/internal/pkg/serverutils"
	"classroom-ai-be/internal/repository/memory"
	"classroom-ai-be/pkg/events"
	"classroom-ai-be/pkg/llm"
	"classroom-ai-be/pkg/rag/response"
	"classroom-ai-be/pkg/rag/retriever"

	"github.com/stretchr/testify/require"
)

// routedLLM answers summary, feedback and chat prompts differently so a test
// can tell which call produced what.
type routedLLM struct {
	mu        sync.Mutex
	summary   string
	feedback  string
	answer    string
	chatErr   error
	sumErr    error
	calls     [][]llm.Message
	maxTokens []int

	// beforeAnswer runs once, just before a chat answer is returned.
	beforeAnswer func()
}

func (r *routedLLM) Chat(_ context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, history)
	r.maxTokens = append(r.maxTokens, llm.Apply(llm.Options{}, opts...).MaxTokens)

	if len(history) > 0 {
		switch history[0].Content {
		case constant.SummaryInstruction:
			return r.summary, r.sumErr
		case constant.FeedbackInstruction:
			return r.feedback + ":" + history[1].Content, nil
		}
	}
	if hook := r.beforeAnswer; hook != nil {
		r.beforeAnswer = nil
		hook()
	}
	return r.answer, r.chatErr
}

func (r *routedLLM) Generate(ctx context.Context, p string, opts ...llm.Option) (string, error) {
	return r.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: p}}, opts...)
}

func (r *routedLLM) lastCall() []llm.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[len(r.calls)-1]
}

type fakeRetriever struct {
	chunks []string
	err    error
	docs   []retriever.Document
}

func (f *fakeRetriever) Retrieve(_ context.Context, doc retriever.Document, _ string, _ int) ([]string, error) {
	f.docs = append(f.docs, doc)
	return f.chunks, f.err
}

type recordedEvents struct {
	mu    sync.Mutex
	types []string
}

func (r *recordedEvents) Publish(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types = append(r.types, e.EventType())
	return nil
}

type fixture struct {
	store     *memory.Store
	llm       *routedLLM
	retriever *fakeRetriever
	events    *recordedEvents

	chat     IAiChatService
	student  IStudentChatService
	feedback IFeedbackService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:     memory.NewStore(),
		llm:       &routedLLM{summary: "牛頓第一定律", feedback: "摘要", answer: "這是回答。"},
		retriever: &fakeRetriever{},
		events:    &recordedEvents{},
	}
	factory := memory.NewRepositoryFactory(f.store)
	log := logger.NewNopLogger()
	gen := response.NewGenerator(f.llm, log, nil, time.Second)

	f.chat = NewAiChatService(factory, f.retriever, gen, f.events, log, "/srv/uploads")
	f.student = NewStudentChatService(factory, gen, log)
	f.feedback = NewFeedbackService(factory, gen, f.events, log)
	return f
}

var (
	teacher      = serverutils.Identity{Type: constant.UserTypeTeacher, Id: 10}
	otherTeacher = serverutils.Identity{Type: constant.UserTypeTeacher, Id: 11}
)

func student(id int64) serverutils.Identity {
	return serverutils.Identity{Type: constant.UserTypeStudent, Id: id}
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var appErr *serverutils.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	return appErr.Code
}

func int64p(v int64) *int64 { return &v }

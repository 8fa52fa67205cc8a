package service

import (
	"context"
	"errors"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"classroom-ai-be/internal/constant"
	"classroom-ai-be/internal/dto"
	"classroom-ai-be/internal/entity"
	"classroom-ai-be/internal/pkg/logger"
	"classroom-ai-be/internal/pkg/serverutils"
	"classroom-ai-be/internal/repository/contract"
	"classroom-ai-be/internal/repository/unitofwork"
	"classroom-ai-be/pkg/events"
	"classroom-ai-be/pkg/rag/access"
	"classroom-ai-be/pkg/rag/history"
	"classroom-ai-be/pkg/rag/message"
	"classroom-ai-be/pkg/rag/prompt"
	"classroom-ai-be/pkg/rag/response"
	"classroom-ai-be/pkg/rag/retriever"
	"classroom-ai-be/pkg/rag/session"
	"classroom-ai-be/pkg/vectorindex"

	"github.com/google/uuid"
)

// ContextRetriever returns the chunks of a document most relevant to query.
// k <= 0 selects the retriever's default.
type ContextRetriever interface {
	Retrieve(ctx context.Context, doc retriever.Document, query string, k int) ([]string, error)
}

type IAiChatService interface {
	StartConversation(ctx context.Context, user serverutils.Identity) (*dto.StartConversationResponse, error)
	Chat(ctx context.Context, user serverutils.Identity, conversationId string, request *dto.ChatRequest) (*dto.ChatResponse, error)
	History(ctx context.Context, user serverutils.Identity, conversationId string) (*dto.HistoryResponse, error)
	Delete(ctx context.Context, user serverutils.Identity, conversationId string) error
	List(ctx context.Context, user serverutils.Identity) (*dto.ListConversationsResponse, error)
	Deploy(ctx context.Context, user serverutils.Identity, conversationId string) (*dto.DeployResponse, error)
}

type aiChatService struct {
	uowFactory unitofwork.RepositoryFactory
	retriever  ContextRetriever
	generator  *response.Generator
	publisher  events.Publisher
	logger     logger.ILogger
	uploadDir  string
	now        func() time.Time

	accessVerifier *access.Verifier
	sessionManager *session.Manager
	historyLoader  *history.Loader
	messageFactory *message.Factory
}

func NewAiChatService(
	uowFactory unitofwork.RepositoryFactory,
	retriever ContextRetriever,
	generator *response.Generator,
	publisher events.Publisher,
	log logger.ILogger,
	uploadDir string,
) IAiChatService {
	return &aiChatService{
		uowFactory: uowFactory,
		retriever:  retriever,
		generator:  generator,
		publisher:  publisher,
		logger:     log,
		uploadDir:  uploadDir,
		now:        time.Now,

		accessVerifier: access.NewVerifier(),
		sessionManager: session.NewManager(),
		historyLoader:  history.NewLoader(uowFactory),
		messageFactory: message.NewFactory(),
	}
}

// StartConversation hands out a fresh id. The row is created by the first
// chat turn that uses it.
func (s *aiChatService) StartConversation(ctx context.Context, user serverutils.Identity) (*dto.StartConversationResponse, error) {
	if err := s.accessVerifier.RequireTeacher(user); err != nil {
		return nil, err
	}
	return &dto.StartConversationResponse{Uuid: uuid.New()}, nil
}

func (s *aiChatService) Chat(ctx context.Context, user serverutils.Identity, conversationId string, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	if err := s.accessVerifier.RequireTeacher(user); err != nil {
		return nil, err
	}
	id, err := s.sessionManager.ParseID(conversationId)
	if err != nil {
		return nil, err
	}

	input := strings.TrimSpace(request.UserInput)
	if input == "" {
		return nil, serverutils.NewBadRequestError("The UUID of conversation and the user input are required.")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := uow.TeacherConversationRepository().FindById(ctx, id)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load conversation", err)
	}
	if conversation != nil {
		if err := s.accessVerifier.VerifyOwner(conversation, user.Id); err != nil {
			return nil, err
		}
	}

	turn := prompt.TeacherTurn{Input: input}
	if request.FileId != nil {
		chunks, err := s.retrieveContext(ctx, uow, *request.FileId, input)
		if err != nil {
			return nil, err
		}
		turn.Grounded = true
		turn.Context = chunks
	}

	if conversation != nil {
		turn.History, err = s.historyLoader.TeacherHistory(ctx, conversation.Id)
		if err != nil {
			return nil, serverutils.NewInternalError("Failed to load history", err)
		}
	}

	var summary *string
	if len(turn.History) == 0 {
		sum := s.generator.Summarize(ctx, input)
		summary = &sum
	}

	answer := s.generator.Answer(ctx, prompt.BuildTeacher(turn))

	if conversation == nil {
		conversation, err = s.openConversation(ctx, id, user.Id, request)
		if err != nil {
			return nil, err
		}
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, serverutils.NewInternalError("Failed to start transaction", err)
	}
	defer uow.Rollback()

	if summary != nil {
		if err := s.sessionManager.SetSummary(ctx, uow, conversation, *summary); err != nil {
			return nil, serverutils.NewInternalError("Failed to save summary", err)
		}
	}
	if err := s.messageFactory.SaveTeacherTurn(ctx, uow, conversation.Id, input, answer, s.now()); err != nil {
		return nil, serverutils.NewInternalError("Failed to save messages", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, serverutils.NewInternalError("Failed to save messages", err)
	}

	if summary != nil {
		s.publish(ctx, events.New(events.TypeConversationSummarized, map[string]interface{}{
			"conversation_id": conversation.Id.String(),
			"teacher_id":      user.Id,
		}))
	}

	return &dto.ChatResponse{Answer: answer}, nil
}

func (s *aiChatService) retrieveContext(ctx context.Context, uow unitofwork.UnitOfWork, fileId int64, query string) ([]string, error) {
	file, err := uow.TeacherFileRepository().FindById(ctx, fileId)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load file", err)
	}
	if file == nil {
		return nil, serverutils.NewBadRequestError("file_id is invalid.")
	}

	doc := retriever.Document{
		Key:  strconv.FormatInt(file.Id, 10),
		Path: s.resolvePath(file),
	}
	chunks, err := s.retriever.Retrieve(ctx, doc, query, 0)
	switch {
	case err == nil:
		return chunks, nil
	case errors.Is(err, retriever.ErrExtractionEmpty), errors.Is(err, retriever.ErrChunkingEmpty):
		return nil, serverutils.NewBadRequestError("Unable to read file.")
	case errors.Is(err, vectorindex.ErrDimensionMismatch):
		return nil, serverutils.NewInternalError("Index does not match the embedding model", err)
	default:
		return nil, serverutils.NewInternalError("Unable to retrieve lesson context", err)
	}
}

func (s *aiChatService) resolvePath(file *entity.TeacherFile) string {
	if filepath.IsAbs(file.Path) || s.uploadDir == "" {
		return file.Path
	}
	return filepath.Join(s.uploadDir, file.Path)
}

// openConversation creates the row for a first turn in its own transaction.
// When a concurrent first turn for the same id wins the insert, its row is
// used instead.
func (s *aiChatService) openConversation(ctx context.Context, id uuid.UUID, teacherId int64, request *dto.ChatRequest) (*entity.TeacherConversation, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, serverutils.NewInternalError("Failed to start transaction", err)
	}
	conversation, err := s.sessionManager.Create(ctx, uow, id, teacherId, request.CourseId, request.CourseSectionId)
	if err == nil {
		if err := uow.Commit(); err != nil {
			uow.Rollback()
			return nil, serverutils.NewInternalError("Failed to create conversation", err)
		}
		return conversation, nil
	}
	uow.Rollback()
	if !errors.Is(err, contract.ErrDuplicateKey) {
		return nil, err
	}

	existing, err := s.uowFactory.NewUnitOfWork(ctx).TeacherConversationRepository().FindById(ctx, id)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load conversation", err)
	}
	if existing == nil {
		return nil, serverutils.NewInternalError("Failed to create conversation", contract.ErrDuplicateKey)
	}
	if err := s.accessVerifier.VerifyOwner(existing, teacherId); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *aiChatService) History(ctx context.Context, user serverutils.Identity, conversationId string) (*dto.HistoryResponse, error) {
	if err := s.accessVerifier.RequireTeacher(user); err != nil {
		return nil, err
	}
	id, err := s.sessionManager.ParseID(conversationId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := s.sessionManager.Find(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	if err := s.accessVerifier.VerifyOwner(conversation, user.Id); err != nil {
		return nil, err
	}

	rows, err := s.historyLoader.TeacherMessages(ctx, id)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load history", err)
	}

	res := &dto.HistoryResponse{Uuid: id, History: make([]dto.MessageResponse, 0, len(rows))}
	for _, row := range rows {
		res.History = append(res.History, dto.MessageResponse{
			Id:      row.Id,
			Sender:  row.Sender,
			Message: row.Content,
			SentAt:  row.SentAt.Format(dto.TimeLayout),
		})
	}
	return res, nil
}

func (s *aiChatService) Delete(ctx context.Context, user serverutils.Identity, conversationId string) error {
	if err := s.accessVerifier.RequireTeacher(user); err != nil {
		return err
	}
	id, err := s.sessionManager.ParseID(conversationId)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := s.sessionManager.Find(ctx, uow, id)
	if err != nil {
		return err
	}
	if err := s.accessVerifier.VerifyOwner(conversation, user.Id); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return serverutils.NewInternalError("Failed to start transaction", err)
	}
	defer uow.Rollback()

	if err := uow.TeacherMessageRepository().DeleteAllByConversationId(ctx, id); err != nil {
		return serverutils.NewInternalError("An error occurred while deleting the conversation", err)
	}
	if err := uow.TeacherConversationRepository().Delete(ctx, id); err != nil {
		return serverutils.NewInternalError("An error occurred while deleting the conversation", err)
	}
	if err := uow.Commit(); err != nil {
		return serverutils.NewInternalError("An error occurred while deleting the conversation", err)
	}

	s.logger.Info("AI_CHAT", "Conversation deleted", map[string]interface{}{
		"conversation_id": id.String(),
		"teacher_id":      user.Id,
	})
	return nil
}

func (s *aiChatService) List(ctx context.Context, user serverutils.Identity) (*dto.ListConversationsResponse, error) {
	if err := s.accessVerifier.RequireTeacher(user); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversations, err := uow.TeacherConversationRepository().FindAllByTeacherId(ctx, user.Id)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to list conversations", err)
	}

	res := &dto.ListConversationsResponse{Conversations: make([]dto.ConversationSummaryResponse, 0, len(conversations))}
	for _, c := range conversations {
		summary := constant.NoSummary
		if c.Summary != nil && *c.Summary != "" {
			summary = *c.Summary
		}
		res.Conversations = append(res.Conversations, dto.ConversationSummaryResponse{
			Uuid:            c.Id,
			CourseId:        c.CourseId,
			CourseSectionId: c.CourseSectionId,
			Summary:         summary,
			CreatedAt:       c.CreatedAt.Format(dto.TimeLayout),
		})
	}
	return res, nil
}

// Deploy publishes the conversation to the students of its (course, section).
// Deploying again returns the existing deployment, repointed at this
// conversation when another one was deployed before.
func (s *aiChatService) Deploy(ctx context.Context, user serverutils.Identity, conversationId string) (*dto.DeployResponse, error) {
	if err := s.accessVerifier.RequireTeacher(user); err != nil {
		return nil, err
	}
	id, err := s.sessionManager.ParseID(conversationId)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := s.sessionManager.Find(ctx, uow, id)
	if err != nil {
		return nil, err
	}
	if err := s.accessVerifier.VerifyOwner(conversation, user.Id); err != nil {
		return nil, err
	}

	repo := uow.StudentConversationRepository()
	deployed, err := repo.FindByCourseSection(ctx, conversation.CourseId, conversation.CourseSectionId)
	if err != nil {
		return nil, serverutils.NewInternalError("Deploy failed", err)
	}

	switch {
	case deployed == nil:
		deployed = &entity.StudentConversation{
			CourseId:             conversation.CourseId,
			CourseSectionId:      conversation.CourseSectionId,
			SourceConversationId: conversation.Id,
		}
		if err := repo.Create(ctx, deployed); err != nil {
			return nil, serverutils.NewInternalError("Deploy failed", err)
		}
	case deployed.SourceConversationId != conversation.Id:
		deployed.SourceConversationId = conversation.Id
		if err := repo.Update(ctx, deployed); err != nil {
			return nil, serverutils.NewInternalError("Deploy failed", err)
		}
	default:
		return toDeployResponse(deployed), nil
	}

	s.publish(ctx, events.New(events.TypeConversationDeployed, map[string]interface{}{
		"student_conversation_id": deployed.Id.String(),
		"conversation_id":         conversation.Id.String(),
		"course_id":               deployed.CourseId,
		"course_section_id":       deployed.CourseSectionId,
	}))
	return toDeployResponse(deployed), nil
}

func toDeployResponse(c *entity.StudentConversation) *dto.DeployResponse {
	return &dto.DeployResponse{
		Id:                   c.Id,
		CourseId:             c.CourseId,
		CourseSectionId:      c.CourseSectionId,
		SourceConversationId: c.SourceConversationId,
	}
}

func (s *aiChatService) publish(ctx context.Context, evt events.Event) {
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("AI_CHAT", "Failed to publish "+evt.EventType()+" event", map[string]interface{}{"error": err.Error()})
	}
}

package service

import (
	"context"
	"strings"
	"time"

	"classroom-ai-be/internal/dto"
	"classroom-ai-be/internal/pkg/logger"
	"classroom-ai-be/internal/pkg/serverutils"
	"classroom-ai-be/internal/repository/unitofwork"
	"classroom-ai-be/pkg/rag/access"
	"classroom-ai-be/pkg/rag/history"
	"classroom-ai-be/pkg/rag/message"
	"classroom-ai-be/pkg/rag/prompt"
	"classroom-ai-be/pkg/rag/response"
)

type IStudentChatService interface {
	Chat(ctx context.Context, user serverutils.Identity, courseId, courseSectionId int64, request *dto.StudentChatRequest) (*dto.ChatResponse, error)
}

type studentChatService struct {
	uowFactory unitofwork.RepositoryFactory
	generator  *response.Generator
	logger     logger.ILogger
	now        func() time.Time

	accessVerifier *access.Verifier
	historyLoader  *history.Loader
	messageFactory *message.Factory
}

func NewStudentChatService(uowFactory unitofwork.RepositoryFactory, generator *response.Generator, log logger.ILogger) IStudentChatService {
	return &studentChatService{
		uowFactory: uowFactory,
		generator:  generator,
		logger:     log,
		now:        time.Now,

		accessVerifier: access.NewVerifier(),
		historyLoader:  history.NewLoader(uowFactory),
		messageFactory: message.NewFactory(),
	}
}

// Chat answers a student in a deployed section, replaying the teacher's
// conversation ahead of the student's own history.
func (s *studentChatService) Chat(ctx context.Context, user serverutils.Identity, courseId, courseSectionId int64, request *dto.StudentChatRequest) (*dto.ChatResponse, error) {
	if err := s.accessVerifier.RequireStudent(user); err != nil {
		return nil, err
	}
	if courseId <= 0 || courseSectionId <= 0 {
		return nil, serverutils.NewBadRequestError("The course_id and course_section are required.")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	deployed, err := uow.StudentConversationRepository().FindByCourseSection(ctx, courseId, courseSectionId)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load conversation", err)
	}
	if deployed == nil {
		return nil, serverutils.NewNotFoundError("This course is not deployed.")
	}

	student, err := s.accessVerifier.VerifyEnrollment(ctx, uow, user.Id, courseId)
	if err != nil {
		return nil, err
	}

	input := strings.TrimSpace(request.UserInput)
	if input == "" {
		return nil, serverutils.NewBadRequestError("user input are required.")
	}

	teacherHistory, err := s.historyLoader.TeacherHistory(ctx, deployed.SourceConversationId)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load history", err)
	}
	studentHistory, err := s.historyLoader.StudentHistory(ctx, deployed.Id, student.Id)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load history", err)
	}

	answer := s.generator.Answer(ctx, prompt.BuildStudent(prompt.StudentTurn{
		TeacherHistory: teacherHistory,
		StudentHistory: studentHistory,
		Input:          input,
	}))

	if err := uow.Begin(ctx); err != nil {
		return nil, serverutils.NewInternalError("Failed to start transaction", err)
	}
	defer uow.Rollback()

	if err := s.messageFactory.SaveStudentTurn(ctx, uow, deployed.Id, student.Id, input, answer, s.now()); err != nil {
		return nil, serverutils.NewInternalError("Failed to save messages", err)
	}
	if err := uow.Commit(); err != nil {
		return nil, serverutils.NewInternalError("Failed to save messages", err)
	}

	return &dto.ChatResponse{Answer: answer}, nil
}

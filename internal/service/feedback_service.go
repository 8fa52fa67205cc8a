package service

import (
	"context"

	"classroom-ai-be/internal/constant"
	"classroom-ai-be/internal/dto"
	"classroom-ai-be/internal/entity"
	"classroom-ai-be/internal/pkg/logger"
	"classroom-ai-be/internal/pkg/serverutils"
	"classroom-ai-be/internal/repository/unitofwork"
	"classroom-ai-be/pkg/events"
	"classroom-ai-be/pkg/llm"
	"classroom-ai-be/pkg/rag/access"
	"classroom-ai-be/pkg/rag/history"
	"classroom-ai-be/pkg/rag/prompt"
	"classroom-ai-be/pkg/rag/response"
)

type IFeedbackService interface {
	Generate(ctx context.Context, user serverutils.Identity, request *dto.GenerateFeedbackRequest) ([]dto.FeedbackResponse, error)
	List(ctx context.Context, user serverutils.Identity, courseId, courseSectionId int64) ([]dto.FeedbackResponse, error)
}

type feedbackService struct {
	uowFactory unitofwork.RepositoryFactory
	generator  *response.Generator
	publisher  events.Publisher
	logger     logger.ILogger

	accessVerifier *access.Verifier
	historyLoader  *history.Loader
}

func NewFeedbackService(
	uowFactory unitofwork.RepositoryFactory,
	generator *response.Generator,
	publisher events.Publisher,
	log logger.ILogger,
) IFeedbackService {
	return &feedbackService{
		uowFactory: uowFactory,
		generator:  generator,
		publisher:  publisher,
		logger:     log,

		accessVerifier: access.NewVerifier(),
		historyLoader:  history.NewLoader(uowFactory),
	}
}

func (s *feedbackService) deployed(ctx context.Context, uow unitofwork.UnitOfWork, courseId, courseSectionId int64) (*entity.StudentConversation, error) {
	conversation, err := uow.StudentConversationRepository().FindByCourseSection(ctx, courseId, courseSectionId)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load conversation", err)
	}
	if conversation == nil {
		return nil, serverutils.NewNotFoundError("The course is not deployed.")
	}
	return conversation, nil
}

// Generate summarises every enrolled student's conversation, including
// students who have not chatted yet. A student whose summary fails keeps
// their previous feedback and is left out of the result.
func (s *feedbackService) Generate(ctx context.Context, user serverutils.Identity, request *dto.GenerateFeedbackRequest) ([]dto.FeedbackResponse, error) {
	if err := s.accessVerifier.RequireTeacher(user); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := s.deployed(ctx, uow, request.CourseId, request.CourseSectionId)
	if err != nil {
		return nil, err
	}

	students, err := uow.EnrollmentRepository().FindAllByCourseId(ctx, request.CourseId)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load students", err)
	}

	result := make([]dto.FeedbackResponse, 0, len(students))
	rows := make([]*entity.StudentFeedback, 0, len(students))
	for _, student := range students {
		turns, err := s.historyLoader.StudentHistory(ctx, conversation.Id, student.Id)
		if err != nil {
			return nil, serverutils.NewInternalError("Failed to load history", err)
		}

		text, err := s.generator.Complete(ctx, prompt.BuildFeedback(turns), llm.WithMaxTokens(constant.FeedbackMaxTokens))
		if err != nil {
			s.logger.Warn("FEEDBACK", "Feedback generation failed", map[string]interface{}{
				"student_id": student.Id,
				"error":      err.Error(),
			})
			continue
		}

		rows = append(rows, &entity.StudentFeedback{
			StudentId:      student.Id,
			ConversationId: conversation.Id,
			Feedback:       text,
		})
		result = append(result, dto.FeedbackResponse{
			StudentId:   student.Id,
			StudentName: student.Name,
			Feedback:    text,
		})
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, serverutils.NewInternalError("Failed to start transaction", err)
	}
	defer uow.Rollback()

	for _, row := range rows {
		if err := uow.StudentFeedbackRepository().Upsert(ctx, row); err != nil {
			return nil, serverutils.NewInternalError("Failed to save feedback", err)
		}
	}
	if err := uow.Commit(); err != nil {
		return nil, serverutils.NewInternalError("Failed to save feedback", err)
	}

	evt := events.New(events.TypeFeedbackGenerated, map[string]interface{}{
		"student_conversation_id": conversation.Id.String(),
		"course_id":               request.CourseId,
		"course_section_id":       request.CourseSectionId,
		"students":                len(result),
	})
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("FEEDBACK", "Failed to publish "+evt.EventType()+" event", map[string]interface{}{"error": err.Error()})
	}

	return result, nil
}

// List returns stored feedback for the enrolled students of a deployed
// section. Students without feedback are omitted.
func (s *feedbackService) List(ctx context.Context, user serverutils.Identity, courseId, courseSectionId int64) ([]dto.FeedbackResponse, error) {
	if err := s.accessVerifier.RequireTeacher(user); err != nil {
		return nil, err
	}
	if courseId <= 0 || courseSectionId <= 0 {
		return nil, serverutils.NewBadRequestError("The ID of course and course section are required.")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	conversation, err := s.deployed(ctx, uow, courseId, courseSectionId)
	if err != nil {
		return nil, err
	}

	feedbacks, err := uow.StudentFeedbackRepository().FindAllByConversationId(ctx, conversation.Id)
	if err != nil {
		return nil, serverutils.NewInternalError("An error occurred while fetching the feedback", err)
	}
	if len(feedbacks) == 0 {
		return nil, serverutils.NewNotFoundError("Feedback for this course has not been generated yet.")
	}

	byStudent := make(map[int64]string, len(feedbacks))
	for _, f := range feedbacks {
		byStudent[f.StudentId] = f.Feedback
	}

	students, err := uow.EnrollmentRepository().FindAllByCourseId(ctx, courseId)
	if err != nil {
		return nil, serverutils.NewInternalError("Failed to load students", err)
	}

	result := make([]dto.FeedbackResponse, 0, len(students))
	for _, student := range students {
		text, ok := byStudent[student.Id]
		if !ok {
			continue
		}
		result = append(result, dto.FeedbackResponse{
			StudentId:   student.Id,
			StudentName: student.Name,
			Feedback:    text,
		})
	}
	return result, nil
}

package mapper

import (
	"time"

	"classroom-ai-be/internal/entity"
	"classroom-ai-be/internal/model"
)

type StudentMapper struct{}

func NewStudentMapper() *StudentMapper {
	return &StudentMapper{}
}

func (m *StudentMapper) StudentToEntity(s *model.Student) *entity.Student {
	if s == nil {
		return nil
	}
	return &entity.Student{
		Id:       s.Id,
		Name:     s.Name,
		CourseId: s.CourseId,
	}
}

func (m *StudentMapper) StudentsToEntities(students []*model.Student) []*entity.Student {
	out := make([]*entity.Student, len(students))
	for i, s := range students {
		out[i] = m.StudentToEntity(s)
	}
	return out
}

func (m *StudentMapper) FeedbackToEntity(f *model.StudentFeedback) *entity.StudentFeedback {
	if f == nil {
		return nil
	}

	var updatedAt *time.Time
	if !f.UpdatedAt.IsZero() {
		t := f.UpdatedAt
		updatedAt = &t
	}

	return &entity.StudentFeedback{
		Id:             f.Id,
		StudentId:      f.StudentId,
		ConversationId: f.ConversationId,
		Feedback:       f.Feedback,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *StudentMapper) FeedbackToModel(f *entity.StudentFeedback) *model.StudentFeedback {
	if f == nil {
		return nil
	}

	var updatedAt time.Time
	if f.UpdatedAt != nil {
		updatedAt = *f.UpdatedAt
	}

	return &model.StudentFeedback{
		Id:             f.Id,
		StudentId:      f.StudentId,
		ConversationId: f.ConversationId,
		Feedback:       f.Feedback,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

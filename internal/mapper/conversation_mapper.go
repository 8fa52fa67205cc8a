package mapper

import (
	"classroom-ai-be/internal/entity"
	"classroom-ai-be/internal/model"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

// Conversation Mappers

func (m *ConversationMapper) TeacherConversationToEntity(c *model.TeacherConversation) *entity.TeacherConversation {
	if c == nil {
		return nil
	}
	return &entity.TeacherConversation{
		Id:              c.Id,
		TeacherId:       c.TeacherId,
		CourseId:        c.CourseId,
		CourseSectionId: c.CourseSectionId,
		Summary:         c.Summary,
		CreatedAt:       c.CreatedAt,
	}
}

func (m *ConversationMapper) TeacherConversationToModel(c *entity.TeacherConversation) *model.TeacherConversation {
	if c == nil {
		return nil
	}
	return &model.TeacherConversation{
		Id:              c.Id,
		TeacherId:       c.TeacherId,
		CourseId:        c.CourseId,
		CourseSectionId: c.CourseSectionId,
		Summary:         c.Summary,
		CreatedAt:       c.CreatedAt,
	}
}

func (m *ConversationMapper) StudentConversationToEntity(c *model.StudentConversation) *entity.StudentConversation {
	if c == nil {
		return nil
	}
	return &entity.StudentConversation{
		Id:                   c.Id,
		CourseId:             c.CourseId,
		CourseSectionId:      c.CourseSectionId,
		SourceConversationId: c.SourceConversationId,
		CreatedAt:            c.CreatedAt,
	}
}

func (m *ConversationMapper) StudentConversationToModel(c *entity.StudentConversation) *model.StudentConversation {
	if c == nil {
		return nil
	}
	return &model.StudentConversation{
		Id:                   c.Id,
		CourseId:             c.CourseId,
		CourseSectionId:      c.CourseSectionId,
		SourceConversationId: c.SourceConversationId,
		CreatedAt:            c.CreatedAt,
	}
}

// Message Mappers

func (m *ConversationMapper) TeacherMessageToEntity(msg *model.TeacherMessage) *entity.TeacherMessage {
	if msg == nil {
		return nil
	}
	return &entity.TeacherMessage{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Sender:         msg.Sender,
		Content:        msg.Content,
		SentAt:         msg.SentAt,
	}
}

func (m *ConversationMapper) TeacherMessageToModel(msg *entity.TeacherMessage) *model.TeacherMessage {
	if msg == nil {
		return nil
	}
	return &model.TeacherMessage{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		Sender:         msg.Sender,
		Content:        msg.Content,
		SentAt:         msg.SentAt,
	}
}

func (m *ConversationMapper) TeacherMessagesToEntities(msgs []*model.TeacherMessage) []*entity.TeacherMessage {
	out := make([]*entity.TeacherMessage, len(msgs))
	for i, msg := range msgs {
		out[i] = m.TeacherMessageToEntity(msg)
	}
	return out
}

func (m *ConversationMapper) StudentMessageToEntity(msg *model.StudentMessage) *entity.StudentMessage {
	if msg == nil {
		return nil
	}
	return &entity.StudentMessage{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		StudentId:      msg.StudentId,
		Sender:         msg.Sender,
		Content:        msg.Content,
		SentAt:         msg.SentAt,
	}
}

func (m *ConversationMapper) StudentMessageToModel(msg *entity.StudentMessage) *model.StudentMessage {
	if msg == nil {
		return nil
	}
	return &model.StudentMessage{
		Id:             msg.Id,
		ConversationId: msg.ConversationId,
		StudentId:      msg.StudentId,
		Sender:         msg.Sender,
		Content:        msg.Content,
		SentAt:         msg.SentAt,
	}
}

func (m *ConversationMapper) StudentMessagesToEntities(msgs []*model.StudentMessage) []*entity.StudentMessage {
	out := make([]*entity.StudentMessage, len(msgs))
	for i, msg := range msgs {
		out[i] = m.StudentMessageToEntity(msg)
	}
	return out
}

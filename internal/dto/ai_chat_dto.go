package dto

import "github.com/google/uuid"

// TimeLayout formats message and conversation timestamps in responses.
const TimeLayout = "2006-01-02 15:04:05"

type StartConversationResponse struct {
	Uuid uuid.UUID `json:"uuid"`
}

// ChatRequest is one teacher turn. CourseId and CourseSectionId are only
// read when the turn creates the conversation.
type ChatRequest struct {
	UserInput       string `json:"user_input" validate:"required"`
	FileId          *int64 `json:"file_id" validate:"omitempty,gt=0"`
	CourseId        *int64 `json:"course_id" validate:"omitempty,gt=0"`
	CourseSectionId *int64 `json:"course_section_id" validate:"omitempty,gt=0"`
}

type ChatResponse struct {
	Answer string `json:"answer"`
}

type MessageResponse struct {
	Id      int64  `json:"id"`
	Sender  string `json:"sender"`
	Message string `json:"message"`
	SentAt  string `json:"sent_at"`
}

type HistoryResponse struct {
	Uuid    uuid.UUID         `json:"uuid"`
	History []MessageResponse `json:"history"`
}

type ConversationSummaryResponse struct {
	Uuid            uuid.UUID `json:"uuid"`
	CourseId        int64     `json:"course_id"`
	CourseSectionId int64     `json:"course_section_id"`
	Summary         string    `json:"summary"`
	CreatedAt       string    `json:"created_at"`
}

type ListConversationsResponse struct {
	Conversations []ConversationSummaryResponse `json:"conversations"`
}

type DeployResponse struct {
	Id                   uuid.UUID `json:"id"`
	CourseId             int64     `json:"course_id"`
	CourseSectionId      int64     `json:"course_section_id"`
	SourceConversationId uuid.UUID `json:"source_conversation_id"`
}

type StudentChatRequest struct {
	UserInput string `json:"user_input" validate:"required"`
}

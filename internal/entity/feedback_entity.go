package entity

import (
	"time"

	"github.com/google/uuid"
)

type StudentFeedback struct {
	Id             int64
	StudentId      int64
	ConversationId uuid.UUID
	Feedback       string
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}

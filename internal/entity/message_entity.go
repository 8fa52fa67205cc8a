package entity

import (
	"time"

	"github.com/google/uuid"
)

type TeacherMessage struct {
	Id             int64
	ConversationId uuid.UUID
	Sender         string
	Content        string
	SentAt         time.Time
}

type StudentMessage struct {
	Id             int64
	ConversationId uuid.UUID
	StudentId      int64
	Sender         string
	Content        string
	SentAt         time.Time
}

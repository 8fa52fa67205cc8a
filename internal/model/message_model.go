package model

import (
	"time"

	"github.com/google/uuid"
)

// Message ids come from the database sequence and break sent_at ties.

type TeacherMessage struct {
	Id             int64     `gorm:"primaryKey;autoIncrement"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;index"`
	Sender         string    `gorm:"type:varchar(10);not null"`
	Content        string    `gorm:"column:message;type:text;not null"`
	SentAt         time.Time `gorm:"autoCreateTime"`
}

func (TeacherMessage) TableName() string {
	return "teacher_ai_messages"
}

type StudentMessage struct {
	Id             int64     `gorm:"primaryKey;autoIncrement"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;index:idx_student_ai_messages_owner"`
	StudentId      int64     `gorm:"not null;index:idx_student_ai_messages_owner"`
	Sender         string    `gorm:"type:varchar(10);not null"`
	Content        string    `gorm:"column:message;type:text;not null"`
	SentAt         time.Time `gorm:"autoCreateTime"`
}

func (StudentMessage) TableName() string {
	return "student_ai_messages"
}

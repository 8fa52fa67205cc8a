package model

import (
	"time"

	"github.com/google/uuid"
)

type StudentFeedback struct {
	Id             int64     `gorm:"primaryKey;autoIncrement"`
	StudentId      int64     `gorm:"column:user_id;not null;uniqueIndex:idx_student_ai_feedbacks_owner"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_student_ai_feedbacks_owner"`
	Feedback       string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (StudentFeedback) TableName() string {
	return "student_ai_feedbacks"
}

package model

import (
	"time"

	"github.com/google/uuid"
)

type TeacherConversation struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	TeacherId       int64     `gorm:"not null;index"`
	CourseId        int64     `gorm:"not null"`
	CourseSectionId int64     `gorm:"not null"`
	Summary         *string   `gorm:"type:text"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`

	Messages []TeacherMessage `gorm:"foreignKey:ConversationId;constraint:OnDelete:CASCADE"`
}

func (TeacherConversation) TableName() string {
	return "teacher_ai_conversations"
}

type StudentConversation struct {
	Id                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CourseId             int64     `gorm:"not null;uniqueIndex:idx_student_ai_conversations_section"`
	CourseSectionId      int64     `gorm:"not null;uniqueIndex:idx_student_ai_conversations_section"`
	SourceConversationId uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt            time.Time `gorm:"autoCreateTime"`
}

func (StudentConversation) TableName() string {
	return "student_ai_conversations"
}

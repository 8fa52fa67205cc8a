package entity

import (
	"time"

	"github.com/google/uuid"
)

type TeacherConversation struct {
	Id              uuid.UUID
	TeacherId       int64
	CourseId        int64
	CourseSectionId int64
	Summary         *string
	CreatedAt       time.Time
}

// StudentConversation is a (course, section) pair deployed to students.
// SourceConversationId points at the teacher conversation being replayed.
type StudentConversation struct {
	Id                   uuid.UUID
	CourseId             int64
	CourseSectionId      int64
	SourceConversationId uuid.UUID
	CreatedAt            time.Time
}

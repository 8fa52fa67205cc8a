package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByConversationID struct {
	ConversationID uuid.UUID
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}

type ByTeacherID struct {
	TeacherID int64
}

func (s ByTeacherID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("teacher_id = ?", s.TeacherID)
}

// ByCourse matches enrollment rows; the students table names the column
// "course".
type ByCourse struct {
	CourseID int64
}

func (s ByCourse) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("course = ?", s.CourseID)
}

type ByStudentID struct {
	StudentID int64
}

func (s ByStudentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("student_id = ?", s.StudentID)
}

type ByCourseSection struct {
	CourseID        int64
	CourseSectionID int64
}

func (s ByCourseSection) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("course_id = ? AND course_section_id = ?", s.CourseID, s.CourseSectionID)
}

type ByDocumentKey struct {
	Key string
}

func (s ByDocumentKey) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_key = ?", s.Key)
}

// Chronological orders messages by send time, falling back to the
// sequence id for rows written within the same clock tick.
type Chronological struct{}

func (s Chronological) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("sent_at ASC").Order("id ASC")
}

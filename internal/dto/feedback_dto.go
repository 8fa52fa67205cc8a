package dto

// GenerateFeedbackRequest is accepted as JSON or form data.
type GenerateFeedbackRequest struct {
	CourseId        int64 `json:"course_id" form:"course_id" validate:"required,gt=0"`
	CourseSectionId int64 `json:"course_section_id" form:"course_section_id" validate:"required,gt=0"`
}

type FeedbackResponse struct {
	StudentId   int64  `json:"student_id"`
	StudentName string `json:"student_name"`
	Feedback    string `json:"feedback"`
}

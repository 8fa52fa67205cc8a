package entity

// Student is the enrollment view of a student account: one course per student.
type Student struct {
	Id       int64
	Name     string
	CourseId int64
}

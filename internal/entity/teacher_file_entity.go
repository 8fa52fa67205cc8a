package entity

// TeacherFile is a lesson document uploaded by a teacher. Course and file
// management own the rows; this service only reads them.
type TeacherFile struct {
	Id        int64
	CourseId  int64
	TeacherId int64
	Name      string
	Path      string
	Checksum  string
}

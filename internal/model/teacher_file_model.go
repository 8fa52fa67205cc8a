package model

type TeacherFile struct {
	Id        int64  `gorm:"primaryKey"`
	CourseId  int64  `gorm:"not null"`
	TeacherId int64  `gorm:"not null"`
	Name      string `gorm:"type:varchar(255);not null"`
	Path      string `gorm:"type:varchar(255);not null"`
	Checksum  string `gorm:"type:varchar(64)"`
}

func (TeacherFile) TableName() string {
	return "teacher_files"
}

package model

type Student struct {
	Id       int64  `gorm:"primaryKey"`
	Name     string `gorm:"type:varchar(120);not null"`
	CourseId int64  `gorm:"column:course;not null;index"`
}

func (Student) TableName() string {
	return "students"
}

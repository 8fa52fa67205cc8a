package unitofwork

import (
	"context"
	"fmt"

	"classroom-ai-be/internal/repository/contract"
	"classroom-ai-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) TeacherFileRepository() contract.TeacherFileRepository {
	return implementation.NewTeacherFileRepository(u.getDB())
}

func (u *UnitOfWorkImpl) FileIndexRepository() contract.FileIndexRepository {
	return implementation.NewFileIndexRepository(u.getDB())
}

func (u *UnitOfWorkImpl) TeacherConversationRepository() contract.TeacherConversationRepository {
	return implementation.NewTeacherConversationRepository(u.getDB())
}

func (u *UnitOfWorkImpl) TeacherMessageRepository() contract.TeacherMessageRepository {
	return implementation.NewTeacherMessageRepository(u.getDB())
}

func (u *UnitOfWorkImpl) StudentConversationRepository() contract.StudentConversationRepository {
	return implementation.NewStudentConversationRepository(u.getDB())
}

func (u *UnitOfWorkImpl) StudentMessageRepository() contract.StudentMessageRepository {
	return implementation.NewStudentMessageRepository(u.getDB())
}

func (u *UnitOfWorkImpl) EnrollmentRepository() contract.EnrollmentRepository {
	return implementation.NewEnrollmentRepository(u.getDB())
}

func (u *UnitOfWorkImpl) StudentFeedbackRepository() contract.StudentFeedbackRepository {
	return implementation.NewStudentFeedbackRepository(u.getDB())
}

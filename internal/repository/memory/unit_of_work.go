package memory

import (
	"context"
	"fmt"

	"classroom-ai-be/internal/repository/contract"
	"classroom-ai-be/internal/repository/unitofwork"
)

type RepositoryFactory struct {
	store *Store
}

func NewRepositoryFactory(store *Store) unitofwork.RepositoryFactory {
	return &RepositoryFactory{store: store}
}

func (f *RepositoryFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork applies writes to the store immediately and logs how to undo
// each one. Rollback only reverts the rows this unit of work touched.
type UnitOfWork struct {
	store  *Store
	active bool
	undo   []func(*tables)
}

func (u *UnitOfWork) Begin(context.Context) error {
	if u.active {
		return fmt.Errorf("transaction already started")
	}
	u.active = true
	u.undo = nil
	return nil
}

func (u *UnitOfWork) Commit() error {
	if !u.active {
		return fmt.Errorf("no transaction to commit")
	}
	u.active = false
	u.undo = nil
	return nil
}

func (u *UnitOfWork) Rollback() error {
	if !u.active {
		return fmt.Errorf("no transaction to rollback")
	}
	u.store.mu.Lock()
	for i := len(u.undo) - 1; i >= 0; i-- {
		u.undo[i](u.store.t)
	}
	u.store.mu.Unlock()
	u.active = false
	u.undo = nil
	return nil
}

// record is called with the store lock held.
func (u *UnitOfWork) record(fn func(*tables)) {
	if u.active {
		u.undo = append(u.undo, fn)
	}
}

func (u *UnitOfWork) TeacherFileRepository() contract.TeacherFileRepository {
	return teacherFileRepository{u.store}
}

func (u *UnitOfWork) FileIndexRepository() contract.FileIndexRepository {
	return fileIndexRepository{u.store, u}
}

func (u *UnitOfWork) TeacherConversationRepository() contract.TeacherConversationRepository {
	return teacherConversationRepository{u.store, u}
}

func (u *UnitOfWork) TeacherMessageRepository() contract.TeacherMessageRepository {
	return teacherMessageRepository{u.store, u}
}

func (u *UnitOfWork) StudentConversationRepository() contract.StudentConversationRepository {
	return studentConversationRepository{u.store, u}
}

func (u *UnitOfWork) StudentMessageRepository() contract.StudentMessageRepository {
	return studentMessageRepository{u.store, u}
}

func (u *UnitOfWork) EnrollmentRepository() contract.EnrollmentRepository {
	return enrollmentRepository{u.store}
}

func (u *UnitOfWork) StudentFeedbackRepository() contract.StudentFeedbackRepository {
	return studentFeedbackRepository{u.store, u}
}

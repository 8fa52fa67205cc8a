package memory

import (
	"context"
	"fmt"
	"sort"

	"classroom-ai-be/internal/entity"
	"classroom-ai-be/internal/repository/contract"

	"github.com/google/uuid"
)

type teacherFileRepository struct{ s *Store }

func (r teacherFileRepository) FindById(_ context.Context, id int64) (*entity.TeacherFile, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	f, ok := r.s.t.files[id]
	if !ok {
		return nil, nil
	}
	return &f, nil
}

type fileIndexRepository struct {
	s *Store
	u *UnitOfWork
}

func (r fileIndexRepository) Upsert(_ context.Context, index *entity.FileIndex) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	row := *index
	existing, ok := r.s.t.indexes[index.DocumentKey]
	r.u.record(restoreIndex(index.DocumentKey, existing, ok))
	if ok {
		row.Id = existing.Id
		row.CreatedAt = existing.CreatedAt
	} else {
		if row.Id == uuid.Nil {
			row.Id = uuid.New()
		}
		row.CreatedAt = now
	}
	row.UpdatedAt = &now
	r.s.t.indexes[row.DocumentKey] = row
	*index = row
	return nil
}

func (r fileIndexRepository) DeleteByDocumentKey(_ context.Context, key string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.t.indexes[key]
	r.u.record(restoreIndex(key, existing, ok))
	delete(r.s.t.indexes, key)
	return nil
}

func (r fileIndexRepository) FindByDocumentKey(_ context.Context, key string) (*entity.FileIndex, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.t.indexes[key]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r fileIndexRepository) FindAll(_ context.Context) ([]*entity.FileIndex, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]*entity.FileIndex, 0, len(r.s.t.indexes))
	for _, row := range r.s.t.indexes {
		row := row
		out = append(out, &row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].DocumentKey < out[j].DocumentKey
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type teacherConversationRepository struct {
	s *Store
	u *UnitOfWork
}

func (r teacherConversationRepository) Create(_ context.Context, c *entity.TeacherConversation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row := *c
	if row.Id == uuid.Nil {
		row.Id = uuid.New()
	}
	if _, ok := r.s.t.teacherConversations[row.Id]; ok {
		return fmt.Errorf("teacher conversation %s: %w", row.Id, contract.ErrDuplicateKey)
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = r.s.now()
	}
	r.s.t.teacherConversations[row.Id] = row
	r.u.record(restoreTeacherConversation(row.Id, entity.TeacherConversation{}, false))
	*c = row
	return nil
}

func (r teacherConversationRepository) Update(_ context.Context, c *entity.TeacherConversation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.t.teacherConversations[c.Id]
	r.u.record(restoreTeacherConversation(c.Id, existing, ok))
	r.s.t.teacherConversations[c.Id] = *c
	return nil
}

func (r teacherConversationRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.t.teacherConversations[id]
	r.u.record(restoreTeacherConversation(id, existing, ok))
	delete(r.s.t.teacherConversations, id)
	return nil
}

func (r teacherConversationRepository) FindById(_ context.Context, id uuid.UUID) (*entity.TeacherConversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	row, ok := r.s.t.teacherConversations[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (r teacherConversationRepository) FindAllByTeacherId(_ context.Context, teacherId int64) ([]*entity.TeacherConversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.TeacherConversation
	for _, row := range r.s.t.teacherConversations {
		if row.TeacherId == teacherId {
			row := row
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Id.String() < out[j].Id.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

type studentConversationRepository struct {
	s *Store
	u *UnitOfWork
}

func (r studentConversationRepository) Create(_ context.Context, c *entity.StudentConversation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, row := range r.s.t.studentConversations {
		if row.CourseId == c.CourseId && row.CourseSectionId == c.CourseSectionId {
			return fmt.Errorf("student conversation %d/%d: %w", c.CourseId, c.CourseSectionId, contract.ErrDuplicateKey)
		}
	}
	row := *c
	if row.Id == uuid.Nil {
		row.Id = uuid.New()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = r.s.now()
	}
	r.s.t.studentConversations[row.Id] = row
	r.u.record(restoreStudentConversation(row.Id, entity.StudentConversation{}, false))
	*c = row
	return nil
}

func (r studentConversationRepository) Update(_ context.Context, c *entity.StudentConversation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.t.studentConversations[c.Id]
	r.u.record(restoreStudentConversation(c.Id, existing, ok))
	r.s.t.studentConversations[c.Id] = *c
	return nil
}

func (r studentConversationRepository) FindByCourseSection(_ context.Context, courseId, courseSectionId int64) (*entity.StudentConversation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, row := range r.s.t.studentConversations {
		if row.CourseId == courseId && row.CourseSectionId == courseSectionId {
			row := row
			return &row, nil
		}
	}
	return nil, nil
}

type teacherMessageRepository struct {
	s *Store
	u *UnitOfWork
}

func (r teacherMessageRepository) Create(_ context.Context, m *entity.TeacherMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row := *m
	row.Id = r.s.nextID()
	if row.SentAt.IsZero() {
		row.SentAt = r.s.now()
	}
	r.s.t.teacherMessages = append(r.s.t.teacherMessages, row)
	r.u.record(func(t *tables) { t.teacherMessages = removeTeacherMessage(t.teacherMessages, row.Id) })
	*m = row
	return nil
}

func (r teacherMessageRepository) FindAllByConversationId(_ context.Context, conversationId uuid.UUID) ([]*entity.TeacherMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.TeacherMessage{}
	for _, row := range r.s.t.teacherMessages {
		if row.ConversationId == conversationId {
			row := row
			out = append(out, &row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].Id < out[j].Id
		}
		return out[i].SentAt.Before(out[j].SentAt)
	})
	return out, nil
}

func (r teacherMessageRepository) DeleteAllByConversationId(_ context.Context, conversationId uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var kept, removed []entity.TeacherMessage
	for _, row := range r.s.t.teacherMessages {
		if row.ConversationId != conversationId {
			kept = append(kept, row)
		} else {
			removed = append(removed, row)
		}
	}
	r.s.t.teacherMessages = kept
	r.u.record(func(t *tables) { t.teacherMessages = append(t.teacherMessages, removed...) })
	return nil
}

type studentMessageRepository struct {
	s *Store
	u *UnitOfWork
}

func (r studentMessageRepository) Create(_ context.Context, m *entity.StudentMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	row := *m
	row.Id = r.s.nextID()
	if row.SentAt.IsZero() {
		row.SentAt = r.s.now()
	}
	r.s.t.studentMessages = append(r.s.t.studentMessages, row)
	r.u.record(func(t *tables) { t.studentMessages = removeStudentMessage(t.studentMessages, row.Id) })
	*m = row
	return nil
}

func (r studentMessageRepository) FindAllByConversationAndStudent(_ context.Context, conversationId uuid.UUID, studentId int64) ([]*entity.StudentMessage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.StudentMessage{}
	for _, row := range r.s.t.studentMessages {
		if row.ConversationId == conversationId && row.StudentId == studentId {
			row := row
			out = append(out, &row)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SentAt.Equal(out[j].SentAt) {
			return out[i].Id < out[j].Id
		}
		return out[i].SentAt.Before(out[j].SentAt)
	})
	return out, nil
}

type enrollmentRepository struct{ s *Store }

func (r enrollmentRepository) FindStudentById(_ context.Context, id int64) (*entity.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.t.students[id]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r enrollmentRepository) FindAllByCourseId(_ context.Context, courseId int64) ([]*entity.Student, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.Student{}
	for _, st := range r.s.t.students {
		if st.CourseId == courseId {
			st := st
			out = append(out, &st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Id < out[j].Id })
	return out, nil
}

type studentFeedbackRepository struct {
	s *Store
	u *UnitOfWork
}

func (r studentFeedbackRepository) Upsert(_ context.Context, f *entity.StudentFeedback) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	now := r.s.now()
	for i, row := range r.s.t.feedbacks {
		if row.StudentId == f.StudentId && row.ConversationId == f.ConversationId {
			prev := row
			r.u.record(func(t *tables) {
				for j := range t.feedbacks {
					if t.feedbacks[j].Id == prev.Id {
						t.feedbacks[j] = prev
					}
				}
			})
			row.Feedback = f.Feedback
			row.UpdatedAt = &now
			r.s.t.feedbacks[i] = row
			*f = row
			return nil
		}
	}

	row := *f
	row.Id = r.s.nextID()
	row.CreatedAt = now
	row.UpdatedAt = &now
	r.s.t.feedbacks = append(r.s.t.feedbacks, row)
	r.u.record(func(t *tables) { t.feedbacks = removeFeedback(t.feedbacks, row.Id) })
	*f = row
	return nil
}

func (r studentFeedbackRepository) FindAllByConversationId(_ context.Context, conversationId uuid.UUID) ([]*entity.StudentFeedback, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []*entity.StudentFeedback{}
	for _, row := range r.s.t.feedbacks {
		if row.ConversationId == conversationId {
			row := row
			out = append(out, &row)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentId < out[j].StudentId })
	return out, nil
}

func restoreIndex(key string, prev entity.FileIndex, existed bool) func(*tables) {
	return func(t *tables) {
		if existed {
			t.indexes[key] = prev
		} else {
			delete(t.indexes, key)
		}
	}
}

func restoreTeacherConversation(id uuid.UUID, prev entity.TeacherConversation, existed bool) func(*tables) {
	return func(t *tables) {
		if existed {
			t.teacherConversations[id] = prev
		} else {
			delete(t.teacherConversations, id)
		}
	}
}

func restoreStudentConversation(id uuid.UUID, prev entity.StudentConversation, existed bool) func(*tables) {
	return func(t *tables) {
		if existed {
			t.studentConversations[id] = prev
		} else {
			delete(t.studentConversations, id)
		}
	}
}

func removeTeacherMessage(rows []entity.TeacherMessage, id int64) []entity.TeacherMessage {
	out := rows[:0]
	for _, row := range rows {
		if row.Id != id {
			out = append(out, row)
		}
	}
	return out
}

func removeStudentMessage(rows []entity.StudentMessage, id int64) []entity.StudentMessage {
	out := rows[:0]
	for _, row := range rows {
		if row.Id != id {
			out = append(out, row)
		}
	}
	return out
}

func removeFeedback(rows []entity.StudentFeedback, id int64) []entity.StudentFeedback {
	out := rows[:0]
	for _, row := range rows {
		if row.Id != id {
			out = append(out, row)
		}
	}
	return out
}

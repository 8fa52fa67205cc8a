package memory

import (
	"sync"
	"time"

	"classroom-ai-be/internal/entity"

	"github.com/google/uuid"
)

type tables struct {
	files                map[int64]entity.TeacherFile
	indexes              map[string]entity.FileIndex
	teacherConversations map[uuid.UUID]entity.TeacherConversation
	studentConversations map[uuid.UUID]entity.StudentConversation
	teacherMessages      []entity.TeacherMessage
	studentMessages      []entity.StudentMessage
	students             map[int64]entity.Student
	feedbacks            []entity.StudentFeedback
	seq                  int64
}

func newTables() *tables {
	return &tables{
		files:                map[int64]entity.TeacherFile{},
		indexes:              map[string]entity.FileIndex{},
		teacherConversations: map[uuid.UUID]entity.TeacherConversation{},
		studentConversations: map[uuid.UUID]entity.StudentConversation{},
		students:             map[int64]entity.Student{},
	}
}

// Store is a process-local stand-in for the relational database. It backs
// the memory unit of work used by tests and by runs without DB_DSN.
type Store struct {
	mu  sync.Mutex
	t   *tables
	now func() time.Time
}

func NewStore() *Store {
	return &Store{t: newTables(), now: time.Now}
}

// SetClock replaces the time source used for created/sent timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// AddTeacherFile seeds a row owned by file management.
func (s *Store) AddTeacherFile(f entity.TeacherFile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t.files[f.Id] = f
}

// AddStudent seeds a row owned by account management.
func (s *Store) AddStudent(st entity.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t.students[st.Id] = st
}

func (s *Store) nextID() int64 {
	s.t.seq++
	return s.t.seq
}

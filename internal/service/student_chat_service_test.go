package service

import (
	"context"
	"testing"

	"classroom-ai-be/internal/constant"
	"classroom-ai-be/internal/dto"
	"classroom-ai-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// deploySection runs one teacher turn in course 5 / section 6 and deploys it.
func deploySection(t *testing.T, f *fixture) *dto.DeployResponse {
	t.Helper()
	ctx := context.Background()
	id := uuid.NewString()
	_, err := f.chat.Chat(ctx, teacher, id, &dto.ChatRequest{
		UserInput:       "教學重點是光合作用",
		CourseId:        int64p(5),
		CourseSectionId: int64p(6),
	})
	require.NoError(t, err)
	deployed, err := f.chat.Deploy(ctx, teacher, id)
	require.NoError(t, err)
	return deployed
}

func TestStudentChatReplaysTeacherConversation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	deploySection(t, f)
	f.store.AddStudent(entity.Student{Id: 21, Name: "小明", CourseId: 5})

	_, err := f.student.Chat(ctx, student(21), 5, 6, &dto.StudentChatRequest{UserInput: "什麼是光合作用？"})
	require.NoError(t, err)
	_, err = f.student.Chat(ctx, student(21), 5, 6, &dto.StudentChatRequest{UserInput: "再說一次"})
	require.NoError(t, err)

	msgs := f.llm.lastCall()
	contents := make([]string, len(msgs))
	for i, m := range msgs {
		contents[i] = m.Content
	}
	assert.Equal(t, []string{
		constant.StudentInstruction,
		"教學重點是光合作用", "這是回答。",
		constant.TeacherHistoryMarker,
		"什麼是光合作用？", "這是回答。",
		"再說一次",
	}, contents)
}

func TestStudentChatHistoriesAreSeparate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	deploySection(t, f)
	f.store.AddStudent(entity.Student{Id: 21, CourseId: 5})
	f.store.AddStudent(entity.Student{Id: 22, CourseId: 5})

	_, err := f.student.Chat(ctx, student(21), 5, 6, &dto.StudentChatRequest{UserInput: "秘密問題"})
	require.NoError(t, err)
	_, err = f.student.Chat(ctx, student(22), 5, 6, &dto.StudentChatRequest{UserInput: "我的問題"})
	require.NoError(t, err)

	for _, m := range f.llm.lastCall() {
		assert.NotEqual(t, "秘密問題", m.Content)
	}
}

func TestStudentChatErrors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.store.AddStudent(entity.Student{Id: 21, CourseId: 5})
	f.store.AddStudent(entity.Student{Id: 30, CourseId: 9})

	_, err := f.student.Chat(ctx, student(21), 5, 6, &dto.StudentChatRequest{UserInput: "hi"})
	assert.Equal(t, 404, statusOf(t, err), "not deployed")

	deploySection(t, f)

	tests := []struct {
		name   string
		call   func() error
		status int
	}{
		{"teacher forbidden", func() error {
			_, err := f.student.Chat(ctx, teacher, 5, 6, &dto.StudentChatRequest{UserInput: "hi"})
			return err
		}, 403},
		{"missing ids", func() error {
			_, err := f.student.Chat(ctx, student(21), 0, 6, &dto.StudentChatRequest{UserInput: "hi"})
			return err
		}, 400},
		{"unknown student", func() error {
			_, err := f.student.Chat(ctx, student(99), 5, 6, &dto.StudentChatRequest{UserInput: "hi"})
			return err
		}, 404},
		{"not enrolled", func() error {
			_, err := f.student.Chat(ctx, student(30), 5, 6, &dto.StudentChatRequest{UserInput: "hi"})
			return err
		}, 403},
		{"blank input", func() error {
			_, err := f.student.Chat(ctx, student(21), 5, 6, &dto.StudentChatRequest{UserInput: " "})
			return err
		}, 400},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, statusOf(t, tt.call()))
		})
	}
}

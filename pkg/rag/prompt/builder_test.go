package prompt

import (
	"strings"
	"testing"

	"classroom-ai-be/internal/constant"
	"classroom-ai-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roles(msgs []llm.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.Role
	}
	return out
}

func TestBuildTeacherGrounded(t *testing.T) {
	history := []llm.Message{
		{Role: llm.RoleUser, Content: "第一題"},
		{Role: llm.RoleAssistant, Content: "第一答"},
	}

	msgs := BuildTeacher(TeacherTurn{
		Grounded: true,
		Context:  []string{"今天天氣很好。", "我們去公園吧！"},
		History:  history,
		Input:    "第二題",
	})

	require.Len(t, msgs, 5)
	assert.Equal(t, []string{"system", "system", "user", "assistant", "user"}, roles(msgs))
	assert.Equal(t, constant.GroundingInstruction, msgs[0].Content)
	assert.Equal(t, "相關上下文：\n\n今天天氣很好。\n我們去公園吧！", msgs[1].Content)
	assert.Equal(t, "第一題", msgs[2].Content)
	assert.Equal(t, "第二題", msgs[4].Content)
}

func TestBuildTeacherWithoutFile(t *testing.T) {
	msgs := BuildTeacher(TeacherTurn{Input: "你好"})

	require.Len(t, msgs, 3)
	assert.Equal(t, "", msgs[0].Content)
	assert.Equal(t, "相關上下文：\n\n", msgs[1].Content)
	assert.Equal(t, llm.Message{Role: llm.RoleUser, Content: "你好"}, msgs[2])
}

func TestBuildTeacherDoesNotAliasHistory(t *testing.T) {
	history := make([]llm.Message, 1, 10)
	history[0] = llm.Message{Role: llm.RoleUser, Content: "a"}

	first := BuildTeacher(TeacherTurn{History: history, Input: "x"})
	second := BuildTeacher(TeacherTurn{History: history, Input: "y"})

	assert.Equal(t, "x", first[len(first)-1].Content)
	assert.Equal(t, "y", second[len(second)-1].Content)
	assert.Len(t, history, 1)
}

func TestBuildStudentOrdering(t *testing.T) {
	msgs := BuildStudent(StudentTurn{
		TeacherHistory: []llm.Message{
			{Role: llm.RoleUser, Content: "T-Q"},
			{Role: llm.RoleAssistant, Content: "T-A"},
		},
		StudentHistory: []llm.Message{
			{Role: llm.RoleUser, Content: "S-Q"},
			{Role: llm.RoleAssistant, Content: "S-A"},
		},
		Input: "S-Q2",
	})

	contents := make([]string, len(msgs))
	for i, m := range msgs {
		contents[i] = m.Content
	}

	assert.Equal(t, []string{
		constant.StudentInstruction,
		"T-Q", "T-A",
		"以上是教師的對話紀錄",
		"S-Q", "S-A",
		"S-Q2",
	}, contents)
	assert.Equal(t, []string{"system", "user", "assistant", "user", "user", "assistant", "user"}, roles(msgs))

	assert.Contains(t, msgs[0].Content, "根據老師")
	assert.Equal(t, 1, strings.Count(msgs[0].Content, "以前的對話紀錄"), "the phrase only appears inside the prohibition")
}

func TestBuildFeedback(t *testing.T) {
	msgs := BuildFeedback([]llm.Message{
		{Role: llm.RoleUser, Content: "什麼是光合作用？"},
		{Role: llm.RoleAssistant, Content: "植物利用光能製造養分。"},
	})

	require.Len(t, msgs, 2)
	assert.Equal(t, constant.FeedbackInstruction, msgs[0].Content)
	assert.Equal(t,
		constant.FeedbackPromptHead+"學生說: 什麼是光合作用？ AI 助教回: 植物利用光能製造養分。 \n\n",
		msgs[1].Content)
}

func TestBuildFeedbackEmptyHistory(t *testing.T) {
	msgs := BuildFeedback(nil)
	assert.Equal(t, constant.FeedbackPromptHead, msgs[1].Content)
}

func TestBuildSummary(t *testing.T) {
	msgs := BuildSummary("請解釋牛頓第一定律")
	assert.Equal(t, []string{"system", "user"}, roles(msgs))
	assert.Equal(t, constant.SummaryInstruction, msgs[0].Content)
}

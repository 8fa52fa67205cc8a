package prompt

import (
	"fmt"
	"strings"

	"classroom-ai-be/internal/constant"
	"classroom-ai-be/pkg/llm"
)

// TeacherTurn is everything one teacher turn's prompt is built from.
type TeacherTurn struct {
	// Grounded is true when a lesson file was attached to the turn.
	Grounded bool
	Context  []string
	History  []llm.Message
	Input    string
}

// StudentTurn replays the teacher's conversation before the student's own.
type StudentTurn struct {
	TeacherHistory []llm.Message
	StudentHistory []llm.Message
	Input          string
}

// BuildTeacher returns
// [system instruction, system context, history..., user input].
func BuildTeacher(turn TeacherTurn) []llm.Message {
	instruction := ""
	if turn.Grounded {
		instruction = constant.GroundingInstruction
	}

	messages := make([]llm.Message, 0, len(turn.History)+3)
	messages = append(messages,
		llm.Message{Role: llm.RoleSystem, Content: instruction},
		llm.Message{Role: llm.RoleSystem, Content: constant.ContextMessagePrefix + strings.Join(turn.Context, "\n")},
	)
	messages = append(messages, turn.History...)
	return append(messages, llm.Message{Role: llm.RoleUser, Content: turn.Input})
}

// BuildStudent returns
// [system instruction, teacher history..., marker, student history..., input].
func BuildStudent(turn StudentTurn) []llm.Message {
	messages := make([]llm.Message, 0, len(turn.TeacherHistory)+len(turn.StudentHistory)+3)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: constant.StudentInstruction})
	messages = append(messages, turn.TeacherHistory...)
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: constant.TeacherHistoryMarker})
	messages = append(messages, turn.StudentHistory...)
	return append(messages, llm.Message{Role: llm.RoleUser, Content: turn.Input})
}

func BuildSummary(input string) []llm.Message {
	return []llm.Message{
		{Role: llm.RoleSystem, Content: constant.SummaryInstruction},
		{Role: llm.RoleUser, Content: input},
	}
}

// BuildFeedback turns a student's conversation into the feedback request.
// An empty history still yields a prompt; the model is told to report that
// the student has not chatted yet.
func BuildFeedback(history []llm.Message) []llm.Message {
	var b strings.Builder
	b.WriteString(constant.FeedbackPromptHead)
	for _, m := range history {
		switch m.Role {
		case llm.RoleUser:
			fmt.Fprintf(&b, constant.FeedbackStudentLine, m.Content)
		case llm.RoleAssistant:
			fmt.Fprintf(&b, constant.FeedbackTutorLine, m.Content)
		}
	}

	return []llm.Message{
		{Role: llm.RoleSystem, Content: constant.FeedbackInstruction},
		{Role: llm.RoleUser, Content: b.String()},
	}
}

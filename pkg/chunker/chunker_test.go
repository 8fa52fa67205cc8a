package chunker

import (
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
)

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "two chinese sentences",
			input:    "今天天氣很好。我們去公園吧！",
			expected: []string{"今天天氣很好。", "我們去公園吧！"},
		},
		{
			name:     "question mark and trailing text",
			input:    "為什麼天空是藍的？因為散射",
			expected: []string{"為什麼天空是藍的？", "因為散射"},
		},
		{
			name:     "empty",
			input:    "",
			expected: []string{},
		},
		{
			name:     "whitespace only",
			input:    "  \n\t ",
			expected: []string{},
		},
		{
			name:     "terminators only absorbed into nothing",
			input:    "。。。",
			expected: []string{"。。。"},
		},
		{
			name:     "ascii sentences need whitespace",
			input:    "Pi is 3.14 roughly. Next one! Done?",
			expected: []string{"Pi is 3.14 roughly.", "Next one!", "Done?"},
		},
		{
			name:     "closing quote stays with sentence",
			input:    "老師說：「好。」學生點頭。",
			expected: []string{"老師說：「好。」", "學生點頭。"},
		},
		{
			name:     "repeated terminators",
			input:    "真的嗎？！是的。",
			expected: []string{"真的嗎？！", "是的。"},
		},
		{
			name:     "newlines between sentences are trimmed",
			input:    "第一句。\n\n  第二句。  ",
			expected: []string{"第一句。", "第二句。"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Split(tt.input))
		})
	}
}

func TestSplitRoundTrip(t *testing.T) {
	inputs := []string{
		"今天天氣很好。我們去公園吧！",
		"第一段。 第二段！\n第三段？沒有結尾",
		"Mixed 中文 and English. 接著是中文。 Then 3.5 apples?",
		"   ",
	}

	for _, in := range inputs {
		chunks := Split(in)
		assert.Equal(t, stripSpace(in), stripSpace(strings.Join(chunks, "")), in)
		for _, c := range chunks {
			assert.NotEmpty(t, strings.TrimSpace(c))
			assert.Equal(t, strings.TrimSpace(c), c)
		}
	}
}

func TestSplitDeterministic(t *testing.T) {
	in := "一。二！三？四"
	assert.Equal(t, Split(in), NewSentenceChunker().Split(in))
	assert.Equal(t, []string{"一。", "二！", "三？", "四"}, Split(in))
}

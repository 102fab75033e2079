package generator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_Subject(t *testing.T) {
	spec := NewPromptSpec("subject", "Quarterly Strategy Meeting - June 15th")

	got, err := Render("SUBJECT: {subject}", spec)
	require.NoError(t, err)
	assert.Equal(t, "SUBJECT: Quarterly Strategy Meeting - June 15th", got)
}

func TestRender_MissingPlaceholder(t *testing.T) {
	_, err := Render("SUBJECT: {subject}", PromptSpec{})
	require.Error(t, err)

	var mp *MissingPlaceholderError
	require.True(t, errors.As(err, &mp))
	assert.Equal(t, []string{"subject"}, mp.Names)
	assert.Contains(t, err.Error(), "subject")
}

func TestRender_ReportsEveryMissingOnce(t *testing.T) {
	_, err := Render("{tone} {subject} {tone} {length}", NewPromptSpec("subject", "x"))

	var mp *MissingPlaceholderError
	require.ErrorAs(t, err, &mp)
	assert.Equal(t, []string{"tone", "length"}, mp.Names)
}

func TestRender_EmptyValueIsBound(t *testing.T) {
	got, err := Render("[{subject}]", NewPromptSpec("subject", ""))
	require.NoError(t, err)
	assert.Equal(t, "[]", got)
}

func TestRender_Deterministic(t *testing.T) {
	spec := CustomSpec("Launch day", CustomOptions{Tone: "Urgent", Length: 2, IncludePS: true})
	tmpl := CustomTemplate(CustomOptions{Tone: "urgent", Length: 2, IncludePS: true})

	first, err := Render(tmpl, spec)
	require.NoError(t, err)
	second, err := Render(tmpl, spec)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRender_LiteralBraces(t *testing.T) {
	tests := []struct {
		name string
		tmpl string
		want string
	}{
		{"escaped", "{{subject}} is {subject}", "{subject} is Hi"},
		{"unclosed", "{subject", "{subject"},
		{"not an identifier", "{ subject } {1x}", "{ subject } {1x}"},
		{"json-ish", `{"a": 1}`, `{"a": 1}`},
		{"stray close", "a } b", "a } b"},
		{"brackets untouched", "Dear [Name], {subject}", "Dear [Name], Hi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(tt.tmpl, NewPromptSpec("subject", "Hi"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRender_ValueNotReexpanded(t *testing.T) {
	got, err := Render("{a}", NewPromptSpec("a", "{b}"))
	require.NoError(t, err)
	assert.Equal(t, "{b}", got)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"subject"}, Placeholders(EmailTemplate))
	assert.Equal(t, []string{"subject", "analysis"}, Placeholders(DraftTemplate))
	assert.Equal(t, []string{"subject", "chat_history"}, Placeholders(FollowUpTemplate))
	assert.Equal(t, []string{"subject", "tone", "length"}, Placeholders(CustomTemplate(CustomOptions{})))
	assert.Empty(t, Placeholders("{{literal}} only"))
}

func TestBuiltinTemplatesRenderWithTheirSpecs(t *testing.T) {
	for _, tmpl := range []string{EmailTemplate, AnalysisTemplate, ToneAnalysisTemplate} {
		_, err := Render(tmpl, NewPromptSpec("subject", "s"))
		assert.NoError(t, err)
	}
	_, err := Render(DraftTemplate, NewPromptSpec("subject", "s", "analysis", "a"))
	assert.NoError(t, err)
	_, err = Render(FollowUpTemplate, NewPromptSpec("subject", "s", "chat_history", "h"))
	assert.NoError(t, err)
}

package generator

import (
	"context"
	"fmt"
	"strings"
)

// MockLLM is an offline stand-in for local runs. It never calls a model and
// echoes the subject found in the prompt into a fixed email skeleton.
type MockLLM struct{}

func (MockLLM) Provider() string { return ProviderMock }

func (MockLLM) Complete(_ context.Context, prompt Prompt, _ Params) (string, error) {
	subject := promptSubject(prompt.User)
	if strings.Contains(prompt.User, "email marketing analyst") {
		return "Purpose: informational\nTone: professional, friendly\nAudience: existing customers\nKey points: " + subject, nil
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("Subject: %s\n\n", subject))
	sb.WriteString("Dear [Name],\n\n")
	sb.WriteString(fmt.Sprintf("We're writing to you about %s.\n\n", subject))
	sb.WriteString("This is a locally generated preview; configure an llm provider for real output.\n\n")
	sb.WriteString("Reply to this email to let us know you're interested.\n\n")
	sb.WriteString("Best regards,\n[Company Name]\n")
	sb.WriteString("---")
	return sb.String(), nil
}

func promptSubject(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		for _, prefix := range []string{"CURRENT SUBJECT:", "SUBJECT:"} {
			if rest, ok := strings.CutPrefix(line, prefix); ok {
				return strings.TrimSpace(rest)
			}
		}
	}
	return "your request"
}

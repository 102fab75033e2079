package generator

import (
	"fmt"
	"strings"
	"time"
)

// Field is a single placeholder binding.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// PromptSpec is an ordered set of placeholder bindings. It is a value type:
// With returns a new spec and never touches the receiver's bindings.
type PromptSpec struct {
	fields []Field
}

// NewPromptSpec builds a spec from name/value pairs. A trailing name without
// a value is bound to the empty string.
func NewPromptSpec(pairs ...string) PromptSpec {
	var s PromptSpec
	for i := 0; i < len(pairs); i += 2 {
		v := ""
		if i+1 < len(pairs) {
			v = pairs[i+1]
		}
		s = s.With(pairs[i], v)
	}
	return s
}

// With binds name to value, replacing an existing binding in place of order.
func (s PromptSpec) With(name, value string) PromptSpec {
	out := make([]Field, len(s.fields), len(s.fields)+1)
	copy(out, s.fields)
	for i := range out {
		if out[i].Name == name {
			out[i].Value = value
			return PromptSpec{fields: out}
		}
	}
	return PromptSpec{fields: append(out, Field{Name: name, Value: value})}
}

// Lookup returns the value bound to name.
func (s PromptSpec) Lookup(name string) (string, bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// Names lists bound placeholders in binding order.
func (s PromptSpec) Names() []string {
	names := make([]string, len(s.fields))
	for i, f := range s.fields {
		names[i] = f.Name
	}
	return names
}

func (s PromptSpec) Len() int { return len(s.fields) }

// Fields returns a copy of the bindings.
func (s PromptSpec) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Email is the best-effort structured view of a generated email. Raw always
// holds the full model output; the other fields may be empty.
type Email struct {
	SubjectLine  string   `json:"subject_line"`
	Greeting     string   `json:"greeting"`
	Body         []string `json:"body"`
	CallToAction string   `json:"call_to_action"`
	SignOff      string   `json:"sign_off"`
	PS           string   `json:"ps,omitempty"`
	Raw          string   `json:"raw"`
}

// Turn is one prior exchange kept for follow-up emails.
type Turn struct {
	Input     string    `json:"input"`
	Prompt    string    `json:"prompt"`
	Response  string    `json:"response"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}

// ConversationContext is the ordered history of a session. It is owned by
// exactly one session and grows until the owner calls Truncate.
type ConversationContext struct {
	Turns []Turn `json:"turns"`
}

func (c *ConversationContext) Append(t Turn) {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now()
	}
	c.Turns = append(c.Turns, t)
}

// Truncate keeps only the last n turns.
func (c *ConversationContext) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if len(c.Turns) <= n {
		return
	}
	kept := make([]Turn, n)
	copy(kept, c.Turns[len(c.Turns)-n:])
	c.Turns = kept
}

func (c ConversationContext) Len() int { return len(c.Turns) }

// Format renders the history as a Human/AI transcript for the chat_history
// placeholder.
func (c ConversationContext) Format() string {
	if len(c.Turns) == 0 {
		return "(no previous emails)"
	}
	var sb strings.Builder
	for i, t := range c.Turns {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("Human: %s\nAI: %s\n", t.Input, strings.TrimSpace(t.Response)))
	}
	return strings.TrimRight(sb.String(), "\n")
}

package generator

import (
	"context"
	"errors"
	"strings"
)

// Request describes one email to generate.
type Request struct {
	Subject string         `json:"subject"`
	Custom  *CustomOptions `json:"custom,omitempty"`
	Chain   bool           `json:"chain,omitempty"`
	Params  Params         `json:"params,omitzero"`
}

// Result is the outcome of one generation.
type Result struct {
	Prompt   string `json:"prompt"`
	Text     string `json:"text"`
	Analysis string `json:"analysis,omitempty"`
	Email    Email  `json:"email"`
}

// Agent binds a client to default generation params and picks the template
// flow for a Request.
type Agent struct {
	llm    LLMClient
	params Params
}

func NewAgent(llm LLMClient, params Params) (*Agent, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &Agent{llm: llm, params: params}, nil
}

// Provider names the backing client's provider, or "" when it does not say.
func (a *Agent) Provider() string { return providerName(a.llm) }

// Params returns the agent's default params.
func (a *Agent) Params() Params { return a.params }

func (a *Agent) merge(p Params) Params {
	out := a.params
	if p.Model != "" {
		out.Model = p.Model
	}
	if p.Temperature != nil {
		out.Temperature = p.Temperature
	}
	if p.MaxTokens > 0 {
		out.MaxTokens = p.MaxTokens
	}
	return out
}

// Compose generates the email for req. A blank subject is reported as an
// unbound subject placeholder.
func (a *Agent) Compose(ctx context.Context, req Request) (Result, error) {
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		return Result{}, &MissingPlaceholderError{Names: []string{"subject"}}
	}
	params := a.merge(req.Params)

	switch {
	case req.Chain && req.Custom != nil:
		res, err := ToneChain(ctx, a.llm, subject, *req.Custom, params)
		if err != nil {
			return Result{}, err
		}
		return newResult(res.Prompt, res.Email, res.Analysis), nil
	case req.Chain:
		res, err := Chain(ctx, a.llm, subject, params)
		if err != nil {
			return Result{}, err
		}
		return newResult(res.Prompt, res.Email, res.Analysis), nil
	case req.Custom != nil:
		return a.single(ctx, CustomTemplate(*req.Custom), CustomSpec(subject, *req.Custom), params)
	default:
		return a.single(ctx, EmailTemplate, NewPromptSpec("subject", subject), params)
	}
}

// FollowUp drafts a follow-up for subject using the prior turns in history.
func (a *Agent) FollowUp(ctx context.Context, subject string, history ConversationContext, p Params) (Result, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return Result{}, &MissingPlaceholderError{Names: []string{"subject"}}
	}
	spec := NewPromptSpec("subject", subject, "chat_history", history.Format())
	return a.single(ctx, FollowUpTemplate, spec, a.merge(p))
}

func (a *Agent) single(ctx context.Context, tmpl string, spec PromptSpec, params Params) (Result, error) {
	prompt, err := Render(tmpl, spec)
	if err != nil {
		return Result{}, err
	}
	text, err := Call(ctx, a.llm, prompt, params)
	if err != nil {
		return Result{}, err
	}
	return newResult(prompt, strings.TrimSpace(text), ""), nil
}

func newResult(prompt, text, analysis string) Result {
	return Result{
		Prompt:   prompt,
		Text:     text,
		Analysis: analysis,
		Email:    ParseEmail(text),
	}
}

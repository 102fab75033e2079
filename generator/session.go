package generator

import (
	"context"
	"errors"
	"slices"
	"time"
)

// Turn kinds recorded in a session's history.
const (
	TurnInitial    = "initial"
	TurnRegenerate = "regenerate"
	TurnFollowUp   = "follow_up"
)

// Session holds one subject's generations and the history used for
// follow-ups. A session must not be used from two goroutines at once.
type Session struct {
	ID        string              `json:"id"`
	Request   Request             `json:"request"`
	Latest    Result              `json:"latest"`
	History   ConversationContext `json:"history"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`

	agent *Agent
}

// NewSession creates a session; nothing is generated yet.
func NewSession(id string, req Request, agent *Agent) *Session {
	now := time.Now()
	return &Session{
		ID:        id,
		Request:   req,
		CreatedAt: now,
		UpdatedAt: now,
		agent:     agent,
	}
}

// Attach binds an agent to a session restored from storage.
func (s *Session) Attach(agent *Agent) { s.agent = agent }

// Clone returns a copy that shares no mutable state with s.
func (s *Session) Clone() *Session {
	c := *s
	c.History.Turns = slices.Clone(s.History.Turns)
	c.Latest.Email.Body = slices.Clone(s.Latest.Email.Body)
	if s.Request.Custom != nil {
		opts := *s.Request.Custom
		c.Request.Custom = &opts
	}
	if s.Request.Params.Temperature != nil {
		c.Request.Params.Temperature = Float64(*s.Request.Params.Temperature)
	}
	return &c
}

// Propose generates the first email for the session's request.
func (s *Session) Propose(ctx context.Context) (Result, error) {
	res, err := s.compose(ctx)
	if err != nil {
		return Result{}, err
	}
	s.record(s.Request.Subject, res, TurnInitial, false)
	return res, nil
}

// Regenerate produces a new version of the most recent email and replaces
// that turn, so follow-ups only see what the user kept. A follow-up is
// redrafted from its own subject and the turns before it.
func (s *Session) Regenerate(ctx context.Context) (Result, error) {
	n := s.History.Len()
	if n > 0 && s.History.Turns[n-1].Kind == TurnFollowUp {
		last := s.History.Turns[n-1]
		if s.agent == nil {
			return Result{}, errors.New("session has no agent")
		}
		prior := ConversationContext{Turns: s.History.Turns[:n-1]}
		res, err := s.agent.FollowUp(ctx, last.Input, prior, s.Request.Params)
		if err != nil {
			return Result{}, err
		}
		s.record(last.Input, res, TurnFollowUp, true)
		return res, nil
	}

	res, err := s.compose(ctx)
	if err != nil {
		return Result{}, err
	}
	s.record(s.Request.Subject, res, TurnRegenerate, n > 0)
	return res, nil
}

// FollowUp drafts a follow-up email that references the session history.
func (s *Session) FollowUp(ctx context.Context, subject string) (Result, error) {
	if s.agent == nil {
		return Result{}, errors.New("session has no agent")
	}
	res, err := s.agent.FollowUp(ctx, subject, s.History, s.Request.Params)
	if err != nil {
		return Result{}, err
	}
	s.record(subject, res, TurnFollowUp, false)
	return res, nil
}

func (s *Session) compose(ctx context.Context) (Result, error) {
	if s.agent == nil {
		return Result{}, errors.New("session has no agent")
	}
	return s.agent.Compose(ctx, s.Request)
}

func (s *Session) record(input string, res Result, kind string, replaceLast bool) {
	turn := Turn{
		Input:     input,
		Prompt:    res.Prompt,
		Response:  res.Text,
		Kind:      kind,
		CreatedAt: time.Now(),
	}
	if replaceLast {
		s.History.Turns[len(s.History.Turns)-1] = turn
	} else {
		s.History.Append(turn)
	}
	s.Latest = res
	s.UpdatedAt = turn.CreatedAt
}

package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"smart_email_generator/generator"
	"smart_email_generator/render"
)

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, errorEnvelope{Error: apiError{Message: msg, Code: code}})
}

// respondGenerationError maps generator errors to HTTP statuses. The message
// is passed through so the UI can show it verbatim.
func respondGenerationError(c *gin.Context, err error) {
	switch {
	case generator.IsMissingPlaceholder(err):
		respondError(c, http.StatusBadRequest, "missing_placeholder", err)
	case generator.IsProviderError(err):
		respondError(c, http.StatusBadGateway, "provider_error", err)
	case errors.Is(err, ErrSessionNotFound):
		respondError(c, http.StatusNotFound, "session_not_found", err)
	default:
		respondError(c, http.StatusInternalServerError, "internal", err)
	}
}

type generateReq struct {
	Subject     string   `json:"subject"`
	Tone        string   `json:"tone"`
	Length      int      `json:"length"`
	IncludePS   bool     `json:"include_ps"`
	Chain       bool     `json:"chain"`
	Model       string   `json:"model"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   int      `json:"max_tokens"`
}

func (r generateReq) toRequest() generator.Request {
	req := generator.Request{
		Subject: r.Subject,
		Chain:   r.Chain,
		Params: generator.Params{
			Model:       r.Model,
			Temperature: r.Temperature,
			MaxTokens:   r.MaxTokens,
		},
	}
	if r.Tone != "" || r.Length != 0 || r.IncludePS {
		req.Custom = &generator.CustomOptions{Tone: r.Tone, Length: r.Length, IncludePS: r.IncludePS}
	}
	return req
}

type followUpReq struct {
	Subject string `json:"subject"`
}

type resultResp struct {
	Text     string          `json:"text"`
	Email    generator.Email `json:"email"`
	HTML     string          `json:"html"`
	Analysis string          `json:"analysis,omitempty"`
}

type sessionResp struct {
	SessionID string           `json:"session_id"`
	Subject   string           `json:"subject"`
	Latest    resultResp       `json:"latest"`
	History   []generator.Turn `json:"history"`
}

func (s *Server) toResult(res generator.Result) resultResp {
	html, err := render.HTML(res.Text)
	if err != nil {
		s.log.Warn("html preview failed", "error", err)
	}
	return resultResp{Text: res.Text, Email: res.Email, HTML: html, Analysis: res.Analysis}
}

func (s *Server) toSession(sess *generator.Session) sessionResp {
	return sessionResp{
		SessionID: sess.ID,
		Subject:   sess.Request.Subject,
		Latest:    s.toResult(sess.Latest),
		History:   sess.History.Turns,
	}
}

func (s *Server) withTimeout(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.timeout)
}

func (s *Server) handleSamples(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"subjects": generator.SampleSubjects,
		"tones":    generator.Tones,
		"models":   generator.SuggestedModels(s.agent.Provider()),
		"length":   gin.H{"min": generator.MinLength, "max": generator.MaxLength, "default": generator.DefaultLength},
	})
}

func (s *Server) handleGenerate(c *gin.Context) {
	var req generateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	ctx, cancel := s.withTimeout(c)
	defer cancel()

	res, err := s.agent.Compose(ctx, req.toRequest())
	if err != nil {
		respondGenerationError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.toResult(res))
}

func (s *Server) handleSessionCreate(c *gin.Context) {
	var req generateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	ctx, cancel := s.withTimeout(c)
	defer cancel()

	sess := generator.NewSession(newSessionID(), req.toRequest(), s.agent)
	if _, err := sess.Propose(ctx); err != nil {
		respondGenerationError(c, err)
		return
	}
	if err := s.store.Save(ctx, sess); err != nil {
		respondError(c, http.StatusInternalServerError, "store_error", err)
		return
	}
	s.log.Info("session created", "session_id", sess.ID, "chain", sess.Request.Chain)
	c.JSON(http.StatusCreated, s.toSession(sess))
}

func (s *Server) handleSessionGet(c *gin.Context) {
	sess, err := s.store.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondGenerationError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.toSession(sess))
}

func (s *Server) handleSessionRegenerate(c *gin.Context) {
	s.mutateSession(c, func(ctx context.Context, sess *generator.Session) error {
		_, err := sess.Regenerate(ctx)
		return err
	})
}

func (s *Server) handleSessionFollowUp(c *gin.Context) {
	var req followUpReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	s.mutateSession(c, func(ctx context.Context, sess *generator.Session) error {
		_, err := sess.FollowUp(ctx, req.Subject)
		return err
	})
}

// mutateSession loads, updates and saves a session while holding its lock.
func (s *Server) mutateSession(c *gin.Context, fn func(context.Context, *generator.Session) error) {
	id := c.Param("id")
	unlock := s.locks.lock(id)
	defer unlock()

	ctx, cancel := s.withTimeout(c)
	defer cancel()

	sess, err := s.store.Load(ctx, id)
	if err != nil {
		respondGenerationError(c, err)
		return
	}
	sess.Attach(s.agent)
	if err := fn(ctx, sess); err != nil {
		respondGenerationError(c, err)
		return
	}
	if err := s.store.Save(ctx, sess); err != nil {
		respondError(c, http.StatusInternalServerError, "store_error", err)
		return
	}
	c.JSON(http.StatusOK, s.toSession(sess))
}

func (s *Server) handleSessionDownload(c *gin.Context) {
	sess, err := s.store.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondGenerationError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+render.DownloadName+`"`)
	c.Header("Last-Modified", sess.UpdatedAt.UTC().Format(http.TimeFormat))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(sess.Latest.Text))
}

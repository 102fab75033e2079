//nolint:bodyclose // mock responses use NopCloser bodies
package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockHTTPDoer struct {
	response *http.Response
	err      error
	request  *http.Request
	body     []byte
}

func (m *mockHTTPDoer) Do(req *http.Request) (*http.Response, error) {
	m.request = req
	if req.Body != nil {
		m.body, _ = io.ReadAll(req.Body)
	}
	return m.response, m.err
}

func mockResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewBufferString(body)),
		Header:     make(http.Header),
	}
}

func TestAnthropic_Success(t *testing.T) {
	doer := &mockHTTPDoer{response: mockResponse(200, `{"content":[{"type":"text","text":"Subject: Hi"}]}`)}
	a := &AnthropicLLM{model: "claude-3-5-haiku-latest", apiKey: "k", baseURL: anthropicMessagesURL, http: doer}

	out, err := a.Complete(context.Background(), Prompt{User: "write"}, Params{Temperature: Float64(0.7)})
	require.NoError(t, err)
	assert.Equal(t, "Subject: Hi", out)
	assert.Equal(t, "k", doer.request.Header.Get("x-api-key"))

	var sent anthropicRequest
	require.NoError(t, json.Unmarshal(doer.body, &sent))
	assert.Equal(t, DefaultMaxTokens, sent.MaxTokens)
	assert.Equal(t, "claude-3-5-haiku-latest", sent.Model)
	require.NotNil(t, sent.Temperature)
	assert.Equal(t, 0.7, *sent.Temperature)
}

func TestAnthropic_ZeroTemperatureIsSent(t *testing.T) {
	doer := &mockHTTPDoer{response: mockResponse(200, `{"content":[{"type":"text","text":"ok"}]}`)}
	a := &AnthropicLLM{model: "m", apiKey: "k", baseURL: anthropicMessagesURL, http: doer}

	_, err := a.Complete(context.Background(), Prompt{User: "write"}, Params{Temperature: Float64(0)})
	require.NoError(t, err)
	assert.Contains(t, string(doer.body), `"temperature":0`)

	doer = &mockHTTPDoer{response: mockResponse(200, `{"content":[{"type":"text","text":"ok"}]}`)}
	a.http = doer
	_, err = a.Complete(context.Background(), Prompt{User: "write"}, Params{})
	require.NoError(t, err)
	assert.NotContains(t, string(doer.body), "temperature")
}

func TestTruncate_RuneBoundary(t *testing.T) {
	assert.Equal(t, "h", truncate("héllo", 2))
	assert.Equal(t, "hé", truncate("héllo", 3))
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "", truncate("日本", 2))
}

func TestAnthropic_ErrorBody(t *testing.T) {
	doer := &mockHTTPDoer{response: mockResponse(429, `{"error":{"type":"rate_limit_error","message":"slow down"}}`)}
	a := &AnthropicLLM{model: "m", apiKey: "k", baseURL: anthropicMessagesURL, http: doer}

	_, err := Call(context.Background(), a, "write", Params{})
	require.Error(t, err)
	assert.True(t, IsProviderError(err))
	assert.Contains(t, err.Error(), "slow down")
	assert.Contains(t, err.Error(), "anthropic")
}

func TestAnthropic_MalformedBody(t *testing.T) {
	doer := &mockHTTPDoer{response: mockResponse(502, `<html>bad gateway</html>`)}
	a := &AnthropicLLM{model: "m", apiKey: "k", baseURL: anthropicMessagesURL, http: doer}

	_, err := a.Complete(context.Background(), Prompt{User: "write"}, Params{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestAnthropic_TransportError(t *testing.T) {
	doer := &mockHTTPDoer{err: http.ErrHandlerTimeout}
	a := &AnthropicLLM{model: "m", apiKey: "k", baseURL: anthropicMessagesURL, http: doer}

	_, err := Call(context.Background(), a, "write", Params{})
	assert.ErrorIs(t, err, http.ErrHandlerTimeout)
}

func TestLLMSettings_Resolve(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "gsk-test")

	s, err := LLMSettings{}.resolve()
	require.NoError(t, err)
	assert.Equal(t, ProviderGroq, s.Provider)
	assert.Equal(t, "llama3-8b-8192", s.Model)
	assert.Equal(t, "gsk-test", s.APIKey)
	assert.Equal(t, groqBaseURL, s.BaseURL)
}

func TestLLMSettings_CustomKeyEnv(t *testing.T) {
	t.Setenv("MY_KEY", "abc")

	s, err := LLMSettings{Provider: "OpenAI", APIKeyEnv: "MY_KEY"}.resolve()
	require.NoError(t, err)
	assert.Equal(t, ProviderOpenAI, s.Provider)
	assert.Equal(t, "abc", s.APIKey)
	assert.Empty(t, s.BaseURL)
}

func TestNewLLM(t *testing.T) {
	t.Setenv("GROQ_API_KEY", "")
	t.Setenv("DEEPSEEK_API_KEY", "x")

	_, err := NewLLM(LLMSettings{Provider: "unknown"})
	assert.ErrorContains(t, err, "not supported")

	_, err = NewLLM(LLMSettings{Provider: ProviderDeepSeek})
	assert.ErrorContains(t, err, "base_url")

	_, err = NewLLM(LLMSettings{Provider: ProviderGroq})
	assert.ErrorContains(t, err, "GROQ_API_KEY")

	c, err := NewLLM(LLMSettings{Provider: ProviderMock})
	require.NoError(t, err)
	assert.IsType(t, MockLLM{}, c)

	c, err = NewLLM(LLMSettings{Provider: ProviderLocal})
	require.NoError(t, err)
	assert.Equal(t, ProviderLocal, c.(*OpenAILLM).Provider())

	c, err = NewLLM(LLMSettings{Provider: ProviderAnthropic, APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, c.(*AnthropicLLM).Provider())
}

func TestSuggestedModels(t *testing.T) {
	assert.Equal(t, []string{"llama3-8b-8192", "llama2-70b-4096"}, SuggestedModels("Groq"))
	assert.Nil(t, SuggestedModels(ProviderMock))
	for p, models := range suggestedModels {
		assert.Equal(t, defaultModels[p], models[0], p)
	}

	got := SuggestedModels(ProviderGroq)
	got[0] = "changed"
	assert.Equal(t, "llama3-8b-8192", SuggestedModels(ProviderGroq)[0])
}

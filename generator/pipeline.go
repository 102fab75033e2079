package generator

import (
	"context"
	"errors"
	"strings"
)

// Call sends an already rendered prompt to client and returns the response
// text unchanged. Every failure, including an empty response, comes back as a
// *ProviderError. There are no retries.
func Call(ctx context.Context, client LLMClient, rendered string, params Params) (string, error) {
	if client == nil {
		return "", &ProviderError{Err: errors.New("llm client is required")}
	}
	out, err := client.Complete(ctx, Prompt{User: rendered}, params)
	if err != nil {
		var pe *ProviderError
		if errors.As(err, &pe) {
			return "", err
		}
		return "", &ProviderError{Provider: providerName(client), Err: err}
	}
	if strings.TrimSpace(out) == "" {
		return "", &ProviderError{Provider: providerName(client), Err: ErrEmptyResponse}
	}
	return out, nil
}

// Generate renders tmpl with spec and issues one call.
func Generate(ctx context.Context, client LLMClient, tmpl string, spec PromptSpec, params Params) (string, error) {
	prompt, err := Render(tmpl, spec)
	if err != nil {
		return "", err
	}
	return Call(ctx, client, prompt, params)
}

// Step is one render-and-call stage of a sequence. Its trimmed output is
// bound to OutputKey for the stages after it.
type Step struct {
	Template  string
	OutputKey string
}

// Sequence runs steps in order, threading each output into the spec of the
// next. The returned spec holds the inputs plus every step's output. On error
// nothing partial is returned.
func Sequence(ctx context.Context, client LLMClient, spec PromptSpec, params Params, steps ...Step) (PromptSpec, error) {
	out, _, err := runSteps(ctx, client, spec, params, steps)
	return out, err
}

// runSteps is Sequence that also reports the last rendered prompt.
func runSteps(ctx context.Context, client LLMClient, spec PromptSpec, params Params, steps []Step) (PromptSpec, string, error) {
	var prompt string
	for _, st := range steps {
		rendered, err := Render(st.Template, spec)
		if err != nil {
			return PromptSpec{}, "", err
		}
		out, err := Call(ctx, client, rendered, params)
		if err != nil {
			return PromptSpec{}, "", err
		}
		spec = spec.With(st.OutputKey, strings.TrimSpace(out))
		prompt = rendered
	}
	return spec, prompt, nil
}

// ChainResult holds both texts of an analyze-then-draft run and the prompt
// that produced the email.
type ChainResult struct {
	Analysis string `json:"analysis"`
	Email    string `json:"email"`
	Prompt   string `json:"prompt"`
}

// Chain analyzes subject first, then drafts the email with the analysis
// bound to the analysis placeholder.
func Chain(ctx context.Context, client LLMClient, subject string, params Params) (ChainResult, error) {
	out, prompt, err := runSteps(ctx, client, NewPromptSpec("subject", subject), params, []Step{
		{Template: AnalysisTemplate, OutputKey: "analysis"},
		{Template: DraftTemplate, OutputKey: "email"},
	})
	if err != nil {
		return ChainResult{}, err
	}
	analysis, _ := out.Lookup("analysis")
	email, _ := out.Lookup("email")
	return ChainResult{Analysis: analysis, Email: email, Prompt: prompt}, nil
}

// ToneChain asks the model for a tone descriptor and uses it as the tone of
// the custom template. The template's tone guidance follows the descriptor,
// not the caller's tone.
func ToneChain(ctx context.Context, client LLMClient, subject string, opts CustomOptions, params Params) (ChainResult, error) {
	spec, _, err := runSteps(ctx, client, CustomSpec(subject, opts), params, []Step{
		{Template: ToneAnalysisTemplate, OutputKey: "tone"},
	})
	if err != nil {
		return ChainResult{}, err
	}
	tone, _ := spec.Lookup("tone")
	opts.Tone = tone

	out, prompt, err := runSteps(ctx, client, spec, params, []Step{
		{Template: CustomTemplate(opts), OutputKey: "email"},
	})
	if err != nil {
		return ChainResult{}, err
	}
	email, _ := out.Lookup("email")
	return ChainResult{Analysis: tone, Email: email, Prompt: prompt}, nil
}

func providerName(client LLMClient) string {
	if n, ok := client.(namedClient); ok {
		return n.Provider()
	}
	return ""
}

package generator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleEmail = `Here is your email:

---
**Subject:** Your Exclusive VIP Access: Premium Industry Insights Webinar

Dear [Name],

I'm reaching out with a special invitation reserved for our most valued clients.

During this 60-minute session, you'll discover actionable techniques.

Secure your spot now by clicking the button below.

Looking forward to seeing you there,
[Company Name]

P.S. Seats are limited.
---`

func TestParseEmail_Structured(t *testing.T) {
	e := ParseEmail(sampleEmail)

	assert.Equal(t, "Your Exclusive VIP Access: Premium Industry Insights Webinar", e.SubjectLine)
	assert.Equal(t, "Dear [Name],", e.Greeting)
	assert.Equal(t, []string{
		"I'm reaching out with a special invitation reserved for our most valued clients.",
		"During this 60-minute session, you'll discover actionable techniques.",
	}, e.Body)
	assert.Equal(t, "Secure your spot now by clicking the button below.", e.CallToAction)
	assert.Equal(t, "Looking forward to seeing you there,\n[Company Name]", e.SignOff)
	assert.Equal(t, "Seats are limited.", e.PS)
	assert.Equal(t, sampleEmail, e.Raw)
}

func TestParseEmail_Unstructured(t *testing.T) {
	raw := "I can't help with that request."
	e := ParseEmail(raw)

	assert.Empty(t, e.SubjectLine)
	assert.Empty(t, e.Greeting)
	assert.Empty(t, e.CallToAction)
	assert.Equal(t, []string{raw}, e.Body)
	assert.Equal(t, raw, e.Raw)
}

func TestParseEmail_Empty(t *testing.T) {
	e := ParseEmail("   ")
	assert.Equal(t, Email{}, e)
}

func TestParseEmail_SubjectAndGreetingSameParagraph(t *testing.T) {
	raw := "Subject: Hello\nHi Sam,\nJust checking in.\n\nBest regards,\nAcme"
	e := ParseEmail(raw)

	assert.Equal(t, "Hello", e.SubjectLine)
	assert.Equal(t, "Hi Sam,", e.Greeting)
	assert.Equal(t, []string{"Just checking in."}, e.Body)
	assert.Empty(t, e.CallToAction)
	assert.Equal(t, "Best regards,\nAcme", e.SignOff)
}

func TestParseEmail_MockOutput(t *testing.T) {
	out, err := MockLLM{}.Complete(t.Context(), Prompt{User: "SUBJECT: Launch"}, Params{})
	assert.NoError(t, err)

	e := ParseEmail(out)
	assert.Equal(t, "Launch", e.SubjectLine)
	assert.Equal(t, "Dear [Name],", e.Greeting)
	assert.Len(t, e.Body, 2)
	assert.NotEmpty(t, e.CallToAction)
	assert.Equal(t, "Best regards,\n[Company Name]", e.SignOff)
}

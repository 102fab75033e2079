package generator

import (
	"strconv"
	"strings"
	"unicode"
)

const emailStructure = `The email should follow this structure:
---
Subject: [Enhanced Subject Line]

Dear [Name],

[First paragraph: Introduction and hook related to the subject]

[Second paragraph: Key details and value proposition]

[Third paragraph (optional): Additional information or urgency element]

[Clear call-to-action with specific instructions]

[Professional sign-off],
[Company Name]
---`

const closingInstruction = "Keep the email concise, engaging, and focused on driving action. Use persuasive language throughout."

// EmailTemplate is the default single-call prompt. Placeholders: subject.
const EmailTemplate = `You are an AI Email Marketing Expert with years of experience crafting engaging, professional emails. Your task is to generate a complete email based on the subject line provided.

SUBJECT: {subject}

Please create a comprehensive email that includes:
1. An attention-grabbing subject line that builds on the provided subject
2. A personalized greeting with [Name] placeholder
3. A concise but compelling body (2-3 paragraphs)
4. A clear call-to-action
5. A professional sign-off

Adjust the tone and style to match the context of the subject (formal, urgent, friendly, promotional, etc.).

` + emailStructure + `

` + closingInstruction

// AnalysisTemplate is the first step of the analyze-then-draft chain.
// Placeholders: subject.
const AnalysisTemplate = `You're an expert email marketing analyst. Analyze the following email subject to determine:
1. The primary purpose (promotional, informational, invitation, etc.)
2. The appropriate tone (formal, conversational, urgent, etc.)
3. The target audience characteristics
4. Key points that should be emphasized

SUBJECT: {subject}

Provide your analysis:`

// ToneAnalysisTemplate asks only for a short tone descriptor, suitable for
// the tone placeholder of CustomTemplate. Placeholders: subject.
const ToneAnalysisTemplate = `You're an expert email marketing analyst. Decide the most appropriate tone for an email with the following subject.

SUBJECT: {subject}

Answer with at most three comma-separated lowercase adjectives (for example: formal, urgent) and nothing else.`

// DraftTemplate is the second step of the chain. Placeholders: subject, analysis.
const DraftTemplate = `You are an AI Email Marketing Expert with years of experience crafting engaging, professional emails.

SUBJECT: {subject}

Here's an analysis of the subject that you should use to guide your email creation:
{analysis}

Based on this analysis, create a comprehensive email that includes:
1. An attention-grabbing subject line that builds on the provided subject
2. A personalized greeting with [Name] placeholder
3. A concise but compelling body (2-3 paragraphs)
4. A clear call-to-action
5. A professional sign-off

` + emailStructure + `

` + closingInstruction

// FollowUpTemplate drafts a follow-up using prior turns.
// Placeholders: subject, chat_history.
const FollowUpTemplate = `You are an AI Email Marketing Expert with years of experience crafting engaging, professional emails.

CURRENT SUBJECT: {subject}

PREVIOUS EMAIL HISTORY:
{chat_history}

Based on the current subject and the previous email history, create a follow-up email that:
1. References the previous communication
2. Maintains continuity in tone and messaging
3. Advances the conversation or objective
4. Includes all standard email components (greeting, body, CTA, sign-off)

The email should follow this structure:
---
Subject: [Follow-up Subject Line]

Dear [Name],

[First paragraph: Reference to previous communication]

[Second paragraph: New information or next steps]

[Third paragraph (optional): Additional details or urgency]

[Clear call-to-action with specific instructions]

[Professional sign-off],
[Company Name]
---

Keep the email concise, engaging, and focused on driving action.`

// SampleSubjects are offered in the UI for inspiration.
var SampleSubjects = []string{
	"Quarterly Strategy Meeting - June 15th",
	"Introducing Our Revolutionary New Product Line",
	"Exclusive Invitation to Our Premium Webinar",
	"Thank You for Our Conversation Yesterday",
	"We Value Your Opinion on Your Recent Purchase",
}

// Tones offered by the UI. Only formal, friendly and urgent add extra guidance.
var Tones = []string{"professional", "friendly", "urgent", "formal"}

const (
	DefaultTone   = "professional"
	DefaultLength = 3
	MinLength     = 1
	MaxLength     = 5
)

// CustomOptions tunes the custom template.
type CustomOptions struct {
	Tone      string `json:"tone"`
	Length    int    `json:"length"`
	IncludePS bool   `json:"include_ps"`
}

// Normalize lower-cases the tone and clamps the length.
func (o CustomOptions) Normalize() CustomOptions {
	o.Tone = strings.ToLower(strings.TrimSpace(o.Tone))
	if o.Tone == "" {
		o.Tone = DefaultTone
	}
	switch {
	case o.Length == 0:
		o.Length = DefaultLength
	case o.Length < MinLength:
		o.Length = MinLength
	case o.Length > MaxLength:
		o.Length = MaxLength
	}
	return o
}

var toneGuidance = map[string]string{
	"formal": "Use formal language, avoid contractions, and maintain professional distance.\n" +
		"Address the recipient with proper titles and use industry-specific terminology where appropriate.\n",
	"friendly": "Use a warm, conversational tone with a personal touch.\n" +
		"Include light humor where appropriate and focus on building relationship.\n",
	"urgent": "Create a sense of urgency throughout the email.\n" +
		"Use time-sensitive language and emphasize limited availability or deadlines.\n",
}

// guidanceFor returns the guidance of every known tone named in tone, so a
// descriptor such as "formal, urgent" gets both.
func guidanceFor(tone string) string {
	words := strings.FieldsFunc(tone, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	var sb strings.Builder
	seen := make(map[string]bool)
	for _, w := range words {
		w = strings.ToLower(w)
		if g, ok := toneGuidance[w]; ok && !seen[w] {
			seen[w] = true
			sb.WriteString(g)
		}
	}
	return sb.String()
}

// CustomTemplate builds a template from opts. Placeholders: subject, tone, length.
func CustomTemplate(opts CustomOptions) string {
	opts = opts.Normalize()

	var sb strings.Builder
	sb.WriteString("You are an AI Email Marketing Expert with years of experience crafting engaging, professional emails.\n\n")
	sb.WriteString("SUBJECT: {subject}\n")
	sb.WriteString("TONE: {tone}\n")
	sb.WriteString("EMAIL LENGTH: {length} paragraphs\n\n")
	sb.WriteString("Please create a {tone} email that includes:\n")
	sb.WriteString("1. An attention-grabbing subject line that builds on the provided subject\n")
	sb.WriteString("2. A personalized greeting with [Name] placeholder\n")
	sb.WriteString("3. A body with exactly {length} paragraphs\n")
	sb.WriteString("4. A clear call-to-action\n")
	sb.WriteString("5. A professional sign-off\n")
	if opts.IncludePS {
		sb.WriteString("6. A brief PS line that adds value or creates urgency\n")
	}
	sb.WriteString("\n")
	if g := guidanceFor(opts.Tone); g != "" {
		sb.WriteString(g)
		sb.WriteString("\n")
	}

	sb.WriteString("The email should follow this structure:\n---\n")
	sb.WriteString("Subject: [Enhanced Subject Line]\n\n")
	sb.WriteString("Dear [Name],\n\n")
	sb.WriteString("[Email body with exactly {length} paragraphs]\n\n")
	sb.WriteString("[Clear call-to-action with specific instructions]\n\n")
	sb.WriteString("[Professional sign-off],\n[Company Name]\n")
	if opts.IncludePS {
		sb.WriteString("\nP.S. [Brief value-add or urgency statement]\n")
	}
	sb.WriteString("---\n\n")
	sb.WriteString(closingInstruction)
	return sb.String()
}

// CustomSpec binds the values CustomTemplate expects.
func CustomSpec(subject string, opts CustomOptions) PromptSpec {
	opts = opts.Normalize()
	return NewPromptSpec(
		"subject", subject,
		"tone", opts.Tone,
		"length", strconv.Itoa(opts.Length),
		"include_ps", strconv.FormatBool(opts.IncludePS),
	)
}

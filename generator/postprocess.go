package generator

import (
	"regexp"
	"strings"
)

var (
	subjectRe  = regexp.MustCompile(`(?i)^subject\s*:\s*(.+)$`)
	greetingRe = regexp.MustCompile(`(?i)^(dear|hi|hello|hey|greetings|good (morning|afternoon|evening))\b.{0,60}[,:!]?$`)
	psRe       = regexp.MustCompile(`(?i)^p\.?\s?s(\.|:|\s)\s*[:.]?\s*`)
	closingRe  = regexp.MustCompile(`(?i)^(best|warm|kind|warmest|with)?\s*(regards|wishes)|^(sincerely|cheers|thanks|thank you|respectfully|yours|looking forward|all the best|best)\b`)
	boldRe     = regexp.MustCompile(`\*\*(.+?)\*\*`)
)

// ParseEmail splits model output into email parts. It is best-effort: the
// model may ignore the requested structure, in which case fields stay empty
// and Raw still carries the whole text. It never fails.
func ParseEmail(raw string) Email {
	email := Email{Raw: strings.TrimSpace(raw)}
	paras := paragraphs(unfence(email.Raw))

	if len(paras) > 0 {
		first := paras[0]
		if m := subjectRe.FindStringSubmatch(first[0]); m != nil {
			email.SubjectLine = strings.TrimSpace(m[1])
			paras = dropFirstLine(paras)
		}
	}
	if len(paras) > 0 && greetingRe.MatchString(paras[0][0]) {
		email.Greeting = paras[0][0]
		paras = dropFirstLine(paras)
	}
	if n := len(paras); n > 0 && psRe.MatchString(paras[n-1][0]) {
		email.PS = strings.TrimSpace(psRe.ReplaceAllString(strings.Join(paras[n-1], " "), ""))
		paras = paras[:n-1]
	}
	if n := len(paras); n > 0 && isSignOff(paras[n-1]) {
		email.SignOff = strings.Join(paras[n-1], "\n")
		paras = paras[:n-1]
	}

	for _, p := range paras {
		email.Body = append(email.Body, strings.Join(p, " "))
	}
	if len(email.Body) >= 2 {
		last := len(email.Body) - 1
		email.CallToAction = email.Body[last]
		email.Body = email.Body[:last]
	}
	return email
}

// unfence returns the text between the first pair of "---" lines, or the
// whole text when there is no such pair, with markdown bold removed.
func unfence(text string) string {
	lines := strings.Split(text, "\n")
	var fences []int
	for i, l := range lines {
		if strings.TrimSpace(l) == "---" {
			fences = append(fences, i)
		}
	}
	switch {
	case len(fences) >= 2:
		lines = lines[fences[0]+1 : fences[1]]
	case len(fences) == 1:
		lines = append(lines[:fences[0]:fences[0]], lines[fences[0]+1:]...)
	}
	return boldRe.ReplaceAllString(strings.Join(lines, "\n"), "$1")
}

// paragraphs groups non-empty trimmed lines separated by blank lines.
func paragraphs(text string) [][]string {
	var (
		out [][]string
		cur []string
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(cur) > 0 {
				out = append(out, cur)
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func dropFirstLine(paras [][]string) [][]string {
	if len(paras[0]) > 1 {
		rest := make([][]string, len(paras))
		copy(rest, paras)
		rest[0] = paras[0][1:]
		return rest
	}
	return paras[1:]
}

// isSignOff accepts a short closing phrase optionally followed by a name or
// company line.
func isSignOff(p []string) bool {
	if len(p) > 3 {
		return false
	}
	head := p[0]
	if len(strings.Fields(head)) > 6 {
		return false
	}
	return closingRe.MatchString(head)
}

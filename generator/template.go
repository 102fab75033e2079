package generator

import (
	"slices"
	"strings"
)

// Render substitutes every {name} placeholder in tmpl with its value from
// spec. "{{" and "}}" produce literal braces. Braces that do not enclose an
// identifier are copied through unchanged.
func Render(tmpl string, spec PromptSpec) (string, error) {
	var (
		sb      strings.Builder
		missing []string
	)
	sb.Grow(len(tmpl))
	scanTemplate(tmpl, sb.WriteString, func(name string) {
		if v, ok := spec.Lookup(name); ok {
			sb.WriteString(v)
			return
		}
		if !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
	})
	if len(missing) > 0 {
		return "", &MissingPlaceholderError{Names: missing}
	}
	return sb.String(), nil
}

// Placeholders lists the distinct placeholder names in tmpl, in order of
// first use.
func Placeholders(tmpl string) []string {
	var names []string
	scanTemplate(tmpl, func(string) (int, error) { return 0, nil }, func(name string) {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	})
	return names
}

func scanTemplate(tmpl string, literal func(string) (int, error), placeholder func(string)) {
	start := 0
	flush := func(end int) {
		if end > start {
			_, _ = literal(tmpl[start:end])
		}
	}
	for i := 0; i < len(tmpl); {
		switch tmpl[i] {
		case '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				flush(i + 1)
				i += 2
				start = i
				continue
			}
			n := identLen(tmpl[i+1:])
			if n == 0 || i+1+n >= len(tmpl) || tmpl[i+1+n] != '}' {
				i++
				continue
			}
			flush(i)
			placeholder(tmpl[i+1 : i+1+n])
			i += n + 2
			start = i
		case '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				flush(i + 1)
				i += 2
				start = i
				continue
			}
			i++
		default:
			i++
		}
	}
	flush(len(tmpl))
}

func identLen(s string) int {
	n := 0
	for n < len(s) {
		c := s[n]
		switch {
		case c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z'):
		case n > 0 && c >= '0' && c <= '9':
		default:
			return n
		}
		n++
	}
	return n
}

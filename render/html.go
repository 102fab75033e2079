// Package render turns generated emails into display and download formats.
package render

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

// Models often wrap the email in "---" fences, which markdown would turn
// into headings or rules.
var fenceRe = regexp.MustCompile(`(?m)^\s*---\s*$`)

var md = goldmark.New(
	goldmark.WithRendererOptions(
		// Keep the line breaks of sign-off blocks.
		html.WithHardWraps(),
	),
)

// HTML converts the email text (markdown allowed) to an HTML fragment.
// Raw HTML in the model output is not passed through.
func HTML(text string) (string, error) {
	src := fenceRe.ReplaceAllString(text, "")
	var buf bytes.Buffer
	if err := md.Convert([]byte(strings.TrimSpace(src)), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// DownloadName is the file name offered for downloads. The file holds the
// generated text unchanged, never the parsed layout.
const DownloadName = "generated_email.txt"

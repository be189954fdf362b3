package prompt

import (
	"fmt"
	"strings"
)

// maxCodeBytes bounds how much source is quoted into the user prompt.
const maxCodeBytes = 32 * 1024

// GetSystemPrompt sets the tone and length of the review text.
func GetSystemPrompt() string {
	return `You are a senior engineer doing a quick code review. Reply with plain text only (no markdown headings, no code fences), at most five sentences.

Requirements:
- Start with a one-sentence overall verdict.
- Mention every listed issue that a static checker already found; do not invent line numbers.
- Point out at most two further risks you can see in the code itself.
- If the code is empty, say so in one sentence.`
}

// GetUserPrompt quotes the code and the checker's findings.
func GetUserPrompt(code string, issues []string) string {
	var b strings.Builder
	b.WriteString("Static checker findings:\n")
	if len(issues) == 0 {
		b.WriteString("- none\n")
	}
	for _, issue := range issues {
		fmt.Fprintf(&b, "- %s\n", issue)
	}

	truncated := false
	if len(code) > maxCodeBytes {
		code = strings.ToValidUTF8(code[:maxCodeBytes], "")
		truncated = true
	}
	b.WriteString("\nCode:\n<<<\n")
	b.WriteString(code)
	b.WriteString("\n>>>\n")
	if truncated {
		fmt.Fprintf(&b, "(code truncated to the first %d bytes)\n", maxCodeBytes)
	}
	return b.String()
}

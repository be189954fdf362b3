package review

import (
	"fmt"
	"strings"

	domain "github.com/bryanwahyu/whispernet/internal/domain/review"
)

// Check scans code line by line. For every line it reports each marker in
// rules order, then a length violation; lines are numbered from 1.
func Check(code string, rules domain.Rules) []string {
	issues := make([]string, 0)
	for i, line := range splitLines(code) {
		n := i + 1
		for _, marker := range rules.Markers {
			if strings.Contains(line, marker) {
				issues = append(issues, fmt.Sprintf("%s in line %d", marker, n))
			}
		}
		if rules.MaxLineLength > 0 {
			if length := len(line); length > rules.MaxLineLength {
				issues = append(issues, fmt.Sprintf("Line %d is too long (>%d chars)", n, length))
			}
		}
	}
	return issues
}

// Summarize builds the review sentence for count issues.
func Summarize(rules domain.Rules, count int) string {
	if count == 0 && !rules.AlwaysCount {
		return fmt.Sprintf("%s checked code, no issues found.", rules.Label)
	}
	return fmt.Sprintf("%s checked code, found %d issue(s).", rules.Label, count)
}

// splitLines splits on '\n' and drops the '\r' of a "\r\n" terminator.
// A final newline does not start another line, so "" has no lines and
// "a\n" has one. An unterminated last line keeps a trailing '\r'.
func splitLines(code string) []string {
	if code == "" {
		return nil
	}
	lines := strings.Split(code, "\n")
	terminated := len(lines) - 1
	if lines[terminated] == "" {
		lines = lines[:terminated]
	}
	for i := 0; i < terminated && i < len(lines); i++ {
		lines[i] = strings.TrimSuffix(lines[i], "\r")
	}
	return lines
}

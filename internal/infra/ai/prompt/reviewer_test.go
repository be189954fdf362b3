package prompt

import (
	"strings"
	"testing"
)

func TestGetUserPrompt(t *testing.T) {
	got := GetUserPrompt("x := 1 // TODO", []string{"TODO in line 1"})
	for _, want := range []string{"- TODO in line 1\n", "x := 1 // TODO", "<<<", ">>>"} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "truncated") {
		t.Error("short code should not be truncated")
	}
}

func TestGetUserPromptNoIssues(t *testing.T) {
	if got := GetUserPrompt("", nil); !strings.Contains(got, "- none\n") {
		t.Errorf("prompt = %q, want a none marker", got)
	}
}

func TestGetUserPromptTruncates(t *testing.T) {
	code := strings.Repeat("a", maxCodeBytes+10)
	got := GetUserPrompt(code, nil)
	if strings.Count(got, "a") > maxCodeBytes+len("(code truncated to the first  bytes)") {
		t.Error("code was not truncated")
	}
	if !strings.Contains(got, "truncated") {
		t.Error("expected truncation note")
	}
}

func TestGetSystemPrompt(t *testing.T) {
	if !strings.Contains(GetSystemPrompt(), "static checker") {
		t.Error("system prompt should reference the static checker findings")
	}
}

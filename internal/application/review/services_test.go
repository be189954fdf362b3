package review

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/bryanwahyu/whispernet/internal/domain/ai"
	domain "github.com/bryanwahyu/whispernet/internal/domain/review"
)

type stubNarrator struct {
	text   string
	err    error
	issues []string
}

func (s *stubNarrator) Review(_ context.Context, _ string, issues []string) (string, error) {
	s.issues = issues
	return s.text, s.err
}

func TestServiceAnalyse(t *testing.T) {
	svc := NewService(domain.DefaultRules(), "rust-worker-01", "static-checker-rust-1.0")

	res, err := svc.Analyse(context.Background(), domain.Request{Code: "foo\n// TODO fix this\nbar"})
	if err != nil {
		t.Fatalf("Analyse error: %v", err)
	}
	want := domain.Result{
		Review:   "Rust worker checked code, found 1 issue(s).",
		WorkerID: "rust-worker-01",
		Model:    "static-checker-rust-1.0",
		Issues:   []string{"TODO in line 2"},
	}
	if !reflect.DeepEqual(res, want) {
		t.Errorf("Analyse = %+v, want %+v", res, want)
	}
}

func TestServiceAnalyseEmpty(t *testing.T) {
	svc := NewService(domain.DefaultRules(), "w", "")

	res, err := svc.Analyse(context.Background(), domain.Request{})
	if err != nil {
		t.Fatalf("Analyse error: %v", err)
	}
	if res.Review != "Rust worker checked code, no issues found." {
		t.Errorf("Review = %q", res.Review)
	}

	b, err := json.Marshal(res)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(b), `{"review":"Rust worker checked code, no issues found.","worker_id":"w","issues":[]}`; got != want {
		t.Errorf("JSON = %s, want %s", got, want)
	}
}

func TestServiceAnalyseDeterministic(t *testing.T) {
	svc := NewService(domain.DefaultRules(), "rust-worker-01", "static-checker-rust-1.0")
	req := domain.Request{Code: "// TODO\n// FIXME\n"}

	a, _ := svc.Analyse(context.Background(), req)
	b, _ := svc.Analyse(context.Background(), req)
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	if string(ja) != string(jb) {
		t.Errorf("results differ:\n%s\n%s", ja, jb)
	}
}

func TestServiceNarrator(t *testing.T) {
	n := &stubNarrator{text: "Two markers left behind."}
	svc := NewService(domain.DefaultRules(), "w", "gpt-4o-mini")
	svc.Narrator = n

	res, err := svc.Analyse(context.Background(), domain.Request{Code: "TODO\nFIXME"})
	if err != nil {
		t.Fatalf("Analyse error: %v", err)
	}
	if res.Review != "Two markers left behind." {
		t.Errorf("Review = %q", res.Review)
	}
	if len(res.Issues) != 2 || len(n.issues) != 2 {
		t.Errorf("issues = %q, narrator saw %q", res.Issues, n.issues)
	}
	if res.Model != "gpt-4o-mini" {
		t.Errorf("Model = %q", res.Model)
	}
}

func TestServiceNarratorError(t *testing.T) {
	svc := NewService(domain.DefaultRules(), "w", "m")
	svc.Narrator = &stubNarrator{err: ai.ErrQuotaExceeded}

	_, err := svc.Analyse(context.Background(), domain.Request{Code: "x"})
	if !errors.Is(err, ai.ErrQuotaExceeded) {
		t.Errorf("err = %v, want ErrQuotaExceeded", err)
	}
}

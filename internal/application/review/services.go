package review

import (
	"context"
	"fmt"

	"github.com/bryanwahyu/whispernet/internal/domain/ai"
	domain "github.com/bryanwahyu/whispernet/internal/domain/review"
)

// Service implements the analyse use-case. All fields are read-only after
// construction, so one Service is shared by every request goroutine.
type Service struct {
	Rules    domain.Rules
	WorkerID string
	Model    string

	// Narrator, when set, writes the review text instead of Summarize.
	Narrator ai.Client
}

func NewService(rules domain.Rules, workerID, model string) *Service {
	return &Service{Rules: rules, WorkerID: workerID, Model: model}
}

// Analyse scans req.Code and assembles the result. Without a Narrator it
// cannot fail and is a pure function of the code and the service settings.
func (s *Service) Analyse(ctx context.Context, req domain.Request) (domain.Result, error) {
	issues := Check(req.Code, s.Rules)

	review := Summarize(s.Rules, len(issues))
	if s.Narrator != nil {
		text, err := s.Narrator.Review(ctx, req.Code, issues)
		if err != nil {
			return domain.Result{}, fmt.Errorf("narrate review: %w", err)
		}
		review = text
	}

	return domain.Result{
		Review:   review,
		WorkerID: s.WorkerID,
		Model:    s.Model,
		Issues:   issues,
	}, nil
}

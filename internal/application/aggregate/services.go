package aggregate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bryanwahyu/whispernet/internal/application"
	"github.com/bryanwahyu/whispernet/internal/domain/fanout"
	"github.com/bryanwahyu/whispernet/internal/log"
)

// DefaultCode is reviewed when a GitLab review request carries no code.
const DefaultCode = "# No code provided from GitLab."

const maxParallel = 8

// ErrPublishingDisabled is reported when no Publisher is configured.
var ErrPublishingDisabled = errors.New("gitlab publishing not configured")

// Service fans review requests out to workers. It keeps no state between calls.
type Service struct {
	Workers   fanout.WorkerClient
	URLs      []string
	Publisher fanout.Publisher // nil disables publishing
	Clock     application.Clock
}

// Outcome is the answer to a GitLab review request.
type Outcome struct {
	Results      []fanout.Reply `json:"results"`
	GitLabStatus int            `json:"gitlab_status"`
	GitLabError  string         `json:"gitlab_error,omitempty"`
	ReviewedAt   time.Time      `json:"reviewed_at"`
}

// Distribute posts body to every worker once and returns the replies in
// configuration order, whatever order they complete in.
func (s *Service) Distribute(ctx context.Context, body []byte) []fanout.Reply {
	out := make([]fanout.Reply, len(s.URLs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(max(len(s.URLs), 1), maxParallel))
	for i, u := range s.URLs {
		g.Go(func() error {
			out[i] = s.Workers.Post(gctx, u, body)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

// Review sends code to every worker, renders the replies as Markdown and
// publishes the summary. Publishing problems are reported in the Outcome,
// never as an error: the worker results are still worth returning.
func (s *Service) Review(ctx context.Context, code string) (Outcome, error) {
	body, err := json.Marshal(map[string]string{"code": code})
	if err != nil {
		return Outcome{}, fmt.Errorf("encode review request: %w", err)
	}

	results := s.Distribute(ctx, body)
	outcome := Outcome{Results: results, ReviewedAt: s.now()}

	if s.Publisher == nil {
		outcome.GitLabError = ErrPublishingDisabled.Error()
		return outcome, nil
	}

	status, err := s.Publisher.Publish(ctx, RenderSummary(results))
	outcome.GitLabStatus = status
	if err != nil {
		log.WithError(err).Warn("publishing review summary failed")
		outcome.GitLabError = err.Error()
		return outcome, nil
	}
	log.WithFields(log.Fields{"gitlab_status": status, "workers": len(results)}).Info("review summary published")
	return outcome, nil
}

// RenderSummary builds the Markdown posted to GitLab: one section per worker
// that produced a review or an error, in reply order.
func RenderSummary(results []fanout.Reply) string {
	var b strings.Builder
	for _, r := range results {
		if review, ok := r.Review(); ok {
			fmt.Fprintf(&b, "\n\n### %s\n%s\n", r.Heading(), review)
			continue
		}
		if msg, ok := r.Error(); ok {
			fmt.Fprintf(&b, "\n\n### %s\nError: %s\n", r.WorkerURL(), msg)
		}
	}
	return b.String()
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now().UTC()
}

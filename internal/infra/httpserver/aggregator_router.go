package httpserver

import (
	_ "embed"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"

	"github.com/bryanwahyu/whispernet/internal/application/aggregate"
	domain "github.com/bryanwahyu/whispernet/internal/domain/review"
	"github.com/bryanwahyu/whispernet/internal/domain/fanout"
	"github.com/bryanwahyu/whispernet/internal/middleware"
)

//go:embed demo.html
var demoPage []byte

// AggregatorRouter serves the fan-out API.
type AggregatorRouter struct {
	svc          *aggregate.Service
	maxBodyBytes int64
}

func NewAggregatorRouter(svc *aggregate.Service, maxBodyBytes int64) http.Handler {
	r := &AggregatorRouter{svc: svc, maxBodyBytes: maxBodyBytes}
	mux := newMux()

	mux.Get("/health", middleware.HealthHandler)
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Get("/demo", handleDemo)
	mux.Post("/analyse", wrap(r.handleAnalyse))
	mux.Post("/gitlab_review", wrap(r.handleGitLabReview))

	return mux
}

// POST /analyse
// The body is forwarded unchanged to every worker.
func (r *AggregatorRouter) handleAnalyse(w http.ResponseWriter, req *http.Request) error {
	data, err := readBody(w, req, r.maxBodyBytes)
	if err != nil {
		return err
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: body is not valid JSON", domain.ErrMalformedRequest)
	}

	results := r.svc.Distribute(req.Context(), data)
	recordWorkerCalls(results)

	writeJSON(w, http.StatusOK, map[string]any{"results": results})
	return nil
}

// POST /gitlab_review
// Body: {"code": "..."}; a missing code reviews aggregate.DefaultCode.
func (r *AggregatorRouter) handleGitLabReview(w http.ResponseWriter, req *http.Request) error {
	data, err := readBody(w, req, r.maxBodyBytes)
	if err != nil {
		return err
	}
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: body is not valid JSON", domain.ErrMalformedRequest)
	}

	code := aggregate.DefaultCode
	if c := gjson.GetBytes(data, "code"); c.Exists() {
		if c.Type != gjson.String {
			return fmt.Errorf("%w: code must be a string", domain.ErrInvalidRequest)
		}
		code = c.String()
	}

	outcome, err := r.svc.Review(req.Context(), code)
	if err != nil {
		return err
	}
	recordWorkerCalls(outcome.Results)

	writeJSON(w, http.StatusOK, outcome)
	return nil
}

func handleDemo(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(demoPage)
}

func recordWorkerCalls(results []fanout.Reply) {
	failed := 0
	for _, r := range results {
		if _, ok := r.Error(); ok {
			failed++
		}
	}
	middleware.RecordWorkerCalls(len(results), failed)
}

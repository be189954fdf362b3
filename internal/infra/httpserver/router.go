package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	domai "github.com/bryanwahyu/whispernet/internal/domain/ai"
	domain "github.com/bryanwahyu/whispernet/internal/domain/review"
	"github.com/bryanwahyu/whispernet/internal/log"
	"github.com/bryanwahyu/whispernet/internal/middleware"
)

// Router serves the worker API.
type Router struct {
	analyzer     domain.Analyzer
	maxBodyBytes int64
}

func NewRouter(analyzer domain.Analyzer, maxBodyBytes int64) http.Handler {
	r := &Router{analyzer: analyzer, maxBodyBytes: maxBodyBytes}
	mux := newMux()

	mux.Get("/health", middleware.HealthHandler)
	mux.Get("/metrics", middleware.MetricsHandler)
	mux.Post("/analyse", wrap(r.handleAnalyse))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}

		status := statusFor(err)
		msg := err.Error()
		if status == http.StatusInternalServerError {
			msg = "internal server error"
		}
		log.WithFields(log.Fields{
			"path":       req.URL.Path,
			"status":     status,
			"request_id": middleware.GetRequestID(req.Context()),
		}).WithError(err).Warn("request failed")

		writeJSON(w, status, map[string]string{"error": msg})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMalformedRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRequestTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domai.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, domai.ErrUnavailable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// POST /analyse
// Body: {"code": "<source text>"}
func (r *Router) handleAnalyse(w http.ResponseWriter, req *http.Request) error {
	data, err := readBody(w, req, r.maxBodyBytes)
	if err != nil {
		return err
	}

	var body struct {
		Code *string `json:"code"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%w: %v", domain.ErrInvalidRequest, err)
		}
		return fmt.Errorf("%w: %v", domain.ErrMalformedRequest, err)
	}
	if body.Code == nil {
		return fmt.Errorf("%w: code is required", domain.ErrInvalidRequest)
	}

	res, err := r.analyzer.Analyse(req.Context(), domain.Request{Code: *body.Code})
	if err != nil {
		return err
	}
	middleware.RecordAnalysis(len(res.Issues))

	writeJSON(w, http.StatusOK, res)
	return nil
}

// readBody reads at most limit bytes; a longer body is ErrRequestTooLarge.
func readBody(w http.ResponseWriter, req *http.Request, limit int64) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, req.Body, limit))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w: limit is %d bytes", domain.ErrRequestTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedRequest, err)
	}
	return data, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("encoding response")
	}
}

// newMux builds a chi router with the middleware shared by both services.
func newMux() *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(chimw.RealIP)
	mux.Use(middleware.RequestID)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(middleware.Recovery)
	mux.Use(corsHandler())
	mux.Use(gzipHandler)
	return mux
}

package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/bryanwahyu/whispernet/internal/log"
)

// HealthHandler always answers {"status":"ok"}. It checks nothing: a worker
// has no dependencies whose failure would make it unable to analyse.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok"}); err != nil {
		log.WithError(err).Warn("encoding health response")
	}
}

package fanout

import (
	"encoding/json"
	"fmt"
)

// Reply is the JSON object one worker answered with, or an error object
// built on its behalf. Keys are kept as received.
type Reply map[string]any

// ErrorReply is recorded when a worker could not be reached.
func ErrorReply(workerURL string, err error) Reply {
	return Reply{"worker_url": workerURL, "error": err.Error()}
}

// InvalidJSONReply is recorded when a worker answered with something that is not a JSON object.
func InvalidJSONReply(workerURL string, statusCode int, body string) Reply {
	return Reply{
		"error":       "Invalid JSON response",
		"worker_url":  workerURL,
		"status_code": statusCode,
		"text":        body,
	}
}

// Heading names the worker in a summary: worker_id, then model, then "Worker".
func (r Reply) Heading() string {
	if id := text(r["worker_id"]); id != "" {
		return id
	}
	if model, ok := r["model"]; ok {
		return text(model)
	}
	return "Worker"
}

// Review returns the review text, if the worker produced one.
func (r Reply) Review() (string, bool) {
	v, ok := r["review"]
	if !ok {
		return "", false
	}
	return text(v), true
}

// Error returns the error text, if the call failed.
func (r Reply) Error() (string, bool) {
	v, ok := r["error"]
	if !ok {
		return "", false
	}
	return text(v), true
}

// WorkerURL returns the tagged worker URL or "Worker".
func (r Reply) WorkerURL() string {
	if u := text(r["worker_url"]); u != "" {
		return u
	}
	return "Worker"
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64, bool, int:
		return fmt.Sprint(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}

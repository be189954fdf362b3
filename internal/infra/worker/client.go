package worker

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"

	"github.com/bryanwahyu/whispernet/internal/domain/fanout"
	"github.com/bryanwahyu/whispernet/internal/log"
)

// maxReplyBytes caps how much of a worker reply is read.
const maxReplyBytes = 4 << 20

// Client posts review requests to worker endpoints.
type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{http: &http.Client{Timeout: timeout}}
}

// Post implements fanout.WorkerClient. One attempt, no retry.
func (c *Client) Post(ctx context.Context, workerURL string, body []byte) fanout.Reply {
	start := time.Now()
	logger := log.WithFields(log.Fields{"worker_url": workerURL})

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, workerURL, bytes.NewReader(body))
	if err != nil {
		return fanout.ErrorReply(workerURL, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		logger.WithError(err).Warn("worker call failed")
		return fanout.ErrorReply(workerURL, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		logger.WithError(err).Warn("reading worker reply failed")
		return fanout.ErrorReply(workerURL, err)
	}

	logger.WithFields(log.Fields{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("worker replied")

	return decodeReply(workerURL, resp.StatusCode, data)
}

func decodeReply(workerURL string, status int, data []byte) fanout.Reply {
	if !gjson.ValidBytes(data) {
		return fanout.InvalidJSONReply(workerURL, status, string(data))
	}
	parsed := gjson.ParseBytes(data)
	if !parsed.IsObject() {
		return fanout.InvalidJSONReply(workerURL, status, string(data))
	}

	obj, ok := parsed.Value().(map[string]interface{})
	if !ok {
		return fanout.InvalidJSONReply(workerURL, status, string(data))
	}
	reply := fanout.Reply(obj)
	if !parsed.Get("worker_id").Exists() {
		reply["worker_url"] = workerURL
	}
	return reply
}

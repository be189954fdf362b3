package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bryanwahyu/whispernet/internal/log"
)

const commitMessage = "Update AI review file via aggregator"

// Publisher writes the review summary to one file of a GitLab repository
// through the repository files API, creating the file on first use.
type Publisher struct {
	http    *http.Client
	baseURL string
	token   string
	project string
	branch  string
	file    string
}

func NewPublisher(baseURL, token, project, branch, file string, timeout time.Duration) *Publisher {
	return &Publisher{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		token:   token,
		project: project,
		branch:  branch,
		file:    file,
	}
}

// fileURL is .../projects/<url-encoded project>/repository/files/<url-encoded path>.
func (p *Publisher) fileURL() string {
	return fmt.Sprintf("%s/projects/%s/repository/files/%s",
		p.baseURL, url.PathEscape(p.project), url.PathEscape(p.file))
}

// Publish implements fanout.Publisher. A non-2xx answer from GitLab is not
// an error: its status is returned for the caller to report.
func (p *Publisher) Publish(ctx context.Context, content string) (int, error) {
	exists, err := p.exists(ctx)
	if err != nil {
		return 0, err
	}

	method := http.MethodPost
	if exists {
		method = http.MethodPut
	}

	payload, err := json.Marshal(map[string]string{
		"branch":         p.branch,
		"content":        content,
		"commit_message": commitMessage,
	})
	if err != nil {
		return 0, fmt.Errorf("encode gitlab payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.fileURL(), bytes.NewReader(payload))
	if err != nil {
		return 0, fmt.Errorf("build gitlab request: %w", err)
	}
	req.Header.Set("PRIVATE-TOKEN", p.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("gitlab %s: %w", method, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	log.WithFields(log.Fields{
		"method": method,
		"status": resp.StatusCode,
		"file":   p.file,
		"branch": p.branch,
	}).Debugf("gitlab replied: %s", body)

	return resp.StatusCode, nil
}

func (p *Publisher) exists(ctx context.Context) (bool, error) {
	u := p.fileURL() + "?" + url.Values{"ref": {p.branch}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("build gitlab request: %w", err)
	}
	req.Header.Set("PRIVATE-TOKEN", p.token)

	resp, err := p.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("gitlab lookup: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK, nil
}

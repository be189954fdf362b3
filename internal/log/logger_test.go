package log

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logrus.Level
	}{
		{"", logrus.InfoLevel},
		{"debug", logrus.DebugLevel},
		{"DEBUG", logrus.DebugLevel},
		{" warn ", logrus.WarnLevel},
		{"WARNING", logrus.WarnLevel},
		{"error", logrus.ErrorLevel},
		{"trace", logrus.TraceLevel},
		{"nonsense", logrus.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestInitLoggerAppName(t *testing.T) {
	t.Setenv("APP_NAME", "whispernet-test")
	l := InitLogger(false)
	defer InitLogger(true)

	var buf bytes.Buffer
	l.SetOutput(&buf)
	Info("hello")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("log output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "hello" {
		t.Errorf("msg = %v, want %q", entry["msg"], "hello")
	}
	if entry["app"] != "whispernet-test" {
		t.Errorf("app = %v, want %q", entry["app"], "whispernet-test")
	}
}

func TestAddFileOutput(t *testing.T) {
	t.Setenv("APP_NAME", "")
	InitLogger(true)
	defer InitLogger(true)

	path := filepath.Join(t.TempDir(), "worker.log")
	if err := AddFileOutput(path); err != nil {
		t.Fatalf("AddFileOutput error: %v", err)
	}
	WithFields(Fields{"worker_id": "rust-worker-01"}).Info("written to file")

	rotated := path + "." + time.Now().Format("20060102")
	data, err := os.ReadFile(rotated)
	if err != nil {
		t.Fatalf("reading rotated log: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Errorf("log file = %q, want it to contain the message", string(data))
	}
}

package review

// Markers flagged wherever they appear in a line, checked in this order.
const (
	MarkerTODO  = "TODO"
	MarkerFIXME = "FIXME"
)

// Request is the body of POST /analyse.
type Request struct {
	Code string `json:"code"`
}

// Result is returned for every analysed request.
type Result struct {
	Review   string   `json:"review"`
	WorkerID string   `json:"worker_id"`
	Model    string   `json:"model,omitempty"`
	Issues   []string `json:"issues"`
}

// Rules value object: immutable checker settings loaded once at startup.
type Rules struct {
	Markers       []string
	MaxLineLength int // 0 disables the length check
	Label         string
	AlwaysCount   bool // use "found 0 issue(s)" instead of "no issues found"
}

// DefaultRules mirrors the reference worker.
func DefaultRules() Rules {
	return Rules{
		Markers:       []string{MarkerTODO, MarkerFIXME},
		MaxLineLength: 100,
		Label:         "Rust worker",
	}
}

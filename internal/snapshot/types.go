package snapshot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// Errors
var (
	ErrMalformed        = errors.New("malformed snapshot batch")
	ErrMissingProjectID = errors.New("project status without ProjectID")
)

// ProjectStatus is the latest known status of one monitored project.
type ProjectStatus struct {
	ProjectID     string  `json:"ProjectID"`
	ProjectName   *string `json:"ProjectName"`
	Host          *string `json:"Host"`
	Port          *Port   `json:"Port"`
	Type          *string `json:"Type"`
	CheckTime     *string `json:"CheckTime"` // ISO-8601, kept raw so the view can fall back to it
	Domains       *string `json:"Domains"`
	IP            *string `json:"IP"`
	Issuer        *string `json:"Issuer"`
	ExpiryDate    *string `json:"ExpiryDate"`
	DaysRemaining *int    `json:"DaysRemaining"`
}

// Batch is one push message worth of project statuses, in arrival order.
type Batch []ProjectStatus

// Address returns "host:port" when both parts are present. Port 0 counts
// as absent.
func (p ProjectStatus) Address() (string, bool) {
	host, ok := Value(p.Host)
	if !ok || p.Port == nil || *p.Port == "" || *p.Port == "0" {
		return "", false
	}
	return host + ":" + p.Port.String(), true
}

// Value returns the string behind s and whether it should be displayed.
// Empty strings count as absent.
func Value(s *string) (string, bool) {
	if s == nil || *s == "" {
		return "", false
	}
	return *s, true
}

// Port is a TCP port as sent by the backend. The backend stores ports as
// strings but older builds emit numbers, so both are accepted.
type Port string

// String returns the port text.
func (p Port) String() string {
	return string(p)
}

// UnmarshalJSON accepts a JSON string or an integer.
func (p *Port) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("port: %w", err)
		}
		*p = Port(strings.TrimSpace(s))
		return nil
	}
	n, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return fmt.Errorf("port %q: %w", raw, err)
	}
	*p = Port(strconv.FormatInt(n, 10))
	return nil
}

// MarshalJSON emits the port as a string, matching the backend.
func (p Port) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(p))
}

// DecodeError describes a payload that could not be turned into a batch.
type DecodeError struct {
	Size int   // payload size in bytes
	Err  error // underlying cause
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode snapshot batch (%d bytes): %v", e.Size, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrMalformed, e.Err}
}

// Result is the outcome of decoding one message.
type Result struct {
	Batch Batch
	Err   error
}

// OK reports whether the message decoded cleanly.
func (r Result) OK() bool {
	return r.Err == nil
}

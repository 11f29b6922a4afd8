package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// MessageUnreachable is shown whenever a request was sent but no response
// came back.
const MessageUnreachable = "No response from server. Please check if the backend is running."

// Kind records which fault class produced a RequestError.
type Kind int

const (
	// KindServer means the backend answered with an error status.
	KindServer Kind = iota + 1
	// KindUnreachable means the request was sent but nothing came back.
	KindUnreachable
	// KindLocal means the request was never sent.
	KindLocal
)

func (k Kind) String() string {
	switch k {
	case KindServer:
		return "server"
	case KindUnreachable:
		return "unreachable"
	case KindLocal:
		return "local"
	}
	return "unknown"
}

// RequestError is the single error shape every backend call fails with.
type RequestError struct {
	Message string
	Status  int    // 0 when no response was received
	Raw     []byte // nil when no response was received
	Kind    Kind

	// Op is "METHOD path" of the failed call.
	Op  string
	Err error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// HasStatus reports whether a response status is present.
func (e *RequestError) HasStatus() bool {
	return e.Status != 0
}

// AsRequestError finds a RequestError in err's chain.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether the backend rejected the access token.
func IsUnauthorized(err error) bool {
	reqErr, ok := AsRequestError(err)
	return ok && reqErr.Kind == KindServer && reqErr.Status == http.StatusUnauthorized
}

// IsUnreachable reports whether the backend did not answer.
func IsUnreachable(err error) bool {
	reqErr, ok := AsRequestError(err)
	return ok && reqErr.Kind == KindUnreachable
}

// StatusOf returns the response status carried by err, or 0.
func StatusOf(err error) int {
	if reqErr, ok := AsRequestError(err); ok {
		return reqErr.Status
	}
	return 0
}

// serverMessage picks the human-readable message out of an error payload:
// a "message" field, then an "error" field, then a bare JSON string, then
// the plain-text body, then a generic status line.
func serverMessage(status int, body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed != "" {
		var payload any
		if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
			switch v := payload.(type) {
			case map[string]any:
				for _, field := range []string{"message", "error"} {
					if msg, ok := v[field].(string); ok && strings.TrimSpace(msg) != "" {
						return msg
					}
				}
			case string:
				if strings.TrimSpace(v) != "" {
					return v
				}
			}
		} else if !looksLikeHTML(trimmed) {
			return trimmed
		}
	}
	return fmt.Sprintf("Server error: %d", status)
}

func looksLikeHTML(s string) bool {
	return strings.HasPrefix(s, "<")
}

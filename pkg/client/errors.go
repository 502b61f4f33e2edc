package client

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// APIError is a non-success HTTP response normalized to a message.
type APIError struct {
	StatusCode int
	Message    string
}

// Error returns the normalized message verbatim, including any caller
// prefix. The status code is carried for callers that branch on it but
// deliberately kept out of the message shown to users.
func (e *APIError) Error() string {
	return e.Message
}

// IsAPIError reports whether err is a normalized API error.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// CheckResponse converts a non-success response into an *APIError.
//
// Success statuses return nil without touching the body, leaving it for
// the caller to decode. Otherwise the full body is read as text; a
// structured {"error": string} body yields that string, anything else
// is used raw. The caller-supplied prefix (possibly empty) is prepended
// to the final message.
func CheckResponse(prefix string, resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(resp.Body)

	msg := string(body)
	var structured struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &structured) == nil && structured.Error != "" {
		msg = structured.Error
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    prefix + msg,
	}
}

package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/serenvoice/serenvoice-cli/internal/common"
)

// serverMessage pulls the human-readable message out of an error body of
// the form {"success":false,"message":"..."}; best-effort, empty when the
// body is not that shape.
func serverMessage(body []byte) string {
	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Message
}

// statusError maps an HTTP status and server message onto the shared
// sentinels, keeping the message in the error string for the UI.
func statusError(status int, message string) error {
	if message == "" {
		message = http.StatusText(status)
	}

	var base error
	switch {
	case status == http.StatusUnauthorized && isExpiredMessage(message):
		// Matches both ErrTokenExpired and ErrUnauthorized so the
		// retry path treats it like any other unauthorized response.
		base = fmt.Errorf("%w: %w", common.ErrTokenExpired, common.ErrUnauthorized)
	case status == http.StatusUnauthorized:
		base = common.ErrUnauthorized
	case status == http.StatusNotFound:
		base = common.ErrNotFound
	default:
		base = common.ErrInternal
	}

	return fmt.Errorf("%s: %w", message, base)
}

// isExpiredMessage recognizes the backend's expired-token wording in
// either language ("token expirado" / "token expired").
func isExpiredMessage(message string) bool {
	m := strings.ToLower(message)
	return strings.Contains(m, "expirad") || strings.Contains(m, "expired")
}

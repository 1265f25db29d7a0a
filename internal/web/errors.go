package web

// errors.go provides unified error response handling for the web layer.
//
// It ensures all errors are:
//   - Logged with full technical details for debugging (server-side)
//   - Returned to clients as JSON with a code and an action suggestion
//
// The error flow:
//  1. Handler encounters an error
//  2. Calls respondError(w, r, err)
//  3. The status comes from the error's kind, the body from core.MapError
//  4. Technical error + context is logged with request ID for correlation

import (
	"errors"
	"net/http"
	"strings"

	"github.com/JonMunkholm/sheet2db/internal/core"
	"github.com/JonMunkholm/sheet2db/internal/logging"
)

var (
	errNoFile      = errors.New("no file provided")
	errFileTooBig  = errors.New("file too large")
	errInvalidForm = errors.New("invalid multipart form")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// statusFor picks the HTTP status for err. Bad workbooks are 422 so clients
// can tell them apart from malformed requests.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errFileTooBig):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, errNoFile), errors.Is(err, errInvalidForm):
		return http.StatusBadRequest
	case errors.Is(err, errTooManyImports):
		return http.StatusServiceUnavailable
	case core.IsInputError(err), strings.HasPrefix(core.MapError(err).Code, "WB"):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the technical error and writes the mapped user message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userErr := core.NewUserError(err)

	logger := logging.FromContext(r.Context())
	logger.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", userErr.Technical.Error(),
		"code", userErr.User.Code,
	)

	// Input errors name the offending sheet and column; others may carry
	// connection details and stay server-side.
	detail := userErr.Error()
	if status != http.StatusInternalServerError {
		detail = userErr.Technical.Error()
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}

	writeJSON(w, status, ErrorResponse{
		Error:   detail,
		Message: userErr.User.Message,
		Action:  userErr.User.Action,
		Code:    userErr.User.Code,
	})
}

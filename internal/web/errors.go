package web

// errors.go turns handler errors into JSON responses.
//
//  1. The handler calls respondError with the error and its fallback message.
//  2. The status comes from core.Classify.
//  3. The body comes from core.MapErrorOr.
//  4. The technical error is logged with the request id.
//
// The "detail" field repeats the message for frontends that only read
// {"detail": ...}.

import (
	"net/http"

	"github.com/JonMunkholm/datalens/internal/core"
	"github.com/JonMunkholm/datalens/internal/logging"
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Detail  string `json:"detail"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// msgInvalidLimit is returned for a malformed ?limit= on /api/runs.
var msgInvalidLimit = core.UserMessage{
	Message: "Invalid limit parameter",
	Action:  "Use a positive integer",
	Code:    "REQ003",
}

// statusFor maps an error category to an HTTP status.
func statusFor(err error) int {
	switch core.Classify(err) {
	case core.CategoryNotFound:
		return http.StatusNotFound
	case core.CategoryEmptyInput:
		return http.StatusUnprocessableEntity
	case core.CategoryBusy:
		return http.StatusServiceUnavailable
	default:
		// Decode failures stay 500 for compatibility with existing clients.
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes its user-facing JSON body.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, fallback core.UserMessage) {
	status := statusFor(err)
	msg := core.MapErrorOr(err, fallback)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"category", core.Classify(err).String(),
		"error", err.Error(),
		"code", msg.Code,
	)

	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "5")
	}
	writeErrorJSON(w, status, msg)
}

func writeErrorJSON(w http.ResponseWriter, status int, msg core.UserMessage) {
	writeJSON(w, status, ErrorResponse{
		Error:   msg.Message,
		Detail:  msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}

package web

// errors.go provides unified error response handling for the web layer.
//
// Every error is logged with full technical detail server-side and returned
// to the client as a user-friendly message with a support code. Codes let
// users quote a short reference instead of a raw Go error string.
//
// Code groups:
//
//	FILE001 - Malformed upload payload (not a data-URI string)
//	FILE002 - Payload exceeds the size limit
//	FILE003 - Payload could not be parsed as CSV
//	CHART001 - Unknown chart type
//	EXP001 - Export requested before a dataset was loaded
//	EXP002 - Export requested before a chart was built
//	ERR000 - Fallback for unrecognized errors

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/Chetan-316/visualcraft/internal/logging"
)

// UserMessage is a user-facing error with a support code and a suggested
// next step.
type UserMessage struct {
	Code    string
	Message string
	Action  string
}

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// errorPatterns maps substrings of technical errors to user messages.
// First match wins. The FILE* codes all surface in the UI as the single
// "invalid file" alert.
var errorPatterns = []struct {
	pattern string
	msg     UserMessage
}{
	{"malformed upload", UserMessage{
		Code:    "FILE001",
		Message: "The upload was not in the expected format",
		Action:  "Re-select the CSV file and try again",
	}},
	{"file too large", UserMessage{
		Code:    "FILE002",
		Message: "The file exceeds the upload size limit",
		Action:  "Reduce the file below 5MB and try again",
	}},
	{"invalid csv", UserMessage{
		Code:    "FILE003",
		Message: "The file could not be read as CSV",
		Action:  "Ensure the file is comma-separated UTF-8 text with a header row",
	}},
	{"unknown chart type", UserMessage{
		Code:    "CHART001",
		Message: "The selected chart type is not supported",
		Action:  "Choose one of: bar, line, pie, scatter, area",
	}},
	{"no data loaded", UserMessage{
		Code:    "EXP001",
		Message: "No dataset is loaded yet",
		Action:  "Upload a CSV file first",
	}},
	{"no chart built", UserMessage{
		Code:    "EXP002",
		Message: "No chart has been built yet",
		Action:  "Select columns and a chart type first",
	}},
}

var defaultMessage = UserMessage{
	Code:    "ERR000",
	Message: "Something went wrong",
	Action:  "Please try again",
}

// MapError converts a technical error into a user-facing message.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// respondError logs the technical error with request context and writes the
// sanitized JSON error response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := MapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

package web

// errors.go maps handler errors to JSON responses.
//
// The technical error is logged with the request ID; the client receives
// the user-facing message from core.MapError with its support code.

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/bubblemigrate/internal/core"
	"github.com/JonMunkholm/bubblemigrate/internal/formatter"
	"github.com/JonMunkholm/bubblemigrate/internal/links"
	"github.com/JonMunkholm/bubblemigrate/internal/logging"
	"github.com/JonMunkholm/bubblemigrate/internal/sheet"
)

// ErrorResponse is the JSON body of an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err and writes its user-facing message.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)

	// Reader errors wrap the size limit; report the limit itself.
	mapped := err
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		mapped = tooLarge
	}
	userErr := core.NewUserError(mapped)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userErr.User.Code,
	)

	writeJSON(w, status, ErrorResponse{
		Error:   err.Error(),
		Message: userErr.Error(),
		Action:  userErr.User.Action,
		Code:    userErr.User.Code,
	})
}

// statusFor picks the HTTP status of an error.
func statusFor(err error) int {
	var tooLarge *http.MaxBytesError

	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrUnknownTableKind):
		return http.StatusNotFound
	case errors.Is(err, core.ErrMissingRequiredColumn),
		errors.Is(err, core.ErrInconsistentColumns),
		errors.Is(err, sheet.ErrEmptyFile),
		errors.Is(err, sheet.ErrInvalidCSV),
		errors.Is(err, links.ErrNoFileColumns):
		return http.StatusUnprocessableEntity
	case errors.Is(err, formatter.ErrUnsupportedFileType):
		return http.StatusUnsupportedMediaType
	default:
		return http.StatusInternalServerError
	}
}

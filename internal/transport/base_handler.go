package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	"github.com/go-chi/chi"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
	// ExposeErrors adds the underlying cause to 500 responses (development only).
	ExposeErrors bool
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger, exposeErrors bool) *BaseHandler {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &BaseHandler{Logger: lg, ExposeErrors: exposeErrors}
}

type errorBody struct {
	Error *internal.AppError `json:"error"`
	Cause string             `json:"cause,omitempty"`
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteError writes an AppError using its status code
func (h *BaseHandler) WriteError(w http.ResponseWriter, appErr *internal.AppError) {
	status, _ := appErr.ToHTTPResponse()
	body := errorBody{Error: appErr}
	if status >= http.StatusInternalServerError && h.ExposeErrors && appErr.Cause != nil {
		body.Cause = appErr.Cause.Error()
	}
	h.WriteJSON(w, status, body)
}

// HandleServiceError maps service errors to HTTP responses. Unknown errors become a generic 500.
func (h *BaseHandler) HandleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := internal.IsAppError(err)
	if !ok {
		appErr = internal.NewInternalError("internal server error", err)
	}

	log := logger.From(r.Context())
	if appErr.StatusCode >= http.StatusInternalServerError {
		log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	} else {
		log.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "code", appErr.Code)
	}

	h.WriteError(w, appErr)
}

// DecodeJSON reads the request body into dst.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) *internal.AppError {
	if r.Body == nil {
		return internal.NewValidationError("request body is required", internal.ErrCodeValidationFailed)
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return internal.NewValidationError("request body is required", internal.ErrCodeValidationFailed)
		}
		return internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed).WithCause(err)
	}
	return nil
}

// CurrentUser returns the authenticated principal or 401.
func (h *BaseHandler) CurrentUser(r *http.Request) (*internal.User, *internal.AppError) {
	user, ok := internal.UserFromContext(r.Context())
	if !ok {
		return nil, internal.ErrMissingToken
	}
	return user, nil
}

// IDParam parses a positive integer chi URL parameter.
func (h *BaseHandler) IDParam(r *http.Request, name string) (int64, *internal.AppError) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, internal.NewValidationFieldError(name, fmt.Sprintf("%s must be a positive integer", name), internal.ErrCodeValidationFailed)
	}
	return id, nil
}

// QueryInt parses an optional integer query parameter; def is returned when absent.
func (h *BaseHandler) QueryInt(r *http.Request, name string, def int) (int, *internal.AppError) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, internal.NewValidationFieldError(name, fmt.Sprintf("%s must be an integer", name), internal.ErrCodeValidationFailed)
	}
	return v, nil
}

// QueryInt64 parses an optional int64 query parameter; nil when absent.
func (h *BaseHandler) QueryInt64(r *http.Request, name string) (*int64, *internal.AppError) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, internal.NewValidationFieldError(name, fmt.Sprintf("%s must be an integer", name), internal.ErrCodeValidationFailed)
	}
	return &v, nil
}

// ExtractTokenFromHeader extracts Bearer token from Authorization header
func ExtractTokenFromHeader(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(authHeader[7:])
}

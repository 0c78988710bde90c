package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/go-chi/chi/middleware"
)

// RecoveryMiddleware turns a handler panic into a 500 error body and logs the stack.
func RecoveryMiddleware(logger *slog.Logger, base *transport.BaseHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				attrs := []any{
					"error", rec,
					"method", r.Method,
					"url", r.URL.String(),
					"request_id", middleware.GetReqID(r.Context()),
					"stack", string(debug.Stack()),
				}
				if u, ok := internal.UserFromContext(r.Context()); ok {
					attrs = append(attrs, "user_id", u.ID)
				}
				logger.ErrorContext(r.Context(), "panic recovered", attrs...)

				base.WriteError(w, internal.NewInternalError("internal server error", fmt.Errorf("panic: %v", rec)))
			}()

			next.ServeHTTP(w, r)
		})
	}
}

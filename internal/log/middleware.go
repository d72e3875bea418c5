package log

import (
	"context"
	"net/http"
)

// Middleware creates HTTP middleware that adds a logger to the request context.
// When requestID is non-nil its result is attached to every record.
func Middleware(logger *Logger, requestID func(context.Context) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := logger.WithComponent(ComponentHTTP)
			if requestID != nil {
				if id := requestID(r.Context()); id != "" {
					l = l.With(FieldRequestID, id)
				}
			}
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), l)))
		})
	}
}

// LogError logs an error with structured context
func LogError(ctx context.Context, msg string, err error, errorType, operation string, fields LogFields) {
	if fields == nil {
		fields = NewFields()
	}
	allFields := fields.
		WithError(err).
		WithErrorType(errorType).
		WithOperation(operation)

	FromContext(ctx).ErrorContext(ctx, msg, allFields.ToSlice()...)
}

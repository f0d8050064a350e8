package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"

	"github.com/go-chi/cors"
	"golang.org/x/time/rate"

	"github.com/information-sharing-networks/newsposts/internal/logger"
	"github.com/information-sharing-networks/newsposts/internal/newsposts"
)

// AllowedMethods are the only methods allowed in cross-origin requests
var AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// RequestSizeLimit returns a middleware that enforces a maximum request body size.
//
// the middleware immediately rejects requests where the Content-Length header is greater than the max size.
// Otherwise it wraps the request body so handlers get an *http.MaxBytesError when decoding a body that is too large
// (in case Content-Length is not set or incorrect), which is reported as 413.
//
// The middleware adds an X-Max-Request-Size header to all responses to inform clients
// of the server's size limit
func RequestSizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Max-Request-Size", strconv.FormatInt(maxBytes, 10))

			if r.ContentLength > maxBytes {
				err := newsposts.NewRequestTooLargeError(
					fmt.Sprintf("Request body size (%d bytes) exceeds maximum allowed size (%d bytes)", r.ContentLength, maxBytes),
				)
				newsposts.RespondWithErrorResponse(w, r, err)
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders adds security-related headers to all responses
func SecurityHeaders(environment string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			if environment == "prod" || environment == "staging" {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit limits requests per second. If requestsPerSecond <= 0, rate limiting is disabled.
func RateLimit(requestsPerSecond int32, burst int32) func(http.Handler) http.Handler {
	if requestsPerSecond <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	limiter := rate.NewLimiter(rate.Limit(requestsPerSecond), int(burst))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow() {
				reqLogger := logger.ContextRequestLogger(r.Context())

				reqLogger.Warn("Rate limit exceeded",
					slog.String("component", "RateLimit"),
					slog.String("remote_addr", r.RemoteAddr),
				)

				// Add context for final request log
				logger.ContextWithLogAttrs(r.Context(),
					slog.String("remote_addr", r.RemoteAddr),
				)

				err := newsposts.NewRateLimitError("Too many requests. Please try again later.")
				newsposts.RespondWithErrorResponse(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CORS allows cross-origin requests from allowedOrigin only, with credentials,
// for GET, POST, PUT and DELETE.
// When allowedOrigin is empty no cross-origin request is allowed.
func CORS(allowedOrigin string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedMethods:   AllowedMethods,
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "If-None-Match", "X-Requested-With"},
		ExposedHeaders:   []string{"ETag", "Location", "X-Max-Request-Size"},
		AllowCredentials: true,
		MaxAge:           300,
	}

	if allowedOrigin == "" {
		// an empty AllowedOrigins list would allow every origin
		opts.AllowOriginFunc = func(r *http.Request, origin string) bool { return false }
	} else {
		opts.AllowedOrigins = []string{allowedOrigin}
	}

	return cors.Handler(opts)
}

// Recoverer converts a panic in a later handler into an internal error response.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}

			logger.ContextRequestLogger(r.Context()).Error("panic recovered",
				slog.String("component", "Recoverer"),
				slog.Any("panic", rec),
				slog.String("stack", string(debug.Stack())),
			)

			err := newsposts.NewInternalError(fmt.Sprintf("panic: %v", rec))
			newsposts.RespondWithErrorResponse(w, r, err)
		}()

		next.ServeHTTP(w, r)
	})
}

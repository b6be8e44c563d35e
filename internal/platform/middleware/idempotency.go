package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"eaglebank/pkg/requestcontext"
)

const idempotencyKeyHeader = "Idempotency-Key"

// CachedResponse is a stored reply for one idempotency key.
type CachedResponse struct {
	Status int
	Body   []byte
}

// IdempotencyStore persists responses keyed by Idempotency-Key. Lookups on an
// unknown key return ok=false with a nil error.
type IdempotencyStore interface {
	Get(ctx context.Context, key string) (CachedResponse, bool, error)
	Set(ctx context.Context, key string, response CachedResponse) error
}

// responseBuffer records status and body so a successful response can be
// replayed for a retried request.
type responseBuffer struct {
	http.ResponseWriter
	status int
	body   bytes.Buffer
}

func (b *responseBuffer) WriteHeader(status int) {
	b.status = status
	b.ResponseWriter.WriteHeader(status)
}

func (b *responseBuffer) Write(p []byte) (int, error) {
	b.body.Write(p)
	return b.ResponseWriter.Write(p)
}

// Idempotency replays the stored response when a request repeats an
// Idempotency-Key. Requests without the header pass through untouched. Only
// 2xx responses are stored: a failed attempt may be retried for real.
func Idempotency(store IdempotencyStore, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := r.Header.Get(idempotencyKeyHeader)
			if key == "" || store == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			cached, ok, err := store.Get(ctx, key)
			if err != nil {
				// The store being down must not block payments; fall through
				// to the handler.
				logger.ErrorContext(ctx, "idempotency lookup failed",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
			} else if ok {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("X-Idempotency-Hit", "true")
				w.WriteHeader(cached.Status)
				_, _ = w.Write(cached.Body)
				return
			}

			buf := &responseBuffer{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(buf, r)

			if buf.status < 200 || buf.status > 299 {
				return
			}
			if err := store.Set(ctx, key, CachedResponse{Status: buf.status, Body: buf.body.Bytes()}); err != nil {
				logger.ErrorContext(ctx, "failed to save idempotency key",
					"error", err,
					"key", key,
					"request_id", requestcontext.RequestID(ctx),
				)
			}
		})
	}
}

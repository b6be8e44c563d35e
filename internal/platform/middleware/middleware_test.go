package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eaglebank/internal/platform/logger"
	"eaglebank/pkg/domain"
	dErrors "eaglebank/pkg/domain-errors"
	"eaglebank/pkg/requestcontext"
)

type validatorStub struct {
	userID domain.UserID
	err    error
}

func (v validatorStub) ExtractUserID(string) (domain.UserID, error) {
	return v.userID, v.err
}

func TestRequireAuth(t *testing.T) {
	log := logger.NewNop()

	echoUser := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(requestcontext.UserID(r.Context()).String()))
	})

	t.Run("valid token reaches the handler with the user in context", func(t *testing.T) {
		handler := RequireAuth(validatorStub{userID: domain.UserID("usr-1")}, log)(echoUser)

		req := httptest.NewRequest(http.MethodGet, "/v1/accounts", nil)
		req.Header.Set("Authorization", "Bearer token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "usr-1", rec.Body.String())
	})

	t.Run("missing header is 401", func(t *testing.T) {
		handler := RequireAuth(validatorStub{userID: domain.UserID("usr-1")}, log)(echoUser)

		req := httptest.NewRequest(http.MethodGet, "/v1/accounts", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token is 401", func(t *testing.T) {
		invalid := validatorStub{err: dErrors.New(dErrors.CodeUnauthorized, "invalid token")}
		handler := RequireAuth(invalid, log)(echoUser)

		req := httptest.NewRequest(http.MethodGet, "/v1/accounts", nil)
		req.Header.Set("Authorization", "Bearer bad")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestcontext.RequestID(r.Context())
	}))

	t.Run("generates an id when absent", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		assert.Equal(t, seen, rec.Header().Get("X-Request-Id"))
	})

	t.Run("honors a caller-supplied id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-Id", "req-42")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "req-42", seen)
	})
}

func TestRequestTime(t *testing.T) {
	handler := RequestTime(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		first := requestcontext.Now(r.Context())
		second := requestcontext.Now(r.Context())
		assert.Equal(t, first, second)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestRecovery(t *testing.T) {
	handler := Recovery(logger.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type mapIdempotencyStore struct {
	responses map[string]CachedResponse
}

func (s *mapIdempotencyStore) Get(_ context.Context, key string) (CachedResponse, bool, error) {
	cached, ok := s.responses[key]
	return cached, ok, nil
}

func (s *mapIdempotencyStore) Set(_ context.Context, key string, response CachedResponse) error {
	if _, ok := s.responses[key]; !ok {
		s.responses[key] = response
	}
	return nil
}

func TestIdempotency(t *testing.T) {
	log := logger.NewNop()

	t.Run("replays the stored response on retry", func(t *testing.T) {
		store := &mapIdempotencyStore{responses: map[string]CachedResponse{}}
		calls := 0
		handler := Idempotency(store, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"n":1}`))
		}))

		for range 2 {
			req := httptest.NewRequest(http.MethodPost, "/v1/accounts/01234567/transactions", nil)
			req.Header.Set("Idempotency-Key", "key-1")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusCreated, rec.Code)
			assert.JSONEq(t, `{"n":1}`, rec.Body.String())
		}

		assert.Equal(t, 1, calls)
	})

	t.Run("failed responses are not cached", func(t *testing.T) {
		store := &mapIdempotencyStore{responses: map[string]CachedResponse{}}
		calls := 0
		handler := Idempotency(store, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))

		for range 2 {
			req := httptest.NewRequest(http.MethodPost, "/v1/accounts/01234567/transactions", nil)
			req.Header.Set("Idempotency-Key", "key-2")
			handler.ServeHTTP(httptest.NewRecorder(), req)
		}

		assert.Equal(t, 2, calls)
	})

	t.Run("requests without a key pass through", func(t *testing.T) {
		store := &mapIdempotencyStore{responses: map[string]CachedResponse{}}
		calls := 0
		handler := Idempotency(store, log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls++
		}))

		for range 2 {
			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))
		}

		assert.Equal(t, 2, calls)
	})
}

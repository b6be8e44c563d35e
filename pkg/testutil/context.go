package testutil

import (
	"net/http"
	"time"

	"eaglebank/pkg/domain"
	"eaglebank/pkg/requestcontext"
)

// WithUserID adds an authenticated user id to the request context, simulating
// what the auth middleware does for a valid bearer token.
func WithUserID(req *http.Request, userID domain.UserID) *http.Request {
	return req.WithContext(requestcontext.WithUserID(req.Context(), userID))
}

// WithTime pins the request-scoped clock, simulating the request-time
// middleware with a fixed instant.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

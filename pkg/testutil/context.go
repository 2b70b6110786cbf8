package testutil

import (
	"net/http"
	"time"

	"truida/pkg/requestcontext"
)

// WithStaff simulates the staff token middleware for handler-level tests.
func WithStaff(req *http.Request, staffID string) *http.Request {
	return req.WithContext(requestcontext.WithStaffID(req.Context(), staffID))
}

// WithBearer sets a staff bearer token for router-level tests.
func WithBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

// AtTime pins the request clock.
func AtTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

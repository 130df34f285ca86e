package testutil

import (
	"net/http"

	id "algowatch/pkg/domain"
	"algowatch/pkg/requestcontext"
)

// WithUserID simulates what the auth middleware does for an authenticated
// request. Invalid ids are ignored so the request stays anonymous.
func WithUserID(req *http.Request, userID string) *http.Request {
	parsed, err := id.ParseUserID(userID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithUserID(req.Context(), parsed))
}

// WithCaller is WithUserID for an already typed id.
func WithCaller(req *http.Request, userID id.UserID) *http.Request {
	return req.WithContext(requestcontext.WithUserID(req.Context(), userID))
}

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HammerMeetNail/friendfeed/internal/models"
	"github.com/HammerMeetNail/friendfeed/internal/testutil"
)

func assertErrorResponse(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	testutil.AssertErrorBody(t, rr, status, message)
}

func withUser(req *http.Request, user *models.User) *http.Request {
	return req.WithContext(context.WithValue(req.Context(), userContextKey, user))
}

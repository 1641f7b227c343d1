package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func testContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestGetUserIDFromContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	if _, ok := getUserID(c); ok {
		t.Fatal("expected no user id on a bare context")
	}

	c.Set("user_id", int64(7))
	id, ok := getUserID(c)
	if !ok || id != 7 {
		t.Fatalf("got (%d, %v), want (7, true)", id, ok)
	}

	c.Set("user_id", float64(8))
	id, ok = getUserID(c)
	if !ok || id != 8 {
		t.Fatalf("got (%d, %v), want (8, true)", id, ok)
	}
}

// Malformed registrations are rejected before anything touches the
// store, so the handler runs safely with no backing services.
func TestRegisterRejectsBadInput(t *testing.T) {
	h := &Handler{}

	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"gender":"male","birth_date":"1990-01-01"}`},
		{"bad gender", `{"name":"x","gender":"other","birth_date":"1990-01-01"}`},
		{"bad date format", `{"name":"x","gender":"male","birth_date":"01.01.1990"}`},
		{
			"future birth date",
			`{"name":"x","gender":"male","birth_date":"` +
				time.Now().AddDate(1, 0, 0).Format("2006-01-02") + `"}`,
		},
		{"unknown sport", `{"name":"x","gender":"male","birth_date":"1990-01-01","skill_levels":{"curling":"beginner"}}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, w := testContext(t, tc.body)
			h.Register(c)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want 400", w.Code)
			}
		})
	}
}

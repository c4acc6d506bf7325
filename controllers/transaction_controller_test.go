package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestQueryLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query string
		want  int
		ok    bool
	}{
		{"", 50, true},
		{"?limit=10", 10, true},
		{"?limit=1000000", exportLimit, true},
		{"?limit=0", 0, false},
		{"?limit=abc", 0, false},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/transactions"+tc.query, nil)

		got, ok := queryLimit(c, 50)
		if ok != tc.ok || got != tc.want {
			t.Errorf("%q: got (%d, %v), want (%d, %v)", tc.query, got, ok, tc.want, tc.ok)
		}
		if !ok && w.Code != http.StatusBadRequest {
			t.Errorf("%q: status %d", tc.query, w.Code)
		}
	}
}

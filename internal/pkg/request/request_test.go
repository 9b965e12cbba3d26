package request

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"photoshare/internal/repository"
)

func TestPage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		query string
		want  repository.Page
	}{
		{"", repository.Page{Skip: 0, Limit: 10}},
		{"?skip=5&limit=20", repository.Page{Skip: 5, Limit: 20}},
		{"?skip=-3&limit=0", repository.Page{Skip: 0, Limit: 10}},
		{"?limit=1000", repository.Page{Skip: 0, Limit: 100}},
		{"?skip=abc&limit=xyz", repository.Page{Skip: 0, Limit: 10}},
	}
	for _, tc := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)
		assert.Equal(t, tc.want, Page(c), tc.query)
	}
}

func TestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	id, ok := ID(c, "id")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	for _, bad := range []string{"0", "-1", "x"} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Params = gin.Params{{Key: "id", Value: bad}}
		_, ok := ID(c, "id")
		assert.False(t, ok)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_ID")
	}
}

func TestOptionalID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query string
		want  int64
		ok    bool
	}{
		{"", 0, true},
		{"?user_id=7", 7, true},
		{"?user_id=0", 0, false},
		{"?user_id=me", 0, false},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)
		id, ok := OptionalID(c, "user_id")
		assert.Equal(t, tc.ok, ok, tc.query)
		assert.Equal(t, tc.want, id, tc.query)
		if !tc.ok {
			assert.Equal(t, http.StatusBadRequest, w.Code, tc.query)
		}
	}
}

// Package request holds small gin helpers shared by handlers.
package request

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"photoshare/internal/pkg/response"
	"photoshare/internal/repository"
)

// Page reads skip and limit; unparsable values fall back to the defaults.
func Page(c *gin.Context) repository.Page {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(repository.DefaultLimit)))
	return repository.Page{Skip: skip, Limit: limit}.Normalize()
}

// ID parses a positive int64 path parameter. On failure it writes a 400 and
// returns false.
func ID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

// OptionalID parses an optional positive int64 query parameter. A missing
// value yields 0; an invalid one writes a 400 and returns false.
func OptionalID(c *gin.Context, name string) (int64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return id, true
}

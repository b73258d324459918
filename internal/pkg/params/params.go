// Package params reads path parameters for handlers.
package params

import (
	"strconv"

	"staysphere/internal/pkg/apperr"
	"staysphere/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// ID parses a positive integer path parameter. On failure it writes a 400
// envelope and returns false.
func ID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, apperr.Validation("invalid "+name, map[string]string{name: "numeric"}))
		return 0, false
	}
	return id, true
}

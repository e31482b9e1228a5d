package ginutil

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// QueryFlag reports whether a checkbox-style query flag is set.
// Present with any value other than 0/false/off counts as set.
func QueryFlag(c *gin.Context, key string) bool {
	v, ok := c.GetQuery(key)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "0", "false", "off":
		return false
	}
	return true
}

// QueryTrimmed returns the query value with surrounding whitespace removed
func QueryTrimmed(c *gin.Context, key string) string {
	return strings.TrimSpace(c.Query(key))
}

package render

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/skairipa08/FundEd/pkg/view"
)

// OK writes {"success": true, "data": data}.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

// OKMessage is OK with a human-readable message. data may be nil.
func OKMessage(c *gin.Context, data any, msg string) {
	body := gin.H{"success": true, "message": msg}
	if data != nil {
		body["data"] = data
	}
	c.JSON(http.StatusOK, body)
}

func Paged(c *gin.Context, data any, p view.Pagination) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data, "pagination": p})
}

// IntQuery parses a positive integer query parameter, falling back to def.
func IntQuery(c *gin.Context, key string, def int) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil || n < 1 {
		return def
	}
	return n
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/skairipa08/FundEd/internal/modules/users"
)

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			Fail(c, users.ErrNotAuthenticated)
			return
		}
		c.Next()
	}
}

// RequireRole admits authenticated users whose role is one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			Fail(c, users.ErrNotAuthenticated)
			return
		}
		if !allowed[u.Role] {
			Fail(c, users.ErrForbidden)
			return
		}
		c.Next()
	}
}

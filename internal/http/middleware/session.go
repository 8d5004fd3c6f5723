package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skairipa08/FundEd/internal/modules/users"
)

const (
	SessionCookie = "session_token"

	ctxKeyUser = "user"
)

// SessionResolver maps a session token to its user. *users.Service
// implements it.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (users.User, error)
}

// Session resolves the session token from the cookie, or from an
// "Authorization: Bearer" header, and stores the owner in the context.
// Absent or expired sessions leave the request anonymous.
func Session(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			c.Next()
			return
		}

		u, err := resolver.ResolveSession(c.Request.Context(), token)
		switch {
		case err == nil:
			SetCurrentUser(c, u)
		case errors.Is(err, users.ErrNoSession):
		default:
			Fail(c, err)
			return
		}
		c.Next()
	}
}

// SessionToken returns the raw token carried by the request, if any.
func SessionToken(c *gin.Context) string {
	if v, err := c.Cookie(SessionCookie); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// SetCurrentUser marks the request as authenticated as u.
func SetCurrentUser(c *gin.Context, u users.User) {
	c.Set(ctxKeyUser, u)
}

func CurrentUser(c *gin.Context) (users.User, bool) {
	v, ok := c.Get(ctxKeyUser)
	if !ok {
		return users.User{}, false
	}
	u, ok := v.(users.User)
	return u, ok
}

// CurrentUserPtr is CurrentUser for optional-auth handlers.
func CurrentUserPtr(c *gin.Context) *users.User {
	if u, ok := CurrentUser(c); ok {
		return &u
	}
	return nil
}

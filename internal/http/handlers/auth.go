package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skairipa08/FundEd/internal/http/middleware"
	"github.com/skairipa08/FundEd/internal/http/render"
	"github.com/skairipa08/FundEd/internal/http/validation"
	"github.com/skairipa08/FundEd/internal/modules/auth"
	"github.com/skairipa08/FundEd/internal/modules/users"
	"github.com/skairipa08/FundEd/pkg/view"
)

// LoginFlow is the OAuth login service. *auth.Service implements it.
type LoginFlow interface {
	Config() (auth.LoginConfig, error)
	Login(ctx context.Context, code string) (users.User, users.Session, error)
}

// SessionAccounts is the session side of *users.Service.
type SessionAccounts interface {
	Profile(ctx context.Context, userID string) (*users.StudentProfile, error)
	EndSessions(ctx context.Context, userID string) error
}

type CookieConfig struct {
	// Secure switches the cookie to Secure + SameSite=None, for production.
	Secure bool
	MaxAge int // seconds
}

type AuthHandler struct {
	login    LoginFlow
	accounts SessionAccounts
	cookie   CookieConfig
}

func NewAuthHandler(login LoginFlow, accounts SessionAccounts, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{login: login, accounts: accounts, cookie: cookie}
}

// GET /api/auth/config
func (h *AuthHandler) Config(c *gin.Context) {
	cfg, err := h.login.Config()
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, gin.H{
		"auth_url":  cfg.AuthURL,
		"state":     cfg.State,
		"client_id": cfg.ClientID,
	})
}

type callbackInput struct {
	Code string `json:"code" binding:"required"`
}

type loginResponse struct {
	view.User
	SessionToken string `json:"session_token"`
}

// POST /api/auth/google/callback
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	var in callbackInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, validation.Invalid(err, &in))
		return
	}

	u, sess, err := h.login.Login(c.Request.Context(), in.Code)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	h.setCookie(c, sess.Token, h.cookie.MaxAge)
	render.OKMessage(c, loginResponse{User: view.NewUser(u), SessionToken: sess.Token}, "Session created successfully")
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)

	var profile *users.StudentProfile
	if u.Role == users.RoleStudent {
		p, err := h.accounts.Profile(c.Request.Context(), u.ID)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		profile = p
	}
	render.OK(c, view.NewMe(u, profile))
}

// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if u, ok := middleware.CurrentUser(c); ok {
		if err := h.accounts.EndSessions(c.Request.Context(), u.ID); err != nil {
			middleware.Fail(c, err)
			return
		}
	}
	h.setCookie(c, "", -1)
	render.OKMessage(c, nil, "Logged out successfully")
}

func (h *AuthHandler) setCookie(c *gin.Context, value string, maxAge int) {
	if h.cookie.Secure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", h.cookie.Secure, true)
}

package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/skairipa08/FundEd/internal/http/middleware"
	"github.com/skairipa08/FundEd/internal/http/render"
	"github.com/skairipa08/FundEd/internal/http/validation"
	"github.com/skairipa08/FundEd/internal/modules/users"
	"github.com/skairipa08/FundEd/pkg/view"
)

// GET /api/admin/users?role&page&limit
func (h *Handler) ListUsers(c *gin.Context) {
	res, err := h.accounts.ListUsers(c.Request.Context(), users.ListParams{
		Role:  c.Query("role"),
		Page:  render.IntQuery(c, "page", 1),
		Limit: render.IntQuery(c, "limit", 50),
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.Paged(c, view.NewUsers(res.Items), view.NewPagination(res.Page, res.Limit, res.Total))
}

type roleInput struct {
	Role string `json:"role" binding:"required"`
}

// PUT /api/admin/users/:user_id/role
func (h *Handler) ChangeRole(c *gin.Context) {
	var in roleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, validation.Invalid(err, &in))
		return
	}
	actor, _ := middleware.CurrentUser(c)
	u, err := h.accounts.ChangeRole(c.Request.Context(), actor, c.Param("user_id"), in.Role)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OKMessage(c, view.NewUser(u), "User role updated to "+u.Role)
}

// DELETE /api/admin/users/:user_id
func (h *Handler) DeleteUser(c *gin.Context) {
	actor, _ := middleware.CurrentUser(c)
	if err := h.accounts.DeleteUser(c.Request.Context(), actor, c.Param("user_id")); err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OKMessage(c, nil, "User deleted successfully")
}

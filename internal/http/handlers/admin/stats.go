package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/skairipa08/FundEd/internal/http/middleware"
	"github.com/skairipa08/FundEd/internal/http/render"
	"github.com/skairipa08/FundEd/pkg/view"
)

// GET /api/admin/stats
func (h *Handler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	us, err := h.accounts.Stats(ctx)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	cs, err := h.campaigns.Counts(ctx)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	ds, err := h.donations.Totals(ctx)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, view.NewAdminStats(us, cs, ds))
}

package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/skairipa08/FundEd/internal/http/middleware"
	"github.com/skairipa08/FundEd/internal/http/render"
	"github.com/skairipa08/FundEd/internal/http/validation"
	"github.com/skairipa08/FundEd/pkg/view"
)

// GET /api/admin/campaigns?status
func (h *Handler) ListCampaigns(c *gin.Context) {
	res, err := h.campaigns.AdminList(c.Request.Context(), c.Query("status"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, view.NewAdminCampaigns(res.Items))
}

type statusInput struct {
	Status string `json:"status" binding:"required"`
	Reason string `json:"reason" binding:"max=512"`
}

// PUT /api/admin/campaigns/:id/status
func (h *Handler) SetCampaignStatus(c *gin.Context) {
	var in statusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, validation.Invalid(err, &in))
		return
	}
	updated, err := h.campaigns.SetStatus(c.Request.Context(), c.Param("id"), in.Status, in.Reason)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OKMessage(c, view.NewCampaign(updated), "Campaign status updated to "+updated.Status)
}

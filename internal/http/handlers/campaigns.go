package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/skairipa08/FundEd/internal/http/middleware"
	"github.com/skairipa08/FundEd/internal/http/render"
	"github.com/skairipa08/FundEd/internal/http/validation"
	"github.com/skairipa08/FundEd/internal/modules/campaigns"
	"github.com/skairipa08/FundEd/internal/modules/payments"
	"github.com/skairipa08/FundEd/internal/modules/users"
	"github.com/skairipa08/FundEd/internal/shared/apperr"
	"github.com/skairipa08/FundEd/internal/shared/money"
	"github.com/skairipa08/FundEd/pkg/view"
)

type CampaignService interface {
	List(ctx context.Context, in campaigns.ListParams) (campaigns.SearchResult, error)
	Get(ctx context.Context, id string) (campaigns.Detail, error)
	Mine(ctx context.Context, actor users.User) ([]campaigns.Campaign, error)
	Create(ctx context.Context, actor users.User, in campaigns.CreateInput) (campaigns.Campaign, error)
	Update(ctx context.Context, actor users.User, id string, in campaigns.UpdateInput) (campaigns.Campaign, error)
	Cancel(ctx context.Context, actor users.User, id string) error
}

// DonorWall lists the paid donations shown on a campaign.
type DonorWall interface {
	Wall(ctx context.Context, campaignID string, limit int) ([]payments.Donation, error)
}

type CampaignHandler struct {
	campaigns CampaignService
	wall      DonorWall
}

func NewCampaignHandler(svc CampaignService, wall DonorWall) *CampaignHandler {
	return &CampaignHandler{campaigns: svc, wall: wall}
}

// GET /api/campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	res, err := h.campaigns.List(c.Request.Context(), campaigns.ListParams{
		Category:     c.Query("category"),
		Search:       c.Query("search"),
		Country:      c.Query("country"),
		FieldOfStudy: c.Query("field_of_study"),
		Page:         render.IntQuery(c, "page", 1),
		Limit:        render.IntQuery(c, "limit", 12),
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.Paged(c, view.NewCampaignRows(res.Items), view.NewPagination(res.Page, res.Limit, res.Total))
}

// GET /api/campaigns/my
func (h *CampaignHandler) Mine(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	list, err := h.campaigns.Mine(c.Request.Context(), u)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, view.NewCampaigns(list))
}

// GET /api/campaigns/:id
func (h *CampaignHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	d, err := h.campaigns.Get(ctx, c.Param("id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	wall, err := h.wall.Wall(ctx, d.Campaign.ID, payments.DetailWallLimit)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, view.NewCampaignDetail(d, wall))
}

type createCampaignInput struct {
	Title        string           `json:"title" binding:"required,max=200"`
	Story        string           `json:"story" binding:"required"`
	Category     string           `json:"category" binding:"required"`
	TargetAmount *decimal.Decimal `json:"target_amount" binding:"required"`
	Timeline     string           `json:"timeline" binding:"required,max=255"`
	ImpactLog    *string          `json:"impact_log"`
	CoverImage   *string          `json:"cover_image"`
}

// POST /api/campaigns
func (h *CampaignHandler) Create(c *gin.Context) {
	var in createCampaignInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, validation.Invalid(err, &in))
		return
	}
	target, err := targetCents(in.TargetAmount)
	if err != nil {
		middleware.Fail(c, err)
		return
	}

	u, _ := middleware.CurrentUser(c)
	created, err := h.campaigns.Create(c.Request.Context(), u, campaigns.CreateInput{
		Title:       in.Title,
		Story:       in.Story,
		Category:    in.Category,
		TargetCents: target,
		Timeline:    in.Timeline,
		ImpactLog:   in.ImpactLog,
		CoverImage:  in.CoverImage,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OKMessage(c, view.NewCampaign(created), "Campaign created successfully")
}

type updateCampaignInput struct {
	Title        *string          `json:"title" binding:"omitempty,max=200"`
	Story        *string          `json:"story"`
	Category     *string          `json:"category"`
	TargetAmount *decimal.Decimal `json:"target_amount"`
	Timeline     *string          `json:"timeline" binding:"omitempty,max=255"`
	ImpactLog    *string          `json:"impact_log"`
	CoverImage   *string          `json:"cover_image"`
}

// PUT /api/campaigns/:id
func (h *CampaignHandler) Update(c *gin.Context) {
	var in updateCampaignInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, validation.Invalid(err, &in))
		return
	}
	upd := campaigns.UpdateInput{
		Title:      in.Title,
		Story:      in.Story,
		Category:   in.Category,
		Timeline:   in.Timeline,
		ImpactLog:  in.ImpactLog,
		CoverImage: in.CoverImage,
	}
	if in.TargetAmount != nil {
		target, err := targetCents(in.TargetAmount)
		if err != nil {
			middleware.Fail(c, err)
			return
		}
		upd.TargetCents = &target
	}

	u, _ := middleware.CurrentUser(c)
	updated, err := h.campaigns.Update(c.Request.Context(), u, c.Param("id"), upd)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OKMessage(c, view.NewCampaign(updated), "Campaign updated successfully")
}

// DELETE /api/campaigns/:id
func (h *CampaignHandler) Cancel(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	if err := h.campaigns.Cancel(c.Request.Context(), u, c.Param("id")); err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OKMessage(c, nil, "Campaign cancelled successfully")
}

var errTargetPrecision = apperr.InvalidErr("Target amount must have at most two decimal places",
	map[string]string{"target_amount": "At most two decimal places."})

var errTargetRange = apperr.InvalidErr("Target amount is too large",
	map[string]string{"target_amount": "Too large."})

func targetCents(d *decimal.Decimal) (int64, error) {
	cents, err := money.ToCents(*d)
	switch {
	case errors.Is(err, money.ErrTooPrecise):
		return 0, errTargetPrecision
	case errors.Is(err, money.ErrOutOfRange):
		return 0, errTargetRange
	case err != nil:
		return 0, campaigns.ErrInvalidTarget
	}
	return cents, nil
}

package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/skairipa08/FundEd/internal/http/middleware"
	"github.com/skairipa08/FundEd/internal/http/render"
	"github.com/skairipa08/FundEd/internal/http/validation"
	"github.com/skairipa08/FundEd/internal/modules/payments"
	"github.com/skairipa08/FundEd/pkg/view"
)

const HeaderIdempotencyKey = "Idempotency-Key"

type CheckoutFlow interface {
	Checkout(ctx context.Context, in payments.CheckoutInput) (payments.CheckoutResult, error)
	Status(ctx context.Context, sessionID string) (payments.TransactionStatus, error)
}

type DonationReader interface {
	Mine(ctx context.Context, donorID string) ([]payments.DonationWithCampaign, error)
	Wall(ctx context.Context, campaignID string, limit int) ([]payments.Donation, error)
}

type DonationHandler struct {
	checkout  CheckoutFlow
	donations DonationReader
}

func NewDonationHandler(checkout CheckoutFlow, donations DonationReader) *DonationHandler {
	return &DonationHandler{checkout: checkout, donations: donations}
}

type checkoutInput struct {
	CampaignID     string           `json:"campaign_id" binding:"required"`
	Amount         *decimal.Decimal `json:"amount" binding:"required"`
	DonorName      string           `json:"donor_name" binding:"max=255"`
	DonorEmail     string           `json:"donor_email" binding:"omitempty,email"`
	Anonymous      bool             `json:"anonymous"`
	OriginURL      string           `json:"origin_url"`
	IdempotencyKey string           `json:"idempotency_key" binding:"max=191"`
}

// POST /api/donations/checkout
// The idempotency key may come in the body or the Idempotency-Key header.
func (h *DonationHandler) Checkout(c *gin.Context) {
	var in checkoutInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, validation.Invalid(err, &in))
		return
	}
	key := in.IdempotencyKey
	if key == "" {
		key = c.GetHeader(HeaderIdempotencyKey)
	}

	res, err := h.checkout.Checkout(c.Request.Context(), payments.CheckoutInput{
		CampaignID:     in.CampaignID,
		Amount:         in.Amount,
		DonorName:      in.DonorName,
		DonorEmail:     in.DonorEmail,
		Anonymous:      in.Anonymous,
		OriginURL:      in.OriginURL,
		IdempotencyKey: key,
		Donor:          middleware.CurrentUserPtr(c),
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, view.Checkout{URL: res.URL, SessionID: res.SessionID})
}

// GET /api/donations/status/:session_id
func (h *DonationHandler) Status(c *gin.Context) {
	st, err := h.checkout.Status(c.Request.Context(), c.Param("session_id"))
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, view.NewTransactionStatus(st))
}

// GET /api/donations/my
func (h *DonationHandler) Mine(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	list, err := h.donations.Mine(c.Request.Context(), u.ID)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, view.NewMyDonations(list))
}

// GET /api/donations/campaign/:campaign_id
func (h *DonationHandler) Wall(c *gin.Context) {
	list, err := h.donations.Wall(c.Request.Context(), c.Param("campaign_id"), 0)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, view.NewDonorWall(list))
}

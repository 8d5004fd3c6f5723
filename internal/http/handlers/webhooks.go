package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skairipa08/FundEd/internal/http/middleware"
	"github.com/skairipa08/FundEd/internal/modules/payments"
	"github.com/skairipa08/FundEd/internal/shared/apperr"
)

const maxWebhookBody = 1 << 20

type WebhookProcessor interface {
	Handle(ctx context.Context, provider string, ev payments.WebhookEvent, rawBody []byte) (payments.Outcome, error)
}

// WebhookRecorder counts deliveries. *metrics.Metrics implements it.
type WebhookRecorder interface {
	WebhookEvent(eventType, outcome string)
}

type WebhookHandler struct {
	logger    *slog.Logger
	processor WebhookProcessor
	recorder  WebhookRecorder
	providers map[string]payments.Provider
}

// NewWebhookHandler serves POST /api/webhooks/:provider for each of the given
// providers, keyed by Name().
func NewWebhookHandler(logger *slog.Logger, processor WebhookProcessor, recorder WebhookRecorder, providers ...payments.Provider) *WebhookHandler {
	byName := make(map[string]payments.Provider, len(providers))
	for _, p := range providers {
		if p != nil {
			byName[p.Name()] = p
		}
	}
	return &WebhookHandler{logger: logger, processor: processor, recorder: recorder, providers: byName}
}

// POST /api/webhooks/:provider
// 400 tells the gateway the delivery is unusable; 500 asks it to retry.
func (h *WebhookHandler) Handle(c *gin.Context) {
	p, ok := h.providers[c.Param("provider")]
	if !ok {
		middleware.Fail(c, apperr.NotFoundErr("Unknown webhook provider"))
		return
	}
	ctx := c.Request.Context()

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody))
	if err != nil {
		h.record("", "rejected")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid body"})
		return
	}

	ev, err := p.VerifyAndParseWebhook(c.Request.Header, body)
	if err != nil {
		h.logger.WarnContext(ctx, "webhook rejected", "provider", p.Name(), "err", err)
		h.record("", "rejected")
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid signature or payload"})
		return
	}

	outcome, err := h.processor.Handle(ctx, p.Name(), ev, body)
	if err != nil {
		h.logger.ErrorContext(ctx, "webhook processing failed",
			"provider", p.Name(), "event_id", ev.EventID, "type", ev.Type, "err", err)
		h.record(ev.Type, "error")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "webhook processing failed"})
		return
	}

	h.record(ev.Type, string(outcome))
	c.JSON(http.StatusOK, gin.H{"success": true, "event_type": ev.Type, "outcome": outcome})
}

func (h *WebhookHandler) record(eventType, outcome string) {
	if h.recorder != nil {
		h.recorder.WebhookEvent(eventType, outcome)
	}
}

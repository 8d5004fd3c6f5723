package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/skairipa08/FundEd/internal/http/render"
	"github.com/skairipa08/FundEd/internal/modules/campaigns"
)

// PingFunc checks the database.
type PingFunc func(ctx context.Context) error

type MetaHandler struct {
	ping    PingFunc
	version string
}

func NewMetaHandler(ping PingFunc, version string) *MetaHandler {
	return &MetaHandler{ping: ping, version: version}
}

// GET /api
func (h *MetaHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "FundEd API", "version": h.version})
}

// GET /api/health
// Always 200; "degraded" when the database does not answer.
func (h *MetaHandler) Health(c *gin.Context) {
	status, db := "healthy", "connected"
	if h.ping == nil || h.ping(c.Request.Context()) != nil {
		status, db = "degraded", "disconnected"
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "database": db})
}

// GET /api/categories
func (h *MetaHandler) Categories(c *gin.Context) {
	render.OK(c, campaigns.Categories)
}

// GET /api/countries
func (h *MetaHandler) Countries(c *gin.Context) {
	render.OK(c, campaigns.Countries)
}

// GET /api/fields-of-study
func (h *MetaHandler) FieldsOfStudy(c *gin.Context) {
	render.OK(c, campaigns.FieldsOfStudy)
}

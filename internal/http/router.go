package apphttp

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/skairipa08/FundEd/internal/http/handlers"
	"github.com/skairipa08/FundEd/internal/http/handlers/admin"
	"github.com/skairipa08/FundEd/internal/http/middleware"
	"github.com/skairipa08/FundEd/internal/metrics"
	"github.com/skairipa08/FundEd/internal/modules/users"
)

type Deps struct {
	Logger      *slog.Logger
	Production  bool
	CORSOrigins []string
	Metrics     *metrics.Metrics
	Sessions    middleware.SessionResolver

	Auth      *handlers.AuthHandler
	Campaigns *handlers.CampaignHandler
	Donations *handlers.DonationHandler
	Webhooks  *handlers.WebhookHandler
	Uploads   *handlers.UploadHandler
	Admin     *admin.Handler
	Meta      *handlers.MetaHandler

	// LocalUploadDir is served under LocalUploadURLPrefix when uploads are
	// stored on local disk.
	LocalUploadDir       string
	LocalUploadURLPrefix string
}

func NewRouter(d Deps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	r.Use(middleware.RequestID(), middleware.Logger(d.Logger))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
	}
	r.Use(middleware.ErrorHandler(d.Logger), middleware.Recovery(d.Logger))
	if c, ok := corsConfig(d.Production, d.CORSOrigins); ok {
		r.Use(cors.New(c))
	}
	r.Use(middleware.Session(d.Sessions))

	if d.Metrics != nil {
		r.GET("/metrics", d.Metrics.Handler())
	}
	if d.LocalUploadDir != "" && d.LocalUploadURLPrefix != "" {
		r.Static(d.LocalUploadURLPrefix, d.LocalUploadDir)
	}

	api := r.Group("/api")
	api.GET("", d.Meta.Root)
	api.GET("/health", d.Meta.Health)
	api.GET("/categories", d.Meta.Categories)
	api.GET("/countries", d.Meta.Countries)
	api.GET("/fields-of-study", d.Meta.FieldsOfStudy)

	authed := middleware.RequireAuth()
	adminOnly := middleware.RequireRole(users.RoleAdmin)

	a := api.Group("/auth")
	a.GET("/config", d.Auth.Config)
	a.POST("/google/callback", d.Auth.GoogleCallback)
	a.GET("/me", authed, d.Auth.Me)
	a.POST("/logout", d.Auth.Logout)

	c := api.Group("/campaigns")
	c.GET("", d.Campaigns.List)
	c.GET("/my", middleware.RequireRole(users.RoleStudent, users.RoleAdmin), d.Campaigns.Mine)
	c.GET("/:id", d.Campaigns.Get)
	c.POST("", middleware.RequireRole(users.RoleStudent), d.Campaigns.Create)
	c.PUT("/:id", authed, d.Campaigns.Update)
	c.DELETE("/:id", authed, d.Campaigns.Cancel)

	dn := api.Group("/donations")
	dn.POST("/checkout", d.Donations.Checkout)
	dn.GET("/status/:session_id", d.Donations.Status)
	dn.GET("/my", authed, d.Donations.Mine)
	dn.GET("/campaign/:campaign_id", d.Donations.Wall)

	api.POST("/webhooks/:provider", d.Webhooks.Handle)

	up := api.Group("/uploads", authed)
	up.GET("/config", d.Uploads.Config)
	up.POST("/image", d.Uploads.Image)
	up.POST("/document", d.Uploads.Document)
	up.DELETE("/*public_id", d.Uploads.Delete)

	ad := api.Group("/admin")
	ad.POST("/students/profile", authed, d.Admin.CreateProfile)
	ad.GET("/students/pending", adminOnly, d.Admin.PendingStudents)
	ad.PUT("/students/:user_id/verify", adminOnly, d.Admin.VerifyStudent)
	ad.GET("/stats", adminOnly, d.Admin.Stats)
	ad.GET("/users", adminOnly, d.Admin.ListUsers)
	ad.PUT("/users/:user_id/role", adminOnly, d.Admin.ChangeRole)
	ad.DELETE("/users/:user_id", adminOnly, d.Admin.DeleteUser)
	ad.GET("/campaigns", adminOnly, d.Admin.ListCampaigns)
	ad.PUT("/campaigns/:id/status", adminOnly, d.Admin.SetCampaignStatus)

	return r
}

// corsConfig allows any origin outside production. In production only the
// configured origins are allowed, and CORS is off when there are none.
func corsConfig(production bool, origins []string) (cors.Config, bool) {
	c := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Stripe-Signature", "Idempotency-Key", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"Content-Length", middleware.HeaderRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if !production {
		c.AllowOriginFunc = func(string) bool { return true }
		return c, true
	}
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	c.AllowOrigins = origins
	return c, true
}

package handlers

import (
	"context"
	"io"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/skairipa08/FundEd/internal/http/middleware"
	"github.com/skairipa08/FundEd/internal/http/render"
	"github.com/skairipa08/FundEd/internal/modules/uploads"
	"github.com/skairipa08/FundEd/internal/modules/users"
	"github.com/skairipa08/FundEd/internal/shared/apperr"
	"github.com/skairipa08/FundEd/internal/storage"
	"github.com/skairipa08/FundEd/pkg/view"
)

type UploadService interface {
	DirectConfig(actor users.User) (storage.DirectUpload, error)
	UploadImage(ctx context.Context, actor users.User, r io.Reader, filename, folder string) (uploads.Uploaded, error)
	UploadDocument(ctx context.Context, actor users.User, r io.Reader, filename, docType string) (uploads.Uploaded, error)
	Delete(ctx context.Context, actor users.User, publicID string) error
}

var errFileRequired = apperr.InvalidErr("file is required", map[string]string{"file": "This field is required."})

type UploadHandler struct {
	uploads UploadService
}

func NewUploadHandler(svc UploadService) *UploadHandler {
	return &UploadHandler{uploads: svc}
}

// GET /api/uploads/config
func (h *UploadHandler) Config(c *gin.Context) {
	u, _ := middleware.CurrentUser(c)
	cfg, err := h.uploads.DirectConfig(u)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, view.NewDirectUpload(cfg))
}

// POST /api/uploads/image
func (h *UploadHandler) Image(c *gin.Context) {
	h.upload(c, func(ctx context.Context, u users.User, r io.Reader, filename string) (uploads.Uploaded, error) {
		return h.uploads.UploadImage(ctx, u, r, filename, c.PostForm("folder"))
	}, "Image uploaded successfully")
}

// POST /api/uploads/document
func (h *UploadHandler) Document(c *gin.Context) {
	h.upload(c, func(ctx context.Context, u users.User, r io.Reader, filename string) (uploads.Uploaded, error) {
		return h.uploads.UploadDocument(ctx, u, r, filename, c.PostForm("doc_type"))
	}, "Document uploaded successfully")
}

type uploadFunc func(ctx context.Context, u users.User, r io.Reader, filename string) (uploads.Uploaded, error)

func (h *UploadHandler) upload(c *gin.Context, do uploadFunc, msg string) {
	fh, err := c.FormFile("file")
	if err != nil {
		middleware.Fail(c, errFileRequired)
		return
	}
	f, err := fh.Open()
	if err != nil {
		middleware.Fail(c, apperr.Wrap(err))
		return
	}
	defer f.Close()

	u, _ := middleware.CurrentUser(c)
	res, err := do(c.Request.Context(), u, f, fh.Filename)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OKMessage(c, view.NewUpload(res), msg)
}

// DELETE /api/uploads/*public_id
func (h *UploadHandler) Delete(c *gin.Context) {
	publicID := strings.TrimPrefix(c.Param("public_id"), "/")
	u, _ := middleware.CurrentUser(c)
	if err := h.uploads.Delete(c.Request.Context(), u, publicID); err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OKMessage(c, nil, "File deleted successfully")
}

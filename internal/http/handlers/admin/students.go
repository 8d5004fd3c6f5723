package admin

import (
	"github.com/gin-gonic/gin"

	"github.com/skairipa08/FundEd/internal/http/middleware"
	"github.com/skairipa08/FundEd/internal/http/render"
	"github.com/skairipa08/FundEd/internal/http/validation"
	"github.com/skairipa08/FundEd/internal/modules/users"
	"github.com/skairipa08/FundEd/pkg/view"
)

type documentInput struct {
	Type     string `json:"type" binding:"required"`
	URL      string `json:"url" binding:"required,url"`
	PublicID string `json:"public_id"`
}

type profileInput struct {
	Country      string          `json:"country" binding:"required,max=128"`
	FieldOfStudy string          `json:"field_of_study" binding:"required,max=128"`
	University   string          `json:"university" binding:"required,max=255"`
	Documents    []documentInput `json:"verification_documents" binding:"omitempty,dive"`
}

// POST /api/admin/students/profile
// Any signed-in user may apply; the account becomes a pending student.
func (h *Handler) CreateProfile(c *gin.Context) {
	var in profileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, validation.Invalid(err, &in))
		return
	}
	docs := make([]users.Document, 0, len(in.Documents))
	for _, d := range in.Documents {
		docs = append(docs, users.Document{Type: d.Type, URL: d.URL, PublicID: d.PublicID})
	}

	u, _ := middleware.CurrentUser(c)
	p, err := h.accounts.CreateProfile(c.Request.Context(), u.ID, users.ProfileInput{
		Country:      in.Country,
		FieldOfStudy: in.FieldOfStudy,
		University:   in.University,
		Documents:    docs,
	})
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OKMessage(c, view.NewStudentProfile(p), "Student profile created. Pending verification.")
}

// GET /api/admin/students/pending
func (h *Handler) PendingStudents(c *gin.Context) {
	list, err := h.accounts.PendingStudents(c.Request.Context())
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OK(c, view.NewPendingStudents(list))
}

type verifyInput struct {
	Action string `json:"action" binding:"required"`
	Reason string `json:"reason" binding:"max=512"`
}

// PUT /api/admin/students/:user_id/verify
func (h *Handler) VerifyStudent(c *gin.Context) {
	var in verifyInput
	if err := c.ShouldBindJSON(&in); err != nil {
		middleware.Fail(c, validation.Invalid(err, &in))
		return
	}
	p, err := h.accounts.VerifyStudent(c.Request.Context(), c.Param("user_id"), in.Action, in.Reason)
	if err != nil {
		middleware.Fail(c, err)
		return
	}
	render.OKMessage(c, view.NewStudentProfile(p), "Student "+p.VerificationStatus)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-managebooks/internal/application"
	"github.com/oksasatya/go-managebooks/pkg/response"
)

type AssessmentHandler struct {
	Svc    *application.AssessmentService
	Logger *logrus.Logger
}

func NewAssessmentHandler(svc *application.AssessmentService, logger *logrus.Logger) *AssessmentHandler {
	return &AssessmentHandler{Svc: svc, Logger: logger}
}

type createAssessmentRequest struct {
	UserID      string `json:"user_id" binding:"refid"`
	BookID      string `json:"book_id" binding:"refid"`
	Note        int    `json:"note"`
	Description string `json:"description"`
}

type updateAssessmentRequest struct {
	Note        *int    `json:"note"`
	Description *string `json:"description"`
}

func (h *AssessmentHandler) Create(c *gin.Context) {
	var req createAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		badRequest(c, err)
		return
	}
	bookID, err := uuid.Parse(req.BookID)
	if err != nil {
		badRequest(c, err)
		return
	}
	a, err := h.Svc.CreateAssessment(c.Request.Context(), application.CreateAssessmentInput{
		UserID:      userID,
		BookID:      bookID,
		Note:        req.Note,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, a, "assessment created", nil)
}

func (h *AssessmentHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	a, err := h.Svc.GetAssessment(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, a, "assessment", nil)
}

func (h *AssessmentHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	a, err := h.Svc.UpdateAssessment(c.Request.Context(), id, application.UpdateAssessmentInput{
		Note:        req.Note,
		Description: req.Description,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, a, "assessment updated", nil)
}

func (h *AssessmentHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteAssessment(c.Request.Context(), id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}

// ListByBook serves GET /books/:id/assessments.
func (h *AssessmentHandler) ListByBook(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	list, err := h.Svc.ListAssessmentsByBook(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "assessments", nil)
}

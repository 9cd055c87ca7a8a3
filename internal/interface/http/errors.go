package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-managebooks/internal/application"
	"github.com/oksasatya/go-managebooks/internal/domain/exception"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
	"github.com/oksasatya/go-managebooks/pkg/response"
	"github.com/oksasatya/go-managebooks/pkg/validation"
)

// writeError maps service errors onto HTTP statuses. Domain validation
// messages are returned verbatim.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case exception.IsValidation(err):
		response.Fail(c, http.StatusUnprocessableEntity, err.Error(), nil)
	case application.IsNotFound(err):
		response.Fail(c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, application.ErrUserInactive):
		response.Fail(c, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, application.ErrStorageDisabled):
		response.Fail(c, http.StatusServiceUnavailable, err.Error(), nil)
	default:
		logger.WithError(err).
			WithField("request_id", c.GetString(response.RequestIDKey)).
			WithField("path", c.FullPath()).
			Error("request failed")
		response.Fail(c, http.StatusInternalServerError, "internal server error", nil)
	}
}

func badRequest(c *gin.Context, err error) {
	response.Fail(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
}

// pathID parses the :id route parameter and answers 400 when it is malformed.
func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid id", map[string]string{"id": "must be a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

type searchQuery struct {
	Page    int    `form:"page" json:"page" binding:"omitempty,min=1"`
	PerPage int    `form:"per_page" json:"per_page" binding:"omitempty,min=1,max=100"`
	Search  string `form:"search" json:"search"`
	OrderBy string `form:"order_by" json:"order_by"`
	Order   string `form:"order" json:"order" binding:"sortorder"`
}

func (q searchQuery) input() seedwork.SearchInput {
	return seedwork.SearchInput{
		Page:    q.Page,
		PerPage: q.PerPage,
		Search:  q.Search,
		OrderBy: q.OrderBy,
		Order:   seedwork.ParseSearchOrder(q.Order),
	}.Normalize()
}

type pageMeta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	LastPage    int `json:"last_page"`
}

func metaOf[T any](out seedwork.SearchOutput[T]) pageMeta {
	last := 1
	if out.PerPage > 0 && out.Total > 0 {
		last = (out.Total + out.PerPage - 1) / out.PerPage
	}
	return pageMeta{CurrentPage: out.CurrentPage, PerPage: out.PerPage, Total: out.Total, LastPage: last}
}

package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-managebooks/internal/application"
	"github.com/oksasatya/go-managebooks/pkg/response"
)

const maxCoverBytes = 5 << 20

type BookHandler struct {
	Svc    *application.BookService
	Logger *logrus.Logger
}

func NewBookHandler(svc *application.BookService, logger *logrus.Logger) *BookHandler {
	return &BookHandler{Svc: svc, Logger: logger}
}

type createBookRequest struct {
	Title             string `json:"title"`
	Description       string `json:"description"`
	ISBN              string `json:"isbn"`
	Author            string `json:"author"`
	PublishingCompany string `json:"publishing_company"`
	Genre             string `json:"genre"`
	YearOfPublication int    `json:"year_of_publication"`
	NumberOfPages     int    `json:"number_of_pages"`
}

type updateBookRequest struct {
	Title             *string `json:"title"`
	Description       *string `json:"description"`
	ISBN              *string `json:"isbn"`
	Author            *string `json:"author"`
	PublishingCompany *string `json:"publishing_company"`
	Genre             *string `json:"genre"`
	YearOfPublication *int    `json:"year_of_publication"`
	NumberOfPages     *int    `json:"number_of_pages"`
}

func (h *BookHandler) Create(c *gin.Context) {
	var req createBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Svc.CreateBook(c.Request.Context(), application.CreateBookInput{
		Title:             req.Title,
		Description:       req.Description,
		ISBN:              req.ISBN,
		Author:            req.Author,
		PublishingCompany: req.PublishingCompany,
		Genre:             req.Genre,
		YearOfPublication: req.YearOfPublication,
		NumberOfPages:     req.NumberOfPages,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, b, "book created", nil)
}

func (h *BookHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	b, err := h.Svc.GetBook(c.Request.Context(), id)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, b, "book", nil)
}

func (h *BookHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req updateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.Svc.UpdateBook(c.Request.Context(), id, application.UpdateBookInput{
		Title:             req.Title,
		Description:       req.Description,
		ISBN:              req.ISBN,
		Author:            req.Author,
		PublishingCompany: req.PublishingCompany,
		Genre:             req.Genre,
		YearOfPublication: req.YearOfPublication,
		NumberOfPages:     req.NumberOfPages,
	})
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, b, "book updated", nil)
}

func (h *BookHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteBook(c.Request.Context(), id); err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.NoContent(c)
}

func (h *BookHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.Svc.SearchBooks(c.Request.Context(), q.input())
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, out.Items, "books", metaOf(out))
}

// UploadCover accepts a multipart "cover" image of at most 5 MiB.
func (h *BookHandler) UploadCover(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	fh, err := c.FormFile("cover")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "invalid payload", map[string]string{"cover": "is required"})
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		response.Fail(c, http.StatusBadRequest, "invalid payload", map[string]string{"cover": "must be an image"})
		return
	}
	if fh.Size > maxCoverBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, "cover too large", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	defer func() { _ = f.Close() }()

	b, err := h.Svc.UploadCover(c.Request.Context(), id, fh.Filename, contentType, f)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, b, "cover uploaded", nil)
}

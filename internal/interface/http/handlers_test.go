package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/suite"

	"github.com/oksasatya/go-managebooks/internal/application"
	"github.com/oksasatya/go-managebooks/internal/domain/seedwork"
	"github.com/oksasatya/go-managebooks/internal/infrastructure/memory"
	"github.com/oksasatya/go-managebooks/pkg/validation"
)

type envelope struct {
	Status  int               `json:"status"`
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Meta    map[string]int    `json:"meta"`
	Error   map[string]string `json:"error"`
}

type HandlersSuite struct {
	suite.Suite
	engine *gin.Engine
}

func TestHandlersSuite(t *testing.T) {
	suite.Run(t, new(HandlersSuite))
}

func (s *HandlersSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	validation.Init()
}

func (s *HandlersSuite) SetupTest() {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store := memory.NewStore()
	svc := application.NewServices(application.Deps{
		UoW:         memory.NewUnitOfWork(store),
		Users:       memory.NewUserRepository(store),
		Books:       memory.NewBookRepository(store),
		Assessments: memory.NewAssessmentRepository(store),
		Clock:       seedwork.FixedClock(time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)),
		Logger:      logger,
	})

	users := NewUserHandler(svc.Users, logger)
	books := NewBookHandler(svc.Books, logger)
	assessments := NewAssessmentHandler(svc.Assessments, logger)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/users", users.List)
	api.POST("/users", users.Create)
	api.GET("/users/:id", users.Get)
	api.PATCH("/users/:id", users.Update)
	api.POST("/users/:id/deactivate", users.Deactivate)
	api.POST("/users/:id/activate", users.Activate)
	api.DELETE("/users/:id", users.Delete)
	api.GET("/books", books.Search)
	api.POST("/books", books.Create)
	api.GET("/books/:id", books.Get)
	api.PATCH("/books/:id", books.Update)
	api.DELETE("/books/:id", books.Delete)
	api.PUT("/books/:id/cover", books.UploadCover)
	api.GET("/books/:id/assessments", assessments.ListByBook)
	api.POST("/assessments", assessments.Create)
	api.GET("/assessments/:id", assessments.Get)
	api.PATCH("/assessments/:id", assessments.Update)
	api.DELETE("/assessments/:id", assessments.Delete)
	s.engine = r
}

func (s *HandlersSuite) do(method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		s.Require().NoError(err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func (s *HandlersSuite) createUser(email string) application.UserView {
	w, env := s.do(http.MethodPost, "/api/users", map[string]any{"email": email, "name": "Reader"})
	s.Require().Equal(http.StatusCreated, w.Code)
	var u application.UserView
	s.Require().NoError(json.Unmarshal(env.Data, &u))
	return u
}

func (s *HandlersSuite) createBook(isbn string) application.BookView {
	w, env := s.do(http.MethodPost, "/api/books", map[string]any{
		"title":               "Dune",
		"description":         "Spice and sand.",
		"isbn":                isbn,
		"author":              "Frank Herbert",
		"publishing_company":  "Chilton Books",
		"genre":               "Scifi",
		"year_of_publication": 1965,
		"number_of_pages":     412,
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var b application.BookView
	s.Require().NoError(json.Unmarshal(env.Data, &b))
	return b
}

func (s *HandlersSuite) TestCreateUser() {
	u := s.createUser("reader@example.com")
	s.Equal("reader@example.com", u.Email)
	s.True(u.IsActive)

	w, env := s.do(http.MethodGet, "/api/users/"+u.ID.String(), nil)
	s.Equal(http.StatusOK, w.Code)
	s.True(env.Success)
}

func (s *HandlersSuite) TestDomainValidationIs422() {
	w, env := s.do(http.MethodPost, "/api/users", map[string]any{"email": "not-an-email", "name": "Reader"})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("Email should be a valid email", env.Message)
	s.False(env.Success)
}

func (s *HandlersSuite) TestMalformedJSONIs400() {
	w, env := s.do(http.MethodPost, "/api/users", `{"email": }`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("invalid json", env.Error["payload"])

	w, env = s.do(http.MethodPost, "/api/books", `{"number_of_pages":"many"}`)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("must be of type int", env.Error["number_of_pages"])
}

func (s *HandlersSuite) TestBadIDAndNotFound() {
	w, env := s.do(http.MethodGet, "/api/users/42", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("invalid id", env.Message)

	w, env = s.do(http.MethodGet, "/api/books/4b1c8a52-8f5e-4f2e-9a57-0c0f4d6f9b10", nil)
	s.Equal(http.StatusNotFound, w.Code)
	s.Equal("book not found", env.Message)
}

func (s *HandlersSuite) TestPartialUpdateKeepsOtherFields() {
	b := s.createBook("978-0441172719")

	w, env := s.do(http.MethodPatch, "/api/books/"+b.ID.String(), map[string]any{"number_of_pages": 500})
	s.Require().Equal(http.StatusOK, w.Code)
	var got application.BookView
	s.Require().NoError(json.Unmarshal(env.Data, &got))
	s.Equal(500, got.NumberOfPages)
	s.Equal("Dune", got.Title)

	w, env = s.do(http.MethodPatch, "/api/books/"+b.ID.String(), map[string]any{"number_of_pages": 5})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("NumberOfPages should not be less than 10 value", env.Message)
}

func (s *HandlersSuite) TestDuplicateISBN() {
	s.createBook("978-0441172719")
	w, env := s.do(http.MethodPost, "/api/books", map[string]any{
		"title": "Dune Messiah", "description": "Sequel.", "isbn": "978-0441172719",
		"author": "Frank Herbert", "publishing_company": "Putnam", "genre": "scifi",
		"year_of_publication": 1969, "number_of_pages": 256,
	})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("ISBN should be unique", env.Message)
}

func (s *HandlersSuite) TestSearchBooksPaginates() {
	s.createBook("isbn-1")
	s.createBook("isbn-2")
	s.createBook("isbn-3")

	w, env := s.do(http.MethodGet, "/api/books?per_page=2&page=2", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal(3, env.Meta["total"])
	s.Equal(2, env.Meta["last_page"])
	var items []application.BookView
	s.Require().NoError(json.Unmarshal(env.Data, &items))
	s.Len(items, 1)

	w, env = s.do(http.MethodGet, "/api/books?order=sideways", nil)
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(env.Error, "order")
}

func (s *HandlersSuite) TestAssessmentFlow() {
	u := s.createUser("reader@example.com")
	b := s.createBook("978-0441172719")

	w, env := s.do(http.MethodPost, "/api/assessments", map[string]any{
		"user_id": u.ID, "book_id": b.ID, "note": 4, "description": "Great",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var a application.AssessmentView
	s.Require().NoError(json.Unmarshal(env.Data, &a))
	s.Equal("4", a.Book.AverageGrade.String())

	w, env = s.do(http.MethodGet, "/api/books/"+b.ID.String()+"/assessments", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var list []application.AssessmentSummary
	s.Require().NoError(json.Unmarshal(env.Data, &list))
	s.Len(list, 1)

	w, env = s.do(http.MethodPatch, "/api/assessments/"+a.ID.String(), map[string]any{"note": 9})
	s.Equal(http.StatusUnprocessableEntity, w.Code)
	s.Equal("Note should not be greater than 5 value", env.Message)

	w, _ = s.do(http.MethodDelete, "/api/assessments/"+a.ID.String(), nil)
	s.Equal(http.StatusNoContent, w.Code)
}

func (s *HandlersSuite) TestAssessmentRequiresValidRefs() {
	w, env := s.do(http.MethodPost, "/api/assessments", map[string]any{"user_id": "nope", "note": 4, "description": "x"})
	s.Equal(http.StatusBadRequest, w.Code)
	s.Equal("must be a valid UUID", env.Error["user_id"])
	s.Equal("is required", env.Error["book_id"])
}

func (s *HandlersSuite) TestInactiveUserCannotAssess() {
	u := s.createUser("reader@example.com")
	b := s.createBook("978-0441172719")

	w, _ := s.do(http.MethodPost, "/api/users/"+u.ID.String()+"/deactivate", nil)
	s.Require().Equal(http.StatusOK, w.Code)

	w, env := s.do(http.MethodPost, "/api/assessments", map[string]any{
		"user_id": u.ID, "book_id": b.ID, "note": 4, "description": "Great",
	})
	s.Equal(http.StatusConflict, w.Code)
	s.Equal("user is inactive", env.Message)
}

func (s *HandlersSuite) TestUploadCoverWithoutStorage() {
	b := s.createBook("978-0441172719")

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="cover"; filename="dune.png"`)
	hdr.Set("Content-Type", "image/png")
	part, err := mw.CreatePart(hdr)
	s.Require().NoError(err)
	_, _ = part.Write([]byte("\x89PNG"))
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/books/"+b.ID.String()+"/cover", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	s.Equal(http.StatusServiceUnavailable, w.Code)
}

func (s *HandlersSuite) TestUploadCoverRejectsNonImage() {
	b := s.createBook("978-0441172719")

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("cover", "notes.txt")
	s.Require().NoError(err)
	_, _ = part.Write([]byte("hello"))
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/books/"+b.ID.String()+"/cover", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	s.Equal(http.StatusBadRequest, w.Code)
}

func (s *HandlersSuite) TestDeleteUser() {
	u := s.createUser("reader@example.com")

	w, _ := s.do(http.MethodDelete, "/api/users/"+u.ID.String(), nil)
	s.Equal(http.StatusNoContent, w.Code)

	w, _ = s.do(http.MethodGet, "/api/users/"+u.ID.String(), nil)
	s.Equal(http.StatusNotFound, w.Code)
}

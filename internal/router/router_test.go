package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-managebooks/config"
	"github.com/oksasatya/go-managebooks/internal/container"
	"github.com/oksasatya/go-managebooks/internal/infrastructure/memory"
	"github.com/oksasatya/go-managebooks/pkg/validation"
)

func newTestEngine(t *testing.T, debug bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	container.SetConfig(&config.Config{StorageDriver: config.StorageDriverMemory, DebugMetricsEnabled: debug})
	container.SetLogger(logger)

	r := gin.New()
	reg := NewRegistry(r)
	InitModules(reg)
	reg.RegisterAll()
	return r
}

func TestBuildDepsFallsBackToMemory(t *testing.T) {
	container.SetConfig(&config.Config{})
	d := BuildDeps()

	assert.IsType(t, &memory.UnitOfWork{}, d.UoW)
	assert.Nil(t, d.Cache)
	assert.Nil(t, d.Index)
	assert.Nil(t, d.Storage)
	assert.Nil(t, d.Events)
}

func TestRoutesAreMounted(t *testing.T) {
	r := newTestEngine(t, true)

	cases := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/users", http.StatusOK},
		{http.MethodGet, "/api/books", http.StatusOK},
		{http.MethodGet, "/api/books/not-a-uuid/assessments", http.StatusBadRequest},
		{http.MethodGet, "/api/assessments/2d3c5b9e-0f6a-4c1e-8a2b-7e9d1f3a5c60", http.StatusNotFound},
		{http.MethodGet, "/api/debug/vars", http.StatusOK},
		{http.MethodGet, "/api/nothing", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
			assert.Equal(t, tc.want, w.Code)
		})
	}
}

func TestDebugModuleIsOptional(t *testing.T) {
	r := newTestEngine(t, false)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/debug/vars", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateUserThroughRouter(t *testing.T) {
	r := newTestEngine(t, false)

	body := strings.NewReader(`{"email":"reader@example.com","name":"Reader"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/users", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"email":"reader@example.com"`)
}

type stubModule struct {
	name  string
	calls *[]string
}

func (m stubModule) Name() string { return m.name }

func (m stubModule) Register(rg *gin.RouterGroup) {
	*m.calls = append(*m.calls, m.name)
	rg.GET("/"+m.name, func(c *gin.Context) { c.Status(http.StatusTeapot) })
}

func TestRegistryMountsOnce(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var calls []string
	reg := NewRegistry(gin.New())
	reg.Add(stubModule{name: "a", calls: &calls}, stubModule{name: "b", calls: &calls})

	assert.Equal(t, []string{"a", "b"}, reg.Modules())

	reg.RegisterAll()
	reg.RegisterAll()
	assert.Equal(t, []string{"a", "b"}, calls)

	w := httptest.NewRecorder()
	reg.Engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/b", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}

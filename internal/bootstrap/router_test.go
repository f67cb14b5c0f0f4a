package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tghttp "github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/http"
	"github.com/StevenVC-P/phpTemplateGenerator/internal/template_generation/service"
)

func TestBuildRouter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	p, err := service.NewPipeline(service.Deps{OutDir: t.TempDir()})
	require.NoError(t, err)

	r := BuildRouter(RouterDeps{
		ServiceName: "template-generator",
		Version:     "test",
		Templates:   tghttp.New(tghttp.Deps{Pipeline: p}),
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/templates/review", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/templates/runs/x", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

func TestSetGinMode(t *testing.T) {
	defer gin.SetMode(gin.TestMode)

	SetGinMode("production")
	assert.Equal(t, gin.ReleaseMode, gin.Mode())
	SetGinMode("test")
	assert.Equal(t, gin.TestMode, gin.Mode())
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newSwaggerRouter(cfg SwaggerConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/swagger/index.html", SwaggerProtection(cfg, nil), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestSwaggerDisabledAnswers404(t *testing.T) {
	r := newSwaggerRouter(SwaggerConfig{Enabled: false})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSwaggerIPWhitelist(t *testing.T) {
	r := newSwaggerRouter(SwaggerConfig{Enabled: true, AllowedIPs: []string{"10.0.0.0/8"}})

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.RemoteAddr = "192.168.1.1:5555"
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleBody struct {
	LoanAccountID string `json:"loanAccountId" binding:"required"`
	Size          int    `json:"size" binding:"required,gte=1"`
}

func TestFormatValidationErrorsUsesJSONFieldNames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	SetupValidator()

	r := gin.New()
	r.POST("/submit", func(c *gin.Context) {
		var body sampleBody
		if err := c.ShouldBindJSON(&body); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/submit",
		strings.NewReader(`{"size": 0}`)))

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "loanAccountId")
	assert.Contains(t, w.Body.String(), "request validation failed")
	assert.NotContains(t, w.Body.String(), "LoanAccountID")
}

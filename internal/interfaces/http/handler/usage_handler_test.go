package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/controlroom/backend/internal/interfaces/http/middleware"
)

func bindCheckLimit(t *testing.T, body string) (CheckLimitRequest, error) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/usage/check", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req CheckLimitRequest
	err := c.ShouldBindJSON(&req)
	return req, err
}

func TestCheckLimitRequestBinding(t *testing.T) {
	t.Run("binds the type field", func(t *testing.T) {
		req, err := bindCheckLimit(t, `{"type":"aiHelper"}`)
		require.NoError(t, err)
		assert.Equal(t, "aiHelper", req.ResourceType)
	})

	t.Run("unknown resource type fails", func(t *testing.T) {
		_, err := bindCheckLimit(t, `{"type":"widgets"}`)
		assert.Error(t, err)
	})

	t.Run("missing type fails", func(t *testing.T) {
		_, err := bindCheckLimit(t, `{"resource_type":"agents"}`)
		assert.Error(t, err)
	})
}

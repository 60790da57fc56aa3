package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type planPayload struct {
	Plan string `json:"plan" binding:"required,plan"`
}

func bindPlan(t *testing.T, body string) error {
	t.Helper()
	gin.SetMode(gin.TestMode)
	SetupValidator()

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	var req planPayload
	return c.ShouldBindJSON(&req)
}

func TestPlanBindingTag(t *testing.T) {
	t.Run("known plan passes", func(t *testing.T) {
		assert.NoError(t, bindPlan(t, `{"plan":"beginner"}`))
	})

	t.Run("unknown plan fails", func(t *testing.T) {
		assert.Error(t, bindPlan(t, `{"plan":"platinum"}`))
	})

	t.Run("missing plan fails", func(t *testing.T) {
		assert.Error(t, bindPlan(t, `{}`))
	})
}

func TestFormatValidationErrors(t *testing.T) {
	t.Run("names the failing field by json tag", func(t *testing.T) {
		err := bindPlan(t, `{"plan":"platinum"}`)
		msg := FormatValidationErrors(err)
		assert.Contains(t, msg, "plan")
		assert.Contains(t, msg, "not a known plan")
	})

	t.Run("malformed json gets a generic message", func(t *testing.T) {
		err := bindPlan(t, `{"plan":`)
		assert.Equal(t, "Invalid request body", FormatValidationErrors(err))
	})

	t.Run("arbitrary errors get a generic message", func(t *testing.T) {
		assert.Equal(t, "Invalid request body", FormatValidationErrors(errors.New("boom")))
	})
}

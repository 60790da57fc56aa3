package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/controlroom/backend/internal/infrastructure/config"
)

func referralRequest(t *testing.T, target string, track func(c *gin.Context, code string) bool) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &config.CookieConfig{Path: "/", SameSite: "lax"}
	router := gin.New()
	router.Use(ReferralTracking(cfg, track))
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func refCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == RefCodeCookie {
			return ck
		}
	}
	return nil
}

func TestReferralTracking(t *testing.T) {
	t.Run("tracked click sets attribution cookie", func(t *testing.T) {
		var seen string
		w := referralRequest(t, "/?ref=PARTNER1", func(_ *gin.Context, code string) bool {
			seen = code
			return true
		})

		assert.Equal(t, "PARTNER1", seen)
		cookie := refCookie(w)
		if assert.NotNil(t, cookie) {
			assert.Equal(t, "PARTNER1", cookie.Value)
			assert.True(t, cookie.HttpOnly)
			assert.Greater(t, cookie.MaxAge, 0)
		}
	})

	t.Run("rejected code sets no cookie", func(t *testing.T) {
		w := referralRequest(t, "/?ref=BOGUS", func(_ *gin.Context, _ string) bool {
			return false
		})
		assert.Nil(t, refCookie(w))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no ref parameter skips tracking entirely", func(t *testing.T) {
		called := false
		w := referralRequest(t, "/", func(_ *gin.Context, _ string) bool {
			called = true
			return true
		})
		assert.False(t, called)
		assert.Nil(t, refCookie(w))
	})
}

func TestGetRefCode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("reads cookie", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/signup", nil)
		c.Request.AddCookie(&http.Cookie{Name: RefCodeCookie, Value: "PARTNER1"})

		assert.Equal(t, "PARTNER1", GetRefCode(c))
	})

	t.Run("empty when absent", func(t *testing.T) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/signup", nil)

		assert.Equal(t, "", GetRefCode(c))
	})
}

func TestClearRefCode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.CookieConfig{Path: "/", SameSite: "lax"}

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/signup", nil)

	ClearRefCode(c, cfg)

	cookie := refCookie(w)
	if assert.NotNil(t, cookie) {
		assert.Less(t, cookie.MaxAge, 0)
	}
}

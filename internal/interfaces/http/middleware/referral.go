package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/controlroom/backend/internal/domain/affiliate"
	"github.com/controlroom/backend/internal/infrastructure/config"
)

// RefCodeCookie carries the referral attribution from click to signup
const RefCodeCookie = "ref_code"

// ReferralTracking attributes landing-page clicks that carry a
// ?ref=CODE query parameter. Valid codes set the attribution cookie;
// unknown or unapproved codes are ignored without any signal to the
// visitor.
func ReferralTracking(cfg *config.CookieConfig, trackClick func(c *gin.Context, code string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.Query("ref")
		if code == "" {
			c.Next()
			return
		}

		if trackClick(c, code) {
			c.SetSameSite(parseSameSite(cfg.SameSite))
			c.SetCookie(RefCodeCookie, code,
				int(affiliate.ReferralCookieTTL.Seconds()),
				cfg.Path, cfg.Domain, cfg.Secure, true)
		}
		c.Next()
	}
}

// GetRefCode returns the referral attribution cookie value, or ""
func GetRefCode(c *gin.Context) string {
	code, err := c.Cookie(RefCodeCookie)
	if err != nil {
		return ""
	}
	return code
}

// ClearRefCode removes the attribution cookie after conversion
func ClearRefCode(c *gin.Context, cfg *config.CookieConfig) {
	c.SetSameSite(parseSameSite(cfg.SameSite))
	c.SetCookie(RefCodeCookie, "", -1, cfg.Path, cfg.Domain, cfg.Secure, true)
}

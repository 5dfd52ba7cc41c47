package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const contextKey = "rollbook_session"

// Require is gin middleware gating every authenticated screen. Requests
// without a resolvable session are redirected to the login page.
func Require(m *Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, _ := c.Cookie(m.CookieName())
		s, err := m.Current(c.Request.Context(), cookie)
		if err != nil {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Set(contextKey, s)
		c.Next()
	}
}

// FromContext returns the session the middleware attached to the request.
func FromContext(c *gin.Context) (Session, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return Session{}, false
	}
	s, ok := v.(Session)
	return s, ok
}

// SetCookie writes the signed session cookie.
func SetCookie(c *gin.Context, m *Manager, value string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.CookieName(), value, int(m.TTL().Seconds()), "/", "", m.Secure(), true)
}

// ClearCookie expires the session cookie.
func ClearCookie(c *gin.Context, m *Manager) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(m.CookieName(), "", -1, "/", "", m.Secure(), true)
}

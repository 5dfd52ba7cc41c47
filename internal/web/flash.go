package web

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
)

const flashCookie = "rollbook_flash"

// Flash is a one-shot notification surfaced on the next rendered page, the
// server-side stand-in for the SPA's toasts.
type Flash struct {
	Kind    string // "ok" or "error"
	Message string
}

func setFlash(c *gin.Context, kind, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, url.QueryEscape(kind+"|"+message), 60, "/", "", false, true)
}

func takeFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	decoded, err := url.QueryUnescape(raw)
	if err != nil {
		return nil
	}
	for i := 0; i < len(decoded); i++ {
		if decoded[i] == '|' {
			return &Flash{Kind: decoded[:i], Message: decoded[i+1:]}
		}
	}
	return &Flash{Kind: "ok", Message: decoded}
}

package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// RealIPKey is the context key RealIP writes the resolved client address to.
const RealIPKey = "real_ip"

// proxyHeaders are consulted in order; the first parseable address wins.
var proxyHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

// RealIP resolves the client address from proxy headers and stores it under
// RealIPKey. Requests without a usable header fall back to gin's ClientIP.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := headerIP(c.Request.Header.Get)
		if ip == "" {
			ip = c.ClientIP()
		}
		c.Set(RealIPKey, ip)
		c.Next()
	}
}

func headerIP(get func(string) string) string {
	for _, h := range proxyHeaders {
		v := get(h)
		if v == "" {
			continue
		}
		// X-Forwarded-For lists the originating client first.
		first, _, _ := strings.Cut(v, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String()
		}
	}
	return ""
}

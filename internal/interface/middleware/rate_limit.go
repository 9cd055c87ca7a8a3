package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/go-managebooks/pkg/response"
)

// ipFromCtx extracts the client IP from Gin context, falling back to "unknown"
func ipFromCtx(c *gin.Context) string {
	if ip := c.GetString(RealIPKey); ip != "" {
		return ip
	}
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}

func normalizePath(c *gin.Context) string {
	if fp := c.FullPath(); fp != "" {
		return fp
	}
	return c.Request.URL.Path
}

// KeyFunc builds a rate-limit key from the request.
type KeyFunc func(c *gin.Context) string

// KeyByIP limits by client IP only.
func KeyByIP() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndPath limits by client IP and route.
func KeyByIPAndPath() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:path:" + normalizePath(c) + ":ip:" + ipFromCtx(c)
	}
}

// KeyByIPAndMethod limits writes and reads separately per client IP.
func KeyByIPAndMethod() KeyFunc {
	return func(c *gin.Context) string {
		return "rl:method:" + c.Request.Method + ":ip:" + ipFromCtx(c)
	}
}

// Atomic INCR that sets the window expiry on the first hit and reports the
// remaining window in milliseconds.
var incrExpireScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return {current, redis.call("PTTL", KEYS[1])}
`)

// AllowFunc returns true for requests that bypass the limit.
type AllowFunc func(*gin.Context) bool

type hit struct {
	count int
	reset time.Duration
}

func countHit(c *gin.Context, rdb *redis.Client, key string, window time.Duration) (hit, error) {
	res, err := incrExpireScript.Run(c.Request.Context(), rdb, []string{key}, window.Milliseconds()).Slice()
	if err != nil {
		return hit{}, err
	}
	h := hit{}
	if len(res) > 0 {
		h.count = toInt(res[0])
	}
	if len(res) > 1 {
		if ms := toInt(res[1]); ms > 0 {
			h.reset = time.Duration(ms) * time.Millisecond
		}
	}
	return h, nil
}

// RateLimit counts requests per key in a fixed Redis window and answers 429
// once max is exceeded. It fails open when Redis is unavailable and is a
// no-op when rdb is nil.
func RateLimit(rdb *redis.Client, max int, window time.Duration, keyFn KeyFunc, allow AllowFunc) gin.HandlerFunc {
	if rdb == nil || max <= 0 || window <= 0 || keyFn == nil {
		return func(c *gin.Context) { c.Next() }
	}
	limit := strconv.Itoa(max)
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || (allow != nil && allow(c)) {
			c.Next()
			return
		}

		h, err := countHit(c, rdb, keyFn(c), window)
		if err != nil {
			c.Next()
			return
		}
		resetSec := int(h.reset.Round(time.Second) / time.Second)

		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining(max, h.count)))
		c.Header("X-RateLimit-Reset", strconv.Itoa(resetSec))

		if h.count > max {
			if resetSec > 0 {
				c.Header("Retry-After", strconv.Itoa(resetSec))
			}
			response.Abort(c, http.StatusTooManyRequests, "rate limit exceeded", nil)
			return
		}
		c.Next()
	}
}

func remaining(max, count int) int {
	if count >= max {
		return 0
	}
	return max - count
}

func toInt(v any) int {
	switch x := v.(type) {
	case int64:
		return int(x)
	case int:
		return x
	case string:
		i, _ := strconv.Atoi(x)
		return i
	}
	return 0
}

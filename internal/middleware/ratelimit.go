package middleware

import (
	"strconv"
	"time"

	"github.com/ebgreentek/core/internal/pkg/redis"
	"github.com/ebgreentek/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit allows at most limit requests per client IP in each fixed window.
// Authenticated callers are not limited. With a nil client every request
// passes; redis failures also let the request through.
func RateLimit(rdb *redis.Client, scope string, limit int, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || limit <= 0 || IsAuthenticated(c) {
			c.Next()
			return
		}

		ip := ClientIP(c)
		if ip == "" {
			c.Next()
			return
		}

		count, err := rdb.Hit(c.Request.Context(), "ebg:rate_limit:"+scope+":"+ip, window)
		if err != nil {
			if log != nil {
				log.Warn("rate limit check failed", zap.String("scope", scope), zap.Error(err))
			}
			c.Next()
			return
		}

		if count > int64(limit) {
			c.Header("Retry-After", strconv.Itoa(int(window.Seconds())))
			response.TooManyRequests(c)
			return
		}

		c.Next()
	}
}

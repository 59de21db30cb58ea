package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"time"

	"github.com/ebgreentek/core/internal/pkg/redis"
	"github.com/ebgreentek/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
)

const (
	idempotenceHeader = "X-Idempotence-Key"
	idempotenceTTL    = 60 * time.Second
)

// Idempotence rejects a repeated identical write from the same client while
// the first one is in flight or for a minute after it succeeded. The key is
// the X-Idempotence-Key header, or a hash of method, URL, body, user agent and
// IP. A nil client disables the check.
func Idempotence(rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		key, err := resolveIdempotenceKey(c)
		if err != nil || key == "" {
			c.Next()
			return
		}

		redisKey := "ebg:idempotence:" + key
		ctx := c.Request.Context()

		fresh, err := rdb.SetNX(ctx, redisKey, "0", idempotenceTTL)
		if err != nil {
			c.Next()
			return
		}
		if !fresh {
			msg := "an identical request succeeded less than a minute ago"
			if val, _ := rdb.Get(ctx, redisKey); val == "0" {
				msg = "an identical request is still being processed"
			}
			response.Conflict(c, msg)
			return
		}

		c.Next()

		status := c.Writer.Status()
		if status >= 200 && status < 300 {
			_ = rdb.Set(ctx, redisKey, "1", idempotenceTTL)
		} else {
			_ = rdb.Del(ctx, redisKey)
		}
	}
}

func resolveIdempotenceKey(c *gin.Context) (string, error) {
	if hdr := c.GetHeader(idempotenceHeader); hdr != "" {
		return hdr, nil
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", err
	}
	c.Request.Body = io.NopCloser(bytes.NewBuffer(body))

	ua := c.Request.UserAgent()
	ip := ClientIP(c)
	if len(body) == 0 && ua == "" && ip == "" {
		return "", nil
	}

	raw := c.Request.Method + "|" + c.Request.URL.String() + "|" + string(body) + "|" + ua + "|" + ip + "|" + NormalizeToken(c.GetHeader("Authorization"))
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:]), nil
}

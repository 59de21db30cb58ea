package health

import (
	"context"
	"net/http"
	"time"

	pkgredis "github.com/ebgreentek/core/internal/pkg/redis"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

// RegisterRoutes mounts GET /health. The database must answer for the
// service to be healthy; redis is reported only when configured.
func RegisterRoutes(rg *gin.RouterGroup, db *gorm.DB, rc *pkgredis.Client) {
	rg.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
		defer cancel()

		sqlDB, err := db.DB()
		dbOK := err == nil && sqlDB.PingContext(ctx) == nil

		status := "ok"
		code := http.StatusOK
		if !dbOK {
			status = "degraded"
			code = http.StatusServiceUnavailable
		}

		body := gin.H{
			"status":   status,
			"database": dbOK,
		}
		if raw := rc.Raw(); raw != nil {
			body["redis"] = raw.Ping(ctx).Err() == nil
		}
		c.JSON(code, body)
	})
}

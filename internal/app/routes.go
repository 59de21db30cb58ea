package app

import (
	"net/http"
	"time"

	"github.com/ebgreentek/core/internal/middleware"
	"github.com/ebgreentek/core/internal/modules/auth/auth"
	"github.com/ebgreentek/core/internal/modules/auth/user"
	"github.com/ebgreentek/core/internal/modules/content/about"
	"github.com/ebgreentek/core/internal/modules/content/activity"
	"github.com/ebgreentek/core/internal/modules/content/article"
	"github.com/ebgreentek/core/internal/modules/content/category"
	"github.com/ebgreentek/core/internal/modules/content/certification"
	"github.com/ebgreentek/core/internal/modules/content/contact"
	"github.com/ebgreentek/core/internal/modules/content/product"
	"github.com/ebgreentek/core/internal/modules/content/socialmedia"
	"github.com/ebgreentek/core/internal/modules/stats/dashboard"
	"github.com/ebgreentek/core/internal/modules/storage/media"
	"github.com/ebgreentek/core/internal/modules/syndication"
	"github.com/ebgreentek/core/internal/modules/system/health"
	"github.com/ebgreentek/core/internal/modules/system/setting"
	"github.com/ebgreentek/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	apiPrefix      = "/api"
	loginPerMinute = 10
)

func (a *App) registerRoutes(r *gin.Engine) {
	db := a.db
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/static", a.cfg.StaticDir())

	appInfo := gin.H{
		"name":    "ebgreentek-core",
		"version": "1.0.0",
	}

	api := r.Group(apiPrefix)
	api.Use(middleware.OptionalAuth(db))

	// Infrastructure
	health.RegisterRoutes(api, db, a.rc)
	api.GET("", func(c *gin.Context) { c.PureJSON(http.StatusOK, appInfo) })
	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })
	api.GET("/uptime", func(c *gin.Context) {
		uptime := time.Since(processStart)
		c.JSON(http.StatusOK, gin.H{
			"timestamp": uptime.Milliseconds(),
			"humanize":  humanizeDuration(uptime),
		})
	})

	// Shared services
	activitySvc := activity.NewService(db, a.logger)
	articleSvc := article.NewService(db)

	syndication.RegisterRoutes(r.Group(""), syndication.NewService(db, articleSvc, a.cfg.SiteURL))

	// Auth
	auth.NewHandler(auth.NewService(db, a.cfg.AccessTTL(), a.cfg.RefreshTTL()), activitySvc).
		RegisterRoutes(api, authMW, middleware.RateLimit(a.rc, "login", loginPerMinute, time.Minute, a.logger))
	user.NewHandler(user.NewService(db)).RegisterRoutes(api, authMW)

	// Content
	product.NewHandler(product.NewService(db), activitySvc).RegisterRoutes(api, authMW)
	article.NewHandler(articleSvc, activitySvc).RegisterRoutes(api, authMW)
	contact.NewHandler(contact.NewService(db), activitySvc).RegisterRoutes(api, authMW,
		middleware.RateLimit(a.rc, "contact", a.cfg.Contact.PerMinute, time.Minute, a.logger),
		middleware.Idempotence(a.rc),
	)
	socialmedia.NewHandler(socialmedia.NewService(db)).RegisterRoutes(api, authMW)
	certification.NewHandler(certification.NewService(db)).RegisterRoutes(api, authMW)
	category.NewHandler(category.NewService(db)).RegisterRoutes(api, authMW)
	about.NewHandler(about.NewService(db)).RegisterRoutes(api, authMW)
	activity.NewHandler(activitySvc).RegisterRoutes(api, authMW)

	// System
	setting.NewHandler(setting.NewService(db, a.rc, a.logger)).RegisterRoutes(api, authMW)
	dashboard.NewHandler(dashboard.NewService(db)).RegisterRoutes(api, authMW)

	// Storage
	media.NewHandler(media.NewService(db, a.storage, a.cfg.UploadMaxBytes(), a.logger), activitySvc).
		RegisterRoutes(api, authMW)
}

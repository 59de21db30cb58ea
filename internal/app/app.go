package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ebgreentek/core/internal/config"
	"github.com/ebgreentek/core/internal/database"
	"github.com/ebgreentek/core/internal/metrics"
	"github.com/ebgreentek/core/internal/middleware"
	"github.com/ebgreentek/core/internal/models"
	"github.com/ebgreentek/core/internal/modules/auth/user"
	"github.com/ebgreentek/core/internal/modules/storage/media"
	pkgredis "github.com/ebgreentek/core/internal/pkg/redis"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const poolStatsInterval = 15 * time.Second

// App holds all application dependencies.
type App struct {
	cfg       *config.AppConfig
	router    *gin.Engine
	db        *gorm.DB
	rc        *pkgredis.Client
	storage   media.Storage
	logger    *zap.Logger
	poolStats *metrics.PoolStatsCollector
}

// New initializes the application: config → DB → Redis → storage → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if err := applyRuntimeSettings(cfg, logger); err != nil {
		return nil, err
	}
	installCodecReporter(logger)

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	var rc *pkgredis.Client
	if cfg.Redis.Enable {
		if rc, err = pkgredis.Connect(cfg.RedisURL); err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
	} else {
		logger.Info("redis disabled, rate limiting and settings cache are off")
	}

	storage, err := media.NewStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("media storage: %w", err)
	}

	created, err := user.NewService(db).EnsureAdmin(cfg.Admin)
	if err != nil {
		return nil, fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		logger.Info("created initial administrator", zap.String("username", cfg.Admin.Username))
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	app := &App{cfg: cfg, db: db, rc: rc, storage: storage, logger: logger}
	app.router = app.buildRouter()

	if sqlDB, err := db.DB(); err == nil {
		app.poolStats = metrics.NewPoolStatsCollector(sqlDB)
		app.poolStats.Start(poolStatsInterval)
	}
	return app, nil
}

func (a *App) buildRouter() *gin.Engine {
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Metrics())
	router.Use(cors.New(corsConfig(a.cfg)))

	a.registerRoutes(router)
	return router
}

// installCodecReporter routes undecodable stored list attributes to the log
// and the malformed counter.
func installCodecReporter(logger *zap.Logger) {
	models.SetMalformedListReporter(func(raw string, err error) {
		metrics.CodecMalformedTotal.Inc()
		if len(raw) > 200 {
			raw = raw[:200]
		}
		logger.Warn("malformed list attribute read as empty", zap.String("raw", raw), zap.Error(err))
	})
}

// Addr returns the listen address.
func (a *App) Addr() string { return a.cfg.Addr() }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown stops background collectors and closes connections.
func (a *App) Shutdown() {
	if a.poolStats != nil {
		a.poolStats.Stop()
	}
	if err := a.rc.Close(); err != nil {
		a.logger.Warn("redis close failed", zap.Error(err))
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

var processStart = time.Now()

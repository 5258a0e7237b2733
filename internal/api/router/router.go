package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"wfm/backend/config"
	"wfm/backend/internal/api/handler"
	"wfm/backend/internal/api/middleware"
	"wfm/backend/internal/model"
	"wfm/backend/pkg/jwt"
	"wfm/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 可为 nil：黑名单与限流降级放行
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	var limiter middleware.RateLimiter
	if rdb != nil {
		limiter = rdb
	}
	transitionLimit := middleware.RateLimit(limiter, cfg.Swap.RateLimit, cfg.Swap.RateWindow, logger)

	// ── API v1（全部需要认证）──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
	{
		// 换班模块
		swaps := v1.Group("/swaps")
		{
			swaps.POST("", transitionLimit, h.Swap.Create)
			swaps.GET("/:id", h.Swap.Get)
			swaps.POST("/:id/transitions", transitionLimit, h.Swap.Transition)
			swaps.GET("/:id/audit-logs", h.Swap.ListAuditLogs)
		}

		// 系统配置模块
		systemConfig := v1.Group("/system-config")
		{
			systemConfig.GET("", h.SystemConfig.GetConfig)
			systemConfig.PUT("", middleware.RoleAuth(model.RoleAdmin), h.SystemConfig.UpdateConfig)
		}
	}

	return r, nil
}

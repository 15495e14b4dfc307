package http

import (
	"github.com/gin-gonic/gin"
	"github.com/leafletlens/client/config"
)

// stylesheet keeps the page readable without a build step.
const stylesheet = `body{font-family:sans-serif;max-width:960px;margin:0 auto;padding:1rem}
.upload-area{border:2px dashed #999;padding:2rem;text-align:center}
.upload-area.drag-over{border-color:#36c}
.status-message{padding:.75rem;margin:.5rem 0;border-radius:4px}
.status-message.success{background:#e6f4ea}
.status-message.error{background:#fce8e6}
.status-message.info{background:#e8f0fe}
.special-offer-badge{background:#fbbc04;padding:0 .4rem;border-radius:3px}
.modal{position:fixed;inset:0;background:rgba(0,0,0,.5)}
.modal-content{background:#fff;max-width:480px;margin:10vh auto;padding:1rem}
table{width:100%;border-collapse:collapse}
td,th{border-bottom:1px solid #ddd;padding:.4rem;text-align:left}
`

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerClient, cfg.RateLimit.Burst))

	router.GET("/healthz", handler.HealthCheck)

	router.GET("/", handler.Index)
	router.POST("/stage", handler.Stage)
	router.POST("/upload", handler.Upload)
	router.GET("/product/:index", handler.ProductDetail)
	router.GET("/export", handler.Export)
	router.POST("/clear-status", handler.ClearStatus)

	router.GET("/static/style.css", func(c *gin.Context) {
		c.Data(200, "text/css; charset=utf-8", []byte(stylesheet))
	})

	return router
}

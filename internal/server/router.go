package server

import (
	"log/slog"

	_ "taxapi/api/swagger" // swagger docs
	"taxapi/internal/config"
	"taxapi/internal/handler"
	"taxapi/internal/middleware"
	"taxapi/internal/repository"
	"taxapi/internal/service"
	"taxapi/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// NewRouter builds the gin engine with every route of the service (Repository -> Service -> Handler)
func NewRouter(cfg config.ServerConfig, db *gorm.DB, hub *websocket.Hub, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}

	taxRepo := repository.NewTaxRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	txManager := repository.NewTransactionManager(db)

	var publisher service.EventPublisher
	if hub != nil {
		publisher = hub
	}
	taxService := service.NewTaxService(taxRepo, auditRepo, txManager, publisher)
	adminService := service.NewAdminService(taxService, taxRepo)
	auditService := service.NewAuditService(auditRepo)

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger))

	if origins := cfg.AllowedOrigins(); len(origins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = origins
		corsConfig.AllowCredentials = true
		corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept"}
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
		router.Use(cors.New(corsConfig))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	if hub != nil {
		router.GET("/ws", func(c *gin.Context) {
			websocket.ServeWs(hub, c)
		})
	}

	root := router.Group("")
	handler.NewInfoHandler(cfg.Version).RegisterRoutes(root)
	handler.NewTaxHandler(taxService).RegisterRoutes(root)
	handler.NewAdminHandler(adminService).RegisterRoutes(root)
	handler.NewAuditHandler(auditService).RegisterRoutes(root)

	return router
}

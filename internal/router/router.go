// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/pricetrack/backend/internal/config"
	"github.com/pricetrack/backend/internal/handlers"
	"github.com/pricetrack/backend/internal/middleware"
	"github.com/pricetrack/backend/internal/repository"
	"github.com/pricetrack/backend/internal/services"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	repos := repository.New(db)
	queryService := services.NewQueryService(repos)
	ingestService := services.NewIngestService(repository.NewTxManager(db))

	// Initialize handlers
	productHandler := handlers.NewProductHandler(queryService)
	dashboardHandler := handlers.NewDashboardHandler(queryService)
	importHandler := handlers.NewImportHandler(ingestService, queryService, cfg)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORS.AllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"X-Total-Count", "X-Page", "X-Per-Page", "X-Total-Pages"},
	}))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		v1.GET("/dashboard", dashboardHandler.GetDashboard)

		products := v1.Group("/products")
		{
			products.GET("", productHandler.GetProducts)
			products.GET("/:id", productHandler.GetProduct)
			products.GET("/:id/prices", productHandler.GetPriceHistory)
			products.GET("/:id/statistics", productHandler.GetStatistics)
		}

		imports := v1.Group("/imports")
		{
			imports.GET("", importHandler.ListImports)
			imports.POST("", middleware.ImportRateLimit(), importHandler.UploadFile)
			imports.POST("/records", middleware.ImportRateLimit(), importHandler.IngestRecords)
		}
	}

	return r
}

package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/greenmetric/ecotracker/config"
	"github.com/greenmetric/ecotracker/controllers"
	"github.com/greenmetric/ecotracker/middleware"
	"github.com/greenmetric/ecotracker/services"
	"github.com/greenmetric/ecotracker/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB, llm services.TextGenerator) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/api/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	store := services.NewGormActivityStore(db)
	stats := services.NewStatsAggregator(store)
	ledger := services.NewGormAchievementLedger(db)
	evaluator := services.NewAchievementEvaluator(stats, ledger)

	authController := controllers.NewAuthController(db)
	activityController := controllers.NewActivityController(db)
	analyticsController := controllers.NewAnalyticsController(db)
	achievementController := controllers.NewAchievementController(db, evaluator)
	aiController := controllers.NewAIController(db, llm)

	api := r.Group("/api")
	api.Use(middleware.RateLimitMiddleware())

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/profile", middleware.AuthRequired(), authController.Profile)

	// Public category catalog
	api.GET("/activities/categories", activityController.Categories)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())

	protected.GET("/activities", activityController.List)
	protected.POST("/activities", activityController.Create)
	protected.DELETE("/activities/:id", activityController.Delete)

	protected.GET("/analytics/dashboard", analyticsController.Dashboard)
	protected.GET("/analytics/trend", analyticsController.Trend)

	protected.GET("/achievements", achievementController.List)
	protected.POST("/achievements/check", achievementController.Check)

	aiGroup := protected.Group("/ai")
	aiGroup.POST("/analyze-footprint", aiController.AnalyzeFootprint)
	aiGroup.POST("/suggest-activities", aiController.SuggestActivities)
	aiGroup.POST("/calculate-carbon", aiController.CalculateCarbon)
	aiGroup.GET("/daily-tip", aiController.DailyTip)
	aiGroup.POST("/suggest-goals", aiController.SuggestGoals)

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}

package main

import (
	"context"

	"github.com/greenmetric/ecotracker/config"
	"github.com/greenmetric/ecotracker/middleware"
	"github.com/greenmetric/ecotracker/models"
	"github.com/greenmetric/ecotracker/routes"
	"github.com/greenmetric/ecotracker/services"
	"github.com/greenmetric/ecotracker/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(
		&models.User{},
		&models.Category{},
		&models.Activity{},
		&models.Achievement{},
		&models.UserAchievement{},
	)

	if err := models.SeedDefaults(db); err != nil {
		utils.Sugar.Fatalf("failed to seed default catalogs: %v", err)
	}

	middleware.InitPrometheus()

	var llm services.TextGenerator
	if cfg.GoogleAPIKey != "" {
		client, err := services.NewGeminiClient(context.Background(), cfg.GoogleAPIKey, cfg.GeminiModel)
		if err != nil {
			utils.Sugar.Warnf("gemini client init failed, ai endpoints disabled: %v", err)
		} else {
			llm = client
		}
	} else {
		utils.Sugar.Warn("GOOGLE_API_KEY not set, ai endpoints disabled")
	}

	r := routes.SetupRouter(db, llm)

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}

package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/greenmetric/ecotracker/middleware"
	"github.com/greenmetric/ecotracker/services"
	"github.com/greenmetric/ecotracker/utils"
)

// AchievementController exposes the achievement catalog and the check
// operation that grants newly earned achievements.
type AchievementController struct {
	db        *gorm.DB
	evaluator *services.AchievementEvaluator
}

// NewAchievementController creates an AchievementController.
func NewAchievementController(db *gorm.DB, evaluator *services.AchievementEvaluator) *AchievementController {
	return &AchievementController{db: db, evaluator: evaluator}
}

// AnnotatedAchievement is a catalog entry with the caller's earned status.
type AnnotatedAchievement struct {
	ID               uint       `json:"id"`
	Name             string     `json:"name"`
	Description      string     `json:"description"`
	Icon             string     `json:"icon"`
	RequirementType  string     `json:"requirement_type"`
	RequirementValue float64    `json:"requirement_value"`
	Earned           bool       `json:"earned"`
	EarnedAt         *time.Time `json:"earned_at"`
}

// List returns the full catalog annotated with the caller's grants, earned
// entries first, then by ascending requirement value.
func (a *AchievementController) List(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var rows []AnnotatedAchievement
	if err := a.db.Raw(`
		SELECT a.id, a.name, a.description, a.icon,
		       a.requirement_type, a.requirement_value,
		       ua.id IS NOT NULL AS earned,
		       ua.earned_at AS earned_at
		FROM achievements a
		LEFT JOIN user_achievements ua
		  ON ua.achievement_id = a.id AND ua.user_id = ?
		ORDER BY earned DESC, a.requirement_value ASC`, userID).Scan(&rows).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to load achievements")
		return
	}

	if rows == nil {
		rows = []AnnotatedAchievement{}
	}

	utils.Success(ctx, rows)
}

// Check evaluates unearned achievements against the caller's current stats
// and grants any now satisfied. Safe to call repeatedly.
func (a *AchievementController) Check(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	granted, err := a.evaluator.Check(userID)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to check achievements")
		return
	}

	message := "No new achievements this time. Keep going!"
	if len(granted) > 0 {
		message = fmt.Sprintf("Congratulations! You earned %d new achievement(s)!", len(granted))
	}

	utils.Success(ctx, gin.H{
		"newAchievements": granted,
		"message":         message,
	})
}

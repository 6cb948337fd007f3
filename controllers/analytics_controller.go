package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/greenmetric/ecotracker/middleware"
	"github.com/greenmetric/ecotracker/models"
	"github.com/greenmetric/ecotracker/utils"
)

// AnalyticsController serves the dashboard aggregates and the trend series.
type AnalyticsController struct {
	db *gorm.DB
}

// NewAnalyticsController creates an AnalyticsController.
func NewAnalyticsController(db *gorm.DB) *AnalyticsController {
	return &AnalyticsController{db: db}
}

type categorySlice struct {
	Name  string  `json:"name"`
	Icon  string  `json:"icon"`
	Color string  `json:"color"`
	Value float64 `json:"value"`
}

type dailyPoint struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

type trendPoint struct {
	Date          string  `json:"date"`
	DailyTotal    float64 `json:"daily_total"`
	ActivityCount int64   `json:"activity_count"`
}

// Dashboard returns the per-user summary: totals, a month-to-date category
// breakdown and a 30-day daily series. Responses are cached in Redis for a
// few minutes and invalidated on writes.
func (a *AnalyticsController) Dashboard(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	cacheKey := fmt.Sprintf("cache:analytics:user:%d:dashboard", userID)
	if b, hit := utils.CacheGetBytes(cacheKey); hit {
		var cached gin.H
		if err := json.Unmarshal(b, &cached); err == nil {
			utils.Success(ctx, cached)
			return
		}
	}

	var totalCarbon float64
	if err := a.db.Model(&models.Activity{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(carbon_footprint), 0)").
		Scan(&totalCarbon).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to compute totals")
		return
	}

	var weekCarbon float64
	if err := a.db.Model(&models.Activity{}).
		Where("user_id = ? AND date >= DATE_SUB(CURDATE(), INTERVAL 7 DAY)", userID).
		Select("COALESCE(SUM(carbon_footprint), 0)").
		Scan(&weekCarbon).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to compute totals")
		return
	}

	var activitiesCount int64
	if err := a.db.Model(&models.Activity{}).
		Where("user_id = ?", userID).
		Count(&activitiesCount).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to compute totals")
		return
	}

	// Month-to-date breakdown. LEFT JOIN keeps zero-value categories so the
	// chart always shows the full catalog.
	var categoryData []categorySlice
	if err := a.db.Raw(`
		SELECT c.name AS name, c.icon AS icon, c.color AS color,
		       COALESCE(SUM(a.carbon_footprint), 0) AS value
		FROM categories c
		LEFT JOIN activities a
		  ON a.category_id = c.id
		 AND a.user_id = ?
		 AND a.date >= DATE_FORMAT(CURDATE(), '%Y-%m-01')
		GROUP BY c.id, c.name, c.icon, c.color
		ORDER BY c.id`, userID).Scan(&categoryData).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to compute category breakdown")
		return
	}

	var dailyData []dailyPoint
	if err := a.db.Raw(`
		SELECT DATE_FORMAT(date, '%Y-%m-%d') AS date,
		       COALESCE(SUM(carbon_footprint), 0) AS total
		FROM activities
		WHERE user_id = ? AND date >= DATE_SUB(CURDATE(), INTERVAL 30 DAY)
		GROUP BY DATE_FORMAT(date, '%Y-%m-%d')
		ORDER BY date ASC`, userID).Scan(&dailyData).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to compute daily series")
		return
	}

	payload := gin.H{
		"totalCarbon":     totalCarbon,
		"weekCarbon":      weekCarbon,
		"activitiesCount": activitiesCount,
		"categoryData":    categoryData,
		"dailyData":       dailyData,
	}

	utils.CacheSetJSON(cacheKey, payload, 5*time.Minute)
	utils.Success(ctx, payload)
}

// Trend returns a per-day carbon total and activity count over the requested
// period. The period query parameter is clamped to [1, 365] days.
func (a *AnalyticsController) Trend(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	period := 30
	if raw := ctx.Query("period"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			period = n
		}
	}
	if period < 1 {
		period = 1
	}
	if period > 365 {
		period = 365
	}

	cacheKey := fmt.Sprintf("cache:analytics:user:%d:trend:%d", userID, period)
	if b, hit := utils.CacheGetBytes(cacheKey); hit {
		var cached []trendPoint
		if err := json.Unmarshal(b, &cached); err == nil {
			utils.Success(ctx, cached)
			return
		}
	}

	var points []trendPoint
	if err := a.db.Raw(`
		SELECT DATE_FORMAT(date, '%Y-%m-%d') AS date,
		       COALESCE(SUM(carbon_footprint), 0) AS daily_total,
		       COUNT(*) AS activity_count
		FROM activities
		WHERE user_id = ? AND date >= DATE_SUB(CURDATE(), INTERVAL ? DAY)
		GROUP BY DATE_FORMAT(date, '%Y-%m-%d')
		ORDER BY date ASC`, userID, period).Scan(&points).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to compute trend")
		return
	}

	if points == nil {
		points = []trendPoint{}
	}

	utils.CacheSetJSON(cacheKey, points, 5*time.Minute)
	utils.Success(ctx, points)
}

package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/greenmetric/ecotracker/middleware"
	"github.com/greenmetric/ecotracker/models"
	"github.com/greenmetric/ecotracker/services"
	"github.com/greenmetric/ecotracker/utils"
)

// ActivityController handles activity CRUD and the category catalog.
type ActivityController struct {
	db *gorm.DB
}

// NewActivityController creates an ActivityController.
func NewActivityController(db *gorm.DB) *ActivityController {
	return &ActivityController{db: db}
}

// List returns the caller's activities, newest first, with category preloaded.
func (a *ActivityController) List(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var activities []models.Activity
	if err := a.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("date DESC, id DESC").
		Find(&activities).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50010, "failed to load activities")
		return
	}

	utils.Success(ctx, activities)
}

// Create records a new activity for the caller.
func (a *ActivityController) Create(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var req struct {
		CategoryID      uint    `json:"category_id" binding:"required"`
		Description     string  `json:"description" binding:"required,max=512"`
		CarbonFootprint float64 `json:"carbon_footprint"`
		Date            string  `json:"date" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40010, "category_id, description and date are required")
		return
	}

	if req.CarbonFootprint < 0 {
		utils.Error(ctx, http.StatusBadRequest, 40011, "carbon_footprint must not be negative")
		return
	}

	date, err := time.Parse(services.DateLayout, req.Date)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40012, "date must be formatted as YYYY-MM-DD")
		return
	}

	var category models.Category
	if err := a.db.First(&category, req.CategoryID).Error; err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40013, "unknown category")
		return
	}

	activity := models.Activity{
		UserID:          userID,
		CategoryID:      req.CategoryID,
		Description:     utils.Sanitize(req.Description),
		CarbonFootprint: req.CarbonFootprint,
		Date:            date,
	}

	if err := a.db.Create(&activity).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50011, "failed to create activity")
		return
	}

	// Reload so the response carries the category association.
	if err := a.db.Preload("Category").First(&activity, activity.ID).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50012, "failed to load activity")
		return
	}

	invalidateAnalyticsCache(userID)

	utils.Respond(ctx, http.StatusCreated, 0, "activity created", activity)
}

// Delete removes one of the caller's activities.
func (a *ActivityController) Delete(ctx *gin.Context) {
	userID, ok := middleware.UserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	activityID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40014, "invalid activity id")
		return
	}

	res := a.db.Where("id = ? AND user_id = ?", activityID, userID).Delete(&models.Activity{})
	if res.Error != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50013, "failed to delete activity")
		return
	}
	if res.RowsAffected == 0 {
		utils.Error(ctx, http.StatusNotFound, 40402, "activity not found")
		return
	}

	invalidateAnalyticsCache(userID)

	utils.Success(ctx, gin.H{"message": "activity deleted"})
}

// Categories lists the category catalog. Public, no auth needed.
func (a *ActivityController) Categories(ctx *gin.Context) {
	var categories []models.Category
	if err := a.db.Order("id ASC").Find(&categories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50014, "failed to load categories")
		return
	}

	utils.Success(ctx, categories)
}

func invalidateAnalyticsCache(userID uint) {
	utils.InvalidateByPrefix(fmt.Sprintf("cache:analytics:user:%d", userID))
}

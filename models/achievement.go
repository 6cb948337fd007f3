package models

import "time"

// Requirement types understood by the achievement evaluator. Anything else in
// the catalog is treated as never satisfied.
const (
	RequirementActivitiesCount = "activities_count"
	RequirementCarbonSaved     = "carbon_saved"
	RequirementDailyStreak     = "daily_streak"
)

// Achievement is a badge definition from the static catalog.
type Achievement struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	Name             string  `gorm:"size:128;not null" json:"name"`
	Description      string  `gorm:"size:255;not null" json:"description"`
	Icon             string  `gorm:"size:16;not null" json:"icon"`
	RequirementType  string  `gorm:"size:32;not null" json:"requirement_type"`
	RequirementValue float64 `gorm:"not null" json:"requirement_value"`
}

// UserAchievement records that a user earned an achievement. Grants are
// append-only and unique per (user, achievement); they are never revoked,
// even when activity deletions later invalidate the requirement.
type UserAchievement struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        uint      `gorm:"index:idx_user_achievement,unique;not null" json:"user_id"`
	AchievementID uint      `gorm:"index:idx_user_achievement,unique;not null" json:"achievement_id"`
	EarnedAt      time.Time `gorm:"autoCreateTime" json:"earned_at"`
}

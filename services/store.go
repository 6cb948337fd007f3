package services

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/greenmetric/ecotracker/models"
)

// GormActivityStore reads activity aggregates straight from MySQL.
type GormActivityStore struct {
	db *gorm.DB
}

// NewGormActivityStore creates a store over the shared gorm handle.
func NewGormActivityStore(db *gorm.DB) *GormActivityStore {
	return &GormActivityStore{db: db}
}

// CountActivities returns the number of activity rows for the user.
func (s *GormActivityStore) CountActivities(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Activity{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// SumCarbon totals carbon_footprint across the user's activities, 0 when none.
func (s *GormActivityStore) SumCarbon(userID uint) (float64, error) {
	var total float64
	err := s.db.Model(&models.Activity{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(carbon_footprint), 0)").
		Scan(&total).Error
	return total, err
}

// CountActiveDays counts distinct activity dates for the user.
func (s *GormActivityStore) CountActiveDays(userID uint) (int64, error) {
	var days int64
	err := s.db.Model(&models.Activity{}).
		Where("user_id = ?", userID).
		Distinct("date").
		Count(&days).Error
	return days, err
}

// RecentActivityDates returns the user's distinct activity dates as
// YYYY-MM-DD strings, newest first. Formatting happens in SQL to avoid
// timezone drift between the DATE column and Go time values.
func (s *GormActivityStore) RecentActivityDates(userID uint, limit int) ([]string, error) {
	var dates []string
	err := s.db.Raw(
		"SELECT DISTINCT DATE_FORMAT(date, '%Y-%m-%d') AS day FROM activities WHERE user_id = ? ORDER BY day DESC LIMIT ?",
		userID, limit,
	).Scan(&dates).Error
	return dates, err
}

// GormAchievementLedger persists grants with insert-or-ignore semantics.
type GormAchievementLedger struct {
	db *gorm.DB
}

// NewGormAchievementLedger creates a ledger over the shared gorm handle.
func NewGormAchievementLedger(db *gorm.DB) *GormAchievementLedger {
	return &GormAchievementLedger{db: db}
}

// ListGrants returns all grants held by the user.
func (l *GormAchievementLedger) ListGrants(userID uint) ([]models.UserAchievement, error) {
	var grants []models.UserAchievement
	err := l.db.Where("user_id = ?", userID).Find(&grants).Error
	return grants, err
}

// UnearnedAchievements returns catalog entries with no grant for the user
// (left anti-join on user_achievements).
func (l *GormAchievementLedger) UnearnedAchievements(userID uint) ([]models.Achievement, error) {
	var achievements []models.Achievement
	err := l.db.Raw(`
		SELECT a.*
		FROM achievements a
		LEFT JOIN user_achievements ua ON ua.achievement_id = a.id AND ua.user_id = ?
		WHERE ua.id IS NULL`, userID).Scan(&achievements).Error
	return achievements, err
}

// InsertGrantIfAbsent relies on the unique (user_id, achievement_id) index:
// a concurrent duplicate insert is silently ignored and reported as not new.
func (l *GormAchievementLedger) InsertGrantIfAbsent(userID, achievementID uint) (bool, error) {
	grant := models.UserAchievement{UserID: userID, AchievementID: achievementID}
	res := l.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&grant)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

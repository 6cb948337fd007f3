package models

import "gorm.io/gorm"

// SeedDefaults inserts the category and achievement catalogs when missing.
// Rows are matched by name so re-running at boot is a no-op.
func SeedDefaults(db *gorm.DB) error {
	categories := []Category{
		{Name: "Transportation", Icon: "🚗", Color: "#3B82F6"},
		{Name: "Energy", Icon: "⚡", Color: "#F59E0B"},
		{Name: "Food", Icon: "🍎", Color: "#10B981"},
		{Name: "Waste", Icon: "♻️", Color: "#8B5CF6"},
		{Name: "Shopping", Icon: "🛍️", Color: "#EF4444"},
	}
	for _, c := range categories {
		if err := db.Where(Category{Name: c.Name}).FirstOrCreate(&c).Error; err != nil {
			return err
		}
	}

	achievements := []Achievement{
		{Name: "First Steps", Description: "Log your first activity", Icon: "🌱", RequirementType: RequirementActivitiesCount, RequirementValue: 1},
		{Name: "Week Warrior", Description: "Log activities for 7 days", Icon: "📅", RequirementType: RequirementDailyStreak, RequirementValue: 7},
		{Name: "Carbon Saver", Description: "Save 50kg of CO2", Icon: "💚", RequirementType: RequirementCarbonSaved, RequirementValue: 50},
		{Name: "Eco Champion", Description: "Save 100kg of CO2", Icon: "🏆", RequirementType: RequirementCarbonSaved, RequirementValue: 100},
		{Name: "Green Month", Description: "Log activities for 30 days", Icon: "🌿", RequirementType: RequirementDailyStreak, RequirementValue: 30},
	}
	for _, a := range achievements {
		if err := db.Where(Achievement{Name: a.Name}).FirstOrCreate(&a).Error; err != nil {
			return err
		}
	}

	return nil
}

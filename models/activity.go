package models

import "time"

// Activity is a single logged action with its carbon footprint in kg CO2.
// Records are immutable once created: they are only ever inserted or deleted.
type Activity struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"index;not null" json:"user_id"`
	CategoryID      uint      `gorm:"index;not null" json:"category_id"`
	Description     string    `gorm:"size:512;not null" json:"description"`
	CarbonFootprint float64   `gorm:"not null" json:"carbon_footprint"`
	Date            time.Time `gorm:"type:date;index;not null" json:"date"`
	CreatedAt       time.Time `json:"created_at"`
	Category        Category  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
}

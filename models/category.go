package models

// Category classifies activities (transportation, energy, food, waste, shopping).
// The catalog is seeded once and immutable at runtime.
type Category struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:64;uniqueIndex;not null" json:"name"`
	Icon  string `gorm:"size:16;not null" json:"icon"`
	Color string `gorm:"size:16;not null" json:"color"`
}

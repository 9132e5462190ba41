package models

import "gorm.io/gorm"

// Favorite links a user to a saved food. One row per pair.
type Favorite struct {
	gorm.Model
	UserID uint `gorm:"index;uniqueIndex:idx_user_food"`
	FoodID uint `gorm:"uniqueIndex:idx_user_food"`
	Food   Food
}

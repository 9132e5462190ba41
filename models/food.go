package models

import (
	"encoding/json"

	"gorm.io/gorm"
)

// SafetyType is the three-way pregnancy-consumption classification of a food.
type SafetyType string

const (
	SafetySafe  SafetyType = "safe"
	SafetyLimit SafetyType = "limit"
	SafetyAvoid SafetyType = "avoid"
)

// Food is a catalog entry. Details holds the variant payload as JSON; its
// shape must match SafetyType, which utils.ClassifyRecord enforces before
// anything is rendered from it.
type Food struct {
	gorm.Model
	Name         string `gorm:"uniqueIndex;not null"`
	SafetyType   string `gorm:"size:16;not null"` // "safe" | "limit" | "avoid"
	Details      string `gorm:"type:jsonb"`
	Sources      string
	VerifiedDate string
	Verified     bool // false for AI-drafted records pending review
	ImageURL     string
}

// FoodSafetyRecord is the wire shape of a lookup result. Details is left raw
// because the source is not fully trusted: the payload is only decoded by the
// classifier, against the variant SafetyType declares.
type FoodSafetyRecord struct {
	Name         string          `json:"name"`
	SafetyType   string          `json:"safety_type"`
	Details      json.RawMessage `json:"details"`
	Sources      string          `json:"sources"`
	VerifiedDate string          `json:"verifiedDate"`
}

// Record converts a catalog row into its wire shape.
func (f *Food) Record() FoodSafetyRecord {
	return FoodSafetyRecord{
		Name:         f.Name,
		SafetyType:   f.SafetyType,
		Details:      json.RawMessage(f.Details),
		Sources:      f.Sources,
		VerifiedDate: f.VerifiedDate,
	}
}

type SafeDetails struct {
	NutritionalBenefits   []string `json:"nutritionalBenefits"`
	PreparationGuidelines []string `json:"preparationGuidelines"`
}

type LimitDetails struct {
	ConsumptionGuidelines []string `json:"consumptionGuidelines"`
	HealthConsiderations  []string `json:"healthConsiderations"`
	SaferAlternatives     []string `json:"saferAlternatives"`
}

// RiskEntry is one reason a food is classified avoid. CausesOfRisk may be
// empty but must be present on the wire.
type RiskEntry struct {
	Risk         string   `json:"risk"`
	CausesOfRisk []string `json:"causesOfRisk"`
}

type AvoidDetails struct {
	WhyAvoidRisk       []RiskEntry `json:"whyAvoidRisk"`
	CookingGuidelines  []string    `json:"cookingGuidelines"`
	BetterAlternatives []string    `json:"betterAlternatives"`
}

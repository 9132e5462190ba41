package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	UserID    string `gorm:"uniqueIndex;size:64"`
	Email     string `gorm:"uniqueIndex;not null"`
	Password  string `gorm:"not null"`
	FirstName string
	LastName  string

	// Pregnancy profile. All three stay null until onboarding completes.
	// When present the triple is kept mutually consistent by utils.ResolveStage;
	// readers re-derive display values from DueDate rather than trusting a
	// stale TrimesterStage on its own.
	CurrentWeek    *int
	TrimesterStage *int
	DueDate        *time.Time

	ProfilePicture string
	Onboarded      bool
	Disabled       bool

	MFAEnabled bool
	MFACode    string

	ResetToken    string
	ResetTokenExp time.Time
}

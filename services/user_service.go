package services

import (
	"errors"
	"fmt"
	"time"

	"preggy/config"
	"preggy/models"
	"preggy/utils"
)

// ErrStageUnknown is returned when a supplied due date falls outside the
// gestation window. The app prompts the user to re-enter the date.
var ErrStageUnknown = errors.New("due date is outside the supported pregnancy window")

// StageInput is the pregnancy portion of onboarding and profile edits. Dates
// cross the API as YYYY-MM-DD; a due date always wins over a trimester pick.
type StageInput struct {
	DueDate     string `json:"due_date"` // YYYY-MM-DD, optional
	Trimester   int    `json:"trimester"`
	CurrentWeek int    `json:"current_week"`
}

type ProfileInput struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	ProfilePicture string `json:"profile_picture"` // base64 data URI
	StageInput
}

// applyStage runs the calculator over the raw stage input and writes the
// consistent triple to the user. Returns ErrStageUnknown for out-of-window
// dates and utils.ErrNoStageInput when nothing usable was supplied.
func applyStage(user *models.User, in StageInput, today time.Time) error {
	var due *time.Time
	if in.DueDate != "" {
		d, err := time.Parse("2006-01-02", in.DueDate)
		if err != nil {
			return fmt.Errorf("invalid due_date: %w", err)
		}
		due = &d
	}

	stage, ok, err := utils.ResolveStage(due, in.Trimester, in.CurrentWeek, today)
	if err != nil {
		return err
	}
	if !ok {
		return ErrStageUnknown
	}

	week, tri, dueDate := stage.CurrentWeek, stage.TrimesterStage, stage.DueDate
	user.CurrentWeek = &week
	user.TrimesterStage = &tri
	user.DueDate = &dueDate
	return nil
}

// GetUserProfile returns the profile for display. Week, trimester and
// progress are re-derived from the stored due date on every read; the stored
// CurrentWeek is only a fallback when the pregnancy has run past the window.
func GetUserProfile(email string) (map[string]interface{}, error) {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return nil, errors.New("user not found or disabled")
	}

	out := map[string]interface{}{
		"id":              user.ID,
		"user_id":         user.UserID,
		"email":           user.Email,
		"first_name":      user.FirstName,
		"last_name":       user.LastName,
		"profile_picture": user.ProfilePicture,
		"mfa_enabled":     user.MFAEnabled,
		"onboarded":       user.Onboarded,
	}

	if user.DueDate != nil {
		out["due_date"] = user.DueDate.Format("2006-01-02")
		week, tri, ok := utils.StageFromDueDate(*user.DueDate, time.Now())
		if !ok && user.CurrentWeek != nil {
			week, tri = *user.CurrentWeek, utils.TrimesterForWeek(*user.CurrentWeek)
			ok = true
		}
		if ok {
			out["current_week"] = week
			out["trimester_stage"] = tri
			out["trimester_label"] = utils.TrimesterLabel(tri)
			out["progress_percent"] = utils.ProgressPercent(week)
		}
	}

	return out, nil
}

func UpdateUserProfile(email string, input ProfileInput) error {
	var user models.User
	result := config.DB.Where("email = ? AND disabled = ?", email, false).First(&user)
	if result.Error != nil {
		return errors.New("user not found or disabled")
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}

	if input.DueDate != "" || input.Trimester != 0 || input.CurrentWeek != 0 {
		if err := applyStage(&user, input.StageInput, time.Now()); err != nil {
			return err
		}
	}

	if input.ProfilePicture != "" {
		url, err := utils.UploadBase64ImageToS3(input.ProfilePicture, user.Email)
		if err != nil {
			return fmt.Errorf("failed to upload image: %w", err)
		}
		user.ProfilePicture = url
	}

	return config.DB.Save(&user).Error
}

func CompleteOnboarding(email string, input ProfileInput) error {
	var user models.User
	if err := config.DB.
		Where("email = ? AND disabled = ?", email, false).
		First(&user).Error; err != nil {
		return errors.New("user not found or disabled")
	}

	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}

	if err := applyStage(&user, input.StageInput, time.Now()); err != nil {
		return err
	}

	if input.ProfilePicture != "" {
		url, err := utils.UploadBase64ImageToS3(input.ProfilePicture, "onboarding/"+user.Email)
		if err != nil {
			return fmt.Errorf("failed to upload profile picture: %w", err)
		}
		user.ProfilePicture = url
	}

	user.Onboarded = true

	return config.DB.Save(&user).Error
}

func DeleteUser(email string) error {
	var user models.User
	result := config.DB.First(&user, "email = ?", email)
	if result.Error != nil {
		return result.Error
	}
	user.Disabled = true
	return config.DB.Save(&user).Error
}

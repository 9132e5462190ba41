package services

import (
	"log"
	"time"

	"preggy/models"

	"gorm.io/gorm"
)

// stageReminderSender is what a reminder pass needs from the push layer.
type stageReminderSender interface {
	SendWeeklyStageReminder(user *models.User) error
}

// ReminderScheduler drives the weekly stage-progress pushes: it periodically
// scans onboarded users with a due date and hands each one to the push
// service, at most once per week.
type ReminderScheduler struct {
	db     *gorm.DB
	sender stageReminderSender
	stop   chan struct{}
}

func NewReminderScheduler(db *gorm.DB, sender stageReminderSender) *ReminderScheduler {
	return &ReminderScheduler{db: db, sender: sender, stop: make(chan struct{})}
}

// Start runs one pass immediately and then one per interval until Stop.
func (r *ReminderScheduler) Start(interval time.Duration) {
	go func() {
		r.RunPass(time.Now())
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				r.RunPass(time.Now())
			case <-r.stop:
				return
			}
		}
	}()
}

func (r *ReminderScheduler) Stop() { close(r.stop) }

// RunPass sends the reminder to every eligible user who has not had one in
// the past seven days. Send failures are logged and skipped so one broken
// endpoint cannot stall the rest of the pass.
func (r *ReminderScheduler) RunPass(now time.Time) {
	var users []models.User
	if err := r.db.
		Where("onboarded = ? AND disabled = ? AND due_date IS NOT NULL", true, false).
		Find(&users).Error; err != nil {
		log.Printf("reminder pass failed: %v", err)
		return
	}

	cutoff := now.AddDate(0, 0, -7)
	for i := range users {
		var recent int64
		if err := r.db.Model(&models.Alert{}).
			Where("user_id = ? AND type = ? AND created_at > ?", users[i].ID, "weekly", cutoff).
			Count(&recent).Error; err != nil {
			log.Printf("reminder lookup for user %d failed: %v", users[i].ID, err)
			continue
		}
		if recent > 0 {
			continue
		}
		if err := r.sender.SendWeeklyStageReminder(&users[i]); err != nil {
			log.Printf("weekly reminder for user %d failed: %v", users[i].ID, err)
		}
	}
}

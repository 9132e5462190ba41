package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"preggy/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	// an in-memory sqlite exists per connection; keep the pool at one
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Alert{},
		&models.UserDevice{},
		&models.Conversation{},
		&models.ChatMessage{},
	))
	return db
}

func onboardedUser(t *testing.T, db *gorm.DB, email string, dueInDays int) *models.User {
	t.Helper()
	due := time.Now().AddDate(0, 0, dueInDays)
	week := 1 // stored value is not trusted; reminders re-derive from DueDate
	user := models.User{
		UserID:      email,
		Email:       email,
		Password:    "x",
		Onboarded:   true,
		DueDate:     &due,
		CurrentWeek: &week,
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func TestReminderPassCreatesAlertAndBroadcasts(t *testing.T) {
	db := newTestDB(t)
	hub := NewRealtimeHub()
	user := onboardedUser(t, db, "mom@example.com", 70) // week 31

	// a connected app should see the alert arrive on its socket
	up := websocket.Upgrader{}
	registered := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := up.Upgrade(w, r, nil)
		require.NoError(t, err)
		hub.Register(&WSClient{UserID: user.ID, Conn: conn})
		close(registered)
	}))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	<-registered

	push := &PushService{db: db, hub: hub}
	NewReminderScheduler(db, push).RunPass(time.Now())

	var alerts []models.Alert
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&alerts).Error)
	require.Len(t, alerts, 1)
	assert.Equal(t, "weekly", alerts[0].Type)
	assert.Contains(t, alerts[0].Message, "Week 31")
	assert.Contains(t, alerts[0].Message, "Third trimester")

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	var ev Event
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, "alert", ev.Type)
}

func TestReminderPassSendsAtMostWeekly(t *testing.T) {
	db := newTestDB(t)
	user := onboardedUser(t, db, "mom@example.com", 100)

	push := &PushService{db: db}
	sched := NewReminderScheduler(db, push)

	now := time.Now()
	sched.RunPass(now)
	sched.RunPass(now)
	sched.RunPass(now.AddDate(0, 0, 3))

	var count int64
	require.NoError(t, db.Model(&models.Alert{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// a week later the next one goes out
	sched.RunPass(now.AddDate(0, 0, 8))
	require.NoError(t, db.Model(&models.Alert{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.EqualValues(t, 2, count)
}

func TestReminderPassSkipsIneligibleUsers(t *testing.T) {
	db := newTestDB(t)

	// not onboarded
	week := 12
	due := time.Now().AddDate(0, 0, 50)
	require.NoError(t, db.Create(&models.User{
		UserID: "a@example.com", Email: "a@example.com", Password: "x", DueDate: &due, CurrentWeek: &week,
	}).Error)
	// onboarded but no due date
	require.NoError(t, db.Create(&models.User{
		UserID: "b@example.com", Email: "b@example.com", Password: "x", Onboarded: true,
	}).Error)
	// overdue: outside the gestation window, nothing to announce
	overdue := time.Now().AddDate(0, 0, -10)
	require.NoError(t, db.Create(&models.User{
		UserID: "c@example.com", Email: "c@example.com", Password: "x", Onboarded: true, DueDate: &overdue,
	}).Error)

	push := &PushService{db: db}
	NewReminderScheduler(db, push).RunPass(time.Now())

	var count int64
	require.NoError(t, db.Model(&models.Alert{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

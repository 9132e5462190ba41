package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"preggy/models"
	"preggy/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"gorm.io/gorm"
)

// PushService registers device tokens as SNS endpoints and sends the weekly
// stage-progress reminders.
type PushService struct {
	db              *gorm.DB
	sns             *awssns.Client
	fcmPlatformArn  string
	apnsPlatformArn string
	hub             *RealtimeHub
}

func NewPushService(db *gorm.DB, hub *RealtimeHub) (*PushService, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	cfg, err := config.LoadDefaultConfig(context.TODO(), config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &PushService{
		db:              db,
		sns:             awssns.NewFromConfig(cfg),
		fcmPlatformArn:  os.Getenv("SNS_FCM_ARN"),
		apnsPlatformArn: os.Getenv("SNS_APNS_ARN"),
		hub:             hub,
	}, nil
}

func (p *PushService) tokenHash(tok string) string {
	h := sha256.Sum256([]byte(tok))
	return hex.EncodeToString(h[:])
}

func (p *PushService) platformArn(platform string) (string, error) {
	switch strings.ToLower(platform) {
	case "android":
		if p.fcmPlatformArn == "" {
			return "", errors.New("SNS_FCM_ARN not set")
		}
		return p.fcmPlatformArn, nil
	case "ios":
		if p.apnsPlatformArn == "" {
			return "", errors.New("SNS_APNS_ARN not set")
		}
		return p.apnsPlatformArn, nil
	default:
		return "", errors.New("unknown platform")
	}
}

func (p *PushService) RegisterDevice(userID uint, platform, token string) (*models.UserDevice, error) {
	appArn, err := p.platformArn(platform)
	if err != nil {
		return nil, err
	}

	out, err := p.sns.CreatePlatformEndpoint(context.TODO(), &awssns.CreatePlatformEndpointInput{
		PlatformApplicationArn: aws.String(appArn),
		Token:                  aws.String(token),
	})
	if err != nil {
		return nil, err
	}

	dev := &models.UserDevice{
		UserID:      userID,
		Platform:    strings.ToLower(platform),
		TokenHash:   p.tokenHash(token),
		EndpointARN: aws.ToString(out.EndpointArn),
		Enabled:     true,
		UpdatedAt:   time.Now(),
	}
	if err := p.db.Where("user_id = ? AND token_hash = ?", dev.UserID, dev.TokenHash).
		Assign(dev).FirstOrCreate(dev).Error; err != nil {
		return nil, err
	}
	return dev, nil
}

// sendToUser publishes a message to every enabled endpoint the user has.
func (p *PushService) sendToUser(userID uint, title, body string) error {
	var devices []models.UserDevice
	if err := p.db.Where("user_id = ? AND enabled = ?", userID, true).Find(&devices).Error; err != nil {
		return err
	}

	payload, _ := json.Marshal(map[string]string{"title": title, "body": body})
	for _, d := range devices {
		_, err := p.sns.Publish(context.TODO(), &awssns.PublishInput{
			TargetArn: aws.String(d.EndpointARN),
			Message:   aws.String(string(payload)),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// SendWeeklyStageReminder derives the user's current stage from the due date
// and pushes a progress update. Skips users whose pregnancy is outside the
// window (overdue or not set).
func (p *PushService) SendWeeklyStageReminder(user *models.User) error {
	if user.DueDate == nil {
		return nil
	}
	week, tri, ok := utils.StageFromDueDate(*user.DueDate, time.Now())
	if !ok {
		return nil
	}

	msg := fmt.Sprintf("Week %d (%s) — you are %.0f%% of the way there.",
		week, utils.TrimesterLabel(tri), utils.ProgressPercent(week))

	alert := models.Alert{UserID: user.ID, Type: "weekly", Message: msg}
	if err := p.db.Create(&alert).Error; err != nil {
		return err
	}
	if p.hub != nil {
		p.hub.Broadcast(user.ID, "alert", alert)
	}
	return p.sendToUser(user.ID, "Your weekly update", msg)
}

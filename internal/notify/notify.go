package notify

import (
	"errors"
	"log"
	"sync"

	"unitask-api/internal/email"
	"unitask-api/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotificationNotFound = errors.New("notification not found")

var (
	mu       sync.RWMutex
	emailSvc email.Service
)

// SetEmailService wires the outbound email transport. A nil service disables
// the email relay entirely; notification creation still happens.
func SetEmailService(svc email.Service) {
	mu.Lock()
	defer mu.Unlock()
	emailSvc = svc
}

func emailService() email.Service {
	mu.RLock()
	defer mu.RUnlock()
	return emailSvc
}

// Notify persists a notification for a user unconditionally, then relays it
// by email when the user has opted in and a transport is configured. Email
// delivery is asynchronous and best-effort: a send failure is logged and
// never reaches the caller.
func Notify(db *gorm.DB, userID, message, notifType string) {
	if notifType == "" {
		notifType = "info"
	}

	notification := models.Notification{
		ID:      uuid.NewString(),
		UserID:  userID,
		Message: message,
		Type:    notifType,
	}
	if err := db.Create(&notification).Error; err != nil {
		log.Printf("notify: failed to create notification for user %s: %v", userID, err)
		return
	}

	var user models.User
	if err := db.Where("id = ?", userID).First(&user).Error; err != nil {
		log.Printf("notify: user %s not found for email relay: %v", userID, err)
		return
	}

	svc := emailService()
	if svc == nil || !user.EmailNotificationsEnabled {
		return
	}

	go func() {
		if err := svc.Send(user.Email, "New Notification - UniTask", message); err != nil {
			log.Printf("notify: email to %s failed: %v", user.Email, err)
		}
	}()
}

// ListForUser returns the user's notifications, newest first.
func ListForUser(db *gorm.DB, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := db.Where("user_id = ?", userID).Order("created_at desc").Find(&notifications).Error
	return notifications, err
}

// MarkRead flips the read flag on one of the user's notifications. A
// notification belonging to someone else is reported as not found.
func MarkRead(db *gorm.DB, notificationID, userID string) error {
	var notification models.Notification
	if err := db.Where("id = ? AND user_id = ?", notificationID, userID).First(&notification).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return db.Model(&notification).Update("is_read", true).Error
}

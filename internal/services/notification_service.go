package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/jobhub/jobhub/internal/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

func (s *NotificationService) Create(userID, kind, title, message string) error {
	n := models.Notification{
		NotificationID: models.NewID("notif"),
		UserID:         userID,
		Type:           kind,
		Title:          title,
		Message:        message,
	}
	if err := s.DB.Create(&n).Error; err != nil {
		return fmt.Errorf("create notification: %w", err)
	}
	return nil
}

// List returns the newest notifications first, optionally unread only.
func (s *NotificationService) List(userID string, unreadOnly bool) ([]models.Notification, error) {
	q := s.DB.Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("read = ?", false)
	}
	var out []models.Notification
	if err := q.Order("created_at DESC").Limit(100).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (s *NotificationService) MarkRead(userID, notificationID string) error {
	res := s.DB.Model(&models.Notification{}).
		Where("notification_id = ? AND user_id = ?", notificationID, userID).
		Update("read", true)
	if res.Error != nil {
		return fmt.Errorf("mark notification read: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (s *NotificationService) MarkAllRead(userID string) (int64, error) {
	res := s.DB.Model(&models.Notification{}).
		Where("user_id = ? AND read = ?", userID, false).
		Update("read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("mark all read: %w", res.Error)
	}
	return res.RowsAffected, nil
}

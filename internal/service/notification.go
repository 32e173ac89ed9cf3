package service

import (
	"context"

	"parkwise-backend/internal/domain"
	"parkwise-backend/internal/repository"
)

type notificationService struct {
	noteRepo repository.NotificationRepository
}

func NewNotificationService(noteRepo repository.NotificationRepository) NotificationService {
	return &notificationService{noteRepo: noteRepo}
}

func (s *notificationService) ListNotifications(ctx context.Context, customerID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	return s.noteRepo.List(ctx, customerID, page, pageSize)
}

func (s *notificationService) MarkAsRead(ctx context.Context, customerID, notificationID int32) error {
	return s.noteRepo.MarkAsRead(ctx, notificationID, customerID)
}

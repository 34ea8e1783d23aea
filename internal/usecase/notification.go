package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/repository"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/ws"
)

// Notifier records an in-app notification for a user.
type Notifier interface {
	Notify(ctx context.Context, userID string, kind domain.NotificationType, title, message string) error
}

// Pusher delivers live messages. *ws.Manager satisfies it.
type Pusher interface {
	Send(userID string, msg ws.Message) int
}

type NotificationUsecase struct {
	repo   repository.NotificationRepository
	pusher Pusher
	logger *zap.Logger
	sim    simulation
}

func NewNotificationUsecase(repo repository.NotificationRepository, pusher Pusher, logger *zap.Logger, opts ...Option) *NotificationUsecase {
	return &NotificationUsecase{repo: repo, pusher: pusher, logger: logger, sim: newSimulation(opts)}
}

func (uc *NotificationUsecase) Notify(ctx context.Context, userID string, kind domain.NotificationType, title, message string) error {
	n := &domain.Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: uc.sim.now(),
	}
	if err := uc.repo.Create(ctx, n); err != nil {
		return err
	}

	if uc.pusher != nil {
		delivered := uc.pusher.Send(userID, ws.Message{Event: "notification", Data: n})
		uc.logger.Debug("notification pushed",
			zap.String("user_id", userID),
			zap.String("type", string(kind)),
			zap.Int("connections", delivered))
	}
	return nil
}

func (uc *NotificationUsecase) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	if err := uc.sim.read(ctx, "notifications.list"); err != nil {
		return nil, err
	}
	return uc.repo.List(ctx, userID)
}

func (uc *NotificationUsecase) UnreadCount(ctx context.Context, userID string) (int, error) {
	list, err := uc.repo.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	unread := 0
	for _, n := range list {
		if !n.Read {
			unread++
		}
	}
	return unread, nil
}

func (uc *NotificationUsecase) MarkRead(ctx context.Context, userID, id string) error {
	return uc.repo.MarkRead(ctx, userID, id)
}

func (uc *NotificationUsecase) MarkAllRead(ctx context.Context, userID string) (int, error) {
	return uc.repo.MarkAllRead(ctx, userID)
}

func (uc *NotificationUsecase) Delete(ctx context.Context, userID, id string) error {
	return uc.repo.Delete(ctx, userID, id)
}

// notifyQuietly is used for side effects that must never fail the caller.
func notifyQuietly(ctx context.Context, n Notifier, logger *zap.Logger, userID string, kind domain.NotificationType, title, message string) {
	if n == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()
	if err := n.Notify(ctx, userID, kind, title, message); err != nil {
		logger.Warn("failed to record notification", zap.String("user_id", userID), zap.Error(err))
	}
}

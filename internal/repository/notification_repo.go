package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
)

type MemoryNotifications struct {
	mu     sync.Mutex
	now    func() time.Time
	byUser map[string][]*domain.Notification
}

func NewMemoryNotifications(now func() time.Time) *MemoryNotifications {
	if now == nil {
		now = time.Now
	}
	return &MemoryNotifications{now: now, byUser: map[string][]*domain.Notification{}}
}

func (r *MemoryNotifications) Create(ctx context.Context, n *domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seedLocked(n.UserID)
	cp := *n
	r.byUser[n.UserID] = append(r.byUser[n.UserID], &cp)
	return nil
}

func (r *MemoryNotifications) List(ctx context.Context, userID string) ([]domain.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seedLocked(userID)
	out := make([]domain.Notification, 0, len(r.byUser[userID]))
	for _, n := range r.byUser[userID] {
		out = append(out, *n)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryNotifications) MarkRead(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seedLocked(userID)
	for _, n := range r.byUser[userID] {
		if n.ID == id {
			n.Read = true
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

func (r *MemoryNotifications) MarkAllRead(ctx context.Context, userID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seedLocked(userID)
	changed := 0
	for _, n := range r.byUser[userID] {
		if !n.Read {
			n.Read = true
			changed++
		}
	}
	return changed, nil
}

func (r *MemoryNotifications) Delete(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seedLocked(userID)
	list := r.byUser[userID]
	for i, n := range list {
		if n.ID == id {
			r.byUser[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotificationNotFound
}

// seedLocked gives a user the welcome notifications on first access.
func (r *MemoryNotifications) seedLocked(userID string) {
	if _, ok := r.byUser[userID]; ok {
		return
	}
	now := r.now()
	r.byUser[userID] = []*domain.Notification{
		{ID: uuid.NewString(), UserID: userID, Type: domain.NotificationSecurity, Title: "Nouvelle connexion",
			Message: "Une connexion à votre espace a été détectée depuis un nouvel appareil.", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: uuid.NewString(), UserID: userID, Type: domain.NotificationPayment, Title: "Paiement effectué",
			Message: "Votre facture Électricité de Guinée de 150 000 GNF a été réglée.", Read: true, CreatedAt: now.Add(-48 * time.Hour)},
		{ID: uuid.NewString(), UserID: userID, Type: domain.NotificationInfo, Title: "Maintenance programmée",
			Message: "Le service MTN Guinée est en maintenance. Les paiements reprendront sous peu.", CreatedAt: now.Add(-72 * time.Hour)},
	}
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/events"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/tenant"
)

type ReclamationUsecase struct {
	api       TenantAPI
	notifier  Notifier
	publisher events.Publisher
	logger    *zap.Logger
}

func NewReclamationUsecase(api TenantAPI, notifier Notifier, publisher events.Publisher, logger *zap.Logger) *ReclamationUsecase {
	if publisher == nil {
		publisher = events.Noop
	}
	return &ReclamationUsecase{api: api, notifier: notifier, publisher: publisher, logger: logger}
}

func (uc *ReclamationUsecase) List(ctx context.Context, token string, limit, offset int) (*tenant.ReclamationPage, error) {
	page, err := uc.api.ListReclamations(ctx, token, limit, offset)
	if err != nil {
		uc.logger.Warn("failed to list reclamations", zap.Error(err))
		return nil, tenantError(err, nil)
	}
	return page, nil
}

func (uc *ReclamationUsecase) Get(ctx context.Context, token, id string) (*tenant.Reclamation, error) {
	r, err := uc.api.GetReclamation(ctx, token, id)
	if err != nil {
		return nil, tenantError(err, domain.ErrReclamationNotFound)
	}
	return r, nil
}

func (uc *ReclamationUsecase) Create(ctx context.Context, token, userID string, form domain.ReclamationForm) (*tenant.Reclamation, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	priority := strings.TrimSpace(form.Priority)
	if priority == "" {
		priority = "normal"
	}
	r, err := uc.api.CreateReclamation(ctx, token, tenant.ReclamationInput{
		Type:          strings.TrimSpace(form.Type),
		Subject:       strings.TrimSpace(form.Subject),
		Description:   strings.TrimSpace(form.Description),
		AccountNumber: strings.TrimSpace(form.AccountNumber),
		Priority:      priority,
	})
	if err != nil {
		uc.logger.Error("failed to create reclamation", zap.String("user_id", userID), zap.Error(err))
		return nil, tenantError(err, nil)
	}

	uc.logger.Info("reclamation created", zap.String("reclamation_id", r.ID), zap.String("user_id", userID))

	notifyQuietly(ctx, uc.notifier, uc.logger, userID, domain.NotificationInfo,
		"Réclamation enregistrée", fmt.Sprintf("Votre réclamation « %s » a bien été transmise.", r.Subject))

	ev := events.Event{Type: events.TypeReclamationCreated, Key: r.ID, UserID: userID, OccurredAt: time.Now(), Payload: r}
	if err := uc.publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
		uc.logger.Warn("failed to publish reclamation event", zap.String("reclamation_id", r.ID), zap.Error(err))
	}
	return r, nil
}

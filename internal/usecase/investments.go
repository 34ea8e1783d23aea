package usecase

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/catalog"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/events"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/otp"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/repository"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/pkg/id"
)

type InvestmentUsecase struct {
	catalog   catalog.Catalog
	accounts  repository.AccountRepository
	repo      repository.InvestmentRepository
	verifier  otp.Verifier
	notifier  Notifier
	publisher events.Publisher
	logger    *zap.Logger
	sim       simulation
}

func NewInvestmentUsecase(
	cat catalog.Catalog,
	accounts repository.AccountRepository,
	repo repository.InvestmentRepository,
	verifier otp.Verifier,
	notifier Notifier,
	publisher events.Publisher,
	logger *zap.Logger,
	opts ...Option,
) *InvestmentUsecase {
	if publisher == nil {
		publisher = events.Noop
	}
	return &InvestmentUsecase{
		catalog:   cat,
		accounts:  accounts,
		repo:      repo,
		verifier:  verifier,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
		sim:       newSimulation(opts),
	}
}

func (uc *InvestmentUsecase) Products(ctx context.Context) ([]domain.InvestmentProduct, error) {
	return uc.catalog.Products(ctx)
}

func (uc *InvestmentUsecase) List(ctx context.Context, userID string) ([]domain.Investment, error) {
	if err := uc.sim.read(ctx, "investments.list"); err != nil {
		return nil, err
	}
	list, err := uc.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	if list == nil {
		list = []domain.Investment{}
	}
	now := uc.sim.now()
	for i := range list {
		if list[i].Status == domain.InvestmentActive && !now.Before(list[i].MaturityDate) {
			list[i].Status = domain.InvestmentMatured
		}
	}
	return list, nil
}

func (uc *InvestmentUsecase) Create(ctx context.Context, userID string, form domain.InvestmentForm) (*domain.Investment, error) {
	req, err := form.Parse()
	if err != nil {
		return nil, err
	}

	product, err := uc.catalog.Product(ctx, req.Product)
	if err != nil {
		return nil, err
	}
	if !product.AllowsDuration(req.DurationMonths) {
		return nil, domain.ErrInvalidDuration
	}
	if req.Amount.LessThan(product.MinAmount) {
		return nil, domain.NewProblem(domain.ErrBelowMinimum,
			"Le montant minimum pour %s est de %s", product.Name, domain.FormatAmount(product.MinAmount))
	}

	ok, err := uc.verifier.Verify(ctx, userID, PurposeInvestment, req.OTPCode)
	if err != nil {
		return nil, fmt.Errorf("verify otp: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidOTP
	}

	acc, err := uc.accounts.Get(ctx, req.SourceAccount)
	if err != nil {
		return nil, err
	}
	if !acc.Covers(req.Amount) {
		return nil, domain.ErrInsufficientFunds
	}

	now := uc.sim.now()
	interest := domain.SimpleInterest(req.Amount, product.Rate, req.DurationMonths)
	inv := &domain.Investment{
		ID:               id.New("INV"),
		UserID:           userID,
		Product:          product.ID,
		ProductName:      product.Name,
		Amount:           req.Amount,
		DurationMonths:   req.DurationMonths,
		Rate:             product.Rate,
		ExpectedInterest: interest,
		MaturityAmount:   req.Amount.Add(interest),
		SourceAccount:    acc.ID,
		Status:           domain.InvestmentActive,
		CreatedAt:        now,
		MaturityDate:     now.AddDate(0, req.DurationMonths, 0),
	}

	if err := uc.repo.Create(ctx, inv); err != nil {
		uc.logger.Error("failed to store investment", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("store investment: %w", err)
	}
	investmentsTotal.WithLabelValues(product.ID).Inc()

	uc.logger.Info("investment created",
		zap.String("investment_id", inv.ID),
		zap.String("product", product.ID),
		zap.String("user_id", userID),
		zap.String("amount", inv.Amount.String()))

	notifyQuietly(ctx, uc.notifier, uc.logger, userID, domain.NotificationInvestment,
		"Placement souscrit",
		fmt.Sprintf("%s : %s sur %d mois, intérêts attendus %s", product.Name,
			domain.FormatAmount(inv.Amount), inv.DurationMonths, domain.FormatAmount(interest)))

	ev := events.Event{Type: events.TypeInvestmentCreated, Key: inv.ID, UserID: userID, OccurredAt: now, Payload: inv}
	if err := uc.publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
		uc.logger.Warn("failed to publish investment event", zap.String("investment_id", inv.ID), zap.Error(err))
	}
	return inv, nil
}

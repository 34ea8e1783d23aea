package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/catalog"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/events"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/repository"
)

// amountStep rounds simulated bill amounts.
const amountStep = 500

type BillUsecase struct {
	catalog   catalog.Catalog
	accounts  repository.AccountRepository
	ledger    repository.LedgerRepository
	notifier  Notifier
	publisher events.Publisher
	logger    *zap.Logger
	sim       simulation
}

func NewBillUsecase(
	cat catalog.Catalog,
	accounts repository.AccountRepository,
	ledger repository.LedgerRepository,
	notifier Notifier,
	publisher events.Publisher,
	logger *zap.Logger,
	opts ...Option,
) *BillUsecase {
	if publisher == nil {
		publisher = events.Noop
	}
	return &BillUsecase{
		catalog:   cat,
		accounts:  accounts,
		ledger:    ledger,
		notifier:  notifier,
		publisher: publisher,
		logger:    logger,
		sim:       newSimulation(opts),
	}
}

func (uc *BillUsecase) Providers(ctx context.Context) ([]domain.Provider, error) {
	return uc.catalog.Providers(ctx)
}

// availableProvider resolves providerID and rejects anything not open for
// payment.
func (uc *BillUsecase) availableProvider(ctx context.Context, providerID string) (domain.Provider, error) {
	p, err := uc.catalog.Provider(ctx, providerID)
	if err != nil {
		return p, err
	}
	if !p.Available() {
		return p, domain.NewProblem(domain.ErrProviderUnavailable, "Le service %s est temporairement indisponible", p.Name)
	}
	return p, nil
}

// ValidateBillNumber checks billNumber against the provider's format and
// returns the bill or order it refers to.
func (uc *BillUsecase) ValidateBillNumber(ctx context.Context, billNumber, providerID string) (*domain.BillRecord, error) {
	billNumber = strings.TrimSpace(billNumber)
	providerID = strings.TrimSpace(providerID)
	if providerID == "" {
		return nil, domain.ErrProviderNotFound
	}

	p, err := uc.availableProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	if billNumber == "" {
		return nil, &domain.ValidationError{Field: "billNumber", Message: "Le numéro de facture est requis"}
	}

	if p.Type == domain.ProviderMerchant {
		return uc.lookupOrder(ctx, p, billNumber)
	}
	return uc.lookupBill(ctx, p, billNumber)
}

func (uc *BillUsecase) lookupBill(ctx context.Context, p domain.Provider, billNumber string) (*domain.BillRecord, error) {
	rule, err := uc.catalog.BillRule(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if !rule.Match(billNumber) {
		return nil, domain.NewProblem(domain.ErrInvalidBillNumber, "%s", rule.Message)
	}

	amount := rule.MinAmount
	if steps := (rule.MaxAmount - rule.MinAmount) / amountStep; steps > 0 {
		amount += int64(uc.sim.rnd.IntN(int(steps)+1)) * amountStep
	}
	due := uc.sim.now().Add(rule.DueIn)

	return &domain.BillRecord{
		ProviderID:   p.ID,
		ProviderName: p.Name,
		Type:         p.Type,
		BillNumber:   billNumber,
		CustomerName: rule.Customer,
		Address:      rule.Address,
		Amount:       decimal.NewFromInt(amount),
		DueDate:      &due,
	}, nil
}

func (uc *BillUsecase) lookupOrder(ctx context.Context, p domain.Provider, orderNumber string) (*domain.BillRecord, error) {
	m, err := uc.catalog.Merchant(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if !m.Match(orderNumber) {
		return nil, domain.NewProblem(domain.ErrInvalidBillNumber, "%s", m.Message)
	}

	return &domain.BillRecord{
		ProviderID:     p.ID,
		ProviderName:   p.Name,
		Type:           p.Type,
		BillNumber:     orderNumber,
		CustomerName:   m.Customer,
		Location:       m.Location,
		Amount:         m.Amount,
		OrderReference: m.OrderReference,
	}, nil
}

// PayBill settles a bill or merchant order: validation, availability,
// balance, processing delay, simulated network fault, reference.
func (uc *BillUsecase) PayBill(ctx context.Context, userID string, form domain.PaymentForm) (res *domain.PaymentResult, err error) {
	start := time.Now()
	ptype := "unknown"
	defer func() {
		paymentsTotal.WithLabelValues(ptype, outcome(err)).Inc()
		operationDuration.WithLabelValues("bills.pay").Observe(time.Since(start).Seconds())
	}()

	req, err := form.Parse()
	if err != nil {
		return nil, err
	}

	p, err := uc.availableProvider(ctx, req.ProviderID)
	if err != nil {
		return nil, err
	}
	ptype = string(p.Type)

	acc, err := uc.accounts.Get(ctx, req.SourceAccount)
	if err != nil {
		return nil, err
	}

	total := req.Amount.Add(p.Fee)
	if !acc.Covers(total) {
		return nil, domain.NewProblem(domain.ErrInsufficientFunds,
			"Solde insuffisant. Montant total requis : %s", domain.FormatAmount(total))
	}

	if err := uc.sim.wait(ctx, p.ProcessingTime); err != nil {
		return nil, err
	}

	if err := uc.sim.faults.Inject(ctx, "bills.pay"); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		uc.logger.Warn("payment network failure",
			zap.String("provider_id", p.ID),
			zap.String("bill_number", req.BillNumber),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrSimulatedNetwork, err)
	}

	now := uc.sim.now()
	res = &domain.PaymentResult{
		Success:     true,
		Reference:   domain.PaymentReference(p.ReferencePrefix(), now, uc.sim.rnd.IntN(1000)),
		Amount:      req.Amount,
		Fee:         p.Fee,
		Total:       total,
		Provider:    p.Name,
		Type:        p.Type,
		ProcessedAt: now,
	}
	if p.Type == domain.ProviderMerchant {
		res.Message = fmt.Sprintf("Paiement de %s effectué chez %s", domain.FormatAmount(total), p.Name)
	} else {
		res.Message = fmt.Sprintf("Facture %s payée avec succès", p.Name)
	}

	uc.logger.Info("payment settled",
		zap.String("reference", res.Reference),
		zap.String("provider_id", p.ID),
		zap.String("user_id", userID),
		zap.String("total", total.String()))
	paymentVolume.WithLabelValues(ptype).Add(total.InexactFloat64())

	uc.recordPayment(ctx, userID, req, p, res)
	return res, nil
}

// recordPayment runs the post-settlement side effects. None of them can fail
// the payment.
func (uc *BillUsecase) recordPayment(ctx context.Context, userID string, req domain.PaymentRequest, p domain.Provider, res *domain.PaymentResult) {
	entry := domain.LedgerEntry{
		Reference:     res.Reference,
		UserID:        userID,
		Kind:          domain.KindFor(p.Type),
		ProviderID:    p.ID,
		ProviderName:  p.Name,
		BillNumber:    req.BillNumber,
		SourceAccount: req.SourceAccount,
		Amount:        res.Amount,
		Fee:           res.Fee,
		Total:         res.Total,
		Status:        "completed",
		CreatedAt:     res.ProcessedAt,
	}
	if err := uc.ledger.Append(context.WithoutCancel(ctx), entry); err != nil {
		uc.logger.Error("failed to record payment history", zap.String("reference", res.Reference), zap.Error(err))
	}

	notifyQuietly(ctx, uc.notifier, uc.logger, userID, domain.NotificationPayment,
		"Paiement effectué", fmt.Sprintf("%s : %s (réf. %s)", p.Name, domain.FormatAmount(res.Total), res.Reference))

	ev := events.Event{Type: events.TypePaymentSettled, Key: res.Reference, UserID: userID, OccurredAt: res.ProcessedAt, Payload: entry}
	if err := uc.publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
		uc.logger.Warn("failed to publish payment event", zap.String("reference", res.Reference), zap.Error(err))
	}
}

func (uc *BillUsecase) History(ctx context.Context, filter domain.LedgerFilter) ([]domain.LedgerEntry, error) {
	if err := uc.sim.read(ctx, "bills.history"); err != nil {
		return nil, err
	}
	entries, err := uc.ledger.List(ctx, filter)
	if err != nil {
		uc.logger.Error("failed to load history", zap.String("user_id", filter.UserID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	return entries, nil
}

func (uc *BillUsecase) Stats(ctx context.Context, userID string) (*domain.PaymentStats, error) {
	if err := uc.sim.read(ctx, "bills.stats"); err != nil {
		return nil, err
	}
	entries, err := uc.ledger.List(ctx, domain.LedgerFilter{UserID: userID})
	if err != nil {
		uc.logger.Error("failed to load stats", zap.String("user_id", userID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrDataUnavailable, err)
	}
	return computeStats(entries, uc.sim.now()), nil
}

func computeStats(entries []domain.LedgerEntry, now time.Time) *domain.PaymentStats {
	stats := &domain.PaymentStats{
		TotalAmount: decimal.Zero,
		TotalFees:   decimal.Zero,
		MonthToDate: decimal.Zero,
		ByKind:      map[domain.EntryKind]domain.KindStats{},
	}
	perProvider := map[string]int{}

	for _, e := range entries {
		stats.TotalCount++
		stats.TotalAmount = stats.TotalAmount.Add(e.Amount)
		stats.TotalFees = stats.TotalFees.Add(e.Fee)
		if e.CreatedAt.Year() == now.Year() && e.CreatedAt.Month() == now.Month() {
			stats.MonthToDate = stats.MonthToDate.Add(e.Total)
		}

		k := stats.ByKind[e.Kind]
		k.Count++
		k.Amount = k.Amount.Add(e.Amount)
		k.Fees = k.Fees.Add(e.Fee)
		stats.ByKind[e.Kind] = k

		if e.Kind != domain.EntryFunds {
			perProvider[e.ProviderName]++
		}
	}

	best := 0
	for name, n := range perProvider {
		if n > best || (n == best && name < stats.FavoriteProvider) {
			best, stats.FavoriteProvider = n, name
		}
	}
	return stats
}

// Promotions lists the offers still running.
func (uc *BillUsecase) Promotions(ctx context.Context) ([]domain.Promotion, error) {
	if err := uc.sim.read(ctx, "bills.promotions"); err != nil {
		return nil, err
	}
	all, err := uc.catalog.Promotions(ctx)
	if err != nil {
		return nil, err
	}
	now := uc.sim.now()
	out := make([]domain.Promotion, 0, len(all))
	for _, p := range all {
		if p.ValidUntil.After(now) {
			out = append(out, p)
		}
	}
	return out, nil
}

type Overview struct {
	History    []domain.LedgerEntry `json:"history"`
	Stats      *domain.PaymentStats `json:"stats"`
	Promotions []domain.Promotion   `json:"promotions"`
}

// Overview loads the payments dashboard. The three reads run concurrently
// and the first failure cancels the others.
func (uc *BillUsecase) Overview(ctx context.Context, userID string, historyLimit int) (*Overview, error) {
	var out Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		h, err := uc.History(gctx, domain.LedgerFilter{UserID: userID, Limit: historyLimit})
		out.History = h
		return err
	})
	g.Go(func() error {
		s, err := uc.Stats(gctx, userID)
		out.Stats = s
		return err
	})
	g.Go(func() error {
		p, err := uc.Promotions(gctx)
		out.Promotions = p
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

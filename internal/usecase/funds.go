package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/events"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/otp"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/repository"
)

const (
	PurposeFundsProvision = "funds_provision"
	PurposeInvestment     = "investment"
)

type FundsUsecase struct {
	accounts  repository.AccountRepository
	limits    repository.LimitRepository
	ledger    repository.LedgerRepository
	verifier  otp.Verifier
	issuer    otp.Issuer
	notifier  Notifier
	publisher events.Publisher
	policy    domain.LimitPolicy
	logger    *zap.Logger
	sim       simulation
}

// NewFundsUsecase wires the provision flow. issuer may be nil when codes are
// not sent by this service (static or TOTP verification).
func NewFundsUsecase(
	accounts repository.AccountRepository,
	limits repository.LimitRepository,
	ledger repository.LedgerRepository,
	verifier otp.Verifier,
	issuer otp.Issuer,
	notifier Notifier,
	publisher events.Publisher,
	policy domain.LimitPolicy,
	logger *zap.Logger,
	opts ...Option,
) *FundsUsecase {
	if publisher == nil {
		publisher = events.Noop
	}
	return &FundsUsecase{
		accounts:  accounts,
		limits:    limits,
		ledger:    ledger,
		verifier:  verifier,
		issuer:    issuer,
		notifier:  notifier,
		publisher: publisher,
		policy:    policy,
		logger:    logger,
		sim:       newSimulation(opts),
	}
}

// CreateFundsProvision makes cash available to a beneficiary: OTP, balance,
// then an atomic limit reservation.
func (uc *FundsUsecase) CreateFundsProvision(ctx context.Context, userID string, form domain.FundsProvisionForm) (res *domain.FundsProvisionResult, err error) {
	start := time.Now()
	defer func() {
		provisionsTotal.WithLabelValues(outcome(err)).Inc()
		operationDuration.WithLabelValues("funds.provision").Observe(time.Since(start).Seconds())
	}()

	req, err := form.Parse()
	if err != nil {
		return nil, err
	}

	// Single-use codes are only spent once the provision is sure to go ahead,
	// so a rejected request does not burn them.
	checker, singleUse := uc.verifier.(otp.Checker)
	var ok bool
	if singleUse {
		ok, err = checker.Check(ctx, userID, PurposeFundsProvision, req.OTPCode)
	} else {
		ok, err = uc.verifier.Verify(ctx, userID, PurposeFundsProvision, req.OTPCode)
	}
	if err != nil {
		return nil, fmt.Errorf("verify otp: %w", err)
	}
	if !ok {
		uc.logger.Info("funds provision rejected: invalid otp", zap.String("user_id", userID))
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
	if singleUse {
		current, err := uc.limits.Usage(ctx, userID, now)
		if err != nil {
			return nil, fmt.Errorf("load limit usage: %w", err)
		}
		if err := domain.CheckLimits(uc.policy, current, req.Amount); err != nil {
			uc.logger.Info("funds provision rejected: limit", zap.String("user_id", userID), zap.Error(err))
			return nil, err
		}
		spent, err := checker.Consume(ctx, userID, PurposeFundsProvision, req.OTPCode)
		if err != nil {
			return nil, fmt.Errorf("consume otp: %w", err)
		}
		if !spent {
			return nil, domain.ErrInvalidOTP
		}
	}

	usage, err := uc.limits.Reserve(ctx, userID, req.Amount, uc.policy, now)
	if err != nil {
		if domain.IsBusiness(err) {
			uc.logger.Info("funds provision rejected: limit", zap.String("user_id", userID), zap.Error(err))
		}
		return nil, err
	}

	res = &domain.FundsProvisionResult{
		Success:          true,
		Message:          fmt.Sprintf("Mise à disposition de %s effectuée pour %s", domain.FormatAmount(req.Amount), req.BeneficiaryName),
		Reference:        domain.ProvisionReference(now, uc.sim.rnd.IntN(10000)),
		WithdrawalCode:   fmt.Sprintf("%06d", uc.sim.rnd.IntN(1000000)),
		Amount:           req.Amount,
		BeneficiaryName:  req.BeneficiaryName,
		BeneficiaryPhone: req.BeneficiaryPhone,
		CreatedAt:        now,
		Limits:           domain.LimitsFor(uc.policy, usage),
	}

	uc.logger.Info("funds provisioned",
		zap.String("reference", res.Reference),
		zap.String("user_id", userID),
		zap.String("amount", req.Amount.String()))

	uc.recordProvision(ctx, userID, req, res)
	return res, nil
}

func (uc *FundsUsecase) recordProvision(ctx context.Context, userID string, req domain.FundsProvisionRequest, res *domain.FundsProvisionResult) {
	entry := domain.LedgerEntry{
		Reference:     res.Reference,
		UserID:        userID,
		Kind:          domain.EntryFunds,
		ProviderName:  req.BeneficiaryName,
		BillNumber:    req.BeneficiaryPhone,
		SourceAccount: req.SourceAccount,
		Amount:        req.Amount,
		Fee:           decimal.Zero,
		Total:         req.Amount,
		Status:        "pending_withdrawal",
		CreatedAt:     res.CreatedAt,
	}
	if err := uc.ledger.Append(context.WithoutCancel(ctx), entry); err != nil {
		uc.logger.Error("failed to record provision history", zap.String("reference", res.Reference), zap.Error(err))
	}

	notifyQuietly(ctx, uc.notifier, uc.logger, userID, domain.NotificationProvision,
		"Mise à disposition effectuée",
		fmt.Sprintf("%s disponibles pour %s (réf. %s)", domain.FormatAmount(req.Amount), req.BeneficiaryName, res.Reference))

	ev := events.Event{Type: events.TypeFundsProvisioned, Key: res.Reference, UserID: userID, OccurredAt: res.CreatedAt, Payload: entry}
	if err := uc.publisher.Publish(context.WithoutCancel(ctx), ev); err != nil {
		uc.logger.Warn("failed to publish provision event", zap.String("reference", res.Reference), zap.Error(err))
	}
}

func (uc *FundsUsecase) CurrentLimits(ctx context.Context, userID string) (domain.Limits, error) {
	usage, err := uc.limits.Usage(ctx, userID, uc.sim.now())
	if err != nil {
		return domain.Limits{}, fmt.Errorf("load limit usage: %w", err)
	}
	return domain.LimitsFor(uc.policy, usage), nil
}

// RequestOTP issues a code for purpose and delivers it as an in-app
// notification. userID must be a verified identity. It returns how long the
// code stays valid.
func (uc *FundsUsecase) RequestOTP(ctx context.Context, userID, purpose string) (time.Duration, error) {
	if uc.issuer == nil {
		return 0, domain.ErrOTPUnsupported
	}
	switch purpose {
	case PurposeFundsProvision, PurposeInvestment:
	default:
		return 0, &domain.ValidationError{Field: "purpose", Message: "Opération inconnue"}
	}

	if userID == "" {
		return 0, domain.ErrUnauthorized
	}

	code, err := uc.issuer.Issue(ctx, userID, purpose)
	if err != nil {
		return 0, err
	}

	if uc.notifier != nil {
		msg := fmt.Sprintf("Votre code de confirmation est %s. Il expire dans %d minutes.", code.Value, int(code.ExpiresIn.Minutes()))
		if err := uc.notifier.Notify(ctx, userID, domain.NotificationSecurity, "Code de confirmation", msg); err != nil {
			return 0, fmt.Errorf("deliver otp: %w", err)
		}
	}
	return code.ExpiresIn, nil
}

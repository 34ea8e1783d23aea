package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/catalog"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/events"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/otp"
	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/repository"
)

func newInvestmentUsecase(pub *recordingPublisher) *InvestmentUsecase {
	return NewInvestmentUsecase(
		catalog.NewStatic(),
		repository.NewStaticAccounts(),
		repository.NewMemoryInvestments(),
		otp.NewStatic(),
		&recordingNotifier{},
		pub,
		zap.NewNop(),
		testOptions()...,
	)
}

func investForm(product, amount, months string) domain.InvestmentForm {
	return domain.InvestmentForm{Product: product, Amount: amount, DurationMonths: months, SourceAccount: "acc_001", OTPCode: "123456"}
}

func TestInvestment_Create(t *testing.T) {
	pub := &recordingPublisher{}
	uc := newInvestmentUsecase(pub)
	ctx := context.Background()

	inv, err := uc.Create(ctx, "u1", investForm("dat", "2000000", "12"))
	require.NoError(t, err)
	assert.Regexp(t, `^INV_[0-9A-Z]{26}$`, inv.ID)
	assert.Equal(t, "Dépôt à terme", inv.ProductName)
	assert.Equal(t, "130000", inv.ExpectedInterest.String())
	assert.Equal(t, "2130000", inv.MaturityAmount.String())
	assert.Equal(t, domain.InvestmentActive, inv.Status)
	assert.Equal(t, testNow.AddDate(1, 0, 0), inv.MaturityDate)
	assert.Equal(t, []string{events.TypeInvestmentCreated}, pub.types())

	list, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, inv.ID, list[0].ID)

	other, err := uc.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestInvestment_ListMarksMatured(t *testing.T) {
	now := testNow
	uc := NewInvestmentUsecase(
		catalog.NewStatic(),
		repository.NewStaticAccounts(),
		repository.NewMemoryInvestments(),
		otp.NewStatic(),
		&recordingNotifier{},
		&recordingPublisher{},
		zap.NewNop(),
		testOptions(WithClock(func() time.Time { return now }))...,
	)
	ctx := context.Background()

	short, err := uc.Create(ctx, "u1", investForm("epargne_plus", "500000", "3"))
	require.NoError(t, err)
	long, err := uc.Create(ctx, "u1", investForm("dat", "2000000", "24"))
	require.NoError(t, err)

	now = short.MaturityDate
	list, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	status := map[string]domain.InvestmentStatus{}
	for _, inv := range list {
		status[inv.ID] = inv.Status
	}
	assert.Equal(t, domain.InvestmentMatured, status[short.ID])
	assert.Equal(t, domain.InvestmentActive, status[long.ID])
}

func TestInvestment_Rejections(t *testing.T) {
	uc := newInvestmentUsecase(&recordingPublisher{})
	ctx := context.Background()

	_, err := uc.Create(ctx, "u1", investForm("crypto", "2000000", "12"))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	_, err = uc.Create(ctx, "u1", investForm("dat", "2000000", "36"))
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)

	_, err = uc.Create(ctx, "u1", investForm("bons_tresor", "1000000", "12"))
	assert.ErrorIs(t, err, domain.ErrBelowMinimum)
	assert.Contains(t, domain.UserMessage(err), "Bons du Trésor")

	form := investForm("dat", "2000000", "12")
	form.OTPCode = "999999"
	_, err = uc.Create(ctx, "u1", form)
	assert.ErrorIs(t, err, domain.ErrInvalidOTP)

	_, err = uc.Create(ctx, "u1", investForm("bons_tresor", "16000000", "12"))
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	list, err := uc.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInvestment_Products(t *testing.T) {
	uc := newInvestmentUsecase(&recordingPublisher{})

	products, err := uc.Products(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 3)
}

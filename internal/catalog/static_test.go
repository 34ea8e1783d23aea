package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TymyProx/ebanking-web-app-with-api-momo-sub001/internal/domain"
)

func TestStatic_ProviderLookup(t *testing.T) {
	ctx := context.Background()
	c := NewStatic()

	p, err := c.Provider(ctx, "edg")
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderUtility, p.Type)
	assert.True(t, p.Fee.Equal(decimal.NewFromInt(1000)))
	assert.True(t, p.Available())

	_, err = c.Provider(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrProviderNotFound)

	all, err := c.Providers(ctx)
	require.NoError(t, err)
	assert.Equal(t, "edg", all[0].ID)
	assert.Len(t, all, 9)
}

func TestStatic_Overrides(t *testing.T) {
	ctx := context.Background()
	c := NewStatic(
		WithStatus("mtn", domain.StatusAvailable),
		WithFee("edg", decimal.NewFromInt(250)),
		WithStatus("ghost", domain.StatusAvailable),
	)

	mtn, err := c.Provider(ctx, "mtn")
	require.NoError(t, err)
	assert.True(t, mtn.Available())

	edg, err := c.Provider(ctx, "edg")
	require.NoError(t, err)
	assert.Equal(t, "250", edg.Fee.String())

	_, err = c.Provider(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrProviderNotFound)
}

func TestStatic_BillRules(t *testing.T) {
	ctx := context.Background()
	c := NewStatic()

	cases := []struct {
		provider string
		number   string
		ok       bool
	}{
		{"edg", "12345678", true},
		{"edg", "1234567", false},
		{"seg", "87654321", true},
		{"orange", "622123456", true},
		{"orange", "722123456", false},
		{"guilab", "GL123456", true},
		{"guilab", "GL12345", false},
	}
	for _, tc := range cases {
		rule, err := c.BillRule(ctx, tc.provider)
		require.NoError(t, err, tc.provider)
		assert.Equal(t, tc.ok, rule.Match(tc.number), "%s/%s", tc.provider, tc.number)
	}

	rule, err := c.BillRule(ctx, "edg")
	require.NoError(t, err)
	assert.Equal(t, "DIALLO Mamadou", rule.Customer)
}

func TestStatic_Merchants(t *testing.T) {
	ctx := context.Background()
	c := NewStatic()

	m, err := c.Merchant(ctx, "espace")
	require.NoError(t, err)
	assert.True(t, m.Match("ESP12345678"))
	assert.False(t, m.Match("ESP1234"))

	_, err = c.Merchant(ctx, "edg")
	assert.ErrorIs(t, err, domain.ErrMerchantUnknown)
}

func TestStatic_Products(t *testing.T) {
	ctx := context.Background()
	c := NewStatic()

	products, err := c.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "epargne_plus", products[0].ID)

	dat, err := c.Product(ctx, "dat")
	require.NoError(t, err)
	assert.True(t, dat.AllowsDuration(12))
	assert.False(t, dat.AllowsDuration(36))

	_, err = c.Product(ctx, "crypto")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

package domain_test

import (
	"testing"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const (
	mainnetAddress = "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"
	testnetAddress = "tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx"
)

func newTestPayment() domain.RecurringPayment {
	start := time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	return domain.RecurringPayment{
		Name:            "rent",
		PaymentType:     domain.PaymentTypeFixedAmount,
		DestinationType: domain.DestinationWhitelistedAddresses,
		Frequency:       domain.FrequencyMonthly,
		StartDate:       start,
		EndDate:         start.AddDate(1, 0, 0),
		Amount:          decimal.NewFromInt(1500),
		Currency:        "USD",
		Addresses:       []string{mainnetAddress},
	}
}

func TestRecurringPaymentValidate(t *testing.T) {
	t.Parallel()

	payment := newTestPayment()
	require.True(t, payment.IsDraft())
	require.NoError(t, payment.Validate(&chaincfg.MainNetParams))

	openEnded := newTestPayment()
	openEnded.EndDate = time.Time{}
	require.NoError(t, openEnded.Validate(&chaincfg.MainNetParams))

	percentage := newTestPayment()
	percentage.PaymentType = domain.PaymentTypePercentage
	percentage.Amount = decimal.NewFromFloat(2.5)
	require.NoError(t, percentage.Validate(&chaincfg.MainNetParams))

	toWallet := newTestPayment()
	toWallet.DestinationType = domain.DestinationWallet
	toWallet.Addresses = []string{"savings-wallet"}
	require.NoError(t, toWallet.Validate(&chaincfg.MainNetParams))

	testnet := newTestPayment()
	testnet.Addresses = []string{testnetAddress}
	require.NoError(t, testnet.Validate(&chaincfg.TestNet3Params))
}

func TestFailingRecurringPaymentValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		mutate        func(p *domain.RecurringPayment)
		expectedError error
	}{
		{
			"missing name",
			func(p *domain.RecurringPayment) { p.Name = "" },
			domain.ErrMissingPaymentName,
		},
		{
			"zero amount",
			func(p *domain.RecurringPayment) { p.Amount = decimal.Zero },
			domain.ErrInvalidPaymentAmount,
		},
		{
			"negative amount",
			func(p *domain.RecurringPayment) { p.Amount = decimal.NewFromInt(-1) },
			domain.ErrInvalidPaymentAmount,
		},
		{
			"percentage over 100",
			func(p *domain.RecurringPayment) {
				p.PaymentType = domain.PaymentTypePercentage
				p.Amount = decimal.NewFromInt(101)
			},
			domain.ErrInvalidPercentage,
		},
		{
			"unknown payment type",
			func(p *domain.RecurringPayment) { p.PaymentType = "BEST_EFFORT" },
			domain.ErrUnknownPaymentType,
		},
		{
			"unknown frequency",
			func(p *domain.RecurringPayment) { p.Frequency = "HOURLY" },
			domain.ErrUnknownFrequency,
		},
		{
			"missing start date",
			func(p *domain.RecurringPayment) { p.StartDate = time.Time{} },
			domain.ErrMissingStartDate,
		},
		{
			"end date before start date",
			func(p *domain.RecurringPayment) { p.EndDate = p.StartDate.AddDate(0, 0, -1) },
			domain.ErrInvalidEndDate,
		},
		{
			"no destination",
			func(p *domain.RecurringPayment) { p.Addresses = nil },
			domain.ErrMissingDestination,
		},
		{
			"malformed address",
			func(p *domain.RecurringPayment) { p.Addresses = []string{"not-an-address"} },
			domain.ErrInvalidAddress,
		},
		{
			"address of another network",
			func(p *domain.RecurringPayment) { p.Addresses = []string{testnetAddress} },
			domain.ErrInvalidAddress,
		},
		{
			"unknown destination type",
			func(p *domain.RecurringPayment) { p.DestinationType = "EXCHANGE" },
			domain.ErrUnknownDestinationType,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			payment := newTestPayment()
			tt.mutate(&payment)
			err := payment.Validate(&chaincfg.MainNetParams)
			require.ErrorIs(t, err, tt.expectedError)
		})
	}
}

package application_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
	"github.com/keyguard-network/keyguard-daemon/pkg/retry"
)

func newTestPayment() domain.RecurringPayment {
	return domain.RecurringPayment{
		Name:            "savings",
		PaymentType:     domain.PaymentTypePercentage,
		DestinationType: domain.DestinationWhitelistedAddresses,
		Frequency:       domain.FrequencyWeekly,
		StartDate:       time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2027, 11, 1, 0, 0, 0, 0, time.UTC),
		Amount:          decimal.NewFromInt(10),
		Addresses:       []string{"1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"},
	}
}

func TestCreateRecurringPaymentValidatesBeforeNetwork(t *testing.T) {
	server := &mockAssistedServer{}
	cfg := newTestConfig(t, server, &mockEngine{})
	svc := cfg.RecurringPaymentService()
	ctx := context.Background()

	tests := []struct {
		name     string
		update   func(p *domain.RecurringPayment)
		walletID string
		err      error
	}{
		{
			name:     "missing wallet",
			update:   func(p *domain.RecurringPayment) {},
			walletID: "",
			err:      domain.ErrMissingWalletID,
		},
		{
			name:     "already created",
			update:   func(p *domain.RecurringPayment) { p.ID = "rp-1" },
			walletID: "w1",
			err:      domain.ErrPaymentAlreadyCreated,
		},
		{
			name:     "missing name",
			update:   func(p *domain.RecurringPayment) { p.Name = "" },
			walletID: "w1",
			err:      domain.ErrMissingPaymentName,
		},
		{
			name:     "percentage above 100",
			update:   func(p *domain.RecurringPayment) { p.Amount = decimal.NewFromInt(101) },
			walletID: "w1",
			err:      domain.ErrInvalidPercentage,
		},
		{
			name:     "end before start",
			update:   func(p *domain.RecurringPayment) { p.EndDate = p.StartDate.Add(-time.Hour) },
			walletID: "w1",
			err:      domain.ErrInvalidEndDate,
		},
		{
			name: "address of another network",
			update: func(p *domain.RecurringPayment) {
				p.Addresses = []string{"tb1qw508d6qejxtdg4y5r3zarvary0c5xw7kxpjzsx"}
			},
			walletID: "w1",
			err:      domain.ErrInvalidAddress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment := newTestPayment()
			tt.update(&payment)

			_, err := svc.Create(ctx, "", tt.walletID, payment)
			require.ErrorIs(t, err, tt.err)
		})
	}

	server.AssertNotCalled(
		t, "CreateRecurringPayment", mock.Anything, mock.Anything, mock.Anything,
		mock.Anything,
	)
}

func TestCreateRecurringPayment(t *testing.T) {
	server := &mockAssistedServer{}
	cfg := newTestConfig(t, server, &mockEngine{})
	svc := cfg.RecurringPaymentService()
	payment := newTestPayment()

	server.On("CreateRecurringPayment", mock.Anything, "g1", "w1", payment).
		Return("", retry.MarkIO(errConnectionLost)).Once()
	server.On("CreateRecurringPayment", mock.Anything, "g1", "w1", payment).
		Return("rp-1", nil)

	id, err := svc.Create(context.Background(), "g1", "w1", payment)
	require.NoError(t, err)
	require.Equal(t, "rp-1", id)

	// Both attempts carry the same idempotency key.
	calls := server.Calls
	require.Len(t, calls, 2)
	first := ports.IdempotencyKey(calls[0].Arguments.Get(0).(context.Context))
	second := ports.IdempotencyKey(calls[1].Arguments.Get(0).(context.Context))
	require.NotEmpty(t, first)
	require.Equal(t, first, second)
}

func TestDeleteRecurringPaymentIsGated(t *testing.T) {
	server := &mockAssistedServer{}
	cfg := newTestConfig(t, server, &mockEngine{})
	svc := cfg.RecurringPaymentService()
	ctx := context.Background()

	payment := newTestPayment()
	payment.ID = "rp-1"
	pendingTx := &domain.DummyTransactionPayload{
		ID:                 "dummy-1",
		WalletID:           "w1",
		Type:               domain.DummyTxDeleteRecurringPayment,
		Status:             domain.DummyTxStatusPendingSignatures,
		RequiredSignatures: 2,
		PendingSignatures:  2,
	}
	confirmedTx := *pendingTx
	confirmedTx.Status = domain.DummyTxStatusConfirmed
	confirmedTx.PendingSignatures = 0

	server.On("DeleteRecurringPayment", mock.Anything, "", "w1", "rp-1").
		Return(pendingTx, nil)
	server.On("GetRecurringPayment", mock.Anything, "", "w1", "rp-1").
		Return(&payment, nil).Once()
	server.On("GetDummyTransaction", mock.Anything, "", "w1", "dummy-1").
		Return(&confirmedTx, nil)
	server.On("GetRecurringPayment", mock.Anything, "", "w1", "rp-1").
		Return(nil, &notFoundError{})

	dummyTx, err := svc.Delete(ctx, "", "w1", "rp-1")
	require.NoError(t, err)
	require.Equal(t, "dummy-1", dummyTx.ID)
	require.False(t, dummyTx.IsCompleted())

	got, err := svc.Get(ctx, "", "w1", "rp-1")
	require.NoError(t, err)
	require.Equal(t, "rp-1", got.ID)

	dummyTx, err = svc.GetDummyTransaction(ctx, "", "w1", "dummy-1")
	require.NoError(t, err)
	require.True(t, dummyTx.IsCompleted())

	_, err = svc.Get(ctx, "", "w1", "rp-1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	// Not-found is not an IO failure, it's never retried.
	server.AssertNumberOfCalls(t, "GetRecurringPayment", 2)
}

func TestListRecurringPayments(t *testing.T) {
	server := &mockAssistedServer{}
	cfg := newTestConfig(t, server, &mockEngine{})
	svc := cfg.RecurringPaymentService()

	payment := newTestPayment()
	payment.ID = "rp-1"
	server.On("ListRecurringPayments", mock.Anything, "g1", "w1").
		Return([]domain.RecurringPayment{payment}, nil)

	list, err := svc.List(context.Background(), "g1", "w1")
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = svc.List(context.Background(), "g1", "")
	require.ErrorIs(t, err, domain.ErrMissingWalletID)
	_, err = svc.Get(context.Background(), "g1", "w1", "")
	require.ErrorIs(t, err, domain.ErrMissingPaymentID)
}

type notFoundError struct{}

func (e *notFoundError) Error() string {
	return "recurring payment not found"
}

func (e *notFoundError) Is(target error) bool {
	return target == domain.ErrNotFound
}

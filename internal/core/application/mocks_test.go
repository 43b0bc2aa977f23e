package application_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
)

// **** Engine ****

type mockEngine struct {
	mock.Mock
}

func (m *mockEngine) HasSigner(
	ctx context.Context, signer ports.SignerDescriptor,
) (bool, error) {
	args := m.Called(ctx, signer)

	var res bool
	if a := args.Get(0); a != nil {
		res = a.(bool)
	}
	return res, args.Error(1)
}

func (m *mockEngine) CreateSigner(
	ctx context.Context, signer ports.SignerDescriptor,
) error {
	args := m.Called(ctx, signer)
	return args.Error(0)
}

func (m *mockEngine) AddTapsignerSigner(
	ctx context.Context, card ports.TapsignerCard,
) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *mockEngine) DeleteSigner(ctx context.Context, masterSignerID string) error {
	args := m.Called(ctx, masterSignerID)
	return args.Error(0)
}

// **** Assisted server ****

type mockAssistedServer struct {
	mock.Mock
}

func (m *mockAssistedServer) GetCurrentSubscription(
	ctx context.Context,
) (*domain.Subscription, error) {
	args := m.Called(ctx)

	var res *domain.Subscription
	if a := args.Get(0); a != nil {
		res = a.(*domain.Subscription)
	}
	return res, args.Error(1)
}

func (m *mockAssistedServer) UploadKey(
	ctx context.Context, plan domain.MembershipPlan, step domain.Step,
	signer domain.SignerServer,
) (string, error) {
	args := m.Called(ctx, plan, step, signer)
	return args.String(0), args.Error(1)
}

func (m *mockAssistedServer) VerifyKey(
	ctx context.Context, keyIDInServer string, verification ports.KeyVerification,
) error {
	args := m.Called(ctx, keyIDInServer, verification)
	return args.Error(0)
}

func (m *mockAssistedServer) ListAssistedWallets(
	ctx context.Context,
) ([]domain.AssistedWalletBrief, error) {
	args := m.Called(ctx)

	var res []domain.AssistedWalletBrief
	if a := args.Get(0); a != nil {
		res = a.([]domain.AssistedWalletBrief)
	}
	return res, args.Error(1)
}

func (m *mockAssistedServer) UpdateWalletFlags(
	ctx context.Context, walletID string, flags domain.WalletFlags,
) (*domain.AssistedWalletBrief, error) {
	args := m.Called(ctx, walletID, flags)

	var res *domain.AssistedWalletBrief
	if a := args.Get(0); a != nil {
		res = a.(*domain.AssistedWalletBrief)
	}
	return res, args.Error(1)
}

func (m *mockAssistedServer) GetReplacementStatus(
	ctx context.Context, walletID string,
) (*domain.ReplaceWalletStatus, error) {
	args := m.Called(ctx, walletID)

	var res *domain.ReplaceWalletStatus
	if a := args.Get(0); a != nil {
		res = a.(*domain.ReplaceWalletStatus)
	}
	return res, args.Error(1)
}

func (m *mockAssistedServer) ConfirmReplacement(
	ctx context.Context, walletID, xfp string, chosen domain.SignerServer,
) error {
	args := m.Called(ctx, walletID, xfp, chosen)
	return args.Error(0)
}

func (m *mockAssistedServer) CancelReplacement(
	ctx context.Context, walletID, xfp string,
) error {
	args := m.Called(ctx, walletID, xfp)
	return args.Error(0)
}

func (m *mockAssistedServer) CreateRecurringPayment(
	ctx context.Context, groupID, walletID string,
	payment domain.RecurringPayment,
) (string, error) {
	args := m.Called(ctx, groupID, walletID, payment)
	return args.String(0), args.Error(1)
}

func (m *mockAssistedServer) GetRecurringPayment(
	ctx context.Context, groupID, walletID, paymentID string,
) (*domain.RecurringPayment, error) {
	args := m.Called(ctx, groupID, walletID, paymentID)

	var res *domain.RecurringPayment
	if a := args.Get(0); a != nil {
		res = a.(*domain.RecurringPayment)
	}
	return res, args.Error(1)
}

func (m *mockAssistedServer) ListRecurringPayments(
	ctx context.Context, groupID, walletID string,
) ([]domain.RecurringPayment, error) {
	args := m.Called(ctx, groupID, walletID)

	var res []domain.RecurringPayment
	if a := args.Get(0); a != nil {
		res = a.([]domain.RecurringPayment)
	}
	return res, args.Error(1)
}

func (m *mockAssistedServer) DeleteRecurringPayment(
	ctx context.Context, groupID, walletID, paymentID string,
) (*domain.DummyTransactionPayload, error) {
	args := m.Called(ctx, groupID, walletID, paymentID)

	var res *domain.DummyTransactionPayload
	if a := args.Get(0); a != nil {
		res = a.(*domain.DummyTransactionPayload)
	}
	return res, args.Error(1)
}

func (m *mockAssistedServer) GetDummyTransaction(
	ctx context.Context, groupID, walletID, dummyTxID string,
) (*domain.DummyTransactionPayload, error) {
	args := m.Called(ctx, groupID, walletID, dummyTxID)

	var res *domain.DummyTransactionPayload
	if a := args.Get(0); a != nil {
		res = a.(*domain.DummyTransactionPayload)
	}
	return res, args.Error(1)
}

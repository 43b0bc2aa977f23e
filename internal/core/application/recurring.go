package application

import (
	"context"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/keyguard-network/keyguard-daemon/internal/core/application/recurring"
	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
	"github.com/keyguard-network/keyguard-daemon/pkg/retry"
)

type RecurringPaymentService interface {
	Create(
		ctx context.Context, groupID, walletID string,
		payment domain.RecurringPayment,
	) (string, error)
	Get(
		ctx context.Context, groupID, walletID, paymentID string,
	) (*domain.RecurringPayment, error)
	List(
		ctx context.Context, groupID, walletID string,
	) ([]domain.RecurringPayment, error)
	Delete(
		ctx context.Context, groupID, walletID, paymentID string,
	) (*domain.DummyTransactionPayload, error)
	GetDummyTransaction(
		ctx context.Context, groupID, walletID, dummyTxID string,
	) (*domain.DummyTransactionPayload, error)
}

func NewRecurringPaymentService(
	server ports.RecurringPaymentAPI, network *chaincfg.Params,
	ioPolicy retry.Policy,
) (RecurringPaymentService, error) {
	return recurring.NewService(server, network, ioPolicy)
}

package recurring

import (
	"context"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
	"github.com/keyguard-network/keyguard-daemon/pkg/retry"
)

// Service manages the recurring payments of assisted wallets. Group wallets
// are addressed with a non-empty groupID.
type Service struct {
	server   ports.RecurringPaymentAPI
	network  *chaincfg.Params
	ioPolicy retry.Policy
}

func NewService(
	server ports.RecurringPaymentAPI, network *chaincfg.Params,
	ioPolicy retry.Policy,
) (*Service, error) {
	if server == nil {
		return nil, fmt.Errorf("missing assisted server")
	}
	if network == nil {
		return nil, fmt.Errorf("missing network")
	}
	return &Service{server, network, ioPolicy}, nil
}

// Create validates the draft payment and submits it. It returns the id
// assigned by the server.
func (s *Service) Create(
	ctx context.Context, groupID, walletID string,
	payment domain.RecurringPayment,
) (string, error) {
	if walletID == "" {
		return "", domain.ErrMissingWalletID
	}
	if !payment.IsDraft() {
		return "", domain.ErrPaymentAlreadyCreated
	}
	if err := payment.Validate(s.network); err != nil {
		return "", err
	}

	ctx = ports.WithIdempotencyKey(ctx, uuid.New().String())
	id, err := retry.Do(ctx, s.ioPolicy, func(ctx context.Context) (string, error) {
		return s.server.CreateRecurringPayment(ctx, groupID, walletID, payment)
	})
	if err != nil {
		return "", err
	}

	log.Debugf("created recurring payment %s for wallet %s", id, walletID)
	return id, nil
}

func (s *Service) Get(
	ctx context.Context, groupID, walletID, paymentID string,
) (*domain.RecurringPayment, error) {
	if walletID == "" {
		return nil, domain.ErrMissingWalletID
	}
	if paymentID == "" {
		return nil, domain.ErrMissingPaymentID
	}
	return retry.Do(ctx, s.ioPolicy,
		func(ctx context.Context) (*domain.RecurringPayment, error) {
			return s.server.GetRecurringPayment(ctx, groupID, walletID, paymentID)
		},
	)
}

func (s *Service) List(
	ctx context.Context, groupID, walletID string,
) ([]domain.RecurringPayment, error) {
	if walletID == "" {
		return nil, domain.ErrMissingWalletID
	}
	return retry.Do(ctx, s.ioPolicy,
		func(ctx context.Context) ([]domain.RecurringPayment, error) {
			return s.server.ListRecurringPayments(ctx, groupID, walletID)
		},
	)
}

// Delete requests the deletion of the payment. The server removes it only
// once the returned dummy transaction has been signed by the wallet quorum,
// until then the payment is still in place.
func (s *Service) Delete(
	ctx context.Context, groupID, walletID, paymentID string,
) (*domain.DummyTransactionPayload, error) {
	if walletID == "" {
		return nil, domain.ErrMissingWalletID
	}
	if paymentID == "" {
		return nil, domain.ErrMissingPaymentID
	}

	ctx = ports.WithIdempotencyKey(ctx, uuid.New().String())
	dummyTx, err := retry.Do(ctx, s.ioPolicy,
		func(ctx context.Context) (*domain.DummyTransactionPayload, error) {
			return s.server.DeleteRecurringPayment(ctx, groupID, walletID, paymentID)
		},
	)
	if err != nil {
		return nil, err
	}

	log.Debugf(
		"deletion of recurring payment %s pending dummy tx %s",
		paymentID, dummyTx.ID,
	)
	return dummyTx, nil
}

// GetDummyTransaction returns the cosigning request with the given id, to
// track the approval of a pending deletion.
func (s *Service) GetDummyTransaction(
	ctx context.Context, groupID, walletID, dummyTxID string,
) (*domain.DummyTransactionPayload, error) {
	if walletID == "" {
		return nil, domain.ErrMissingWalletID
	}
	return retry.Do(ctx, s.ioPolicy,
		func(ctx context.Context) (*domain.DummyTransactionPayload, error) {
			return s.server.GetDummyTransaction(ctx, groupID, walletID, dummyTxID)
		},
	)
}

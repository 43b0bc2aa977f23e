package replacement

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/keyguard-network/keyguard-daemon/internal/core/application/signer"
	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
	"github.com/keyguard-network/keyguard-daemon/pkg/retry"
)

// Service coordinates the replacement of wallet signers. The server is the
// source of truth: the status is re-fetched after every change and never
// stored locally.
type Service struct {
	server   ports.ReplacementAPI
	signer   *signer.Service
	ioPolicy retry.Policy
}

func NewService(
	server ports.ReplacementAPI, signerSvc *signer.Service, ioPolicy retry.Policy,
) (*Service, error) {
	if server == nil {
		return nil, fmt.Errorf("missing assisted server")
	}
	if signerSvc == nil {
		return nil, fmt.Errorf("missing signer service")
	}
	return &Service{server, signerSvc, ioPolicy}, nil
}

func (s *Service) GetReplacementStatus(
	ctx context.Context, walletID string,
) (*domain.ReplaceWalletStatus, error) {
	if walletID == "" {
		return nil, domain.ErrMissingWalletID
	}

	status, err := retry.Do(ctx, s.ioPolicy,
		func(ctx context.Context) (*domain.ReplaceWalletStatus, error) {
			return s.server.GetReplacementStatus(ctx, walletID)
		},
	)
	if err != nil {
		return nil, err
	}
	if err := status.Validate(); err != nil {
		return nil, err
	}
	return status, nil
}

// MaterializeReplacements makes sure that every replacement signer of the
// status, the designated one and all candidates, exists in the engine, so
// that the user can pick any of them without further network round trips.
func (s *Service) MaterializeReplacements(
	ctx context.Context, status domain.ReplaceWalletStatus,
) error {
	signers := status.AllSigners()
	if len(signers) <= 0 {
		return nil
	}
	if err := s.signer.ReconcileAll(ctx, signers); err != nil {
		return err
	}
	log.Debugf(
		"materialized %d replacement signers for wallet %s",
		len(signers), status.WalletID,
	)
	return nil
}

// ConfirmReplacement tells the server that chosen supersedes the signer with
// the given xfp, and returns the updated status as reported by the server.
func (s *Service) ConfirmReplacement(
	ctx context.Context, walletID, xfp string, chosen domain.SignerServer,
) (*domain.ReplaceWalletStatus, error) {
	if walletID == "" {
		return nil, domain.ErrMissingWalletID
	}
	if xfp == "" || chosen.Xfp == "" {
		return nil, domain.ErrMissingXfp
	}

	// Local only, a no-op if the signer was materialized before.
	if _, err := s.signer.Reconcile(ctx, chosen); err != nil {
		return nil, err
	}

	ctx = ports.WithIdempotencyKey(ctx, uuid.New().String())
	if err := retry.Run(ctx, s.ioPolicy, func(ctx context.Context) error {
		return s.server.ConfirmReplacement(ctx, walletID, xfp, chosen)
	}); err != nil {
		return nil, err
	}

	return s.GetReplacementStatus(ctx, walletID)
}

// CancelReplacement withdraws the pending replacement of the signer with the
// given xfp and returns the updated status.
func (s *Service) CancelReplacement(
	ctx context.Context, walletID, xfp string,
) (*domain.ReplaceWalletStatus, error) {
	if walletID == "" {
		return nil, domain.ErrMissingWalletID
	}
	if xfp == "" {
		return nil, domain.ErrMissingXfp
	}

	ctx = ports.WithIdempotencyKey(ctx, uuid.New().String())
	if err := retry.Run(ctx, s.ioPolicy, func(ctx context.Context) error {
		return s.server.CancelReplacement(ctx, walletID, xfp)
	}); err != nil {
		return nil, err
	}

	return s.GetReplacementStatus(ctx, walletID)
}

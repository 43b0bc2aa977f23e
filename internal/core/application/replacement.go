package application

import (
	"context"

	"github.com/keyguard-network/keyguard-daemon/internal/core/application/replacement"
	"github.com/keyguard-network/keyguard-daemon/internal/core/application/signer"
	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
	"github.com/keyguard-network/keyguard-daemon/pkg/retry"
)

type ReplacementService interface {
	GetReplacementStatus(
		ctx context.Context, walletID string,
	) (*domain.ReplaceWalletStatus, error)
	MaterializeReplacements(
		ctx context.Context, status domain.ReplaceWalletStatus,
	) error
	ConfirmReplacement(
		ctx context.Context, walletID, xfp string, chosen domain.SignerServer,
	) (*domain.ReplaceWalletStatus, error)
	CancelReplacement(
		ctx context.Context, walletID, xfp string,
	) (*domain.ReplaceWalletStatus, error)
}

func NewReplacementService(
	server ports.ReplacementAPI, signerSvc SignerService, ioPolicy retry.Policy,
) (ReplacementService, error) {
	s := signerSvc.(*signer.Service)
	return replacement.NewService(server, s, ioPolicy)
}

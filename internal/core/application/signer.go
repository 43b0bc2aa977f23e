package application

import (
	"context"

	"github.com/keyguard-network/keyguard-daemon/internal/core/application/signer"
	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
)

type SignerService interface {
	Reconcile(ctx context.Context, signer domain.SignerServer) (bool, error)
	ReconcileAll(ctx context.Context, signers []domain.SignerServer) error
}

func NewSignerService(engine ports.Engine, concurrency int) (SignerService, error) {
	return signer.NewService(engine, concurrency)
}

package signer

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
	"github.com/keyguard-network/keyguard-daemon/pkg/stats"
)

const defaultConcurrency = 4

// Service makes sure that server-declared signers exist exactly once in the
// local engine. It never handles key material, only descriptors.
type Service struct {
	engine      ports.Engine
	locks       *keyedMutex
	concurrency int
}

func NewService(engine ports.Engine, concurrency int) (*Service, error) {
	if engine == nil {
		return nil, fmt.Errorf("missing engine")
	}
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Service{engine, newKeyedMutex(), concurrency}, nil
}

// Reconcile registers the signer in the engine unless an equivalent one
// already exists, in which case it returns true and nothing is changed.
// Concurrent calls for the same signer are serialized.
func (s *Service) Reconcile(
	ctx context.Context, signer domain.SignerServer,
) (bool, error) {
	unlock := s.locks.Lock(signer.Identity())
	defer unlock()

	exists, err := s.reconcile(ctx, signer)
	switch {
	case err != nil:
		stats.ReconcileResults.WithLabelValues("failed").Inc()
	case exists:
		stats.ReconcileResults.WithLabelValues("existing").Inc()
	default:
		stats.ReconcileResults.WithLabelValues("created").Inc()
	}
	return exists, err
}

// ReconcileAll reconciles the given signers concurrently and returns the
// first failure, if any. Duplicated signers are reconciled once.
func (s *Service) ReconcileAll(
	ctx context.Context, signers []domain.SignerServer,
) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	seen := make(map[string]bool)
	for i := range signers {
		signer := signers[i]
		if seen[signer.Identity()] {
			continue
		}
		seen[signer.Identity()] = true

		g.Go(func() error {
			if _, err := s.Reconcile(gctx, signer); err != nil {
				return fmt.Errorf("signer %s: %w", signer.Xfp, err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *Service) reconcile(
	ctx context.Context, signer domain.SignerServer,
) (bool, error) {
	descriptor := toDescriptor(signer)

	exists, err := s.engine.HasSigner(ctx, descriptor)
	if err != nil {
		return false, err
	}
	if exists {
		return true, nil
	}

	if signer.IsTapsigner() {
		card := ports.TapsignerCard{
			Signer:      descriptor,
			CardID:      signer.Tapsigner.CardID,
			Version:     signer.Tapsigner.Version,
			BirthHeight: signer.Tapsigner.BirthHeight,
			IsTestnet:   signer.Tapsigner.IsTestnet,
			Replace:     false,
		}
		if err := s.engine.AddTapsignerSigner(ctx, card); err != nil {
			return false, err
		}
		log.Debugf("added tapsigner signer %s for card %s", signer.Xfp, card.CardID)
		return false, nil
	}

	if err := s.engine.CreateSigner(ctx, descriptor); err != nil {
		return false, err
	}
	log.Debugf("added %s signer %s", descriptor.Type, signer.Xfp)
	return false, nil
}

func toDescriptor(signer domain.SignerServer) ports.SignerDescriptor {
	signerType, ok := domain.ParseSignerType(signer.Type)
	if !ok && signer.Type != "" {
		log.Debugf("unknown signer type %s for signer %s", signer.Type, signer.Xfp)
	}
	return ports.SignerDescriptor{
		Name:              signer.Name,
		Xpub:              signer.Xpub,
		Pubkey:            signer.Pubkey,
		DerivationPath:    signer.DerivationPath,
		MasterFingerprint: signer.Xfp,
		Type:              signerType,
		Tags:              domain.ParseSignerTags(signer.Tags),
	}
}

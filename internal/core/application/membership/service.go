package membership

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/keyguard-network/keyguard-daemon/internal/core/application/recurring"
	"github.com/keyguard-network/keyguard-daemon/internal/core/application/replacement"
	"github.com/keyguard-network/keyguard-daemon/internal/core/application/signer"
	"github.com/keyguard-network/keyguard-daemon/internal/core/application/steps"
	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
	"github.com/keyguard-network/keyguard-daemon/pkg/retry"
)

// Service is the façade of the membership subsystem. It sequences step
// tracking, signer reconciliation and the server round trips of the
// provisioning flows.
type Service struct {
	session     *domain.Session
	server      ports.AssistedServer
	engine      ports.Engine
	wallets     domain.AssistedWalletRepository
	steps       *steps.Service
	signer      *signer.Service
	replacement *replacement.Service
	recurring   *recurring.Service
	ioPolicy    retry.Policy
}

func NewService(
	session *domain.Session, server ports.AssistedServer, engine ports.Engine,
	repoManager ports.RepoManager,
	stepsSvc *steps.Service, signerSvc *signer.Service,
	replacementSvc *replacement.Service, recurringSvc *recurring.Service,
	ioPolicy retry.Policy,
) (*Service, error) {
	if session == nil {
		return nil, fmt.Errorf("missing session")
	}
	if server == nil {
		return nil, fmt.Errorf("missing assisted server")
	}
	if engine == nil {
		return nil, fmt.Errorf("missing engine")
	}
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if stepsSvc == nil {
		return nil, fmt.Errorf("missing steps service")
	}
	if signerSvc == nil {
		return nil, fmt.Errorf("missing signer service")
	}
	if replacementSvc == nil {
		return nil, fmt.Errorf("missing replacement service")
	}
	if recurringSvc == nil {
		return nil, fmt.Errorf("missing recurring payment service")
	}

	return &Service{
		session:     session,
		server:      server,
		engine:      engine,
		wallets:     repoManager.AssistedWalletRepository(),
		steps:       stepsSvc,
		signer:      signerSvc,
		replacement: replacementSvc,
		recurring:   recurringSvc,
		ioPolicy:    ioPolicy,
	}, nil
}

func (s *Service) Session() *domain.Session {
	return s.session
}

// GetSubscription always asks the server, the result is never cached.
func (s *Service) GetSubscription(ctx context.Context) (*domain.Subscription, error) {
	return retry.Do(ctx, s.ioPolicy,
		func(ctx context.Context) (*domain.Subscription, error) {
			return s.server.GetCurrentSubscription(ctx)
		},
	)
}

func (s *Service) GetProgress(
	ctx context.Context, plan domain.MembershipPlan,
) ([]domain.MembershipStep, error) {
	return s.steps.GetSteps(ctx, plan)
}

func (s *Service) WatchProgress(
	ctx context.Context, plan domain.MembershipPlan,
) (<-chan []domain.MembershipStep, error) {
	return s.steps.WatchSteps(ctx, plan)
}

// CompleteStep records the completion of a provisioning step. For steps
// adding a key, the given signer is registered in the engine and uploaded to
// the server, saving the step after each stage so that a failed call can be
// repeated without redoing what's done.
//
// The step row keeps pointing at its previous signer until the new one is in
// the engine. A superseded signer is deleted from the engine before the row
// is switched to the new one.
func (s *Service) CompleteStep(
	ctx context.Context, step domain.MembershipStep, signer *domain.SignerServer,
) (*domain.MembershipStep, error) {
	addsKey := step.Step.IsAddKey() && signer != nil
	if addsKey && signer.MasterSignerID() == "" {
		return nil, domain.ErrMissingXfp
	}

	existing, err := s.steps.GetStep(ctx, step.Plan, step.Step)
	if err != nil && !errors.Is(err, domain.ErrStepNotFound) {
		return nil, err
	}
	if existing != nil && (addsKey || step.MasterSignerID == "") {
		step.MasterSignerID = existing.MasterSignerID
		step.KeyIDInServer = existing.KeyIDInServer
		step.IsVerify = existing.IsVerify
	}
	if !addsKey {
		return s.steps.SaveStep(ctx, step)
	}

	if _, err := s.signer.Reconcile(ctx, *signer); err != nil {
		return nil, err
	}

	signerID := signer.MasterSignerID()
	if recorded := domain.NormalizeXfp(step.MasterSignerID); recorded != signerID {
		if err := s.deleteSupersededSigner(ctx, step, recorded); err != nil {
			return nil, err
		}
		step.KeyIDInServer = ""
		step.IsVerify = false
	}

	step.MasterSignerID = signerID
	saved, err := s.steps.SaveStep(ctx, step)
	if err != nil {
		return nil, err
	}
	if saved.KeyIDInServer != "" {
		return saved, nil
	}

	uploadCtx := ports.WithIdempotencyKey(ctx, uuid.New().String())
	keyID, err := retry.Do(uploadCtx, s.ioPolicy,
		func(ctx context.Context) (string, error) {
			return s.server.UploadKey(ctx, saved.Plan, saved.Step, *signer)
		},
	)
	if err != nil {
		return nil, err
	}

	saved.KeyIDInServer = keyID
	log.Debugf("uploaded key %s for step %s", keyID, saved.Step)
	return s.steps.SaveStep(ctx, *saved)
}

// deleteSupersededSigner removes from the engine the signer previously
// recorded for the step, unless another step of the plan still points at it.
func (s *Service) deleteSupersededSigner(
	ctx context.Context, step domain.MembershipStep, masterSignerID string,
) error {
	if masterSignerID == "" {
		return nil
	}

	steps, err := s.steps.GetSteps(ctx, step.Plan)
	if err != nil {
		return err
	}
	for _, other := range steps {
		if other.Step != step.Step && other.MasterSignerID == masterSignerID {
			return nil
		}
	}

	err = s.engine.DeleteSigner(ctx, masterSignerID)
	if err != nil && !errors.Is(err, domain.ErrSignerNotFound) {
		return err
	}
	log.Debugf("deleted signer %s superseded on step %s", masterSignerID, step.Step)
	return nil
}

// VerifyStep reports the verification of the key of the given step to the
// server and marks the step as verified.
func (s *Service) VerifyStep(
	ctx context.Context, plan domain.MembershipPlan, step domain.Step,
	verification ports.KeyVerification,
) (*domain.MembershipStep, error) {
	current, err := s.steps.GetStep(ctx, plan, step)
	if err != nil {
		return nil, err
	}
	if current.KeyIDInServer == "" {
		return nil, domain.ErrKeyNotUploaded
	}

	ctx = ports.WithIdempotencyKey(ctx, uuid.New().String())
	if err := retry.Run(ctx, s.ioPolicy, func(ctx context.Context) error {
		return s.server.VerifyKey(ctx, current.KeyIDInServer, verification)
	}); err != nil {
		return nil, err
	}

	current.IsVerify = true
	return s.steps.SaveStep(ctx, *current)
}

func (s *Service) RestartPlan(ctx context.Context, plan domain.MembershipPlan) error {
	return s.steps.Restart(ctx, plan)
}

// RemoveKey deletes the signer from the engine along with the steps pointing
// at it. Both deletions are no-ops if there's nothing to delete.
func (s *Service) RemoveKey(ctx context.Context, masterSignerID string) error {
	masterSignerID = domain.NormalizeXfp(masterSignerID)
	if masterSignerID == "" {
		return domain.ErrMissingXfp
	}
	err := s.engine.DeleteSigner(ctx, masterSignerID)
	if err != nil && !errors.Is(err, domain.ErrSignerNotFound) {
		return err
	}
	return s.steps.DeleteStepsBySignerID(ctx, masterSignerID)
}

// SyncAssistedWallets fetches the assisted wallets from the server and
// replaces the local cache with them.
func (s *Service) SyncAssistedWallets(
	ctx context.Context,
) ([]domain.AssistedWalletBrief, error) {
	wallets, err := retry.Do(ctx, s.ioPolicy,
		func(ctx context.Context) ([]domain.AssistedWalletBrief, error) {
			return s.server.ListAssistedWallets(ctx)
		},
	)
	if err != nil {
		return nil, err
	}
	if err := s.wallets.ReplaceWallets(ctx, wallets); err != nil {
		return nil, err
	}
	return wallets, nil
}

func (s *Service) GetAssistedWallet(
	ctx context.Context, walletID string,
) (*domain.AssistedWalletBrief, error) {
	return s.wallets.GetWallet(ctx, walletID)
}

func (s *Service) ListAssistedWallets(
	ctx context.Context,
) ([]domain.AssistedWalletBrief, error) {
	return s.wallets.GetAllWallets(ctx)
}

func (s *Service) SetRegisterAirgap(
	ctx context.Context, walletID string, registered bool,
) (*domain.AssistedWalletBrief, error) {
	return s.updateWalletFlags(
		ctx, walletID, domain.WalletFlags{IsRegisterAirgap: &registered},
	)
}

func (s *Service) SetRegisterColdcard(
	ctx context.Context, walletID string, registered bool,
) (*domain.AssistedWalletBrief, error) {
	return s.updateWalletFlags(
		ctx, walletID, domain.WalletFlags{IsRegisterColdcard: &registered},
	)
}

// PrepareReplacement fetches the replacement status of the wallet and
// materializes every replacement signer it lists.
func (s *Service) PrepareReplacement(
	ctx context.Context, walletID string,
) (*domain.ReplaceWalletStatus, error) {
	status, err := s.replacement.GetReplacementStatus(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if err := s.replacement.MaterializeReplacements(ctx, *status); err != nil {
		return nil, err
	}
	return status, nil
}

func (s *Service) GetReplacementStatus(
	ctx context.Context, walletID string,
) (*domain.ReplaceWalletStatus, error) {
	return s.replacement.GetReplacementStatus(ctx, walletID)
}

func (s *Service) ConfirmReplacement(
	ctx context.Context, walletID, xfp string, chosen domain.SignerServer,
) (*domain.ReplaceWalletStatus, error) {
	return s.replacement.ConfirmReplacement(ctx, walletID, xfp, chosen)
}

func (s *Service) CancelReplacement(
	ctx context.Context, walletID, xfp string,
) (*domain.ReplaceWalletStatus, error) {
	return s.replacement.CancelReplacement(ctx, walletID, xfp)
}

func (s *Service) CreateRecurringPayment(
	ctx context.Context, groupID, walletID string,
	payment domain.RecurringPayment,
) (string, error) {
	return s.recurring.Create(ctx, groupID, walletID, payment)
}

func (s *Service) GetRecurringPayment(
	ctx context.Context, groupID, walletID, paymentID string,
) (*domain.RecurringPayment, error) {
	return s.recurring.Get(ctx, groupID, walletID, paymentID)
}

func (s *Service) ListRecurringPayments(
	ctx context.Context, groupID, walletID string,
) ([]domain.RecurringPayment, error) {
	return s.recurring.List(ctx, groupID, walletID)
}

func (s *Service) DeleteRecurringPayment(
	ctx context.Context, groupID, walletID, paymentID string,
) (*domain.DummyTransactionPayload, error) {
	return s.recurring.Delete(ctx, groupID, walletID, paymentID)
}

func (s *Service) GetDummyTransaction(
	ctx context.Context, groupID, walletID, dummyTxID string,
) (*domain.DummyTransactionPayload, error) {
	return s.recurring.GetDummyTransaction(ctx, groupID, walletID, dummyTxID)
}

func (s *Service) updateWalletFlags(
	ctx context.Context, walletID string, flags domain.WalletFlags,
) (*domain.AssistedWalletBrief, error) {
	if walletID == "" {
		return nil, domain.ErrMissingWalletID
	}

	ctx = ports.WithIdempotencyKey(ctx, uuid.New().String())
	wallet, err := retry.Do(ctx, s.ioPolicy,
		func(ctx context.Context) (*domain.AssistedWalletBrief, error) {
			return s.server.UpdateWalletFlags(ctx, walletID, flags)
		},
	)
	if err != nil {
		return nil, err
	}
	if err := s.wallets.UpdateWallet(ctx, *wallet); err != nil {
		return nil, err
	}
	return wallet, nil
}

package application

import (
	"context"

	"github.com/keyguard-network/keyguard-daemon/internal/core/application/membership"
	"github.com/keyguard-network/keyguard-daemon/internal/core/application/recurring"
	"github.com/keyguard-network/keyguard-daemon/internal/core/application/replacement"
	"github.com/keyguard-network/keyguard-daemon/internal/core/application/signer"
	"github.com/keyguard-network/keyguard-daemon/internal/core/application/steps"
	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
	"github.com/keyguard-network/keyguard-daemon/pkg/retry"
)

// MembershipService is the only entry point of the presentation layer into
// the membership subsystem.
type MembershipService interface {
	Session() *domain.Session
	GetSubscription(ctx context.Context) (*domain.Subscription, error)

	// Provisioning progress
	GetProgress(
		ctx context.Context, plan domain.MembershipPlan,
	) ([]domain.MembershipStep, error)
	WatchProgress(
		ctx context.Context, plan domain.MembershipPlan,
	) (<-chan []domain.MembershipStep, error)
	CompleteStep(
		ctx context.Context, step domain.MembershipStep,
		signer *domain.SignerServer,
	) (*domain.MembershipStep, error)
	VerifyStep(
		ctx context.Context, plan domain.MembershipPlan, step domain.Step,
		verification ports.KeyVerification,
	) (*domain.MembershipStep, error)
	RestartPlan(ctx context.Context, plan domain.MembershipPlan) error
	RemoveKey(ctx context.Context, masterSignerID string) error

	// Assisted wallets
	SyncAssistedWallets(ctx context.Context) ([]domain.AssistedWalletBrief, error)
	ListAssistedWallets(ctx context.Context) ([]domain.AssistedWalletBrief, error)
	GetAssistedWallet(
		ctx context.Context, walletID string,
	) (*domain.AssistedWalletBrief, error)
	SetRegisterAirgap(
		ctx context.Context, walletID string, registered bool,
	) (*domain.AssistedWalletBrief, error)
	SetRegisterColdcard(
		ctx context.Context, walletID string, registered bool,
	) (*domain.AssistedWalletBrief, error)

	// Key replacement
	PrepareReplacement(
		ctx context.Context, walletID string,
	) (*domain.ReplaceWalletStatus, error)
	GetReplacementStatus(
		ctx context.Context, walletID string,
	) (*domain.ReplaceWalletStatus, error)
	ConfirmReplacement(
		ctx context.Context, walletID, xfp string, chosen domain.SignerServer,
	) (*domain.ReplaceWalletStatus, error)
	CancelReplacement(
		ctx context.Context, walletID, xfp string,
	) (*domain.ReplaceWalletStatus, error)

	// Recurring payments
	CreateRecurringPayment(
		ctx context.Context, groupID, walletID string,
		payment domain.RecurringPayment,
	) (string, error)
	GetRecurringPayment(
		ctx context.Context, groupID, walletID, paymentID string,
	) (*domain.RecurringPayment, error)
	ListRecurringPayments(
		ctx context.Context, groupID, walletID string,
	) ([]domain.RecurringPayment, error)
	DeleteRecurringPayment(
		ctx context.Context, groupID, walletID, paymentID string,
	) (*domain.DummyTransactionPayload, error)
	GetDummyTransaction(
		ctx context.Context, groupID, walletID, dummyTxID string,
	) (*domain.DummyTransactionPayload, error)
}

func NewMembershipService(
	session *domain.Session, server ports.AssistedServer, engine ports.Engine,
	repoManager ports.RepoManager,
	stepSvc StepService, signerSvc SignerService,
	replacementSvc ReplacementService, recurringSvc RecurringPaymentService,
	ioPolicy retry.Policy,
) (MembershipService, error) {
	st := stepSvc.(*steps.Service)
	si := signerSvc.(*signer.Service)
	rp := replacementSvc.(*replacement.Service)
	rc := recurringSvc.(*recurring.Service)
	return membership.NewService(
		session, server, engine, repoManager, st, si, rp, rc, ioPolicy,
	)
}

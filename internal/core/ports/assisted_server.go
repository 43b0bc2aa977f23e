package ports

import (
	"context"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
)

// KeyVerification is the proof sent to the server that the user holds the
// key previously uploaded.
type KeyVerification struct {
	// VerificationType is one of SELF_CHECKED, APP_KEYED, SKIPPED.
	VerificationType string
	Checksum         string
}

// SubscriptionAPI exposes the membership state of the user.
type SubscriptionAPI interface {
	GetCurrentSubscription(ctx context.Context) (*domain.Subscription, error)
}

// KeyAPI manages the keys the user uploads to the server.
type KeyAPI interface {
	// UploadKey registers the signer with the server and returns its server
	// id.
	UploadKey(
		ctx context.Context, plan domain.MembershipPlan, step domain.Step,
		signer domain.SignerServer,
	) (string, error)
	VerifyKey(
		ctx context.Context, keyIDInServer string, verification KeyVerification,
	) error
}

// WalletAPI manages the server side flags of assisted wallets.
type WalletAPI interface {
	ListAssistedWallets(ctx context.Context) ([]domain.AssistedWalletBrief, error)
	UpdateWalletFlags(
		ctx context.Context, walletID string, flags domain.WalletFlags,
	) (*domain.AssistedWalletBrief, error)
}

// ReplacementAPI drives key replacement for a wallet.
type ReplacementAPI interface {
	GetReplacementStatus(
		ctx context.Context, walletID string,
	) (*domain.ReplaceWalletStatus, error)
	ConfirmReplacement(
		ctx context.Context, walletID, xfp string, chosen domain.SignerServer,
	) error
	CancelReplacement(ctx context.Context, walletID, xfp string) error
}

// RecurringPaymentAPI manages recurring payments of a wallet, optionally
// part of a group.
type RecurringPaymentAPI interface {
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
	// DeleteRecurringPayment requests the deletion, that takes place only
	// once the returned dummy transaction is signed by the quorum.
	DeleteRecurringPayment(
		ctx context.Context, groupID, walletID, paymentID string,
	) (*domain.DummyTransactionPayload, error)
	GetDummyTransaction(
		ctx context.Context, groupID, walletID, dummyTxID string,
	) (*domain.DummyTransactionPayload, error)
}

// AssistedServer is the remote policy/subscription server, source of truth
// for assisted wallets.
type AssistedServer interface {
	SubscriptionAPI
	KeyAPI
	WalletAPI
	ReplacementAPI
	RecurringPaymentAPI
}

package domain

import "context"

// AssistedWalletBrief is the local projection of the membership-relevant
// flags of a wallet co-managed by the server. It's owned by the server and
// only cached here.
type AssistedWalletBrief struct {
	LocalID            string
	Plan               MembershipPlan
	IsSetupInheritance bool
	IsRegisterAirgap   bool
	IsRegisterColdcard bool
}

// WalletFlags are the registration flags that can be changed by the client
// through the server.
type WalletFlags struct {
	IsRegisterAirgap   *bool
	IsRegisterColdcard *bool
}

// AssistedWalletRepository is the abstraction for the local cache of
// AssistedWalletBriefs.
type AssistedWalletRepository interface {
	// ReplaceWallets swaps the whole cache content with the given briefs.
	ReplaceWallets(ctx context.Context, wallets []AssistedWalletBrief) error
	// UpdateWallet adds or overwrites a single brief.
	UpdateWallet(ctx context.Context, wallet AssistedWalletBrief) error
	// GetWallet returns the brief for the given local id or
	// ErrWalletNotFound.
	GetWallet(ctx context.Context, localID string) (*AssistedWalletBrief, error)
	// GetAllWallets returns every cached brief.
	GetAllWallets(ctx context.Context) ([]AssistedWalletBrief, error)
}

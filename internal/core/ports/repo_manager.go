package ports

import "github.com/keyguard-network/keyguard-daemon/internal/core/domain"

// RepoManager holds the repositories of the locally persisted state.
type RepoManager interface {
	StepRepository() domain.StepRepository
	AssistedWalletRepository() domain.AssistedWalletRepository
	Close()
}

package inmemory

import (
	"sync"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
)

type stepInmemoryStore struct {
	steps  map[string]domain.MembershipStep
	locker *sync.RWMutex
}

type walletInmemoryStore struct {
	wallets map[string]domain.AssistedWalletBrief
	locker  *sync.RWMutex
}

type RepoManager struct {
	stepRepository   domain.StepRepository
	walletRepository domain.AssistedWalletRepository
}

func NewRepoManager() ports.RepoManager {
	stepStore := &stepInmemoryStore{
		steps:  map[string]domain.MembershipStep{},
		locker: &sync.RWMutex{},
	}
	walletStore := &walletInmemoryStore{
		wallets: map[string]domain.AssistedWalletBrief{},
		locker:  &sync.RWMutex{},
	}

	return &RepoManager{
		stepRepository:   NewStepRepositoryImpl(stepStore),
		walletRepository: NewAssistedWalletRepositoryImpl(walletStore),
	}
}

func (d *RepoManager) StepRepository() domain.StepRepository {
	return d.stepRepository
}

func (d *RepoManager) AssistedWalletRepository() domain.AssistedWalletRepository {
	return d.walletRepository
}

func (d *RepoManager) Close() {}

package inmemory

import (
	"context"
	"sort"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
)

type AssistedWalletRepositoryImpl struct {
	store *walletInmemoryStore
}

func NewAssistedWalletRepositoryImpl(
	store *walletInmemoryStore,
) domain.AssistedWalletRepository {
	return &AssistedWalletRepositoryImpl{store}
}

func (r AssistedWalletRepositoryImpl) ReplaceWallets(
	_ context.Context, wallets []domain.AssistedWalletBrief,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.wallets = make(map[string]domain.AssistedWalletBrief, len(wallets))
	for _, w := range wallets {
		r.store.wallets[w.LocalID] = w
	}
	return nil
}

func (r AssistedWalletRepositoryImpl) UpdateWallet(
	_ context.Context, wallet domain.AssistedWalletBrief,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.wallets[wallet.LocalID] = wallet
	return nil
}

func (r AssistedWalletRepositoryImpl) GetWallet(
	_ context.Context, localID string,
) (*domain.AssistedWalletBrief, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	w, ok := r.store.wallets[localID]
	if !ok {
		return nil, domain.ErrWalletNotFound
	}
	return &w, nil
}

func (r AssistedWalletRepositoryImpl) GetAllWallets(
	_ context.Context,
) ([]domain.AssistedWalletBrief, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	wallets := make([]domain.AssistedWalletBrief, 0, len(r.store.wallets))
	for _, w := range r.store.wallets {
		wallets = append(wallets, w)
	}
	sort.Slice(wallets, func(i, j int) bool {
		return wallets[i].LocalID < wallets[j].LocalID
	})
	return wallets, nil
}

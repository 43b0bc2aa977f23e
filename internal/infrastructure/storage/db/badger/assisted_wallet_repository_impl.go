package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type assistedWalletRepositoryImpl struct {
	store *badgerhold.Store
}

// NewAssistedWalletRepositoryImpl initializes a badger implementation of the
// domain.AssistedWalletRepository.
func NewAssistedWalletRepositoryImpl(
	store *badgerhold.Store,
) domain.AssistedWalletRepository {
	return assistedWalletRepositoryImpl{store}
}

func (r assistedWalletRepositoryImpl) ReplaceWallets(
	_ context.Context, wallets []domain.AssistedWalletBrief,
) error {
	return r.store.Badger().Update(func(tx *badger.Txn) error {
		var cached []domain.AssistedWalletBrief
		if err := r.store.TxFind(tx, &cached, nil); err != nil {
			return err
		}
		for _, w := range cached {
			if err := r.store.TxDelete(
				tx, w.LocalID, domain.AssistedWalletBrief{},
			); err != nil && err != badgerhold.ErrNotFound {
				return err
			}
		}
		for i := range wallets {
			w := wallets[i]
			if err := r.store.TxUpsert(tx, w.LocalID, &w); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r assistedWalletRepositoryImpl) UpdateWallet(
	_ context.Context, wallet domain.AssistedWalletBrief,
) error {
	return r.store.Upsert(wallet.LocalID, &wallet)
}

func (r assistedWalletRepositoryImpl) GetWallet(
	_ context.Context, localID string,
) (*domain.AssistedWalletBrief, error) {
	var w domain.AssistedWalletBrief
	if err := r.store.Get(localID, &w); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r assistedWalletRepositoryImpl) GetAllWallets(
	_ context.Context,
) ([]domain.AssistedWalletBrief, error) {
	var wallets []domain.AssistedWalletBrief
	if err := r.store.Find(&wallets, nil); err != nil {
		return nil, err
	}
	return wallets, nil
}

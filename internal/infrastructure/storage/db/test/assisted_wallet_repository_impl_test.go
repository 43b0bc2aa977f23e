package db_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	dbbadger "github.com/keyguard-network/keyguard-daemon/internal/infrastructure/storage/db/badger"
	"github.com/keyguard-network/keyguard-daemon/internal/infrastructure/storage/db/inmemory"
)

func TestAssistedWalletRepositoryImplementations(t *testing.T) {
	repositories := createAssistedWalletRepositories(t)

	for i := range repositories {
		repo := repositories[i]

		t.Run(repo.Name, func(t *testing.T) {
			testAssistedWalletCache(t, repo)
		})
	}
}

func testAssistedWalletCache(t *testing.T, repo assistedWalletRepository) {
	ctx := context.Background()

	wallets, err := repo.Repository.GetAllWallets(ctx)
	require.NoError(t, err)
	require.Empty(t, wallets)

	err = repo.Repository.ReplaceWallets(ctx, []domain.AssistedWalletBrief{
		{LocalID: "w1", Plan: domain.IronHandPlan},
		{LocalID: "w2", Plan: domain.HoneyBadgerPlan, IsSetupInheritance: true},
	})
	require.NoError(t, err)

	wallets, err = repo.Repository.GetAllWallets(ctx)
	require.NoError(t, err)
	require.Len(t, wallets, 2)

	err = repo.Repository.ReplaceWallets(ctx, []domain.AssistedWalletBrief{
		{LocalID: "w2", Plan: domain.HoneyBadgerPlan},
		{LocalID: "w3", Plan: domain.ByzantinePlan},
	})
	require.NoError(t, err)

	_, err = repo.Repository.GetWallet(ctx, "w1")
	require.ErrorIs(t, err, domain.ErrWalletNotFound)

	w2, err := repo.Repository.GetWallet(ctx, "w2")
	require.NoError(t, err)
	require.False(t, w2.IsSetupInheritance)

	w2.IsRegisterAirgap = true
	err = repo.Repository.UpdateWallet(ctx, *w2)
	require.NoError(t, err)

	w2, err = repo.Repository.GetWallet(ctx, "w2")
	require.NoError(t, err)
	require.True(t, w2.IsRegisterAirgap)

	wallets, err = repo.Repository.GetAllWallets(ctx)
	require.NoError(t, err)
	require.Len(t, wallets, 2)
}

type assistedWalletRepository struct {
	Name       string
	Repository domain.AssistedWalletRepository
}

func createAssistedWalletRepositories(t *testing.T) []assistedWalletRepository {
	inmemoryDBManager := inmemory.NewRepoManager()
	badgerDBManager, err := dbbadger.NewRepoManager("", nil)
	require.NoError(t, err)
	t.Cleanup(badgerDBManager.Close)

	return []assistedWalletRepository{
		{
			Name:       "badger",
			Repository: badgerDBManager.AssistedWalletRepository(),
		},
		{
			Name:       "inmemory",
			Repository: inmemoryDBManager.AssistedWalletRepository(),
		},
	}
}

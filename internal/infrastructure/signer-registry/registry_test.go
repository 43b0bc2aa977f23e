package signerregistry_test

import (
	"context"
	"testing"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
	signerregistry "github.com/keyguard-network/keyguard-daemon/internal/infrastructure/signer-registry"
	"github.com/stretchr/testify/require"
)

func TestCreateSigner(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()
	signer := newTestSigner(t, 1, "A1B2C3D4")

	found, err := registry.HasSigner(ctx, signer)
	require.NoError(t, err)
	require.False(t, found)

	err = registry.CreateSigner(ctx, signer)
	require.NoError(t, err)

	found, err = registry.HasSigner(ctx, signer)
	require.NoError(t, err)
	require.True(t, found)

	err = registry.CreateSigner(ctx, signer)
	require.ErrorIs(t, err, signerregistry.ErrDuplicateSigner)

	// Same xfp and path with a different xpub is a different signer.
	other := newTestSigner(t, 2, "A1B2C3D4")
	found, err = registry.HasSigner(ctx, other)
	require.NoError(t, err)
	require.False(t, found)

	signers, err := registry.ListSigners(ctx)
	require.NoError(t, err)
	require.Len(t, signers, 1)
	require.Equal(t, "a1b2c3d4", signers[0].MasterFingerprint)
}

func TestCreateSignerInvalidXpub(t *testing.T) {
	registry := newTestRegistry(t)

	signer := ports.SignerDescriptor{
		Xpub:              "xpub-not-really",
		MasterFingerprint: "deadbeef",
	}
	err := registry.CreateSigner(context.Background(), signer)
	require.ErrorIs(t, err, signerregistry.ErrInvalidXpub)

	// Signers without xpub are identified by the rest of their descriptor.
	signer.Xpub = ""
	signer.Pubkey = "02aabb"
	err = registry.CreateSigner(context.Background(), signer)
	require.NoError(t, err)
}

func TestAddTapsignerSigner(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()

	card := ports.TapsignerCard{
		Signer:      newTestSigner(t, 3, "11223344"),
		CardID:      "card-1",
		Version:     "1.0.3",
		BirthHeight: 800000,
	}
	err := registry.AddTapsignerSigner(ctx, card)
	require.NoError(t, err)

	dup := card
	dup.Signer = newTestSigner(t, 4, "55667788")
	err = registry.AddTapsignerSigner(ctx, dup)
	require.ErrorIs(t, err, signerregistry.ErrDuplicateCard)

	dup.Replace = true
	err = registry.AddTapsignerSigner(ctx, dup)
	require.NoError(t, err)

	found, err := registry.HasSigner(ctx, card.Signer)
	require.NoError(t, err)
	require.False(t, found)
	found, err = registry.HasSigner(ctx, dup.Signer)
	require.NoError(t, err)
	require.True(t, found)

	err = registry.AddTapsignerSigner(ctx, ports.TapsignerCard{})
	require.ErrorIs(t, err, signerregistry.ErrMissingCardID)
}

func TestDeleteSigner(t *testing.T) {
	registry := newTestRegistry(t)
	ctx := context.Background()
	signer := newTestSigner(t, 5, "CAFEBABE")

	err := registry.CreateSigner(ctx, signer)
	require.NoError(t, err)

	err = registry.DeleteSigner(ctx, "CAFEBABE")
	require.NoError(t, err)

	found, err := registry.HasSigner(ctx, signer)
	require.NoError(t, err)
	require.False(t, found)

	err = registry.DeleteSigner(ctx, "cafebabe")
	require.ErrorIs(t, err, domain.ErrSignerNotFound)
}

func newTestRegistry(t *testing.T) *signerregistry.Registry {
	registry, err := signerregistry.NewRegistry("", nil)
	require.NoError(t, err)
	t.Cleanup(registry.Close)
	return registry
}

func newTestSigner(t *testing.T, seedByte byte, xfp string) ports.SignerDescriptor {
	seed := make([]byte, hdkeychain.RecommendedSeedLen)
	for i := range seed {
		seed[i] = seedByte
	}
	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	require.NoError(t, err)
	xpub, err := master.Neuter()
	require.NoError(t, err)

	return ports.SignerDescriptor{
		Name:              "key " + xfp,
		Xpub:              xpub.String(),
		DerivationPath:    "m/48h/0h/0h/2h",
		MasterFingerprint: xfp,
		Type:              domain.SignerTypeHardware,
		Tags:              []domain.SignerTag{domain.SignerTagColdcard},
	}
}

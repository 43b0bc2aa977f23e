package application_test

import (
	"errors"
	"testing"
	"time"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/stretchr/testify/require"

	"github.com/keyguard-network/keyguard-daemon/internal/core/application"
	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
	signerregistry "github.com/keyguard-network/keyguard-daemon/internal/infrastructure/signer-registry"
	"github.com/keyguard-network/keyguard-daemon/pkg/retry"
)

const testEmail = "satoshi@keyguard.test"

func newTestSession(t *testing.T) *domain.Session {
	session := domain.NewSession()
	err := session.InitWithEmail(testEmail, "token")
	require.NoError(t, err)
	return session
}

func newTestRegistry(t *testing.T) *signerregistry.Registry {
	registry, err := signerregistry.NewRegistry("", nil)
	require.NoError(t, err)
	t.Cleanup(registry.Close)
	return registry
}

func testIOPolicy() retry.Policy {
	return retry.IOPolicy().WithBackoff(3, time.Millisecond, 2)
}

// newTestConfig wires the services on an in-memory store, with the given
// server and engine.
func newTestConfig(
	t *testing.T, server ports.AssistedServer, engine ports.Engine,
) *application.Config {
	cfg := &application.Config{
		DBType:               application.DBInMemory,
		Network:              &chaincfg.MainNetParams,
		Session:              newTestSession(t),
		AssistedServer:       server,
		Engine:               engine,
		IORetryPolicy:        testIOPolicy(),
		ReconcileConcurrency: 2,
	}
	require.NoError(t, cfg.Validate())
	return cfg
}

// newTestSigner returns a hardware signer with an xpub derived from a seed
// filled with seedByte.
func newTestSigner(t *testing.T, seedByte byte, xfp string) domain.SignerServer {
	seed := make([]byte, hdkeychain.RecommendedSeedLen)
	for i := range seed {
		seed[i] = seedByte
	}
	master, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	require.NoError(t, err)
	xpub, err := master.Neuter()
	require.NoError(t, err)

	return domain.SignerServer{
		Name:           "key " + xfp,
		Xfp:            xfp,
		DerivationPath: "m/48h/0h/0h/2h",
		Type:           "HARDWARE",
		Tags:           []string{"COLDCARD", "SOMETHING_NEW"},
		Xpub:           xpub.String(),
	}
}

func newTestTapsigner(t *testing.T, seedByte byte, xfp, cardID string) domain.SignerServer {
	signer := newTestSigner(t, seedByte, xfp)
	signer.Type = "NFC"
	signer.Tags = nil
	signer.Tapsigner = &domain.TapsignerMeta{
		CardID:      cardID,
		Version:     "1.0.3",
		BirthHeight: 812000,
	}
	return signer
}

var errConnectionLost = errors.New("connection lost")

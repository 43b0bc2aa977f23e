package ports

import (
	"context"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
)

// SignerDescriptor is what the engine needs to know to look up or create a
// signer. Missing identity fields are empty strings.
type SignerDescriptor struct {
	Name              string
	Xpub              string
	Pubkey            string
	DerivationPath    string
	MasterFingerprint string
	Type              domain.SignerType
	Tags              []domain.SignerTag
}

// TapsignerCard describes a signer backed by a hardware token.
type TapsignerCard struct {
	Signer      SignerDescriptor
	CardID      string
	Version     string
	BirthHeight int
	IsTestnet   bool
	// Replace allows overwriting an existing signer for the same card.
	Replace bool
}

// Engine is the narrow capability surface of the cryptographic engine, the
// sole owner of signer key material.
type Engine interface {
	// HasSigner tells whether a signer matching the descriptor's xpub,
	// pubkey, derivation path and master fingerprint already exists.
	HasSigner(ctx context.Context, signer SignerDescriptor) (bool, error)
	// CreateSigner adds a new signer.
	CreateSigner(ctx context.Context, signer SignerDescriptor) error
	// AddTapsignerSigner adds a hardware-token signer. Duplicates for the
	// same card are rejected unless Replace is set.
	AddTapsignerSigner(ctx context.Context, card TapsignerCard) error
	// DeleteSigner removes the signer with the given master signer id. It
	// returns domain.ErrSignerNotFound if there's none.
	DeleteSigner(ctx context.Context, masterSignerID string) error
}

// Package signerregistry is a local signer registry implementing the engine
// capability surface. It stores signer descriptors only, never key material.
package signerregistry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/dgraph-io/badger/v3"
	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
	dbbadger "github.com/keyguard-network/keyguard-daemon/internal/infrastructure/storage/db/badger"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

var (
	// ErrDuplicateCard is returned when adding a hardware-token signer for a
	// card already registered, without asking for a replacement.
	ErrDuplicateCard = errors.New("a signer for this card already exists")
	// ErrDuplicateSigner ...
	ErrDuplicateSigner = errors.New("signer already exists")
	// ErrInvalidXpub ...
	ErrInvalidXpub = errors.New("invalid extended public key")
	// ErrMissingCardID ...
	ErrMissingCardID = errors.New("missing card id")
)

type signerRecord struct {
	Name              string
	Xpub              string
	Pubkey            string
	DerivationPath    string
	MasterFingerprint string `badgerhold:"index"`
	Type              domain.SignerType
	Tags              []domain.SignerTag
	CardID            string `badgerhold:"index"`
	CardVersion       string
	BirthHeight       int
	IsTestnet         bool
}

func (r signerRecord) descriptor() ports.SignerDescriptor {
	return ports.SignerDescriptor{
		Name:              r.Name,
		Xpub:              r.Xpub,
		Pubkey:            r.Pubkey,
		DerivationPath:    r.DerivationPath,
		MasterFingerprint: r.MasterFingerprint,
		Type:              r.Type,
		Tags:              r.Tags,
	}
}

// Registry is a badger-backed signer registry.
type Registry struct {
	store *badgerhold.Store
	// serializes the check-then-write sequences of the registry.
	lock *sync.Mutex
}

// NewRegistry opens the registry in the given dir, or in memory if the dir is
// empty.
func NewRegistry(dbDir string, logger badger.Logger) (*Registry, error) {
	store, err := dbbadger.CreateDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening signer registry: %w", err)
	}
	return &Registry{store, &sync.Mutex{}}, nil
}

var _ ports.Engine = (*Registry)(nil)

func (r *Registry) HasSigner(
	_ context.Context, signer ports.SignerDescriptor,
) (bool, error) {
	var rec signerRecord
	if err := r.store.Get(signerKey(signer), &rec); err != nil {
		if err == badgerhold.ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *Registry) CreateSigner(
	_ context.Context, signer ports.SignerDescriptor,
) error {
	if err := validateXpub(signer.Xpub); err != nil {
		return err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	rec := newSignerRecord(signer)
	if err := r.store.Insert(signerKey(signer), &rec); err != nil {
		if err == badgerhold.ErrKeyExists {
			return ErrDuplicateSigner
		}
		return err
	}

	log.Debugf("signer registry: added %s signer %s", signer.Type, rec.MasterFingerprint)
	return nil
}

func (r *Registry) AddTapsignerSigner(
	_ context.Context, card ports.TapsignerCard,
) error {
	if card.CardID == "" {
		return ErrMissingCardID
	}
	if err := validateXpub(card.Signer.Xpub); err != nil {
		return err
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	var existing []signerRecord
	query := badgerhold.Where("CardID").Eq(card.CardID).Index("CardID")
	if err := r.store.Find(&existing, query); err != nil {
		return err
	}
	if len(existing) > 0 && !card.Replace {
		return ErrDuplicateCard
	}

	rec := newSignerRecord(card.Signer)
	rec.CardID = card.CardID
	rec.CardVersion = card.Version
	rec.BirthHeight = card.BirthHeight
	rec.IsTestnet = card.IsTestnet

	return r.store.Badger().Update(func(tx *badger.Txn) error {
		for _, e := range existing {
			if err := r.store.TxDelete(
				tx, signerKey(e.descriptor()), signerRecord{},
			); err != nil && err != badgerhold.ErrNotFound {
				return err
			}
		}
		return r.store.TxUpsert(tx, signerKey(card.Signer), &rec)
	})
}

func (r *Registry) DeleteSigner(_ context.Context, masterSignerID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	xfp := strings.ToLower(masterSignerID)
	query := badgerhold.Where("MasterFingerprint").Eq(xfp).
		Index("MasterFingerprint")

	var found []signerRecord
	if err := r.store.Find(&found, query); err != nil {
		return err
	}
	if len(found) <= 0 {
		return domain.ErrSignerNotFound
	}

	return r.store.Badger().Update(func(tx *badger.Txn) error {
		for _, rec := range found {
			if err := r.store.TxDelete(
				tx, signerKey(rec.descriptor()), signerRecord{},
			); err != nil && err != badgerhold.ErrNotFound {
				return err
			}
		}
		return nil
	})
}

// ListSigners returns all registered signers.
func (r *Registry) ListSigners(
	_ context.Context,
) ([]ports.SignerDescriptor, error) {
	var recs []signerRecord
	if err := r.store.Find(&recs, nil); err != nil {
		return nil, err
	}
	signers := make([]ports.SignerDescriptor, 0, len(recs))
	for _, rec := range recs {
		signers = append(signers, rec.descriptor())
	}
	return signers, nil
}

func (r *Registry) Close() {
	r.store.Close()
}

func newSignerRecord(signer ports.SignerDescriptor) signerRecord {
	return signerRecord{
		Name:              signer.Name,
		Xpub:              signer.Xpub,
		Pubkey:            signer.Pubkey,
		DerivationPath:    signer.DerivationPath,
		MasterFingerprint: strings.ToLower(signer.MasterFingerprint),
		Type:              signer.Type,
		Tags:              signer.Tags,
	}
}

func signerKey(signer ports.SignerDescriptor) string {
	return fmt.Sprintf(
		"%s|%s|%s|%s",
		signer.Xpub, signer.Pubkey, signer.DerivationPath,
		strings.ToLower(signer.MasterFingerprint),
	)
}

// validateXpub accepts an empty xpub, signers may be identified by pubkey
// only.
func validateXpub(xpub string) error {
	if xpub == "" {
		return nil
	}
	if _, err := hdkeychain.NewKeyFromString(xpub); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidXpub, err)
	}
	return nil
}

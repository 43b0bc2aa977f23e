package dbbadger

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
	log "github.com/sirupsen/logrus"
	"github.com/timshannon/badgerhold/v4"
)

const (
	membershipDir = "membership"
	gcInterval    = 30 * time.Minute
)

type repoManager struct {
	store *badgerhold.Store
	quit  chan struct{}

	stepRepository   domain.StepRepository
	walletRepository domain.AssistedWalletRepository
}

// NewRepoManager opens (or creates if not exists) the badger store under the
// given base data dir. An empty dir makes the store live in memory.
func NewRepoManager(
	baseDbDir string, logger badger.Logger,
) (ports.RepoManager, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, membershipDir)
	}

	store, err := CreateDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening membership db: %w", err)
	}

	quit := make(chan struct{})
	if len(dbDir) > 0 {
		go runValueLogGC(store, quit)
	}

	return &repoManager{
		store:            store,
		quit:             quit,
		stepRepository:   NewStepRepositoryImpl(store),
		walletRepository: NewAssistedWalletRepositoryImpl(store),
	}, nil
}

func (m *repoManager) StepRepository() domain.StepRepository {
	return m.stepRepository
}

func (m *repoManager) AssistedWalletRepository() domain.AssistedWalletRepository {
	return m.walletRepository
}

func (m *repoManager) Close() {
	close(m.quit)
	m.store.Close()
}

// CreateDb opens a badgerhold store in the given dir, or in memory if the dir
// is empty.
func CreateDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}

func runValueLogGC(store *badgerhold.Store, quit chan struct{}) {
	ticker := time.NewTicker(gcInterval)
	defer ticker.Stop()

	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
			if err := store.Badger().RunValueLogGC(0.5); err != nil &&
				err != badger.ErrNoRewrite {
				log.WithError(err).Warn("badger value log gc failed")
			}
		}
	}
}

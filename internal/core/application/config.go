package application

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	log "github.com/sirupsen/logrus"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
	dbbadger "github.com/keyguard-network/keyguard-daemon/internal/infrastructure/storage/db/badger"
	"github.com/keyguard-network/keyguard-daemon/internal/infrastructure/storage/db/inmemory"
	"github.com/keyguard-network/keyguard-daemon/pkg/retry"
)

const (
	DBBadger   = "badger"
	DBInMemory = "inmemory"
)

var (
	SupportedDBType = map[string]struct{}{
		DBBadger:   {},
		DBInMemory: {},
	}
)

type Config struct {
	DBType   string
	DBConfig interface{}

	Network              *chaincfg.Params
	Session              *domain.Session
	AssistedServer       ports.AssistedServer
	Engine               ports.Engine
	IORetryPolicy        retry.Policy
	ReconcileConcurrency int

	repo        ports.RepoManager
	steps       StepService
	signer      SignerService
	replacement ReplacementService
	recurring   RecurringPaymentService
	membership  MembershipService
}

func (c *Config) Validate() error {
	if _, ok := SupportedDBType[c.DBType]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedDBType, c.DBType)
	}
	if c.Network == nil {
		return ErrMissingNetwork
	}
	if c.Session == nil {
		return ErrMissingSession
	}
	if c.AssistedServer == nil {
		return ErrMissingAssistedServer
	}
	if c.Engine == nil {
		return ErrMissingEngine
	}
	if _, err := c.repoManager(); err != nil {
		return err
	}
	return nil
}

func (c *Config) RepoManager() ports.RepoManager {
	repo, _ := c.repoManager()
	return repo
}

func (c *Config) StepService() StepService {
	svc, _ := c.stepService()
	return svc
}

func (c *Config) SignerService() SignerService {
	svc, _ := c.signerService()
	return svc
}

func (c *Config) ReplacementService() ReplacementService {
	svc, _ := c.replacementService()
	return svc
}

func (c *Config) RecurringPaymentService() RecurringPaymentService {
	svc, _ := c.recurringPaymentService()
	return svc
}

func (c *Config) MembershipService() MembershipService {
	svc, _ := c.membershipService()
	return svc
}

func (c *Config) repoManager() (ports.RepoManager, error) {
	if c.repo == nil {
		switch c.DBType {
		case DBBadger:
			datadir, _ := c.DBConfig.(string)
			repoManager, err := dbbadger.NewRepoManager(datadir, log.New())
			if err != nil {
				return nil, err
			}
			c.repo = repoManager
		case DBInMemory:
			c.repo = inmemory.NewRepoManager()
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedDBType, c.DBType)
		}
	}
	return c.repo, nil
}

func (c *Config) stepService() (StepService, error) {
	if c.steps == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		svc, err := NewStepService(repo, c.Engine, c.Session)
		if err != nil {
			return nil, err
		}
		c.steps = svc
	}
	return c.steps, nil
}

func (c *Config) signerService() (SignerService, error) {
	if c.signer == nil {
		svc, err := NewSignerService(c.Engine, c.ReconcileConcurrency)
		if err != nil {
			return nil, err
		}
		c.signer = svc
	}
	return c.signer, nil
}

func (c *Config) replacementService() (ReplacementService, error) {
	if c.replacement == nil {
		signerSvc, err := c.signerService()
		if err != nil {
			return nil, err
		}
		svc, err := NewReplacementService(
			c.AssistedServer, signerSvc, c.IORetryPolicy,
		)
		if err != nil {
			return nil, err
		}
		c.replacement = svc
	}
	return c.replacement, nil
}

func (c *Config) recurringPaymentService() (RecurringPaymentService, error) {
	if c.recurring == nil {
		svc, err := NewRecurringPaymentService(
			c.AssistedServer, c.Network, c.IORetryPolicy,
		)
		if err != nil {
			return nil, err
		}
		c.recurring = svc
	}
	return c.recurring, nil
}

func (c *Config) membershipService() (MembershipService, error) {
	if c.membership == nil {
		repo, err := c.repoManager()
		if err != nil {
			return nil, err
		}
		stepSvc, err := c.stepService()
		if err != nil {
			return nil, err
		}
		signerSvc, err := c.signerService()
		if err != nil {
			return nil, err
		}
		replacementSvc, err := c.replacementService()
		if err != nil {
			return nil, err
		}
		recurringSvc, err := c.recurringPaymentService()
		if err != nil {
			return nil, err
		}

		svc, err := NewMembershipService(
			c.Session, c.AssistedServer, c.Engine, repo,
			stepSvc, signerSvc, replacementSvc, recurringSvc, c.IORetryPolicy,
		)
		if err != nil {
			return nil, err
		}
		c.membership = svc
	}
	return c.membership, nil
}

package steps

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/pkg/stats"
)

const (
	actionDeleteSigner = "delete-signer"
	actionDeleteSteps  = "delete-steps"
)

type sagaAction struct {
	kind string
	name string
	run  func(ctx context.Context) error
}

// RestartSaga is the ordered list of compensating actions that resets the
// progress of a plan: one signer deletion per materialized key, followed by
// the deletion of the plan's steps. It is not atomic. Every action is
// idempotent, a failed saga can be resumed with Run or rebuilt and re-run
// from scratch.
type RestartSaga struct {
	Email string
	Plan  domain.MembershipPlan

	actions []sagaAction
	next    int
}

// Actions returns the names of the saga actions in execution order.
func (s *RestartSaga) Actions() []string {
	names := make([]string, 0, len(s.actions))
	for _, a := range s.actions {
		names = append(names, a.name)
	}
	return names
}

// Done tells whether every action has completed.
func (s *RestartSaga) Done() bool {
	return s.next >= len(s.actions)
}

// Run executes the pending actions in order and stops at the first failure,
// that is returned wrapped with the name of the failing action. Completed
// actions are not run again by later calls.
func (s *RestartSaga) Run(ctx context.Context) error {
	for ; s.next < len(s.actions); s.next++ {
		action := s.actions[s.next]
		if err := action.run(ctx); err != nil {
			stats.RestartActions.WithLabelValues(action.kind, "failed").Inc()
			return fmt.Errorf("restart %s: %s: %w", s.Plan, action.name, err)
		}
		stats.RestartActions.WithLabelValues(action.kind, "done").Inc()
		log.Debugf("restart %s: %s done", s.Plan, action.name)
	}
	return nil
}

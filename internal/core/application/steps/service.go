package steps

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
)

// Service tracks the provisioning progress of the session identity. It is
// the only owner of the membership step rows.
type Service struct {
	repo    domain.StepRepository
	engine  ports.Engine
	session *domain.Session
	hub     *snapshotHub
}

func NewService(
	repoManager ports.RepoManager, engine ports.Engine, session *domain.Session,
) (*Service, error) {
	if repoManager == nil {
		return nil, fmt.Errorf("missing repo manager")
	}
	if engine == nil {
		return nil, fmt.Errorf("missing engine")
	}
	if session == nil {
		return nil, fmt.Errorf("missing session")
	}
	return &Service{
		repo:    repoManager.StepRepository(),
		engine:  engine,
		session: session,
		hub:     newSnapshotHub(),
	}, nil
}

// GetSteps returns the steps of the given plan, in workflow order.
func (s *Service) GetSteps(
	ctx context.Context, plan domain.MembershipPlan,
) ([]domain.MembershipStep, error) {
	email, err := s.session.Email()
	if err != nil {
		return nil, err
	}
	return s.repo.GetStepsForPlan(ctx, email, plan)
}

// GetStep returns a single step of the given plan or domain.ErrStepNotFound.
func (s *Service) GetStep(
	ctx context.Context, plan domain.MembershipPlan, step domain.Step,
) (*domain.MembershipStep, error) {
	email, err := s.session.Email()
	if err != nil {
		return nil, err
	}
	return s.repo.GetStep(ctx, email, plan, step)
}

// WatchSteps returns a channel that emits the current snapshot of the plan's
// steps right away and a fresh one after every change. Slow readers only get
// the latest snapshot. The channel is closed once ctx is done.
func (s *Service) WatchSteps(
	ctx context.Context, plan domain.MembershipPlan,
) (<-chan []domain.MembershipStep, error) {
	email, err := s.session.Email()
	if err != nil {
		return nil, err
	}

	key := scope{email, plan}
	id, ch, err := s.hub.subscribe(key, s.reader(ctx, key))
	if err != nil {
		return nil, err
	}

	go func() {
		<-ctx.Done()
		s.hub.unsubscribe(key, id)
	}()
	return ch, nil
}

// SaveStep upserts the step for the session identity. Any existing step with
// the same (email, plan, step) is overwritten as a whole.
func (s *Service) SaveStep(
	ctx context.Context, step domain.MembershipStep,
) (*domain.MembershipStep, error) {
	email, err := s.session.Email()
	if err != nil {
		return nil, err
	}

	step.Email = email
	step.MasterSignerID = domain.NormalizeXfp(step.MasterSignerID)
	if err := step.Validate(); err != nil {
		return nil, err
	}
	if step.ID == "" {
		step.ID = uuid.New().String()
	}

	if err := s.repo.UpsertStep(ctx, step); err != nil {
		return nil, err
	}

	s.notify(ctx, scope{step.Email, step.Plan})
	return &step, nil
}

// DeleteStepsBySignerID removes the steps pointing at the given signer. It's
// a no-op if there's none.
func (s *Service) DeleteStepsBySignerID(
	ctx context.Context, masterSignerID string,
) error {
	deleted, err := s.repo.DeleteStepsForSigner(ctx, masterSignerID)
	if err != nil {
		return err
	}

	notified := make(map[scope]bool)
	for _, step := range deleted {
		key := scope{step.Email, step.Plan}
		if !notified[key] {
			s.notify(ctx, key)
			notified[key] = true
		}
	}
	return nil
}

// Restart resets the progress of the given plan for the session identity:
// the signers of its steps are deleted from the engine, then the steps
// themselves. Steps of other plans are untouched. On failure Restart can be
// called again until it succeeds.
func (s *Service) Restart(ctx context.Context, plan domain.MembershipPlan) error {
	saga, err := s.PrepareRestart(ctx, plan)
	if err != nil {
		return err
	}
	return saga.Run(ctx)
}

// PrepareRestart builds, without running it, the restart saga of the given
// plan.
func (s *Service) PrepareRestart(
	ctx context.Context, plan domain.MembershipPlan,
) (*RestartSaga, error) {
	email, err := s.session.Email()
	if err != nil {
		return nil, err
	}

	steps, err := s.repo.GetStepsForPlan(ctx, email, plan)
	if err != nil {
		return nil, err
	}

	saga := &RestartSaga{Email: email, Plan: plan}
	seen := make(map[string]bool)
	for _, step := range steps {
		signerID := step.MasterSignerID
		if !step.HasSigner() || seen[signerID] {
			continue
		}
		seen[signerID] = true
		saga.actions = append(saga.actions, sagaAction{
			kind: actionDeleteSigner,
			name: fmt.Sprintf("%s %s", actionDeleteSigner, signerID),
			run:  s.deleteSigner(signerID),
		})
	}
	saga.actions = append(saga.actions, sagaAction{
		kind: actionDeleteSteps,
		name: actionDeleteSteps,
		run:  s.deleteStepsForPlan(email, plan),
	})
	return saga, nil
}

func (s *Service) deleteSigner(masterSignerID string) func(context.Context) error {
	return func(ctx context.Context) error {
		err := s.engine.DeleteSigner(ctx, masterSignerID)
		if err != nil && !errors.Is(err, domain.ErrSignerNotFound) {
			return err
		}
		return nil
	}
}

func (s *Service) deleteStepsForPlan(
	email string, plan domain.MembershipPlan,
) func(context.Context) error {
	return func(ctx context.Context) error {
		count, err := s.repo.DeleteStepsForPlan(ctx, email, plan)
		if err != nil {
			return err
		}
		log.Debugf("deleted %d steps of plan %s", count, plan)
		s.notify(ctx, scope{email, plan})
		return nil
	}
}

func (s *Service) notify(ctx context.Context, key scope) {
	if err := s.hub.publish(key, s.reader(ctx, key)); err != nil {
		log.WithError(err).Warnf(
			"failed to publish steps snapshot for plan %s", key.plan,
		)
	}
}

func (s *Service) reader(
	ctx context.Context, key scope,
) func() ([]domain.MembershipStep, error) {
	return func() ([]domain.MembershipStep, error) {
		return s.repo.GetStepsForPlan(ctx, key.email, key.plan)
	}
}

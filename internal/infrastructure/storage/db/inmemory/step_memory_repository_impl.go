package inmemory

import (
	"context"

	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
)

type StepRepositoryImpl struct {
	store *stepInmemoryStore
}

// NewStepRepositoryImpl returns a new StepRepositoryImpl backed by the given
// store.
func NewStepRepositoryImpl(store *stepInmemoryStore) domain.StepRepository {
	return &StepRepositoryImpl{store}
}

func (r StepRepositoryImpl) UpsertStep(
	_ context.Context, step domain.MembershipStep,
) error {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	r.store.steps[step.Key()] = step
	return nil
}

func (r StepRepositoryImpl) GetStep(
	_ context.Context, email string, plan domain.MembershipPlan, step domain.Step,
) (*domain.MembershipStep, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	key := domain.MembershipStep{Email: email, Plan: plan, Step: step}.Key()
	s, ok := r.store.steps[key]
	if !ok {
		return nil, domain.ErrStepNotFound
	}
	return &s, nil
}

func (r StepRepositoryImpl) GetStepsForPlan(
	_ context.Context, email string, plan domain.MembershipPlan,
) ([]domain.MembershipStep, error) {
	r.store.locker.RLock()
	defer r.store.locker.RUnlock()

	steps := make([]domain.MembershipStep, 0)
	for _, s := range r.store.steps {
		if s.Email == email && s.Plan == plan {
			steps = append(steps, s)
		}
	}
	domain.SortSteps(steps)
	return steps, nil
}

func (r StepRepositoryImpl) DeleteStepsForSigner(
	_ context.Context, masterSignerID string,
) ([]domain.MembershipStep, error) {
	masterSignerID = domain.NormalizeXfp(masterSignerID)
	if masterSignerID == "" {
		return nil, nil
	}

	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	var deleted []domain.MembershipStep
	for key, s := range r.store.steps {
		if domain.NormalizeXfp(s.MasterSignerID) == masterSignerID {
			deleted = append(deleted, s)
			delete(r.store.steps, key)
		}
	}
	return deleted, nil
}

func (r StepRepositoryImpl) DeleteStepsForPlan(
	_ context.Context, email string, plan domain.MembershipPlan,
) (int, error) {
	r.store.locker.Lock()
	defer r.store.locker.Unlock()

	count := 0
	for key, s := range r.store.steps {
		if s.Email == email && s.Plan == plan {
			delete(r.store.steps, key)
			count++
		}
	}
	return count, nil
}

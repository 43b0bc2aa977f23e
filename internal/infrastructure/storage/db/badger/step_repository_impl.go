package dbbadger

import (
	"context"

	"github.com/dgraph-io/badger/v3"
	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

type stepRepositoryImpl struct {
	store *badgerhold.Store
}

// NewStepRepositoryImpl initializes a badger implementation of the
// domain.StepRepository.
func NewStepRepositoryImpl(store *badgerhold.Store) domain.StepRepository {
	return stepRepositoryImpl{store}
}

func (r stepRepositoryImpl) UpsertStep(
	_ context.Context, step domain.MembershipStep,
) error {
	return r.store.Upsert(step.Key(), &step)
}

func (r stepRepositoryImpl) GetStep(
	_ context.Context, email string, plan domain.MembershipPlan, step domain.Step,
) (*domain.MembershipStep, error) {
	key := domain.MembershipStep{Email: email, Plan: plan, Step: step}.Key()

	var s domain.MembershipStep
	if err := r.store.Get(key, &s); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, domain.ErrStepNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r stepRepositoryImpl) GetStepsForPlan(
	_ context.Context, email string, plan domain.MembershipPlan,
) ([]domain.MembershipStep, error) {
	query := badgerhold.Where("Email").Eq(email).And("Plan").Eq(plan)

	var steps []domain.MembershipStep
	if err := r.store.Find(&steps, query); err != nil {
		return nil, err
	}
	domain.SortSteps(steps)
	return steps, nil
}

func (r stepRepositoryImpl) DeleteStepsForSigner(
	_ context.Context, masterSignerID string,
) ([]domain.MembershipStep, error) {
	masterSignerID = domain.NormalizeXfp(masterSignerID)
	if masterSignerID == "" {
		return nil, nil
	}
	query := badgerhold.Where("MasterSignerID").Eq(masterSignerID)
	return r.deleteSteps(query)
}

func (r stepRepositoryImpl) DeleteStepsForPlan(
	_ context.Context, email string, plan domain.MembershipPlan,
) (int, error) {
	query := badgerhold.Where("Email").Eq(email).And("Plan").Eq(plan)
	deleted, err := r.deleteSteps(query)
	if err != nil {
		return 0, err
	}
	return len(deleted), nil
}

func (r stepRepositoryImpl) deleteSteps(
	query *badgerhold.Query,
) ([]domain.MembershipStep, error) {
	var deleted []domain.MembershipStep
	if err := r.store.Badger().Update(func(tx *badger.Txn) error {
		if err := r.store.TxFind(tx, &deleted, query); err != nil {
			return err
		}
		for _, s := range deleted {
			if err := r.store.TxDelete(
				tx, s.Key(), domain.MembershipStep{},
			); err != nil && err != badgerhold.ErrNotFound {
				return err
			}
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return deleted, nil
}

package domain

import "context"

// StepRepository is the abstraction for any kind of database intended to
// persist MembershipSteps.
type StepRepository interface {
	// UpsertStep adds the step or, if one with the same key already exists,
	// overwrites all of its fields.
	UpsertStep(ctx context.Context, step MembershipStep) error
	// GetStep returns the step identified by (email, plan, step) or
	// ErrStepNotFound.
	GetStep(
		ctx context.Context, email string, plan MembershipPlan, step Step,
	) (*MembershipStep, error)
	// GetStepsForPlan returns all steps of the given identity and plan.
	GetStepsForPlan(
		ctx context.Context, email string, plan MembershipPlan,
	) ([]MembershipStep, error)
	// DeleteStepsForSigner removes the steps pointing at the given master
	// signer and returns them. It's a no-op if none exists.
	DeleteStepsForSigner(
		ctx context.Context, masterSignerID string,
	) ([]MembershipStep, error)
	// DeleteStepsForPlan removes all steps of the given identity and plan
	// and returns the number of deleted rows.
	DeleteStepsForPlan(
		ctx context.Context, email string, plan MembershipPlan,
	) (int, error)
}

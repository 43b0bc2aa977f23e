package domain

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/google/uuid"
)

// MembershipStep holds the progress of one provisioning step of a user for a
// given plan.
type MembershipStep struct {
	ID    string
	Email string
	Plan  MembershipPlan
	Step  Step
	// MasterSignerID is empty until the key of the step has been materialized
	// in the engine.
	MasterSignerID string
	// KeyIDInServer is empty until the key has been uploaded.
	KeyIDInServer string
	IsVerify      bool
	// ExtraData is an opaque, step-specific payload.
	ExtraData string
}

// NewMembershipStep returns a step with a random id for the given identity.
func NewMembershipStep(
	email string, plan MembershipPlan, step Step,
) (*MembershipStep, error) {
	s := &MembershipStep{
		ID:    uuid.New().String(),
		Email: email,
		Plan:  plan,
		Step:  step,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Key returns the storage key of the step, derived from its identity
// (email, plan, step).
func (s MembershipStep) Key() string {
	buf := []byte(fmt.Sprintf("%s:%s:%s", s.Email, s.Plan, s.Step))
	return hex.EncodeToString(btcutil.Hash160(buf))
}

func (s MembershipStep) Validate() error {
	if s.Email == "" {
		return ErrMissingEmail
	}
	if !s.Plan.IsValid() {
		return ErrUnknownPlan
	}
	if s.Step == "" {
		return ErrMissingStep
	}
	return nil
}

// HasSigner tells whether a signer has been materialized for the step.
func (s MembershipStep) HasSigner() bool {
	return s.MasterSignerID != ""
}

// SortSteps orders the given steps of the same plan by their position in the
// plan's workflow. Steps unknown to the plan come last, ordered by name.
func SortSteps(steps []MembershipStep) {
	sort.SliceStable(steps, func(i, j int) bool {
		a, b := steps[i], steps[j]
		ia, ib := a.Step.indexInPlan(a.Plan), b.Step.indexInPlan(b.Plan)
		if ia != ib {
			return ia < ib
		}
		return a.Step < b.Step
	})
}

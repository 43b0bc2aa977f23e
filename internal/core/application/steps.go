package application

import (
	"context"

	"github.com/keyguard-network/keyguard-daemon/internal/core/application/steps"
	"github.com/keyguard-network/keyguard-daemon/internal/core/domain"
	"github.com/keyguard-network/keyguard-daemon/internal/core/ports"
)

type StepService interface {
	GetSteps(
		ctx context.Context, plan domain.MembershipPlan,
	) ([]domain.MembershipStep, error)
	GetStep(
		ctx context.Context, plan domain.MembershipPlan, step domain.Step,
	) (*domain.MembershipStep, error)
	WatchSteps(
		ctx context.Context, plan domain.MembershipPlan,
	) (<-chan []domain.MembershipStep, error)
	SaveStep(
		ctx context.Context, step domain.MembershipStep,
	) (*domain.MembershipStep, error)
	DeleteStepsBySignerID(ctx context.Context, masterSignerID string) error
	Restart(ctx context.Context, plan domain.MembershipPlan) error
	PrepareRestart(
		ctx context.Context, plan domain.MembershipPlan,
	) (*steps.RestartSaga, error)
}

func NewStepService(
	repoManager ports.RepoManager, engine ports.Engine, session *domain.Session,
) (StepService, error) {
	return steps.NewService(repoManager, engine, session)
}

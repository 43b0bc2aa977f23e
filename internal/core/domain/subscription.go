package domain

// Subscription is the membership state of the user as reported by the
// server.
type Subscription struct {
	SubscriptionID string
	Plan           MembershipPlan
	PlanSlug       string
	Status         string
}

// IsActive tells whether the subscription grants a known plan.
func (s Subscription) IsActive() bool {
	return s.Plan != NonePlan && s.Status != "CANCELED" && s.Status != "EXPIRED"
}

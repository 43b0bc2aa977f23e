package domain

import "strings"

// MembershipPlan is the subscription tier a provisioning workflow belongs to.
type MembershipPlan string

const (
	NonePlan             MembershipPlan = "NONE"
	IronHandPlan         MembershipPlan = "IRON_HAND"
	HoneyBadgerPlan      MembershipPlan = "HONEY_BADGER"
	ByzantinePlan        MembershipPlan = "BYZANTINE"
	ByzantineProPlan     MembershipPlan = "BYZANTINE_PRO"
	ByzantinePremierPlan MembershipPlan = "BYZANTINE_PREMIER"
	FinneyPlan           MembershipPlan = "FINNEY"
	FinneyProPlan        MembershipPlan = "FINNEY_PRO"
)

var plansBySlug = map[string]MembershipPlan{
	"iron_hand":         IronHandPlan,
	"honey_badger":      HoneyBadgerPlan,
	"byzantine":         ByzantinePlan,
	"byzantine_pro":     ByzantineProPlan,
	"byzantine_premier": ByzantinePremierPlan,
	"finney":            FinneyPlan,
	"finney_pro":        FinneyProPlan,
}

// ParseMembershipPlan maps a server plan slug, or a plan name, to the
// corresponding plan. Unknown values map to NonePlan.
func ParseMembershipPlan(slug string) MembershipPlan {
	if plan, ok := plansBySlug[strings.ToLower(strings.TrimSpace(slug))]; ok {
		return plan
	}
	return NonePlan
}

// Slug returns the server representation of the plan.
func (p MembershipPlan) Slug() string {
	return strings.ToLower(string(p))
}

func (p MembershipPlan) IsValid() bool {
	return p != NonePlan && ParseMembershipPlan(p.Slug()) == p
}

// IsGroupPlan tells whether wallets of this plan are shared among the
// members of a group.
func (p MembershipPlan) IsGroupPlan() bool {
	switch p {
	case ByzantinePlan, ByzantineProPlan, ByzantinePremierPlan, FinneyPlan,
		FinneyProPlan:
		return true
	default:
		return false
	}
}

// Step is one discrete unit of progress of a provisioning workflow.
type Step string

const (
	StepSetupKeyRecovery         Step = "SETUP_KEY_RECOVERY"
	StepAddServerKey             Step = "ADD_SERVER_KEY"
	StepIronAddHardwareKey1      Step = "IRON_ADD_HARDWARE_KEY_1"
	StepIronAddHardwareKey2      Step = "IRON_ADD_HARDWARE_KEY_2"
	StepHoneyAddTapsigner        Step = "HONEY_ADD_TAP_SIGNER"
	StepHoneyAddHardwareKey1     Step = "HONEY_ADD_HARDWARE_KEY_1"
	StepHoneyAddHardwareKey2     Step = "HONEY_ADD_HARDWARE_KEY_2"
	StepByzantineAddTapsigner    Step = "BYZANTINE_ADD_TAP_SIGNER"
	StepByzantineAddHardwareKey1 Step = "BYZANTINE_ADD_HARDWARE_KEY_1"
	StepByzantineAddHardwareKey2 Step = "BYZANTINE_ADD_HARDWARE_KEY_2"
	StepByzantineAddHardwareKey3 Step = "BYZANTINE_ADD_HARDWARE_KEY_3"
	StepByzantineAddHardwareKey4 Step = "BYZANTINE_ADD_HARDWARE_KEY_4"
	StepSetupInheritance         Step = "SETUP_INHERITANCE"
	StepCreateWallet             Step = "CREATE_WALLET"
)

var stepsByPlan = map[MembershipPlan][]Step{
	IronHandPlan: {
		StepSetupKeyRecovery,
		StepIronAddHardwareKey1,
		StepIronAddHardwareKey2,
		StepAddServerKey,
		StepCreateWallet,
	},
	HoneyBadgerPlan: {
		StepSetupKeyRecovery,
		StepHoneyAddTapsigner,
		StepHoneyAddHardwareKey1,
		StepHoneyAddHardwareKey2,
		StepAddServerKey,
		StepSetupInheritance,
		StepCreateWallet,
	},
	ByzantinePlan:        byzantineSteps(false),
	ByzantineProPlan:     byzantineSteps(true),
	ByzantinePremierPlan: byzantineSteps(true),
	FinneyPlan:           byzantineSteps(false),
	FinneyProPlan:        byzantineSteps(true),
}

func byzantineSteps(withInheritance bool) []Step {
	steps := []Step{
		StepSetupKeyRecovery,
		StepByzantineAddTapsigner,
		StepByzantineAddHardwareKey1,
		StepByzantineAddHardwareKey2,
		StepByzantineAddHardwareKey3,
		StepByzantineAddHardwareKey4,
		StepAddServerKey,
	}
	if withInheritance {
		steps = append(steps, StepSetupInheritance)
	}
	return append(steps, StepCreateWallet)
}

// StepsForPlan returns the ordered provisioning steps of the given plan.
func StepsForPlan(plan MembershipPlan) []Step {
	steps := stepsByPlan[plan]
	cp := make([]Step, len(steps))
	copy(cp, steps)
	return cp
}

// IsAddKey tells whether completing the step materializes a signer.
func (s Step) IsAddKey() bool {
	switch s {
	case StepAddServerKey,
		StepIronAddHardwareKey1, StepIronAddHardwareKey2,
		StepHoneyAddTapsigner, StepHoneyAddHardwareKey1, StepHoneyAddHardwareKey2,
		StepByzantineAddTapsigner,
		StepByzantineAddHardwareKey1, StepByzantineAddHardwareKey2,
		StepByzantineAddHardwareKey3, StepByzantineAddHardwareKey4:
		return true
	default:
		return false
	}
}

// IsTapsigner tells whether the step expects a hardware-token signer.
func (s Step) IsTapsigner() bool {
	return s == StepHoneyAddTapsigner || s == StepByzantineAddTapsigner
}

// indexInPlan returns the position of the step in the plan's ordering, or
// the length of the ordering for steps not belonging to it.
func (s Step) indexInPlan(plan MembershipPlan) int {
	steps := stepsByPlan[plan]
	for i, st := range steps {
		if st == s {
			return i
		}
	}
	return len(steps)
}

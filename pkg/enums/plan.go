package enums

import "fmt"

// Plan is a subscription tier governing caption quota.
type Plan string

const (
	PlanTrial Plan = "trial"
	// PlanFree is legacy; existing rows keep it but new signups start on trial.
	PlanFree Plan = "free"
	PlanPro  Plan = "pro"
)

var validPlans = []Plan{
	PlanTrial,
	PlanFree,
	PlanPro,
}

// String implements fmt.Stringer.
func (p Plan) String() string {
	return string(p)
}

// IsValid reports whether the value is a known Plan.
func (p Plan) IsValid() bool {
	for _, candidate := range validPlans {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePlan converts raw input into a Plan.
func ParsePlan(value string) (Plan, error) {
	for _, candidate := range validPlans {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid plan %q", value)
}

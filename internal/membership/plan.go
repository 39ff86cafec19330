package membership

import (
	"errors"
	"fmt"
)

// Plan represents a membership renewal interval
type Plan string

const (
	PlanOneMonth    Plan = "1-month"
	PlanThreeMonths Plan = "3-months"
	PlanSixMonths   Plan = "6-months"
	PlanOneYear     Plan = "1-year"
)

// ErrInvalidPlan is returned for plan codes outside the known set.
// Unknown codes are rejected rather than defaulted: a typo must never
// silently shorten a member's paid period.
var ErrInvalidPlan = errors.New("invalid membership plan")

// Plans lists all valid plan codes, in display order
var Plans = []Plan{PlanOneMonth, PlanThreeMonths, PlanSixMonths, PlanOneYear}

// ParsePlan validates a plan code from user input or storage
func ParsePlan(s string) (Plan, error) {
	switch Plan(s) {
	case PlanOneMonth, PlanThreeMonths, PlanSixMonths, PlanOneYear:
		return Plan(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPlan, s)
}

// Valid reports whether p is a known plan code
func (p Plan) Valid() bool {
	_, err := ParsePlan(string(p))
	return err == nil
}

// Months returns the renewal interval in calendar months
func (p Plan) Months() (int, error) {
	switch p {
	case PlanOneMonth:
		return 1, nil
	case PlanThreeMonths:
		return 3, nil
	case PlanSixMonths:
		return 6, nil
	case PlanOneYear:
		return 12, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPlan, p)
}

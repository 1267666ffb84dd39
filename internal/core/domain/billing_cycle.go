package domain

import (
	"fmt"

	"github.com/subtrackhq/subtrack_backend/internal/apperrors"
)

// CycleKind identifies the recurrence shape of a billing cycle.
type CycleKind string

const (
	CycleDaily    CycleKind = "DAILY"
	CycleWeekly   CycleKind = "WEEKLY"
	CycleMonthly  CycleKind = "MONTHLY"
	CycleYearly   CycleKind = "YEARLY"
	CycleLifetime CycleKind = "LIFETIME" // one-time purchase, never renews
	CycleCustom   CycleKind = "CUSTOM"   // every Value Units
)

// CycleUnit is the calendar unit used by custom cycles and trial periods.
type CycleUnit string

const (
	UnitDay   CycleUnit = "DAY"
	UnitWeek  CycleUnit = "WEEK"
	UnitMonth CycleUnit = "MONTH"
	UnitYear  CycleUnit = "YEAR"
)

// BillingCycle describes how often a subscription renews.
// Value and Unit are only meaningful when Kind is CycleCustom.
type BillingCycle struct {
	Kind  CycleKind `json:"kind"`
	Value int       `json:"value,omitempty"`
	Unit  CycleUnit `json:"unit,omitempty"`
}

// NewCustomCycle builds a validated "every value units" cycle.
func NewCustomCycle(value int, unit CycleUnit) (BillingCycle, error) {
	c := BillingCycle{Kind: CycleCustom, Value: value, Unit: unit}
	if err := c.Validate(); err != nil {
		return BillingCycle{}, err
	}
	return c, nil
}

// Validate checks the closed-variant invariants.
func (c BillingCycle) Validate() error {
	switch c.Kind {
	case CycleDaily, CycleWeekly, CycleMonthly, CycleYearly, CycleLifetime:
		return nil
	case CycleCustom:
		if c.Value < 1 {
			return fmt.Errorf("%w: custom cycle value must be at least 1", apperrors.ErrValidation)
		}
		switch c.Unit {
		case UnitDay, UnitWeek, UnitMonth, UnitYear:
			return nil
		default:
			return fmt.Errorf("%w: unknown cycle unit '%s'", apperrors.ErrValidation, c.Unit)
		}
	default:
		return fmt.Errorf("%w: unknown billing cycle kind '%s'", apperrors.ErrValidation, c.Kind)
	}
}

// IsLifetime reports whether the cycle denotes a one-time purchase.
func (c BillingCycle) IsLifetime() bool {
	return c.Kind == CycleLifetime
}

func (c BillingCycle) String() string {
	if c.Kind == CycleCustom {
		return fmt.Sprintf("every %d %s(s)", c.Value, c.Unit)
	}
	return string(c.Kind)
}

// TrialPeriod is a free-trial window starting at the subscription's last
// billing date. Same value/unit shape as a custom cycle.
type TrialPeriod struct {
	Value int       `json:"value"`
	Unit  CycleUnit `json:"unit"`
}

// Validate checks the trial window invariants.
func (t TrialPeriod) Validate() error {
	if t.Value < 1 {
		return fmt.Errorf("%w: trial period value must be at least 1", apperrors.ErrValidation)
	}
	switch t.Unit {
	case UnitDay, UnitWeek, UnitMonth, UnitYear:
		return nil
	default:
		return fmt.Errorf("%w: unknown trial period unit '%s'", apperrors.ErrValidation, t.Unit)
	}
}

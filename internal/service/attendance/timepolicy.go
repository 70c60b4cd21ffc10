package attendance

import (
	"fmt"
	"time"

	"github.com/nimbushr/attendance-gate/internal/config"
	"github.com/nimbushr/attendance-gate/internal/domain/attendance"
	"github.com/nimbushr/attendance-gate/internal/pkg/validator"
)

// Clock is a wall-clock minute of day, parsed from "HH:MM". All policy
// windows compare local wall-clock time, never instants, so a DST shift
// moves the windows with the clock.
type Clock struct {
	Hour   int
	Minute int
}

func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return Clock{}, fmt.Errorf("invalid clock value %q: %w", s, err)
	}
	return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (c Clock) MinuteOfDay() int {
	return c.Hour*60 + c.Minute
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// TimePolicy evaluates the daily check-in/check-out windows. It is pure:
// all state comes in as arguments.
type TimePolicy struct {
	CheckInDeadline  Clock
	CheckOutDeadline Clock
	LateAfter        Clock
	DefaultEndTime   Clock

	// Roles and departments whose shifts run outside office hours; the
	// check-in deadline and lateness rules do not apply to them.
	ExemptRoles       []string
	ExemptDepartments []string
}

func NewTimePolicy(cfg config.PolicyConfig) (TimePolicy, error) {
	p := TimePolicy{
		ExemptRoles:       cfg.ExemptRoles,
		ExemptDepartments: cfg.ExemptDepartments,
	}

	var err error
	if p.CheckInDeadline, err = ParseClock(cfg.CheckInDeadline); err != nil {
		return TimePolicy{}, err
	}
	if p.CheckOutDeadline, err = ParseClock(cfg.CheckOutDeadline); err != nil {
		return TimePolicy{}, err
	}
	if p.LateAfter, err = ParseClock(cfg.LateAfter); err != nil {
		return TimePolicy{}, err
	}
	if p.DefaultEndTime, err = ParseClock(cfg.DefaultEndTime); err != nil {
		return TimePolicy{}, err
	}

	return p, nil
}

func (p TimePolicy) isExempt(role, department string) bool {
	return validator.IsInSlice(role, p.ExemptRoles) ||
		validator.IsInSlice(department, p.ExemptDepartments)
}

type CheckInVerdict struct {
	Late bool
}

// EvaluateCheckIn applies the check-in window to the given local time.
// Returns ErrCheckInClosed past the deadline and ErrLatenessReasonRequired
// for a late check-in without a reason. Exempt roles and departments skip
// both rules.
func (p TimePolicy) EvaluateCheckIn(now time.Time, role, department string, latenessReason *string) (CheckInVerdict, error) {
	if p.isExempt(role, department) {
		return CheckInVerdict{}, nil
	}

	minute := minuteOfDay(now)

	if minute >= p.CheckInDeadline.MinuteOfDay() {
		return CheckInVerdict{}, attendance.ErrCheckInClosed
	}

	if minute > p.LateAfter.MinuteOfDay() {
		if latenessReason == nil || *latenessReason == "" {
			return CheckInVerdict{}, attendance.ErrLatenessReasonRequired
		}
		return CheckInVerdict{Late: true}, nil
	}

	return CheckInVerdict{}, nil
}

type CheckOutVerdict struct {
	Early bool
}

// EvaluateCheckOut applies the check-out window. deadlineExempt bypasses the
// closing deadline (approved off-premises duty, or a checkout from outside
// the geofence radius). endTime is the location's "HH:MM" end of day when
// set; the policy default applies otherwise. Weekend checkouts never require
// an early reason.
func (p TimePolicy) EvaluateCheckOut(now time.Time, role, department string, deadlineExempt bool, endTime *string, earlyReason *string) (CheckOutVerdict, error) {
	if p.isExempt(role, department) {
		return CheckOutVerdict{}, nil
	}

	minute := minuteOfDay(now)

	if !deadlineExempt && minute >= p.CheckOutDeadline.MinuteOfDay() {
		return CheckOutVerdict{}, attendance.ErrCheckOutClosed
	}

	end := p.DefaultEndTime
	if endTime != nil && *endTime != "" {
		parsed, err := ParseClock(*endTime)
		if err == nil {
			end = parsed
		}
	}

	if minute < end.MinuteOfDay() {
		if isWeekend(now) {
			return CheckOutVerdict{Early: true}, nil
		}
		if earlyReason == nil || *earlyReason == "" {
			return CheckOutVerdict{}, attendance.ErrEarlyCheckoutReasonRequired
		}
		return CheckOutVerdict{Early: true}, nil
	}

	return CheckOutVerdict{}, nil
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

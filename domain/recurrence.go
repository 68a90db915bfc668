package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// RuleType selects the recurrence pattern.
type RuleType string

const (
	RuleDaily   RuleType = "daily"
	RuleWeekly  RuleType = "weekly"
	RuleMonthly RuleType = "monthly"
	RuleYearly  RuleType = "yearly"
	RuleCustom  RuleType = "custom"
)

// MonthlyMode selects how monthly rules pin the day: the anchor's
// day-of-month ("15th") or its ordinal weekday ("3rd Monday").
type MonthlyMode string

const (
	MonthlyByDate    MonthlyMode = "by_date"
	MonthlyByWeekday MonthlyMode = "by_weekday"
)

// EndType selects how a recurring series terminates.
type EndType string

const (
	EndNever      EndType = "never"
	EndAfterCount EndType = "after_count"
	EndOnDate     EndType = "on_date"
)

// RecurrenceRule describes a recurring task series. Exactly one end
// condition is active: EndNever, EndAfterCount with Count, or EndOnDate
// with Until. Anchor is the date of the first occurrence.
type RecurrenceRule struct {
	ID          string      `json:"id"`
	WorkspaceID string      `json:"workspace_id"`
	Type        RuleType    `json:"type"`
	Interval    int         `json:"interval"`
	WeeklyDays  []int       `json:"weekly_days,omitempty"`
	MonthlyMode MonthlyMode `json:"monthly_mode,omitempty"`
	EndType     EndType     `json:"end_type"`
	Count       int         `json:"count,omitempty"`
	Until       *time.Time  `json:"until,omitempty"`
	Anchor      time.Time   `json:"anchor"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TaskOccurrence is one concrete scheduled instance of a recurring series.
// Many occurrences share one rule; OriginTaskID points back at the template
// task for lookup only. Skipped marks an occurrence the user deleted from
// the series: the date is still a product of the rule, but it must never
// surface in due-task queries again.
type TaskOccurrence struct {
	ID            string    `json:"id"`
	RecurrenceID  string    `json:"recurrence_id"`
	OriginTaskID  string    `json:"origin_task_id,omitempty"`
	SequenceIndex int       `json:"sequence_index"`
	ScheduledDate time.Time `json:"scheduled_date"`
	Skipped       bool      `json:"skipped,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// DateOnly truncates a timestamp to a UTC calendar date. All recurrence
// arithmetic operates on these.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Normalize sorts and deduplicates WeeklyDays, truncates Anchor and Until
// to calendar dates, and fills zero-valued enums with their defaults.
func (r *RecurrenceRule) Normalize() {
	if r == nil {
		return
	}
	if r.EndType == "" {
		r.EndType = EndNever
	}
	if r.Type == RuleMonthly && r.MonthlyMode == "" {
		r.MonthlyMode = MonthlyByDate
	}
	if !r.Anchor.IsZero() {
		r.Anchor = DateOnly(r.Anchor)
	}
	if r.Until != nil {
		u := DateOnly(*r.Until)
		r.Until = &u
	}
	if len(r.WeeklyDays) > 0 {
		seen := make(map[int]bool, len(r.WeeklyDays))
		days := r.WeeklyDays[:0]
		for _, d := range r.WeeklyDays {
			if !seen[d] {
				seen[d] = true
				days = append(days, d)
			}
		}
		sort.Ints(days)
		r.WeeklyDays = days
	}
}

// Validate checks construction-time invariants and reports every violated
// constraint in a single INVALID domain error. A rule that passed
// validation never fails during expansion.
func (r *RecurrenceRule) Validate() error {
	if r == nil {
		return ErrInvalidPayload
	}

	var violations []string

	switch r.Type {
	case RuleDaily, RuleWeekly, RuleMonthly, RuleYearly, RuleCustom:
	default:
		violations = append(violations, fmt.Sprintf("unknown type %q", r.Type))
	}

	if r.Interval < 1 {
		violations = append(violations, "interval must be >= 1")
	}

	if r.Type == RuleWeekly && len(r.WeeklyDays) == 0 {
		violations = append(violations, "weekly rule requires at least one weekday")
	}
	for _, d := range r.WeeklyDays {
		if d < 0 || d > 6 {
			violations = append(violations, fmt.Sprintf("weekday %d out of range 0..6", d))
		}
	}

	if r.Type == RuleMonthly {
		switch r.MonthlyMode {
		case MonthlyByDate, MonthlyByWeekday, "":
		default:
			violations = append(violations, fmt.Sprintf("unknown monthly mode %q", r.MonthlyMode))
		}
	}

	if r.Anchor.IsZero() {
		violations = append(violations, "anchor date is required")
	}

	switch r.EndType {
	case EndNever:
		if r.Count != 0 || r.Until != nil {
			violations = append(violations, "never-ending rule must not carry count or until")
		}
	case EndAfterCount:
		if r.Count < 1 {
			violations = append(violations, "count must be >= 1")
		}
		if r.Until != nil {
			violations = append(violations, "after-count rule must not carry until")
		}
	case EndOnDate:
		if r.Until == nil {
			violations = append(violations, "on-date rule requires until")
		} else if !r.Anchor.IsZero() && DateOnly(*r.Until).Before(DateOnly(r.Anchor)) {
			violations = append(violations, "until must not precede anchor")
		}
		if r.Count != 0 {
			violations = append(violations, "on-date rule must not carry count")
		}
	default:
		violations = append(violations, fmt.Sprintf("unknown end type %q", r.EndType))
	}

	if len(violations) > 0 {
		return WrapError(ErrCodeInvalid, "invalid recurrence rule", errors.New(strings.Join(violations, "; ")))
	}
	return nil
}

// effectiveType folds the underspecified custom type into daily or weekly:
// weekly when a weekday set is present, daily otherwise.
func (r *RecurrenceRule) effectiveType() RuleType {
	if r.Type == RuleCustom {
		if len(r.WeeklyDays) > 0 {
			return RuleWeekly
		}
		return RuleDaily
	}
	return r.Type
}

package domain

import "time"

// MaxOccurrencesPerExpansion bounds a single expansion call so a
// never-ending rule combined with an unbounded window cannot spin forever.
// Hitting the bound truncates the result and reports ErrOccurrenceOverflow.
const MaxOccurrencesPerExpansion = 10_000

// ErrOccurrenceOverflow signals a truncated expansion. The dates produced
// before the bound are still returned.
var ErrOccurrenceOverflow = NewError(ErrCodeOverflow, "occurrence expansion truncated at safety bound")

// OccurrencesInRange enumerates the scheduled dates of a validated rule
// intersecting [start, end], inclusive, ascending and deduplicated. It is a
// pure function: no state, no I/O, safe for concurrent use. Expanding past
// the rule's end condition simply yields fewer or zero dates.
func OccurrencesInRange(rule *RecurrenceRule, start, end time.Time) ([]time.Time, error) {
	startD, endD := DateOnly(start), DateOnly(end)
	if endD.Before(startD) {
		return nil, nil
	}

	var out []time.Time
	err := forEachOccurrence(rule, endD, func(_ int, d time.Time) bool {
		if d.Before(startD) {
			return true
		}
		if n := len(out); n > 0 && !out[n-1].Before(d) {
			return true
		}
		out = append(out, d)
		return true
	})
	return out, err
}

// Expand materializes occurrences intersecting [start, end] with their
// sequence indices, ready for persistence.
func Expand(rule *RecurrenceRule, originTaskID string, start, end time.Time) ([]TaskOccurrence, error) {
	startD, endD := DateOnly(start), DateOnly(end)
	if endD.Before(startD) {
		return nil, nil
	}

	var out []TaskOccurrence
	err := forEachOccurrence(rule, endD, func(seq int, d time.Time) bool {
		if d.Before(startD) {
			return true
		}
		out = append(out, TaskOccurrence{
			RecurrenceID:  rule.ID,
			OriginTaskID:  originTaskID,
			SequenceIndex: seq,
			ScheduledDate: d,
		})
		return true
	})
	return out, err
}

// NextOccurrence returns the first occurrence strictly after the given
// date, or false when the series has ended.
func NextOccurrence(rule *RecurrenceRule, after time.Time) (time.Time, bool) {
	afterD := DateOnly(after)
	horizon := afterD.AddDate(100, 0, 0)

	var next time.Time
	var found bool
	_ = forEachOccurrence(rule, horizon, func(_ int, d time.Time) bool {
		if !d.After(afterD) {
			return true
		}
		next, found = d, true
		return false
	})
	return next, found
}

// forEachOccurrence walks the series in ascending date order from the
// anchor, calling visit with each occurrence's 0-based sequence index.
// It stops at the first of: the rule's end condition, a date beyond limit,
// visit returning false, or the safety bound (reported as overflow).
func forEachOccurrence(rule *RecurrenceRule, limit time.Time, visit func(seq int, d time.Time) bool) error {
	if rule == nil {
		return nil
	}

	anchor := DateOnly(rule.Anchor)
	interval := rule.Interval
	if interval < 1 {
		interval = 1
	}

	var until *time.Time
	if rule.EndType == EndOnDate && rule.Until != nil {
		u := DateOnly(*rule.Until)
		until = &u
	}
	maxCount := -1
	if rule.EndType == EndAfterCount {
		maxCount = rule.Count
	}

	seq := 0
	stopped := false
	var overflow error

	// emit applies termination checks in spec order; it returns false once
	// the walk must end.
	emit := func(d time.Time) bool {
		if until != nil && d.After(*until) {
			stopped = true
			return false
		}
		if maxCount >= 0 && seq >= maxCount {
			stopped = true
			return false
		}
		if d.After(limit) {
			stopped = true
			return false
		}
		if seq >= MaxOccurrencesPerExpansion {
			stopped = true
			overflow = ErrOccurrenceOverflow
			return false
		}
		cont := visit(seq, d)
		seq++
		if !cont {
			stopped = true
		}
		return !stopped
	}

	switch rule.effectiveType() {
	case RuleWeekly:
		for k := 0; !stopped; k++ {
			weekStart := anchor.AddDate(0, 0, k*interval*7)
			for offset := 0; offset < 7; offset++ {
				d := weekStart.AddDate(0, 0, offset)
				if !containsWeekday(rule.WeeklyDays, int(d.Weekday())) {
					continue
				}
				if !emit(d) {
					break
				}
			}
		}

	case RuleMonthly:
		byWeekday := rule.MonthlyMode == MonthlyByWeekday
		ordinal := (anchor.Day() - 1) / 7
		weekday := anchor.Weekday()
		for k := 0; !stopped; k++ {
			year, month := addMonths(anchor.Year(), anchor.Month(), k*interval)
			var day int
			if byWeekday {
				day = nthWeekdayOfMonth(year, month, weekday, ordinal)
			} else {
				day = clampDay(anchor.Day(), year, month)
			}
			emit(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
		}

	case RuleYearly:
		for k := 0; !stopped; k++ {
			year := anchor.Year() + k*interval
			day := clampDay(anchor.Day(), year, anchor.Month())
			emit(time.Date(year, anchor.Month(), day, 0, 0, 0, 0, time.UTC))
		}

	default: // daily
		for k := 0; !stopped; k++ {
			emit(anchor.AddDate(0, 0, k*interval))
		}
	}

	return overflow
}

func containsWeekday(days []int, weekday int) bool {
	for _, d := range days {
		if d == weekday {
			return true
		}
	}
	return false
}

// addMonths advances a (year, month) pair without day-of-month rollover.
func addMonths(year int, month time.Month, months int) (int, time.Month) {
	total := (int(month) - 1) + months
	return year + total/12, time.Month(total%12 + 1)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// clampDay pins a day-of-month to the target month's length so a Jan 31
// anchor yields Feb 28/29 rather than rolling into March.
func clampDay(day int, year int, month time.Month) int {
	if max := daysInMonth(year, month); day > max {
		return max
	}
	return day
}

// nthWeekdayOfMonth resolves e.g. "2nd Tuesday" (ordinal 1) within a month.
// When the month has no such occurrence (a 5th weekday), the last one is
// used instead.
func nthWeekdayOfMonth(year int, month time.Month, weekday time.Weekday, ordinal int) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	day := 1 + offset + 7*ordinal
	for day > daysInMonth(year, month) {
		day -= 7
	}
	return day
}

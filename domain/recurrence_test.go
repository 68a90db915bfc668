package domain

import (
	"strings"
	"testing"
	"time"
)

func d(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func dates(t *testing.T, rule *RecurrenceRule, start, end time.Time) []time.Time {
	t.Helper()
	rule.Normalize()
	if err := rule.Validate(); err != nil {
		t.Fatalf("rule did not validate: %v", err)
	}
	out, err := OccurrencesInRange(rule, start, end)
	if err != nil {
		t.Fatalf("expansion failed: %v", err)
	}
	return out
}

func assertDates(t *testing.T, got []time.Time, want ...time.Time) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d dates, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("date %d: expected %s, got %s", i, want[i].Format(time.DateOnly), got[i].Format(time.DateOnly))
		}
	}
}

func TestOccurrencesInRange_DailyInterval(t *testing.T) {
	rule := &RecurrenceRule{
		Type:     RuleDaily,
		Interval: 2,
		EndType:  EndNever,
		Anchor:   d(2025, time.January, 1),
	}

	got := dates(t, rule, d(2025, time.January, 1), d(2025, time.January, 10))
	assertDates(t, got,
		d(2025, time.January, 1),
		d(2025, time.January, 3),
		d(2025, time.January, 5),
		d(2025, time.January, 7),
		d(2025, time.January, 9),
	)

	for i := 1; i < len(got); i++ {
		if got[i].Sub(got[i-1]) != 48*time.Hour {
			t.Errorf("dates %d and %d are not exactly 2 days apart", i-1, i)
		}
	}
}

func TestOccurrencesInRange_WeeklyExample(t *testing.T) {
	// Anchor is Monday 2025-01-06; Mondays and Wednesdays, every week.
	rule := &RecurrenceRule{
		Type:       RuleWeekly,
		Interval:   1,
		WeeklyDays: []int{1, 3},
		EndType:    EndNever,
		Anchor:     d(2025, time.January, 6),
	}

	got := dates(t, rule, d(2025, time.January, 6), d(2025, time.January, 19))
	assertDates(t, got,
		d(2025, time.January, 6),
		d(2025, time.January, 8),
		d(2025, time.January, 13),
		d(2025, time.January, 15),
	)

	for i, date := range got {
		if wd := int(date.Weekday()); wd != 1 && wd != 3 {
			t.Errorf("date %d has weekday %d, not in rule set", i, wd)
		}
		if i > 0 && !got[i-1].Before(date) {
			t.Errorf("dates not strictly ascending at %d", i)
		}
	}
}

func TestOccurrencesInRange_WeeklyAnchorDayNotInSet(t *testing.T) {
	// Anchor Wednesday 2025-01-01, but only Mondays repeat; the first
	// occurrence is the Monday inside the anchor week.
	rule := &RecurrenceRule{
		Type:       RuleWeekly,
		Interval:   1,
		WeeklyDays: []int{1},
		EndType:    EndNever,
		Anchor:     d(2025, time.January, 1),
	}

	got := dates(t, rule, d(2025, time.January, 1), d(2025, time.January, 14))
	assertDates(t, got,
		d(2025, time.January, 6),
		d(2025, time.January, 13),
	)
}

func TestOccurrencesInRange_WeeklyBiweekly(t *testing.T) {
	rule := &RecurrenceRule{
		Type:       RuleWeekly,
		Interval:   2,
		WeeklyDays: []int{5},
		EndType:    EndNever,
		Anchor:     d(2025, time.January, 3), // Friday
	}

	got := dates(t, rule, d(2025, time.January, 1), d(2025, time.February, 1))
	assertDates(t, got,
		d(2025, time.January, 3),
		d(2025, time.January, 17),
		d(2025, time.January, 31),
	)
}

func TestOccurrencesInRange_MonthlyByDateClamps(t *testing.T) {
	rule := &RecurrenceRule{
		Type:        RuleMonthly,
		Interval:    1,
		MonthlyMode: MonthlyByDate,
		EndType:     EndNever,
		Anchor:      d(2025, time.January, 31),
	}

	got := dates(t, rule, d(2025, time.January, 1), d(2025, time.April, 30))
	assertDates(t, got,
		d(2025, time.January, 31),
		d(2025, time.February, 28), // clamped, never rolls into March
		d(2025, time.March, 31),
		d(2025, time.April, 30),
	)
}

func TestOccurrencesInRange_MonthlyByDateLeapFebruary(t *testing.T) {
	rule := &RecurrenceRule{
		Type:        RuleMonthly,
		Interval:    1,
		MonthlyMode: MonthlyByDate,
		EndType:     EndNever,
		Anchor:      d(2024, time.January, 31),
	}

	got := dates(t, rule, d(2024, time.February, 1), d(2024, time.February, 29))
	assertDates(t, got, d(2024, time.February, 29))
}

func TestOccurrencesInRange_MonthlyByWeekday(t *testing.T) {
	// 2025-01-14 is the second Tuesday of January.
	rule := &RecurrenceRule{
		Type:        RuleMonthly,
		Interval:    1,
		MonthlyMode: MonthlyByWeekday,
		EndType:     EndNever,
		Anchor:      d(2025, time.January, 14),
	}

	got := dates(t, rule, d(2025, time.January, 1), d(2025, time.March, 31))
	assertDates(t, got,
		d(2025, time.January, 14),
		d(2025, time.February, 11),
		d(2025, time.March, 11),
	)
}

func TestOccurrencesInRange_MonthlyByWeekdayFifthFallsBack(t *testing.T) {
	// 2025-01-29 is the fifth Wednesday of January; February 2025 has only
	// four, so the last one is used.
	rule := &RecurrenceRule{
		Type:        RuleMonthly,
		Interval:    1,
		MonthlyMode: MonthlyByWeekday,
		EndType:     EndNever,
		Anchor:      d(2025, time.January, 29),
	}

	got := dates(t, rule, d(2025, time.February, 1), d(2025, time.February, 28))
	assertDates(t, got, d(2025, time.February, 26))
}

func TestOccurrencesInRange_YearlyLeapAnchor(t *testing.T) {
	rule := &RecurrenceRule{
		Type:     RuleYearly,
		Interval: 1,
		EndType:  EndNever,
		Anchor:   d(2024, time.February, 29),
	}

	got := dates(t, rule, d(2024, time.January, 1), d(2028, time.December, 31))
	assertDates(t, got,
		d(2024, time.February, 29),
		d(2025, time.February, 28),
		d(2026, time.February, 28),
		d(2027, time.February, 28),
		d(2028, time.February, 29),
	)
}

func TestOccurrencesInRange_AfterCount(t *testing.T) {
	rule := &RecurrenceRule{
		Type:     RuleDaily,
		Interval: 1,
		EndType:  EndAfterCount,
		Count:    5,
		Anchor:   d(2025, time.January, 1),
	}

	t.Run("range covering all", func(t *testing.T) {
		got := dates(t, rule, d(2025, time.January, 1), d(2025, time.December, 31))
		if len(got) != 5 {
			t.Fatalf("expected exactly 5 dates, got %d", len(got))
		}
	})

	t.Run("count is anchored, not window-relative", func(t *testing.T) {
		got := dates(t, rule, d(2025, time.January, 3), d(2025, time.December, 31))
		assertDates(t, got,
			d(2025, time.January, 3),
			d(2025, time.January, 4),
			d(2025, time.January, 5),
		)
	})

	t.Run("window past the series", func(t *testing.T) {
		got := dates(t, rule, d(2025, time.February, 1), d(2025, time.December, 31))
		if len(got) != 0 {
			t.Fatalf("expected no dates past the series end, got %d", len(got))
		}
	})
}

func TestOccurrencesInRange_OnDate(t *testing.T) {
	until := d(2025, time.January, 7)
	rule := &RecurrenceRule{
		Type:     RuleDaily,
		Interval: 3,
		EndType:  EndOnDate,
		Until:    &until,
		Anchor:   d(2025, time.January, 1),
	}

	got := dates(t, rule, d(2025, time.January, 1), d(2025, time.December, 31))
	assertDates(t, got,
		d(2025, time.January, 1),
		d(2025, time.January, 4),
		d(2025, time.January, 7),
	)
	for _, date := range got {
		if date.After(until) {
			t.Errorf("date %s is after until %s", date.Format(time.DateOnly), until.Format(time.DateOnly))
		}
	}
}

func TestOccurrencesInRange_CustomFallback(t *testing.T) {
	t.Run("no weekday set behaves as daily", func(t *testing.T) {
		rule := &RecurrenceRule{
			Type:     RuleCustom,
			Interval: 2,
			EndType:  EndNever,
			Anchor:   d(2025, time.January, 1),
		}
		got := dates(t, rule, d(2025, time.January, 1), d(2025, time.January, 5))
		assertDates(t, got,
			d(2025, time.January, 1),
			d(2025, time.January, 3),
			d(2025, time.January, 5),
		)
	})

	t.Run("weekday set behaves as weekly", func(t *testing.T) {
		rule := &RecurrenceRule{
			Type:       RuleCustom,
			Interval:   1,
			WeeklyDays: []int{1},
			EndType:    EndNever,
			Anchor:     d(2025, time.January, 6),
		}
		got := dates(t, rule, d(2025, time.January, 6), d(2025, time.January, 13))
		assertDates(t, got,
			d(2025, time.January, 6),
			d(2025, time.January, 13),
		)
	})
}

func TestOccurrencesInRange_Idempotent(t *testing.T) {
	rule := &RecurrenceRule{
		Type:       RuleWeekly,
		Interval:   2,
		WeeklyDays: []int{0, 2, 4},
		EndType:    EndNever,
		Anchor:     d(2025, time.March, 2),
	}

	first := dates(t, rule, d(2025, time.March, 1), d(2025, time.June, 1))
	second := dates(t, rule, d(2025, time.March, 1), d(2025, time.June, 1))
	assertDates(t, second, first...)
}

func TestOccurrencesInRange_EmptyWindow(t *testing.T) {
	rule := &RecurrenceRule{
		Type:     RuleDaily,
		Interval: 1,
		EndType:  EndNever,
		Anchor:   d(2025, time.January, 1),
	}

	got, err := OccurrencesInRange(rule, d(2025, time.February, 1), d(2025, time.January, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty result for inverted window, got %d", len(got))
	}
}

func TestOccurrencesInRange_OverflowTruncates(t *testing.T) {
	rule := &RecurrenceRule{
		Type:     RuleDaily,
		Interval: 1,
		EndType:  EndNever,
		Anchor:   d(2025, time.January, 1),
	}

	got, err := OccurrencesInRange(rule, d(2025, time.January, 1), d(2125, time.January, 1))
	if !IsDomainError(err, ErrCodeOverflow) {
		t.Fatalf("expected overflow error, got %v", err)
	}
	if len(got) != MaxOccurrencesPerExpansion {
		t.Fatalf("expected truncation at %d dates, got %d", MaxOccurrencesPerExpansion, len(got))
	}
}

func TestExpand_SequenceIndicesCountFromAnchor(t *testing.T) {
	rule := &RecurrenceRule{
		ID:       "rule-1",
		Type:     RuleDaily,
		Interval: 1,
		EndType:  EndNever,
		Anchor:   d(2025, time.January, 1),
	}

	occs, err := Expand(rule, "task-1", d(2025, time.January, 4), d(2025, time.January, 6))
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	if len(occs) != 3 {
		t.Fatalf("expected 3 occurrences, got %d", len(occs))
	}
	for i, occ := range occs {
		if occ.SequenceIndex != i+3 {
			t.Errorf("occurrence %d: expected sequence %d, got %d", i, i+3, occ.SequenceIndex)
		}
		if occ.RecurrenceID != "rule-1" || occ.OriginTaskID != "task-1" {
			t.Errorf("occurrence %d carries wrong references: %+v", i, occ)
		}
	}
}

func TestNextOccurrence(t *testing.T) {
	rule := &RecurrenceRule{
		Type:     RuleDaily,
		Interval: 2,
		EndType:  EndAfterCount,
		Count:    3,
		Anchor:   d(2025, time.January, 1),
	}

	next, ok := NextOccurrence(rule, d(2025, time.January, 2))
	if !ok || !next.Equal(d(2025, time.January, 3)) {
		t.Fatalf("expected 2025-01-03, got %v (ok=%v)", next, ok)
	}

	// Series ends after 3 occurrences (Jan 1, 3, 5).
	if _, ok := NextOccurrence(rule, d(2025, time.January, 5)); ok {
		t.Fatal("expected no occurrence after the series end")
	}
}

func TestRecurrenceRule_Validate(t *testing.T) {
	until := d(2025, time.June, 1)
	early := d(2024, time.January, 1)

	valid := func() *RecurrenceRule {
		return &RecurrenceRule{
			Type:     RuleDaily,
			Interval: 1,
			EndType:  EndNever,
			Anchor:   d(2025, time.January, 1),
		}
	}

	tests := []struct {
		name    string
		mutate  func(r *RecurrenceRule)
		wantErr string
	}{
		{"valid daily", func(r *RecurrenceRule) {}, ""},
		{"zero interval", func(r *RecurrenceRule) { r.Interval = 0 }, "interval"},
		{"weekly without days", func(r *RecurrenceRule) { r.Type = RuleWeekly }, "weekday"},
		{"weekday out of range", func(r *RecurrenceRule) {
			r.Type = RuleWeekly
			r.WeeklyDays = []int{1, 7}
		}, "out of range"},
		{"count without end type", func(r *RecurrenceRule) { r.Count = 3 }, "count"},
		{"after-count zero", func(r *RecurrenceRule) {
			r.EndType = EndAfterCount
		}, "count must be >= 1"},
		{"after-count with until", func(r *RecurrenceRule) {
			r.EndType = EndAfterCount
			r.Count = 2
			r.Until = &until
		}, "until"},
		{"on-date without until", func(r *RecurrenceRule) { r.EndType = EndOnDate }, "until"},
		{"until before anchor", func(r *RecurrenceRule) {
			r.EndType = EndOnDate
			r.Until = &early
		}, "precede anchor"},
		{"missing anchor", func(r *RecurrenceRule) { r.Anchor = time.Time{} }, "anchor"},
		{"unknown type", func(r *RecurrenceRule) { r.Type = "fortnightly" }, "unknown type"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rule := valid()
			tc.mutate(rule)
			err := rule.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("expected valid rule, got %v", err)
				}
				return
			}
			if !IsDomainError(err, ErrCodeInvalid) {
				t.Fatalf("expected INVALID error, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err.Error(), tc.wantErr)
			}
		})
	}

	t.Run("multiple violations reported together", func(t *testing.T) {
		rule := &RecurrenceRule{Type: RuleWeekly, Interval: 0, EndType: EndNever, Anchor: d(2025, time.January, 1)}
		err := rule.Validate()
		if err == nil {
			t.Fatal("expected error")
		}
		msg := err.Error()
		if !strings.Contains(msg, "interval") || !strings.Contains(msg, "weekday") {
			t.Errorf("expected both violations in %q", msg)
		}
	})
}

func TestRecurrenceRule_Normalize(t *testing.T) {
	until := time.Date(2025, time.June, 1, 18, 30, 0, 0, time.FixedZone("CET", 3600))
	rule := &RecurrenceRule{
		Type:       RuleWeekly,
		Interval:   1,
		WeeklyDays: []int{3, 1, 3, 1},
		Until:      &until,
		Anchor:     time.Date(2025, time.January, 6, 9, 15, 0, 0, time.UTC),
	}
	rule.Normalize()

	if len(rule.WeeklyDays) != 2 || rule.WeeklyDays[0] != 1 || rule.WeeklyDays[1] != 3 {
		t.Errorf("expected deduplicated sorted days [1 3], got %v", rule.WeeklyDays)
	}
	if rule.EndType != EndNever {
		t.Errorf("expected default end type never, got %q", rule.EndType)
	}
	if !rule.Anchor.Equal(d(2025, time.January, 6)) {
		t.Errorf("anchor not truncated to date: %v", rule.Anchor)
	}
	if h, m, _ := rule.Until.Clock(); h != 0 || m != 0 {
		t.Errorf("until not truncated to date: %v", rule.Until)
	}
}

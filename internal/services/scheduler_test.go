package services

import (
	"context"
	"testing"
	"time"

	"github.com/epesicloud-mmg/tasks-backend/domain"
	"github.com/epesicloud-mmg/tasks-backend/repository"
)

type schedRuleRepo struct {
	rules       []domain.RecurrenceRule
	occurrences map[string]map[int]domain.TaskOccurrence
	saves       int
}

func newSchedRuleRepo(rules ...domain.RecurrenceRule) *schedRuleRepo {
	return &schedRuleRepo{
		rules:       rules,
		occurrences: make(map[string]map[int]domain.TaskOccurrence),
	}
}

func (f *schedRuleRepo) GetRule(_ context.Context, workspaceID, id string) (*domain.RecurrenceRule, error) {
	for i := range f.rules {
		if f.rules[i].ID == id && f.rules[i].WorkspaceID == workspaceID {
			rule := f.rules[i]
			return &rule, nil
		}
	}
	return nil, domain.ErrRuleNotFound
}

func (f *schedRuleRepo) ListRules(_ context.Context, workspaceID string) ([]domain.RecurrenceRule, error) {
	var out []domain.RecurrenceRule
	for _, rule := range f.rules {
		if rule.WorkspaceID == workspaceID {
			out = append(out, rule)
		}
	}
	return out, nil
}

func (f *schedRuleRepo) ListActiveRules(_ context.Context) ([]domain.RecurrenceRule, error) {
	return append([]domain.RecurrenceRule(nil), f.rules...), nil
}

func (f *schedRuleRepo) SaveRule(_ context.Context, rule *domain.RecurrenceRule) error {
	return nil
}

func (f *schedRuleRepo) DeleteRule(_ context.Context, workspaceID, id string) error {
	return nil
}

func (f *schedRuleRepo) SaveOccurrence(_ context.Context, occ *domain.TaskOccurrence) (string, error) {
	f.saves++
	bySeq, ok := f.occurrences[occ.RecurrenceID]
	if !ok {
		bySeq = make(map[int]domain.TaskOccurrence)
		f.occurrences[occ.RecurrenceID] = bySeq
	}
	if existing, ok := bySeq[occ.SequenceIndex]; ok {
		existing.ScheduledDate = occ.ScheduledDate
		existing.Skipped = existing.Skipped || occ.Skipped
		bySeq[occ.SequenceIndex] = existing
		return existing.ID, nil
	}
	if occ.ID == "" {
		occ.ID = "occ"
	}
	bySeq[occ.SequenceIndex] = *occ
	return occ.ID, nil
}

func (f *schedRuleRepo) ListOccurrences(_ context.Context, ruleID string, from, to time.Time) ([]domain.TaskOccurrence, error) {
	var out []domain.TaskOccurrence
	for _, occ := range f.occurrences[ruleID] {
		if !occ.ScheduledDate.Before(from) && !occ.ScheduledDate.After(to) {
			out = append(out, occ)
		}
	}
	return out, nil
}

func (f *schedRuleRepo) DeleteOccurrencesFrom(_ context.Context, ruleID string, fromDate time.Time) error {
	return nil
}

type schedTaskRepo struct {
	templates map[string]domain.Task
	due       []domain.Task
}

func (f *schedTaskRepo) GetByID(_ context.Context, workspaceID, id string) (*domain.Task, error) {
	return nil, domain.ErrTaskNotFound
}

func (f *schedTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return nil, nil
}

func (f *schedTaskRepo) ListDueBetween(_ context.Context, from, to time.Time) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range f.due {
		if task.DueDate != nil && !task.DueDate.Before(from) && !task.DueDate.After(to) {
			out = append(out, task)
		}
	}
	return out, nil
}

func (f *schedTaskRepo) FindRecurrenceTemplate(_ context.Context, ruleID string) (*domain.Task, error) {
	task, ok := f.templates[ruleID]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return &task, nil
}

func (f *schedTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	return task, nil
}

func (f *schedTaskRepo) Update(_ context.Context, task *domain.Task) error { return nil }

func (f *schedTaskRepo) Delete(_ context.Context, workspaceID, id string) error { return nil }

type schedNotifRepo struct {
	created []domain.Notification
}

func (f *schedNotifRepo) List(_ context.Context, filter repository.NotificationFilter) ([]domain.Notification, error) {
	return nil, nil
}

func (f *schedNotifRepo) Create(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	f.created = append(f.created, *n)
	return n, nil
}

func (f *schedNotifRepo) Exists(_ context.Context, workspaceID, memberID, kind, entityID string) (bool, error) {
	for _, n := range f.created {
		if n.WorkspaceID == workspaceID && n.MemberID == memberID && n.Kind == kind && n.EntityID == entityID {
			return true, nil
		}
	}
	return false, nil
}

func (f *schedNotifRepo) MarkRead(_ context.Context, workspaceID, id string) error { return nil }

func (f *schedNotifRepo) MarkAllRead(_ context.Context, workspaceID, memberID string) error {
	return nil
}

func TestMaterializeOccurrencesIsIdempotent(t *testing.T) {
	anchor := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)
	rule := domain.RecurrenceRule{
		ID:          "rule-1",
		WorkspaceID: "ws-1",
		Type:        domain.RuleDaily,
		Interval:    1,
		EndType:     domain.EndNever,
		Anchor:      anchor,
	}
	rules := newSchedRuleRepo(rule)
	tasks := &schedTaskRepo{templates: map[string]domain.Task{
		"rule-1": {ID: "template-1", WorkspaceID: "ws-1", Title: "standup"},
	}}

	s := NewScheduler(rules, tasks, &schedNotifRepo{}, nil, SchedulerConfig{MaterializeDays: 7})

	now := time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC)
	if err := s.MaterializeOccurrences(context.Background(), now); err != nil {
		t.Fatalf("MaterializeOccurrences: %v", err)
	}

	// Daily rule over an 8-day inclusive window.
	got := len(rules.occurrences["rule-1"])
	if got != 8 {
		t.Fatalf("materialized = %d occurrences, want 8", got)
	}
	for _, occ := range rules.occurrences["rule-1"] {
		if occ.OriginTaskID != "template-1" {
			t.Fatalf("occurrence origin = %q, want template-1", occ.OriginTaskID)
		}
	}

	// Re-running upserts the same keys and creates nothing new.
	if err := s.MaterializeOccurrences(context.Background(), now); err != nil {
		t.Fatalf("second MaterializeOccurrences: %v", err)
	}
	if got := len(rules.occurrences["rule-1"]); got != 8 {
		t.Fatalf("after rerun = %d occurrences, want 8", got)
	}
}

func TestSweepDueSoonSkipsUnassignedAndDuplicates(t *testing.T) {
	now := time.Date(2025, time.June, 10, 9, 0, 0, 0, time.UTC)
	soon := now.Add(6 * time.Hour)
	later := now.Add(72 * time.Hour)

	tasks := &schedTaskRepo{due: []domain.Task{
		{ID: "t-assigned", WorkspaceID: "ws-1", Title: "pay rent", AssigneeID: "m-1", DueDate: &soon},
		{ID: "t-unassigned", WorkspaceID: "ws-1", Title: "backlog item", DueDate: &soon},
		{ID: "t-later", WorkspaceID: "ws-1", Title: "far away", AssigneeID: "m-1", DueDate: &later},
	}}
	notifs := &schedNotifRepo{}

	s := NewScheduler(newSchedRuleRepo(), tasks, notifs, nil, SchedulerConfig{DueSoonNotice: 24 * time.Hour})

	if err := s.SweepDueSoon(context.Background(), now); err != nil {
		t.Fatalf("SweepDueSoon: %v", err)
	}
	if len(notifs.created) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifs.created))
	}
	n := notifs.created[0]
	if n.Kind != domain.NotifyTaskDue || n.MemberID != "m-1" || n.EntityID != "t-assigned" {
		t.Fatalf("notification = %+v, want task_due for m-1/t-assigned", n)
	}

	// A second sweep within the window does not duplicate.
	if err := s.SweepDueSoon(context.Background(), now); err != nil {
		t.Fatalf("second SweepDueSoon: %v", err)
	}
	if len(notifs.created) != 1 {
		t.Fatalf("after rerun notifications = %d, want 1", len(notifs.created))
	}
}

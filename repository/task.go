package repository

import (
	"context"
	"time"

	"github.com/epesicloud-mmg/tasks-backend/domain"
)

type TaskFilter struct {
	WorkspaceID string
	ProjectID   string
	CategoryID  string
	AssigneeID  string
	Status      string
	DueFrom     *time.Time
	DueTo       *time.Time
	Limit       int
	Offset      int
}

type TaskRepository interface {
	GetByID(ctx context.Context, workspaceID, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	// ListDueBetween spans all workspaces; it feeds the due-soon sweep.
	ListDueBetween(ctx context.Context, from, to time.Time) ([]domain.Task, error)
	// FindRecurrenceTemplate returns the template task owning a rule.
	FindRecurrenceTemplate(ctx context.Context, ruleID string) (*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, workspaceID, id string) error
}

// RuleRepository persists recurrence rules and their materialized
// occurrences.
type RuleRepository interface {
	GetRule(ctx context.Context, workspaceID, id string) (*domain.RecurrenceRule, error)
	ListRules(ctx context.Context, workspaceID string) ([]domain.RecurrenceRule, error)
	// ListActiveRules spans all workspaces; it feeds the materializer.
	ListActiveRules(ctx context.Context) ([]domain.RecurrenceRule, error)
	SaveRule(ctx context.Context, rule *domain.RecurrenceRule) error
	DeleteRule(ctx context.Context, workspaceID, id string) error

	// SaveOccurrence upserts on (rule, sequence). The Skipped flag is
	// sticky: once an occurrence is marked skipped, re-saving it with
	// Skipped unset keeps the mark.
	SaveOccurrence(ctx context.Context, occ *domain.TaskOccurrence) (string, error)
	ListOccurrences(ctx context.Context, ruleID string, from, to time.Time) ([]domain.TaskOccurrence, error)
	DeleteOccurrencesFrom(ctx context.Context, ruleID string, fromDate time.Time) error
}

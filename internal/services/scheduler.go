package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/epesicloud-mmg/tasks-backend/domain"
	"github.com/epesicloud-mmg/tasks-backend/repository"
)

// SchedulerConfig controls the background occurrence materializer and the
// due-soon notification sweep.
type SchedulerConfig struct {
	MaterializeSpec string
	MaterializeDays int
	DueSoonSpec     string
	DueSoonNotice   time.Duration
}

// Scheduler runs the recurring background jobs: expanding active
// recurrence rules into materialized occurrences over a look-ahead
// window, and fanning out due-soon notifications.
type Scheduler struct {
	rules  repository.RuleRepository
	tasks  repository.TaskRepository
	notifs repository.NotificationRepository
	logger *zap.Logger
	cron   *cron.Cron
	cfg    SchedulerConfig
}

func NewScheduler(
	rules repository.RuleRepository,
	tasks repository.TaskRepository,
	notifs repository.NotificationRepository,
	logger *zap.Logger,
	cfg SchedulerConfig,
) *Scheduler {
	if cfg.MaterializeDays <= 0 {
		cfg.MaterializeDays = 30
	}
	if cfg.DueSoonNotice <= 0 {
		cfg.DueSoonNotice = 24 * time.Hour
	}
	if cfg.MaterializeSpec == "" {
		cfg.MaterializeSpec = "0 15 2 * * *"
	}
	if cfg.DueSoonSpec == "" {
		cfg.DueSoonSpec = "0 0 * * * *"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Scheduler{
		rules:  rules,
		tasks:  tasks,
		notifs: notifs,
		logger: logger,
		cron:   cron.New(cron.WithSeconds()),
		cfg:    cfg,
	}

	_, _ = s.cron.AddFunc(cfg.MaterializeSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.MaterializeOccurrences(ctx, time.Now()); err != nil {
			s.logger.Error("occurrence materialization failed", zap.Error(err))
		}
	})
	_, _ = s.cron.AddFunc(cfg.DueSoonSpec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.SweepDueSoon(ctx, time.Now()); err != nil {
			s.logger.Error("due-soon sweep failed", zap.Error(err))
		}
	})

	return s
}

// Start launches the cron jobs.
func (s *Scheduler) Start() {
	if s == nil || s.cron == nil {
		return
	}
	s.cron.Start()
	s.logger.Info("scheduler started",
		zap.String("materialize", s.cfg.MaterializeSpec),
		zap.String("due_soon", s.cfg.DueSoonSpec))
}

// Stop halts the cron jobs, waiting for running ones within ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	if s == nil || s.cron == nil {
		return
	}
	stopCtx := s.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	s.logger.Info("scheduler stopped")
}

// MaterializeOccurrences expands every active rule over the look-ahead
// window and upserts the resulting occurrences. The upsert keys on
// (rule, sequence), so re-running the job is a no-op.
func (s *Scheduler) MaterializeOccurrences(ctx context.Context, now time.Time) error {
	rules, err := s.rules.ListActiveRules(ctx)
	if err != nil {
		return fmt.Errorf("list active rules: %w", err)
	}

	from := domain.DateOnly(now)
	to := from.AddDate(0, 0, s.cfg.MaterializeDays)

	var failures int
	for i := range rules {
		rule := &rules[i]

		originID := ""
		if template, err := s.tasks.FindRecurrenceTemplate(ctx, rule.ID); err == nil {
			originID = template.ID
		}

		occs, err := domain.Expand(rule, originID, from, to)
		if err != nil && !domain.IsDomainError(err, domain.ErrCodeOverflow) {
			s.logger.Error("rule expansion failed", zap.String("rule_id", rule.ID), zap.Error(err))
			failures++
			continue
		}

		for j := range occs {
			if _, err := s.rules.SaveOccurrence(ctx, &occs[j]); err != nil {
				s.logger.Error("failed to save occurrence",
					zap.String("rule_id", rule.ID),
					zap.Int("sequence", occs[j].SequenceIndex),
					zap.Error(err))
				failures++
				break
			}
		}
	}

	s.logger.Info("occurrence materialization complete",
		zap.Int("rules", len(rules)),
		zap.Int("failures", failures))
	if failures > 0 {
		return fmt.Errorf("materialization finished with %d failures", failures)
	}
	return nil
}

// SweepDueSoon enqueues a task_due notification for every assigned task
// due within the notice window that has not been notified yet.
func (s *Scheduler) SweepDueSoon(ctx context.Context, now time.Time) error {
	tasks, err := s.tasks.ListDueBetween(ctx, now, now.Add(s.cfg.DueSoonNotice))
	if err != nil {
		return fmt.Errorf("list due tasks: %w", err)
	}

	var sent int
	for i := range tasks {
		task := &tasks[i]
		if task.AssigneeID == "" {
			continue
		}

		exists, err := s.notifs.Exists(ctx, task.WorkspaceID, task.AssigneeID, domain.NotifyTaskDue, task.ID)
		if err != nil {
			return fmt.Errorf("check notification: %w", err)
		}
		if exists {
			continue
		}

		n := &domain.Notification{
			WorkspaceID: task.WorkspaceID,
			MemberID:    task.AssigneeID,
			Kind:        domain.NotifyTaskDue,
			Title:       fmt.Sprintf("%q is due soon", task.Title),
			EntityID:    task.ID,
		}
		if task.DueDate != nil {
			n.Body = fmt.Sprintf("Due %s", task.DueDate.Format(time.DateOnly))
		}
		if _, err := s.notifs.Create(ctx, n); err != nil {
			return fmt.Errorf("create notification: %w", err)
		}
		sent++
	}

	if sent > 0 {
		s.logger.Info("due-soon notifications sent", zap.Int("count", sent))
	}
	return nil
}

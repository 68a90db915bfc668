package task

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/epesicloud-mmg/tasks-backend/domain"
	"github.com/epesicloud-mmg/tasks-backend/repository"
	"github.com/epesicloud-mmg/tasks-backend/usecase"
)

// Occurrence deletion scopes.
const (
	ScopeThisOccurrence = "one"
	ScopeThisAndFuture  = "future"
)

type UseCase struct {
	tasks    repository.TaskRepository
	rules    repository.RuleRepository
	buffer   usecase.OperationBuffer
	activity repository.ActivityRepository
	logger   *zap.Logger
}

func New(
	tasks repository.TaskRepository,
	rules repository.RuleRepository,
	buffer usecase.OperationBuffer,
	activity repository.ActivityRepository,
	logger *zap.Logger,
) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:    tasks,
		rules:    rules,
		buffer:   buffer,
		activity: activity,
		logger:   logger,
	}
}

func (uc *UseCase) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	return uc.tasks.List(ctx, filter)
}

func (uc *UseCase) GetTask(ctx context.Context, workspaceID, id string) (*domain.Task, error) {
	return uc.tasks.GetByID(ctx, workspaceID, id)
}

// CreateTask persists a task; when a recurrence rule is supplied, the rule
// is validated and saved first and the task becomes the series template.
func (uc *UseCase) CreateTask(ctx context.Context, task *domain.Task, rule *domain.RecurrenceRule) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}

	if rule != nil {
		prepared, err := uc.prepareRule(task, rule)
		if err != nil {
			return nil, err
		}
		if err := uc.rules.SaveRule(ctx, prepared); err != nil {
			return nil, err
		}
		task.RecurrenceID = prepared.ID
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		if uc.shouldBuffer(ctx, "create", task) {
			return task, nil
		}
		return nil, err
	}

	uc.record(ctx, created.WorkspaceID, created.ID, "created", created.AssigneeID)
	return created, nil
}

func (uc *UseCase) UpdateTask(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if err := uc.tasks.Update(ctx, task); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return nil, err
		}
		if uc.shouldBuffer(ctx, "update", task) {
			return task, nil
		}
		return nil, err
	}
	uc.record(ctx, task.WorkspaceID, task.ID, "updated", task.AssigneeID)
	return task, nil
}

func (uc *UseCase) DeleteTask(ctx context.Context, workspaceID, id string) error {
	if err := uc.tasks.Delete(ctx, workspaceID, id); err != nil {
		if err == domain.ErrTaskNotFound {
			return err
		}
		task := &domain.Task{ID: id, WorkspaceID: workspaceID}
		if uc.shouldBuffer(ctx, "delete", task) {
			return nil
		}
		return err
	}
	uc.record(ctx, workspaceID, id, "deleted", "")
	return nil
}

// AttachRecurrence validates and attaches a rule to an existing task,
// making it the series template. The anchor defaults to the task's due
// date when the rule does not carry one.
func (uc *UseCase) AttachRecurrence(ctx context.Context, workspaceID, taskID string, rule *domain.RecurrenceRule) (*domain.RecurrenceRule, error) {
	task, err := uc.tasks.GetByID(ctx, workspaceID, taskID)
	if err != nil {
		return nil, err
	}

	prepared, err := uc.prepareRule(task, rule)
	if err != nil {
		return nil, err
	}
	if task.RecurrenceID != "" {
		prepared.ID = task.RecurrenceID
	}
	if err := uc.rules.SaveRule(ctx, prepared); err != nil {
		return nil, err
	}

	if task.RecurrenceID != prepared.ID {
		task.RecurrenceID = prepared.ID
		if err := uc.tasks.Update(ctx, task); err != nil {
			return nil, err
		}
	}

	uc.record(ctx, workspaceID, taskID, "recurrence_attached", "")
	return prepared, nil
}

// PreviewOccurrences expands a task's rule over a window without
// persisting anything.
func (uc *UseCase) PreviewOccurrences(ctx context.Context, workspaceID, taskID string, start, end time.Time) ([]domain.TaskOccurrence, error) {
	task, err := uc.tasks.GetByID(ctx, workspaceID, taskID)
	if err != nil {
		return nil, err
	}
	if task.RecurrenceID == "" {
		return nil, domain.ErrRuleNotFound
	}
	rule, err := uc.rules.GetRule(ctx, workspaceID, task.RecurrenceID)
	if err != nil {
		return nil, err
	}
	return domain.Expand(rule, task.ID, start, end)
}

// TasksDueBetween returns every task due inside [start, end]: stored rows
// plus on-demand expansion of the workspace's recurrence rules. Expanded
// instances that were already materialized reuse the occurrence's ID.
func (uc *UseCase) TasksDueBetween(ctx context.Context, workspaceID string, start, end time.Time) ([]domain.Task, error) {
	filter := repository.TaskFilter{
		WorkspaceID: workspaceID,
		DueFrom:     &start,
		DueTo:       &end,
	}
	stored, err := uc.tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	rules, err := uc.rules.ListRules(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	out := stored
	for i := range rules {
		rule := &rules[i]

		template, err := uc.tasks.FindRecurrenceTemplate(ctx, rule.ID)
		if err != nil {
			if domain.IsDomainError(err, domain.ErrCodeNotFound) {
				continue
			}
			return nil, err
		}

		occs, err := domain.Expand(rule, template.ID, start, end)
		if err != nil && !domain.IsDomainError(err, domain.ErrCodeOverflow) {
			return nil, err
		}
		if len(occs) == 0 {
			continue
		}

		materialized, err := uc.rules.ListOccurrences(ctx, rule.ID, domain.DateOnly(start), domain.DateOnly(end))
		if err != nil {
			return nil, err
		}
		byseq := make(map[int]domain.TaskOccurrence, len(materialized))
		for _, m := range materialized {
			byseq[m.SequenceIndex] = m
		}

		for _, occ := range occs {
			// The template row itself covers its own due date.
			if template.DueDate != nil && domain.DateOnly(*template.DueDate).Equal(occ.ScheduledDate) {
				continue
			}
			m, materialized := byseq[occ.SequenceIndex]
			if materialized && m.Skipped {
				continue
			}
			instance := instanceFromTemplate(template, occ)
			if materialized {
				instance.ID = m.ID
			}
			out = append(out, instance)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		di, dj := out[i].DueDate, out[j].DueDate
		switch {
		case di == nil:
			return false
		case dj == nil:
			return true
		default:
			return di.Before(*dj)
		}
	})
	return out, nil
}

// DeleteOccurrence applies a series edit. Scope "one" tombstones a single
// occurrence so neither expansion nor materialization surfaces that date
// again; the rule is untouched. Scope "future" truncates the rule's end to
// just before the given date and removes the materialized occurrences from
// that date on.
func (uc *UseCase) DeleteOccurrence(ctx context.Context, workspaceID, taskID string, date time.Time, scope string) error {
	task, err := uc.tasks.GetByID(ctx, workspaceID, taskID)
	if err != nil {
		return err
	}
	if task.RecurrenceID == "" {
		return domain.ErrRuleNotFound
	}
	rule, err := uc.rules.GetRule(ctx, workspaceID, task.RecurrenceID)
	if err != nil {
		return err
	}

	day := domain.DateOnly(date)

	switch scope {
	case ScopeThisOccurrence:
		occs, err := domain.Expand(rule, task.ID, day, day)
		if err != nil && !domain.IsDomainError(err, domain.ErrCodeOverflow) {
			return err
		}
		if len(occs) == 0 {
			return domain.ErrOccurrenceNotFound
		}
		tomb := occs[0]
		tomb.Skipped = true
		if _, err := uc.rules.SaveOccurrence(ctx, &tomb); err != nil {
			return err
		}
		uc.record(ctx, workspaceID, taskID, "occurrence_removed", "")
		return nil

	case ScopeThisAndFuture:
		cutoff := day.AddDate(0, 0, -1)
		if cutoff.Before(domain.DateOnly(rule.Anchor)) {
			// Truncating before the first occurrence ends the series
			// entirely.
			if err := uc.rules.DeleteOccurrencesFrom(ctx, rule.ID, day); err != nil {
				return err
			}
			if err := uc.rules.DeleteRule(ctx, workspaceID, rule.ID); err != nil {
				return err
			}
			task.RecurrenceID = ""
			if err := uc.tasks.Update(ctx, task); err != nil {
				return err
			}
			uc.record(ctx, workspaceID, taskID, "recurrence_removed", "")
			return nil
		}

		rule.EndType = domain.EndOnDate
		rule.Count = 0
		rule.Until = &cutoff
		if err := rule.Validate(); err != nil {
			return err
		}
		if err := uc.rules.SaveRule(ctx, rule); err != nil {
			return err
		}
		if err := uc.rules.DeleteOccurrencesFrom(ctx, rule.ID, day); err != nil {
			return err
		}
		uc.record(ctx, workspaceID, taskID, "recurrence_truncated", "")
		return nil

	default:
		return domain.WrapError(domain.ErrCodeInvalid, "unknown occurrence scope", nil)
	}
}

func (uc *UseCase) prepareRule(task *domain.Task, rule *domain.RecurrenceRule) (*domain.RecurrenceRule, error) {
	if rule == nil {
		return nil, domain.ErrInvalidPayload
	}
	prepared := *rule
	prepared.WorkspaceID = task.WorkspaceID
	if prepared.Anchor.IsZero() && task.DueDate != nil {
		prepared.Anchor = *task.DueDate
	}
	prepared.Normalize()
	if err := prepared.Validate(); err != nil {
		return nil, err
	}
	return &prepared, nil
}

func instanceFromTemplate(template *domain.Task, occ domain.TaskOccurrence) domain.Task {
	due := occ.ScheduledDate
	seq := occ.SequenceIndex
	return domain.Task{
		WorkspaceID:   template.WorkspaceID,
		ProjectID:     template.ProjectID,
		CategoryID:    template.CategoryID,
		AssigneeID:    template.AssigneeID,
		Title:         template.Title,
		Description:   template.Description,
		Status:        domain.TaskPending,
		Priority:      template.Priority,
		DueDate:       &due,
		RecurrenceID:  template.RecurrenceID,
		OriginTaskID:  template.ID,
		SequenceIndex: &seq,
		Metadata:      template.Metadata,
	}
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.Task) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		uc.logger.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("task operation buffered", zap.String("operation", operation))
	return true
}

func (uc *UseCase) record(ctx context.Context, workspaceID, taskID, action, actorID string) {
	if uc.activity == nil {
		return
	}
	event := domain.NewEvent(workspaceID, "task", taskID, action, actorID, nil)
	if err := uc.activity.Append(ctx, &event); err != nil {
		uc.logger.Warn("failed to record activity", zap.String("action", action), zap.Error(err))
	}
}

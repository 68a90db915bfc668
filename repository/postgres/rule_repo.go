package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/epesicloud-mmg/tasks-backend/domain"
	"github.com/epesicloud-mmg/tasks-backend/repository"
)

type ruleRepository struct {
	pool *pgxpool.Pool
}

// NewRuleRepository returns a Postgres-backed implementation of RuleRepository.
func NewRuleRepository(pool *pgxpool.Pool) repository.RuleRepository {
	return &ruleRepository{pool: pool}
}

const ruleColumns = `
	id, workspace_id, rule_type, interval_count, weekly_days,
	COALESCE(monthly_mode, ''), end_type, end_count, end_until, anchor_date,
	created_at, updated_at`

func (r *ruleRepository) GetRule(ctx context.Context, workspaceID, id string) (*domain.RecurrenceRule, error) {
	const query = `
	SELECT` + ruleColumns + `
	FROM recurrence_rules
	WHERE workspace_id = $1 AND id = $2
	`
	row := r.pool.QueryRow(ctx, query, workspaceID, id)
	return scanRule(row)
}

func (r *ruleRepository) ListRules(ctx context.Context, workspaceID string) ([]domain.RecurrenceRule, error) {
	const query = `
	SELECT` + ruleColumns + `
	FROM recurrence_rules
	WHERE workspace_id = $1
	ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []domain.RecurrenceRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

func (r *ruleRepository) ListActiveRules(ctx context.Context) ([]domain.RecurrenceRule, error) {
	// A rule is active while its end condition can still produce dates.
	const query = `
	SELECT` + ruleColumns + `
	FROM recurrence_rules
	WHERE end_type <> 'on_date' OR end_until >= NOW() - INTERVAL '1 day'
	ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []domain.RecurrenceRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

func (r *ruleRepository) SaveRule(ctx context.Context, rule *domain.RecurrenceRule) error {
	if rule == nil || rule.WorkspaceID == "" {
		return domain.ErrInvalidPayload
	}
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO recurrence_rules (id, workspace_id, rule_type, interval_count,
		weekly_days, monthly_mode, end_type, end_count, end_until, anchor_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id) DO UPDATE
	SET rule_type = EXCLUDED.rule_type,
		interval_count = EXCLUDED.interval_count,
		weekly_days = EXCLUDED.weekly_days,
		monthly_mode = EXCLUDED.monthly_mode,
		end_type = EXCLUDED.end_type,
		end_count = EXCLUDED.end_count,
		end_until = EXCLUDED.end_until,
		anchor_date = EXCLUDED.anchor_date,
		updated_at = NOW()
	RETURNING created_at, updated_at
	`

	var until interface{}
	if rule.Until != nil {
		until = *rule.Until
	}

	return r.pool.QueryRow(ctx, query,
		rule.ID,
		rule.WorkspaceID,
		string(rule.Type),
		rule.Interval,
		weeklyDaysArray(rule.WeeklyDays),
		nullString(string(rule.MonthlyMode)),
		string(rule.EndType),
		rule.Count,
		until,
		rule.Anchor,
	).Scan(&rule.CreatedAt, &rule.UpdatedAt)
}

func (r *ruleRepository) DeleteRule(ctx context.Context, workspaceID, id string) error {
	const query = `DELETE FROM recurrence_rules WHERE workspace_id = $1 AND id = $2`
	tag, err := r.pool.Exec(ctx, query, workspaceID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRuleNotFound
	}
	return nil
}

func (r *ruleRepository) SaveOccurrence(ctx context.Context, occ *domain.TaskOccurrence) (string, error) {
	if occ == nil || occ.RecurrenceID == "" {
		return "", domain.ErrInvalidPayload
	}
	if occ.ID == "" {
		occ.ID = uuid.NewString()
	}

	// Idempotent on (rule, sequence): re-materializing the same window is a
	// no-op aside from refreshing the schedule date. The skipped mark is
	// sticky so the materializer cannot resurrect an occurrence the user
	// deleted from the series.
	const query = `
	INSERT INTO task_occurrences (id, recurrence_id, origin_task_id, sequence_index, scheduled_date, skipped)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (recurrence_id, sequence_index) DO UPDATE
	SET scheduled_date = EXCLUDED.scheduled_date,
		skipped = task_occurrences.skipped OR EXCLUDED.skipped
	RETURNING id, skipped, created_at
	`

	if err := r.pool.QueryRow(ctx, query,
		occ.ID,
		occ.RecurrenceID,
		nullString(occ.OriginTaskID),
		occ.SequenceIndex,
		occ.ScheduledDate,
		occ.Skipped,
	).Scan(&occ.ID, &occ.Skipped, &occ.CreatedAt); err != nil {
		return "", err
	}
	return occ.ID, nil
}

func (r *ruleRepository) ListOccurrences(ctx context.Context, ruleID string, from, to time.Time) ([]domain.TaskOccurrence, error) {
	const query = `
	SELECT id, recurrence_id, COALESCE(origin_task_id, ''), sequence_index, scheduled_date, skipped, created_at
	FROM task_occurrences
	WHERE recurrence_id = $1 AND scheduled_date >= $2 AND scheduled_date <= $3
	ORDER BY scheduled_date
	`
	rows, err := r.pool.Query(ctx, query, ruleID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var occs []domain.TaskOccurrence
	for rows.Next() {
		var occ domain.TaskOccurrence
		if err := rows.Scan(&occ.ID, &occ.RecurrenceID, &occ.OriginTaskID,
			&occ.SequenceIndex, &occ.ScheduledDate, &occ.Skipped, &occ.CreatedAt); err != nil {
			return nil, err
		}
		occs = append(occs, occ)
	}
	return occs, rows.Err()
}

func (r *ruleRepository) DeleteOccurrencesFrom(ctx context.Context, ruleID string, fromDate time.Time) error {
	const query = `DELETE FROM task_occurrences WHERE recurrence_id = $1 AND scheduled_date >= $2`
	_, err := r.pool.Exec(ctx, query, ruleID, domain.DateOnly(fromDate))
	return err
}

func scanRule(row interface {
	Scan(dest ...interface{}) error
}) (*domain.RecurrenceRule, error) {
	var rule domain.RecurrenceRule
	var (
		ruleType    string
		monthlyMode string
		endType     string
		days        []int32
		until       *time.Time
	)

	if err := row.Scan(
		&rule.ID,
		&rule.WorkspaceID,
		&ruleType,
		&rule.Interval,
		&days,
		&monthlyMode,
		&endType,
		&rule.Count,
		&until,
		&rule.Anchor,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRuleNotFound
		}
		return nil, err
	}

	rule.Type = domain.RuleType(ruleType)
	rule.MonthlyMode = domain.MonthlyMode(monthlyMode)
	rule.EndType = domain.EndType(endType)
	rule.Until = until
	for _, d := range days {
		rule.WeeklyDays = append(rule.WeeklyDays, int(d))
	}
	rule.Normalize()
	return &rule, nil
}

func weeklyDaysArray(days []int) []int32 {
	if len(days) == 0 {
		return nil
	}
	out := make([]int32, len(days))
	for i, d := range days {
		out[i] = int32(d)
	}
	return out
}

package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/epesicloud-mmg/tasks-backend/api/transport"
	"github.com/epesicloud-mmg/tasks-backend/domain"
	"github.com/epesicloud-mmg/tasks-backend/pkg/httpcontext"
	"github.com/epesicloud-mmg/tasks-backend/repository"
	taskUC "github.com/epesicloud-mmg/tasks-backend/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks
// @Tags tasks
// @Router /api/v1/workspaces/{workspaceID}/tasks [get]
func (h *TaskHandler) GetTasks(ctx *fasthttp.RequestCtx) {
	workspaceID := h.workspaceID(ctx)
	if workspaceID == "" {
		return
	}

	filter := repository.TaskFilter{
		WorkspaceID: workspaceID,
		ProjectID:   string(ctx.QueryArgs().Peek("project_id")),
		CategoryID:  string(ctx.QueryArgs().Peek("category_id")),
		AssigneeID:  string(ctx.QueryArgs().Peek("assignee_id")),
		Status:      string(ctx.QueryArgs().Peek("status")),
		Limit:       parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset:      parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewList(tasks, transport.ListMeta{
		Count:  len(tasks),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}))
}

// @Summary Tasks due in a window
// @Tags tasks
// @Router /api/v1/workspaces/{workspaceID}/tasks/due [get]
func (h *TaskHandler) GetTasksDue(ctx *fasthttp.RequestCtx) {
	workspaceID := h.workspaceID(ctx)
	if workspaceID == "" {
		return
	}

	start, ok := h.parseDate(ctx, string(ctx.QueryArgs().Peek("start")), "start")
	if !ok {
		return
	}
	end, ok := h.parseDate(ctx, string(ctx.QueryArgs().Peek("end")), "end")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.TasksDueBetween(stdCtx, workspaceID, start, end)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, tasks)
}

// @Summary Get task
// @Tags tasks
// @Router /api/v1/workspaces/{workspaceID}/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	workspaceID := h.workspaceID(ctx)
	if workspaceID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, workspaceID, id)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, task)
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/workspaces/{workspaceID}/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	workspaceID := h.workspaceID(ctx)
	if workspaceID == "" {
		return
	}

	task, rule, ok := h.parseTask(ctx, workspaceID, "")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.CreateTask(stdCtx, task, rule)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Update task
// @Tags tasks
// @Router /api/v1/workspaces/{workspaceID}/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	workspaceID := h.workspaceID(ctx)
	if workspaceID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	task, _, ok := h.parseTask(ctx, workspaceID, id)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	updated, err := h.uc.UpdateTask(stdCtx, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, updated)
}

// @Summary Delete task
// @Tags tasks
// @Router /api/v1/workspaces/{workspaceID}/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	workspaceID := h.workspaceID(ctx)
	if workspaceID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, workspaceID, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Attach recurrence rule
// @Tags tasks
// @Router /api/v1/workspaces/{workspaceID}/tasks/{id}/recurrence [post]
func (h *TaskHandler) AttachRecurrence(ctx *fasthttp.RequestCtx) {
	workspaceID := h.workspaceID(ctx)
	if workspaceID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing task id")
		return
	}

	var req transport.RecurrenceRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}
	rule, ok := h.ruleFromRequest(ctx, &req)
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	saved, err := h.uc.AttachRecurrence(stdCtx, workspaceID, id, rule)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, saved)
}

// @Summary Preview occurrences
// @Tags tasks
// @Router /api/v1/workspaces/{workspaceID}/tasks/{id}/occurrences [get]
func (h *TaskHandler) PreviewOccurrences(ctx *fasthttp.RequestCtx) {
	workspaceID := h.workspaceID(ctx)
	if workspaceID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)

	start, ok := h.parseDate(ctx, string(ctx.QueryArgs().Peek("start")), "start")
	if !ok {
		return
	}
	end, ok := h.parseDate(ctx, string(ctx.QueryArgs().Peek("end")), "end")
	if !ok {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	occs, err := h.uc.PreviewOccurrences(stdCtx, workspaceID, id, start, end)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, occs)
}

// @Summary Delete occurrence
// @Tags tasks
// @Router /api/v1/workspaces/{workspaceID}/tasks/{id}/occurrences/{date} [delete]
func (h *TaskHandler) DeleteOccurrence(ctx *fasthttp.RequestCtx) {
	workspaceID := h.workspaceID(ctx)
	if workspaceID == "" {
		return
	}
	id, _ := ctx.UserValue("id").(string)
	rawDate, _ := ctx.UserValue("date").(string)

	date, ok := h.parseDate(ctx, rawDate, "date")
	if !ok {
		return
	}

	scope := string(ctx.QueryArgs().Peek("scope"))
	if scope == "" {
		scope = taskUC.ScopeThisOccurrence
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteOccurrence(stdCtx, workspaceID, id, date, scope); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

func (h *TaskHandler) parseTask(ctx *fasthttp.RequestCtx, workspaceID, id string) (*domain.Task, *domain.RecurrenceRule, bool) {
	var req transport.TaskRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return nil, nil, false
	}

	var due *time.Time
	if req.DueDate != "" {
		parsed, err := parseDateValue(req.DueDate)
		if err != nil {
			h.respondInvalid(ctx, "invalid due_date")
			return nil, nil, false
		}
		due = &parsed
	}

	task := &domain.Task{
		ID:          id,
		WorkspaceID: workspaceID,
		ProjectID:   req.ProjectID,
		CategoryID:  req.CategoryID,
		AssigneeID:  req.AssigneeID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		DueDate:     due,
		Metadata:    req.Metadata,
	}
	if task.Status == "" {
		task.Status = domain.TaskPending
	}

	var rule *domain.RecurrenceRule
	if req.Recurrence != nil {
		var ok bool
		rule, ok = h.ruleFromRequest(ctx, req.Recurrence)
		if !ok {
			return nil, nil, false
		}
	}
	return task, rule, true
}

func (h *TaskHandler) ruleFromRequest(ctx *fasthttp.RequestCtx, req *transport.RecurrenceRequest) (*domain.RecurrenceRule, bool) {
	rule := &domain.RecurrenceRule{
		Type:        domain.RuleType(req.Type),
		Interval:    req.Interval,
		WeeklyDays:  req.WeeklyDays,
		MonthlyMode: domain.MonthlyMode(req.MonthlyMode),
		EndType:     domain.EndType(req.EndType),
		Count:       req.Count,
	}
	if req.Until != "" {
		until, err := parseDateValue(req.Until)
		if err != nil {
			h.respondInvalid(ctx, "invalid until date")
			return nil, false
		}
		rule.Until = &until
	}
	if req.Anchor != "" {
		anchor, err := parseDateValue(req.Anchor)
		if err != nil {
			h.respondInvalid(ctx, "invalid anchor date")
			return nil, false
		}
		rule.Anchor = anchor
	}
	return rule, true
}

func (h *TaskHandler) parseDate(ctx *fasthttp.RequestCtx, value, field string) (time.Time, bool) {
	if value == "" {
		h.respondInvalid(ctx, "missing "+field)
		return time.Time{}, false
	}
	parsed, err := parseDateValue(value)
	if err != nil {
		h.respondInvalid(ctx, "invalid "+field)
		return time.Time{}, false
	}
	return parsed, true
}

// parseDateValue accepts YYYY-MM-DD or RFC3339.
func parseDateValue(value string) (time.Time, error) {
	if parsed, err := time.Parse("2006-01-02", value); err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339, value)
}

func parseInt(value string, fallback int) int {
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return fallback
}

package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/epesicloud-mmg/tasks-backend/api/transport"
	"github.com/epesicloud-mmg/tasks-backend/pkg/httpcontext"
	"github.com/epesicloud-mmg/tasks-backend/repository"
	notificationUC "github.com/epesicloud-mmg/tasks-backend/usecase/notification"
	workspaceUC "github.com/epesicloud-mmg/tasks-backend/usecase/workspace"
)

type NotificationHandler struct {
	baseHandler
	uc         *notificationUC.UseCase
	workspaces *workspaceUC.UseCase
}

func NewNotificationHandler(uc *notificationUC.UseCase, workspaces *workspaceUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
		workspaces:  workspaces,
	}
}

// @Summary List notifications
// @Tags notifications
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	workspaceID := string(ctx.QueryArgs().Peek("workspace_id"))
	if workspaceID == "" {
		h.respondInvalid(ctx, "missing workspace_id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	member, err := h.workspaces.Membership(stdCtx, workspaceID, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	filter := repository.NotificationFilter{
		WorkspaceID: workspaceID,
		MemberID:    member.ID,
		UnreadOnly:  ctx.QueryArgs().GetBool("unread"),
		Limit:       parseInt(string(ctx.QueryArgs().Peek("limit")), 50),
		Offset:      parseInt(string(ctx.QueryArgs().Peek("offset")), 0),
	}

	notifications, err := h.uc.List(stdCtx, filter)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewList(notifications, transport.ListMeta{
		Count:  len(notifications),
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}))
}

// @Summary Mark notification read
// @Tags notifications
// @Router /api/v1/notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	workspaceID := string(ctx.QueryArgs().Peek("workspace_id"))
	if workspaceID == "" {
		h.respondInvalid(ctx, "missing workspace_id")
		return
	}
	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondInvalid(ctx, "missing notification id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if _, err := h.workspaces.Membership(stdCtx, workspaceID, userID); err != nil {
		h.respondError(ctx, err)
		return
	}

	if err := h.uc.MarkRead(stdCtx, workspaceID, id); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Mark all notifications read
// @Tags notifications
// @Router /api/v1/notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	workspaceID := string(ctx.QueryArgs().Peek("workspace_id"))
	if workspaceID == "" {
		h.respondInvalid(ctx, "missing workspace_id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	member, err := h.workspaces.Membership(stdCtx, workspaceID, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	if err := h.uc.MarkAllRead(stdCtx, workspaceID, member.ID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/epesicloud-mmg/tasks-backend/api/transport"
	"github.com/epesicloud-mmg/tasks-backend/pkg/httpcontext"
	workspaceUC "github.com/epesicloud-mmg/tasks-backend/usecase/workspace"
)

type WorkspaceHandler struct {
	baseHandler
	uc *workspaceUC.UseCase
}

func NewWorkspaceHandler(uc *workspaceUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *WorkspaceHandler {
	return &WorkspaceHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary Create workspace
// @Tags workspaces
// @Router /api/v1/workspaces [post]
func (h *WorkspaceHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.WorkspaceRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Name == "" {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	ws, err := h.uc.CreateWorkspace(stdCtx, userID, req.Name, req.Plan)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, ws)
}

// @Summary List workspaces
// @Tags workspaces
// @Router /api/v1/workspaces [get]
func (h *WorkspaceHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	workspaces, err := h.uc.ListWorkspaces(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, workspaces)
}

// @Summary Get workspace
// @Tags workspaces
// @Router /api/v1/workspaces/{workspaceID} [get]
func (h *WorkspaceHandler) Get(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	workspaceID := h.workspaceID(ctx)
	if workspaceID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	ws, err := h.uc.GetWorkspace(stdCtx, userID, workspaceID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, ws)
}

// @Summary List members
// @Tags workspaces
// @Router /api/v1/workspaces/{workspaceID}/members [get]
func (h *WorkspaceHandler) ListMembers(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	workspaceID := h.workspaceID(ctx)
	if workspaceID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	members, err := h.uc.ListMembers(stdCtx, userID, workspaceID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, members)
}

// @Summary Add member
// @Tags workspaces
// @Router /api/v1/workspaces/{workspaceID}/members [post]
func (h *WorkspaceHandler) AddMember(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	workspaceID := h.workspaceID(ctx)
	if workspaceID == "" {
		return
	}

	var req transport.MemberRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.UserID == "" {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	member, err := h.uc.AddMember(stdCtx, userID, workspaceID, req.UserID, req.Role, req.Kind)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, member)
}

// @Summary Remove member
// @Tags workspaces
// @Router /api/v1/workspaces/{workspaceID}/members/{memberID} [delete]
func (h *WorkspaceHandler) RemoveMember(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	workspaceID := h.workspaceID(ctx)
	if workspaceID == "" {
		return
	}
	memberID, _ := ctx.UserValue("memberID").(string)
	if memberID == "" {
		h.respondInvalid(ctx, "missing member id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.RemoveMember(stdCtx, userID, workspaceID, memberID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

// @Summary Create invitation
// @Tags workspaces
// @Router /api/v1/workspaces/{workspaceID}/invitations [post]
func (h *WorkspaceHandler) Invite(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	workspaceID := h.workspaceID(ctx)
	if workspaceID == "" {
		return
	}

	var req transport.InvitationRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Email == "" {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	inv, err := h.uc.Invite(stdCtx, userID, workspaceID, req.Email, req.Role)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, inv)
}

// @Summary List invitations
// @Tags workspaces
// @Router /api/v1/workspaces/{workspaceID}/invitations [get]
func (h *WorkspaceHandler) ListInvitations(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	workspaceID := h.workspaceID(ctx)
	if workspaceID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	invitations, err := h.uc.ListInvitations(stdCtx, userID, workspaceID)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, invitations)
}

// @Summary Accept invitation
// @Tags workspaces
// @Router /api/v1/invitations/accept [post]
func (h *WorkspaceHandler) AcceptInvitation(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}

	var req transport.AcceptInvitationRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil || req.Token == "" {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	member, err := h.uc.AcceptInvitation(stdCtx, userID, req.Token)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, member)
}

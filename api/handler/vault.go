package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/epesicloud-mmg/tasks-backend/api/transport"
	"github.com/epesicloud-mmg/tasks-backend/domain"
	"github.com/epesicloud-mmg/tasks-backend/pkg/httpcontext"
	vaultUC "github.com/epesicloud-mmg/tasks-backend/usecase/vault"
)

type VaultHandler struct {
	baseHandler
	uc *vaultUC.UseCase
}

func NewVaultHandler(uc *vaultUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *VaultHandler {
	return &VaultHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List files
// @Tags vault
// @Router /api/v1/workspaces/{workspaceID}/files [get]
func (h *VaultHandler) ListFiles(ctx *fasthttp.RequestCtx) {
	workspaceID := h.workspaceID(ctx)
	if workspaceID == "" {
		return
	}
	folder := string(ctx.QueryArgs().Peek("folder"))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	files, err := h.uc.ListFiles(stdCtx, workspaceID, folder)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, files)
}

// @Summary Register file
// @Tags vault
// @Router /api/v1/workspaces/{workspaceID}/files [post]
func (h *VaultHandler) RegisterFile(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	workspaceID := h.workspaceID(ctx)
	if workspaceID == "" {
		return
	}

	var req transport.VaultFileRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	file := &domain.VaultFile{
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Folder:      req.Folder,
		MimeType:    req.MimeType,
		SizeBytes:   req.SizeBytes,
		StorageKey:  req.StorageKey,
		Metadata:    req.Metadata,
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	created, err := h.uc.RegisterFile(stdCtx, userID, file)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Delete file
// @Tags vault
// @Router /api/v1/workspaces/{workspaceID}/files/{fileID} [delete]
func (h *VaultHandler) DeleteFile(ctx *fasthttp.RequestCtx) {
	userID := h.userID(ctx)
	if userID == "" {
		return
	}
	workspaceID := h.workspaceID(ctx)
	if workspaceID == "" {
		return
	}
	fileID, _ := ctx.UserValue("fileID").(string)
	if fileID == "" {
		h.respondInvalid(ctx, "missing file id")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteFile(stdCtx, userID, workspaceID, fileID); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusNoContent, nil)
}

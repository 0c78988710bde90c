package accesslog

import (
	"context"
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/transport"
)

type ServiceAPI interface {
	ListForUser(ctx context.Context, userID int64, page Page) ([]*AccessLog, error)
	ListAll(ctx context.Context, page Page) ([]*AccessLog, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetMyAccessLogs(w http.ResponseWriter, r *http.Request) {
	user, appErr := h.CurrentUser(r)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	page, appErr := h.page(r)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	logs, err := h.Service.ListForUser(r.Context(), user.ID, page)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, toResponse(logs))
}

func (h *Handler) GetAccessLogs(w http.ResponseWriter, r *http.Request) {
	page, appErr := h.page(r)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	logs, err := h.Service.ListAll(r.Context(), page)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, toResponse(logs))
}

func (h *Handler) page(r *http.Request) (Page, *internal.AppError) {
	limit, appErr := h.QueryInt(r, "limit", 0)
	if appErr != nil {
		return Page{}, appErr
	}
	offset, appErr := h.QueryInt(r, "offset", 0)
	if appErr != nil {
		return Page{}, appErr
	}
	return Page{Limit: limit, Offset: offset}, nil
}

func toResponse(logs []*AccessLog) AccessLogsResponse {
	responses := make([]AccessLogResponse, 0, len(logs))
	for _, l := range logs {
		responses = append(responses, l.ToResponse())
	}
	return AccessLogsResponse{AccessLogs: responses}
}

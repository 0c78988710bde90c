package accountstatus

import (
	"context"
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal/transport"
)

type ServiceAPI interface {
	Monthly(ctx context.Context, userID int64, cardID *int64, month, year int) (*Status, error)
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

func (h *Handler) GetMonthly(w http.ResponseWriter, r *http.Request) {
	caller, appErr := h.CurrentUser(r)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	month, appErr := h.QueryInt(r, "month", 0)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}
	year, appErr := h.QueryInt(r, "year", 0)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}
	cardID, appErr := h.QueryInt64(r, "credit_card_id")
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	status, err := h.Service.Monthly(r.Context(), caller.ID, cardID, month, year)
	if err != nil {
		h.Logger.Debug("GetMonthly: request rejected", "error", err)
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, status)
}

package budget

import (
	"context"
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, userID int64) ([]*Budget, error)
	GetOwned(ctx context.Context, userID, id int64) (*Budget, error)
	Create(ctx context.Context, userID int64, dto BudgetDTO) (*Budget, error)
	Update(ctx context.Context, userID, id int64, dto BudgetDTO) (*Budget, error)
	Delete(ctx context.Context, userID, id int64) error
	Status(ctx context.Context, userID int64, month, year int) (*StatusResponse, error)
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

func (h *Handler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	caller, appErr := h.CurrentUser(r)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	budgets, err := h.Service.List(r.Context(), caller.ID)
	if err != nil {
		h.Logger.Error("GetBudgets: failed to list budgets", "error", err)
		h.HandleServiceError(w, r, err)
		return
	}

	responses := make([]BudgetResponse, 0, len(budgets))
	for _, b := range budgets {
		responses = append(responses, b.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, BudgetsResponse{Budgets: responses})
}

func (h *Handler) GetBudget(w http.ResponseWriter, r *http.Request) {
	caller, appErr := h.CurrentUser(r)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}
	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	b, err := h.Service.GetOwned(r.Context(), caller.ID, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, b.ToResponse())
}

func (h *Handler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	caller, appErr := h.CurrentUser(r)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	var dto BudgetDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	b, err := h.Service.Create(r.Context(), caller.ID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, b.ToResponse())
}

func (h *Handler) UpdateBudget(w http.ResponseWriter, r *http.Request) {
	caller, appErr := h.CurrentUser(r)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}
	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	var dto BudgetDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	b, err := h.Service.Update(r.Context(), caller.ID, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, b.ToResponse())
}

func (h *Handler) DeleteBudget(w http.ResponseWriter, r *http.Request) {
	caller, appErr := h.CurrentUser(r)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}
	id, appErr := h.IDParam(r, "id")
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	if err := h.Service.Delete(r.Context(), caller.ID, id); err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
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

	status, err := h.Service.Status(r.Context(), caller.ID, month, year)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, status)
}

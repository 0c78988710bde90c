package expense

import (
	"context"
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/budget"
	"github.com/frahmantamala/finance-tracker/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, userID int64, filter Filter) ([]*Expense, error)
	GetOwned(ctx context.Context, userID, id int64) (*Expense, error)
	Create(ctx context.Context, userID int64, dto ExpenseDTO) (*Expense, *budget.Warning, error)
	Update(ctx context.Context, userID, id int64, dto ExpenseDTO) (*Expense, *budget.Warning, error)
	Delete(ctx context.Context, userID, id int64) error
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

func (h *Handler) GetExpenses(w http.ResponseWriter, r *http.Request) {
	caller, appErr := h.CurrentUser(r)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	filter, appErr := h.filterFromQuery(r)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	expenses, err := h.Service.List(r.Context(), caller.ID, filter)
	if err != nil {
		h.Logger.Error("GetExpenses: failed to list expenses", "error", err, "user_id", caller.ID)
		h.HandleServiceError(w, r, err)
		return
	}

	responses := make([]ExpenseResponse, 0, len(expenses))
	for _, e := range expenses {
		responses = append(responses, e.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, ExpensesResponse{Expenses: responses})
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
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

	exp, err := h.Service.GetOwned(r.Context(), caller.ID, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ExpenseEnvelope{Expense: exp.ToResponse()})
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	caller, appErr := h.CurrentUser(r)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	var dto ExpenseDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	exp, warning, err := h.Service.Create(r.Context(), caller.ID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, ExpenseEnvelope{Expense: exp.ToResponse(), BudgetWarning: warning})
}

func (h *Handler) UpdateExpense(w http.ResponseWriter, r *http.Request) {
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

	var dto ExpenseDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	exp, warning, err := h.Service.Update(r.Context(), caller.ID, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, ExpenseEnvelope{Expense: exp.ToResponse(), BudgetWarning: warning})
}

func (h *Handler) DeleteExpense(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) filterFromQuery(r *http.Request) (Filter, *internal.AppError) {
	var filter Filter
	var appErr *internal.AppError

	if filter.CreditCardID, appErr = h.QueryInt64(r, "credit_card_id"); appErr != nil {
		return filter, appErr
	}
	if filter.CategoryID, appErr = h.QueryInt64(r, "category_id"); appErr != nil {
		return filter, appErr
	}

	month, appErr := h.QueryInt64(r, "month")
	if appErr != nil {
		return filter, appErr
	}
	year, appErr := h.QueryInt64(r, "year")
	if appErr != nil {
		return filter, appErr
	}
	filter.Month = narrow(month)
	filter.Year = narrow(year)
	return filter, nil
}

func narrow(v *int64) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

package creditcard

import (
	"context"
	"net/http"

	"github.com/frahmantamala/finance-tracker/internal/transport"
)

type ServiceAPI interface {
	List(ctx context.Context, userID int64) ([]*CreditCard, error)
	GetOwned(ctx context.Context, userID, cardID int64) (*CreditCard, error)
	Create(ctx context.Context, userID int64, dto CreditCardDTO) (*CreditCard, error)
	Update(ctx context.Context, userID, cardID int64, dto CreditCardDTO) (*CreditCard, error)
	Delete(ctx context.Context, userID, cardID int64) error
	AmountDue(ctx context.Context, userID, cardID int64) (*AmountDueResponse, error)
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

func (h *Handler) GetCards(w http.ResponseWriter, r *http.Request) {
	caller, appErr := h.CurrentUser(r)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	cards, err := h.Service.List(r.Context(), caller.ID)
	if err != nil {
		h.Logger.Error("GetCards: failed to list cards", "error", err)
		h.HandleServiceError(w, r, err)
		return
	}

	responses := make([]CreditCardResponse, 0, len(cards))
	for _, c := range cards {
		responses = append(responses, c.ToResponse())
	}
	h.WriteJSON(w, http.StatusOK, CreditCardsResponse{Cards: responses})
}

func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
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

	card, err := h.Service.GetOwned(r.Context(), caller.ID, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, card.ToResponse())
}

func (h *Handler) CreateCard(w http.ResponseWriter, r *http.Request) {
	caller, appErr := h.CurrentUser(r)
	if appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	var dto CreditCardDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	card, err := h.Service.Create(r.Context(), caller.ID, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, card.ToResponse())
}

func (h *Handler) UpdateCard(w http.ResponseWriter, r *http.Request) {
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

	var dto CreditCardDTO
	if appErr := h.DecodeJSON(r, &dto); appErr != nil {
		h.WriteError(w, appErr)
		return
	}

	card, err := h.Service.Update(r.Context(), caller.ID, id, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, card.ToResponse())
}

func (h *Handler) DeleteCard(w http.ResponseWriter, r *http.Request) {
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

func (h *Handler) GetAmountDue(w http.ResponseWriter, r *http.Request) {
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

	due, err := h.Service.AmountDue(r.Context(), caller.ID, id)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, due)
}

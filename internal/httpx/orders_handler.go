package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-order-saga.git/internal/orders"
)

type CreateOrderReq struct {
	UserID string             `json:"user_id"`
	Items  []orders.ItemInput `json:"items"`
}

type UpdateStatusReq struct {
	Status string `json:"status"`
}

type errorResp struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type OrdersHandler struct {
	Coordinator *orders.Coordinator
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders", h.listOrders)
	r.Get("/orders/{id}", h.getOrder)
	r.Patch("/orders/{id}/status", h.updateStatus)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, err error) {
	kind := orders.KindOf(err)
	code := http.StatusInternalServerError
	switch kind {
	case orders.KindValidation:
		code = http.StatusBadRequest
	case orders.KindNotFound:
		code = http.StatusNotFound
	case orders.KindBusinessRule:
		code = http.StatusUnprocessableEntity
	}
	msg := err.Error()
	if kind == orders.KindInternal {
		msg = "internal error" // never leak infra details
	}
	writeJSON(w, code, errorResp{Error: msg, Kind: kind.String()})
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, orders.Validationf("invalid json body"))
		return
	}
	o, err := h.Coordinator.CreateOrder(r.Context(), req.UserID, req.Items)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.Coordinator.FindByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	var (
		out []orders.Order
		err error
	)
	if userID := r.URL.Query().Get("user_id"); userID != "" {
		out, err = h.Coordinator.FindByUser(r.Context(), userID)
	} else {
		out, err = h.Coordinator.FindAll(r.Context())
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	if out == nil {
		out = []orders.Order{}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, orders.Validationf("invalid json body"))
		return
	}
	o, err := h.Coordinator.UpdateStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

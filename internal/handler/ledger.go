package handler

import (
	"net/http"

	"github.com/Dan9191/finance-service/internal/ledger"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/gorilla/mux"
)

// apply decodes a command of type T from the body, applies it and responds
// with the updated document.
func apply[T ledger.Command](h *Handler, w http.ResponseWriter, r *http.Request, status int) {
	var cmd T
	if err := decodeJSON(r, &cmd); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.run(w, r, status, cmd)
}

func (h *Handler) run(w http.ResponseWriter, r *http.Request, status int, cmd ledger.Command) {
	data, err := h.svc.Apply(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, status, data)
}

// Data returns the caller's whole document
func (h *Handler) Data(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Data(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, data)
}

func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	apply[ledger.AddTransaction](h, w, r, http.StatusCreated)
}

func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	apply[ledger.DeleteTransaction](h, w, r, http.StatusOK)
}

func (h *Handler) SetBudget(w http.ResponseWriter, r *http.Request) {
	apply[ledger.SetBudget](h, w, r, http.StatusOK)
}

func (h *Handler) AddOneTime(w http.ResponseWriter, r *http.Request) {
	apply[ledger.AddOneTime](h, w, r, http.StatusCreated)
}

func (h *Handler) DeleteOneTime(w http.ResponseWriter, r *http.Request) {
	apply[ledger.DeleteOneTime](h, w, r, http.StatusOK)
}

func (h *Handler) SetNetWorth(w http.ResponseWriter, r *http.Request) {
	apply[ledger.SetNetWorth](h, w, r, http.StatusOK)
}

func (h *Handler) AddSubcategory(w http.ResponseWriter, r *http.Request) {
	apply[ledger.AddSubcategory](h, w, r, http.StatusCreated)
}

func (h *Handler) RenameSubcategory(w http.ResponseWriter, r *http.Request) {
	apply[ledger.RenameSubcategory](h, w, r, http.StatusOK)
}

func (h *Handler) DeleteSubcategory(w http.ResponseWriter, r *http.Request) {
	apply[ledger.DeleteSubcategory](h, w, r, http.StatusOK)
}

// AddLoan creates a loan and responds with the stored record
func (h *Handler) AddLoan(w http.ResponseWriter, r *http.Request) {
	var cmd ledger.AddLoan
	if err := decodeJSON(r, &cmd); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	data, err := h.svc.Apply(r.Context(), cmd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, data.Loans[len(data.Loans)-1])
}

func (h *Handler) DeleteLoan(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, ledger.DeleteLoan{ID: mux.Vars(r)["id"]})
}

// AddTrade appends a trade and responds with the stored record
func (h *Handler) AddTrade(w http.ResponseWriter, r *http.Request) {
	var t models.Trade
	if err := decodeJSON(r, &t); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	data, err := h.svc.Apply(r.Context(), ledger.AddTrade{Trade: t})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, data.Trades[len(data.Trades)-1])
}

func (h *Handler) DeleteTrade(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, http.StatusOK, ledger.DeleteTrade{ID: mux.Vars(r)["id"]})
}

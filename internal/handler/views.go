package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
)

// LoanSchedule returns the amortization table of a loan
func (h *Handler) LoanSchedule(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.LoanSchedule(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rows)
}

// LoanStatus returns the installment and balance of a loan at ?year=&month=
func (h *Handler) LoanStatus(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "year is required")
		return
	}
	month, err := monthParam(q.Get("month"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	st, err := h.svc.LoanStatus(r.Context(), mux.Vars(r)["id"], year, month)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, st)
}

func (h *Handler) BudgetView(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	view, err := h.svc.BudgetView(r.Context(), year, month)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	year, month, err := periodParams(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	report, err := h.svc.Summary(r.Context(), year, month)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *Handler) NetWorth(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := monthParam(vars["month"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	nw, err := h.svc.NetWorth(r.Context(), year, month)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, nw)
}

// Transactions lists a subcategory's entries for /transactions/{year}/{month}?main=&sub=
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	year, err := strconv.Atoi(vars["year"])
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid year")
		return
	}
	month, err := monthParam(vars["month"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	txs, err := h.svc.Transactions(r.Context(), year, month, q.Get("main"), q.Get("sub"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, txs)
}

func (h *Handler) TradingSummary(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.TradingSummary(r.Context(), r.URL.Query().Get("currency"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

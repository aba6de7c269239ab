package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/Dan9191/finance-service/internal/finance"
	"github.com/Dan9191/finance-service/internal/models"
)

type npvRequest struct {
	Rate  float64   `json:"rate"`
	Flows []float64 `json:"flows"`
}

func (h *Handler) NPV(w http.ResponseWriter, r *http.Request) {
	var req npvRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Flows) == 0 {
		h.writeError(w, http.StatusBadRequest, "flows are required")
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]float64{"npv": finance.NPV(req.Rate, req.Flows)})
}

func (h *Handler) IRR(w http.ResponseWriter, r *http.Request) {
	var req npvRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	irr, err := finance.IRR(req.Flows)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]float64{"irr": irr})
}

type compoundRequest struct {
	Principal           float64 `json:"principal"`
	Rate                float64 `json:"rate"`
	Years               int     `json:"years"`
	PeriodsPerYear      int     `json:"periodsPerYear"`
	MonthlyContribution float64 `json:"monthlyContribution"`
}

func (h *Handler) Compound(w http.ResponseWriter, r *http.Request) {
	req := compoundRequest{PeriodsPerYear: 12}
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	points, err := finance.CompoundInterest(req.Principal, req.Rate, req.Years, req.PeriodsPerYear, req.MonthlyContribution)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, points)
}

type installmentRequest struct {
	Principal    float64     `json:"principal"`
	Rate         float64     `json:"rate"`
	Installments int         `json:"installments"`
	StartDate    models.Date `json:"startDate"`
}

type installmentResponse struct {
	Installment   float64                  `json:"installment"`
	TotalInterest float64                  `json:"totalInterest"`
	EndDate       models.Date              `json:"endDate"`
	Schedule      []finance.InstallmentRow `json:"schedule"`
}

// Installment previews a loan without saving it
func (h *Handler) Installment(w http.ResponseWriter, r *http.Request) {
	var req installmentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.StartDate.IsZero() {
		now := time.Now().UTC()
		req.StartDate = models.NewDate(now.Year(), now.Month(), now.Day())
	}
	loan, err := finance.NewLoan("preview", "preview", req.Principal, req.Rate, req.Installments, req.StartDate)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows, err := finance.BuildSchedule(loan)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if len(rows) == 0 {
		h.fail(w, r, errors.New("empty schedule"))
		return
	}
	h.writeJSON(w, http.StatusOK, installmentResponse{
		Installment:   loan.InstallmentAmount,
		TotalInterest: finance.TotalInterest(rows),
		EndDate:       loan.EndDate,
		Schedule:      rows,
	})
}

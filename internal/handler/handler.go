package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Dan9191/finance-service/internal/finance"
	"github.com/Dan9191/finance-service/internal/integrations/ecb"
	"github.com/Dan9191/finance-service/internal/ledger"
	"github.com/Dan9191/finance-service/internal/models"
	"github.com/Dan9191/finance-service/internal/repository"
	"github.com/Dan9191/finance-service/internal/service"
	"github.com/Dan9191/finance-service/internal/trading"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	svc *service.Service
	log *logrus.Logger
}

func NewHandler(svc *service.Service, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

// Routes registers every endpoint on r. auth guards the per-user routes.
func (h *Handler) Routes(r *mux.Router, auth mux.MiddlewareFunc) {
	// Public routes
	r.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	r.HandleFunc("/fx-rates", h.FXRates).Methods(http.MethodGet)
	r.HandleFunc("/calculators/npv", h.NPV).Methods(http.MethodPost)
	r.HandleFunc("/calculators/irr", h.IRR).Methods(http.MethodPost)
	r.HandleFunc("/calculators/compound", h.Compound).Methods(http.MethodPost)
	r.HandleFunc("/calculators/installment", h.Installment).Methods(http.MethodPost)

	// Protected routes
	a := r.NewRoute().Subrouter()
	a.Use(auth)
	a.HandleFunc("/data", h.Data).Methods(http.MethodGet)
	a.HandleFunc("/transactions", h.AddTransaction).Methods(http.MethodPost)
	a.HandleFunc("/transactions", h.DeleteTransaction).Methods(http.MethodDelete)
	a.HandleFunc("/transactions/{year:[0-9]{4}}/{month}", h.Transactions).Methods(http.MethodGet)
	a.HandleFunc("/budget", h.SetBudget).Methods(http.MethodPut)
	a.HandleFunc("/one-time", h.AddOneTime).Methods(http.MethodPost)
	a.HandleFunc("/one-time", h.DeleteOneTime).Methods(http.MethodDelete)
	a.HandleFunc("/net-worth", h.SetNetWorth).Methods(http.MethodPut)
	a.HandleFunc("/loans", h.AddLoan).Methods(http.MethodPost)
	a.HandleFunc("/loans/{id}", h.DeleteLoan).Methods(http.MethodDelete)
	a.HandleFunc("/loans/{id}/schedule", h.LoanSchedule).Methods(http.MethodGet)
	a.HandleFunc("/loans/{id}/status", h.LoanStatus).Methods(http.MethodGet)
	a.HandleFunc("/categories", h.AddSubcategory).Methods(http.MethodPost)
	a.HandleFunc("/categories", h.RenameSubcategory).Methods(http.MethodPatch)
	a.HandleFunc("/categories", h.DeleteSubcategory).Methods(http.MethodDelete)
	a.HandleFunc("/budget/{year:[0-9]{4}}", h.BudgetView).Methods(http.MethodGet)
	a.HandleFunc("/summary/{year:[0-9]{4}}", h.Summary).Methods(http.MethodGet)
	a.HandleFunc("/net-worth/{year:[0-9]{4}}/{month}", h.NetWorth).Methods(http.MethodGet)
	a.HandleFunc("/trades", h.AddTrade).Methods(http.MethodPost)
	a.HandleFunc("/trades/{id}", h.DeleteTrade).Methods(http.MethodDelete)
	a.HandleFunc("/trading/summary", h.TradingSummary).Methods(http.MethodGet)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Errorf("Failed to write JSON response: %v", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, errorResponse{Error: msg})
}

func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(target); err != nil {
		return fmt.Errorf("invalid JSON payload: %w", err)
	}
	if decoder.More() {
		return errors.New("invalid JSON payload: extra content")
	}
	return nil
}

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthorized),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrDuplicateLoan),
		errors.Is(err, ledger.ErrDuplicateSubcategory),
		errors.Is(err, ledger.ErrLoanLinkedSubcategory),
		errors.Is(err, ledger.ErrSyntheticTransaction),
		errors.Is(err, repository.ErrDuplicateUser):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidInput),
		errors.Is(err, ledger.ErrUnknownSubcategory),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, finance.ErrInvalidLoanParameters),
		errors.Is(err, finance.ErrInvalidCashFlows),
		errors.Is(err, finance.ErrInvalidProjection),
		errors.Is(err, trading.ErrInvalidTrade),
		errors.Is(err, ecb.ErrUnknownCurrency):
		return http.StatusBadRequest
	case errors.Is(err, finance.ErrNoConvergence):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Errorf("%s %s failed: %v", r.Method, r.URL.Path, err)
		h.writeError(w, status, "internal server error")
		return
	}
	h.writeError(w, status, err.Error())
}

// monthParam parses a month given as a 0-11 index or a month key
func monthParam(s string) (int, error) {
	if i, ok := models.MonthIndex(s); ok {
		return i, nil
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 || i > 11 {
		return 0, fmt.Errorf("%w: unknown month %q", service.ErrInvalidInput, s)
	}
	return i, nil
}

// periodParams reads {year} and the optional ?month= query; no month means the whole year
func periodParams(r *http.Request) (int, int, error) {
	year, err := strconv.Atoi(mux.Vars(r)["year"])
	if err != nil {
		return 0, 0, fmt.Errorf("%w: invalid year", service.ErrInvalidInput)
	}
	m := r.URL.Query().Get("month")
	if m == "" {
		return year, finance.Annual, nil
	}
	month, err := monthParam(m)
	return year, month, err
}

type credentials struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles user registration
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	user, err := h.svc.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, user)
}

// Login handles user authentication
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	token, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// FXRates returns the latest reference exchange rates
func (h *Handler) FXRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.svc.FXRates(r.Context())
	if err != nil {
		h.log.Errorf("Failed to get exchange rates: %v", err)
		h.writeError(w, http.StatusBadGateway, "exchange rates unavailable")
		return
	}
	h.writeJSON(w, http.StatusOK, rates)
}

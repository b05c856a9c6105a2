package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dmoretti/loanbook-engine/internal/domain"
	"github.com/dmoretti/loanbook-engine/internal/service"
	"github.com/dmoretti/loanbook-engine/pkg/response"
	customError "github.com/dmoretti/loanbook-engine/pkg/errors"
)

type LoanHandler struct {
	service   *service.LoanService
	validator *validator.Validate
}

func NewLoanHandler(service *service.LoanService) *LoanHandler {
	return &LoanHandler{
		service:   service,
		validator: validator.New(),
	}
}

func (h *LoanHandler) CreateLoan(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	var request domain.CreateLoanRequest
	if err := decodeJSON(r, &request); err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.FromError(w, customError.WrapValidation(err.Error()))
		return
	}

	loan, err := h.service.CreateLoan(r.Context(), owner, &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, loan)
}

func (h *LoanHandler) GetLoans(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	filter := domain.LoanFilter{
		Status: r.URL.Query().Get("status"),
	}
	if raw := r.URL.Query().Get("clientId"); raw != "" {
		clientID, err := uuid.Parse(raw)
		if err != nil {
			response.FromError(w, customError.WrapValidation("invalid clientId filter"))
			return
		}
		filter.ClientID = &clientID
	}

	loans, err := h.service.GetLoans(r.Context(), owner, filter)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loans)
}

func (h *LoanHandler) GetLoan(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	loanID, err := pathID(r, "loanId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	detail, err := h.service.GetLoan(r.Context(), owner, loanID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, detail)
}

func (h *LoanHandler) GetSettlement(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	loanID, err := pathID(r, "loanId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	settlement, err := h.service.GetSettlement(r.Context(), owner, loanID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, settlement)
}

func (h *LoanHandler) GetPendingLoans(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	loans, err := h.service.GetLoansPendingPayment(r.Context(), owner)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, loans)
}

func (h *LoanHandler) UpdateDueDate(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	loanID, err := pathID(r, "loanId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var request domain.UpdateDueDateRequest
	if err := decodeJSON(r, &request); err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.FromError(w, customError.WrapValidation(err.Error()))
		return
	}

	if err := h.service.UpdateDueDate(r.Context(), owner, loanID, request.DueDate); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": "updated"})
}

package handler

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/dmoretti/loanbook-engine/internal/domain"
	"github.com/dmoretti/loanbook-engine/internal/service"
	customError "github.com/dmoretti/loanbook-engine/pkg/errors"
	"github.com/dmoretti/loanbook-engine/pkg/response"
)

type PaymentHandler struct {
	service   *service.PaymentService
	validator *validator.Validate
}

func NewPaymentHandler(service *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		service:   service,
		validator: validator.New(),
	}
}

func (h *PaymentHandler) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	var request domain.RegisterPaymentRequest
	if err := decodeJSON(r, &request); err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.FromError(w, customError.WrapValidation(err.Error()))
		return
	}

	payment, err := h.service.RegisterPayment(r.Context(), owner, &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, payment)
}

func (h *PaymentHandler) GetPayments(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	filter := domain.PaymentFilter{}
	if raw := r.URL.Query().Get("loanId"); raw != "" {
		loanID, err := uuid.Parse(raw)
		if err != nil {
			response.FromError(w, customError.WrapValidation("invalid loanId filter"))
			return
		}
		filter.LoanID = &loanID
	}
	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.FromError(w, customError.WrapValidation("invalid from date, expected YYYY-MM-DD"))
			return
		}
		filter.StartDate = &from
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			response.FromError(w, customError.WrapValidation("invalid to date, expected YYYY-MM-DD"))
			return
		}
		filter.EndDate = &to
	}

	payments, err := h.service.GetPayments(r.Context(), owner, filter)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, payments)
}

func (h *PaymentHandler) ReversePayment(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	paymentID, err := pathID(r, "paymentId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var request domain.ReversePaymentRequest
	if err := decodeJSON(r, &request); err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.FromError(w, customError.WrapValidation(err.Error()))
		return
	}

	if err := h.service.ReversePayment(r.Context(), owner, paymentID, request.Reason); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": "reversed"})
}

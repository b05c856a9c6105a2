package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dmoretti/loanbook-engine/internal/domain"
	"github.com/dmoretti/loanbook-engine/internal/service"
	customError "github.com/dmoretti/loanbook-engine/pkg/errors"
	"github.com/dmoretti/loanbook-engine/pkg/response"
)

type SettingsHandler struct {
	service   *service.SettingsService
	validator *validator.Validate
}

func NewSettingsHandler(service *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		service:   service,
		validator: validator.New(),
	}
}

func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	settings, err := h.service.GetSettings(r.Context(), owner)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, settings)
}

func (h *SettingsHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	var request domain.UpdateSettingsRequest
	if err := decodeJSON(r, &request); err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.FromError(w, customError.WrapValidation(err.Error()))
		return
	}

	settings, err := h.service.UpdateSettings(r.Context(), owner, &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, settings)
}

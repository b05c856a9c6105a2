package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/dmoretti/loanbook-engine/internal/domain"
	"github.com/dmoretti/loanbook-engine/internal/service"
	customError "github.com/dmoretti/loanbook-engine/pkg/errors"
	"github.com/dmoretti/loanbook-engine/pkg/response"
)

type ClientHandler struct {
	service   *service.ClientService
	validator *validator.Validate
}

func NewClientHandler(service *service.ClientService) *ClientHandler {
	return &ClientHandler{
		service:   service,
		validator: validator.New(),
	}
}

func (h *ClientHandler) CreateClient(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	var request domain.CreateClientRequest
	if err := decodeJSON(r, &request); err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.FromError(w, customError.WrapValidation(err.Error()))
		return
	}

	client, err := h.service.CreateClient(r.Context(), owner, &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Created(w, client)
}

func (h *ClientHandler) GetClients(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	clients, err := h.service.GetClients(r.Context(), owner, r.URL.Query().Get("search"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, clients)
}

func (h *ClientHandler) GetClient(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	clientID, err := pathID(r, "clientId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	client, err := h.service.GetClient(r.Context(), owner, clientID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, client)
}

func (h *ClientHandler) UpdateClient(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	clientID, err := pathID(r, "clientId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	var request domain.UpdateClientRequest
	if err := decodeJSON(r, &request); err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.validator.Struct(&request); err != nil {
		response.FromError(w, customError.WrapValidation(err.Error()))
		return
	}

	client, err := h.service.UpdateClient(r.Context(), owner, clientID, &request)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, client)
}

func (h *ClientHandler) DeleteClient(w http.ResponseWriter, r *http.Request) {
	owner, err := ownerID(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	clientID, err := pathID(r, "clientId")
	if err != nil {
		response.FromError(w, err)
		return
	}

	if err := h.service.DeleteClient(r.Context(), owner, clientID); err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]string{"status": "deleted"})
}

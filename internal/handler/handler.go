package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	customError "github.com/dmoretti/loanbook-engine/pkg/errors"
)

// Authentication is handled upstream; the gateway forwards the
// authenticated lender id in this header.
const ownerHeader = "X-User-ID"

func ownerID(r *http.Request) (uuid.UUID, error) {
	raw := r.Header.Get(ownerHeader)
	if raw == "" {
		return uuid.Nil, customError.WrapValidation("missing " + ownerHeader + " header")
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, customError.WrapValidation("invalid " + ownerHeader + " header")
	}

	return id, nil
}

func pathID(r *http.Request, name string) (uuid.UUID, error) {
	raw := mux.Vars(r)[name]
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, customError.WrapValidation("invalid " + name + " in path")
	}
	return id, nil
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return customError.WrapValidation("invalid request body: " + err.Error())
	}
	return nil
}

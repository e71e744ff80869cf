package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/jkimanzi/dukahub-backend/pkg/errors"
)

const sessionIDHeader = "X-Session-ID"

// sessionIDFromRequest reads the browser session identifier the storefront
// sends with cart, checkout and attribution calls.
func sessionIDFromRequest(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(sessionIDHeader))
}

func requireSessionID(r *http.Request) (string, error) {
	sessionID := sessionIDFromRequest(r)
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "X-Session-ID header required")
	}
	return sessionID, nil
}

// parseMoney turns a decimal string like "1250.00" into a money value.
// An empty string means the field was omitted.
func parseMoney(raw string) (*decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid amount")
	}
	return &value, nil
}

func parseIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id")
	}
	return id, nil
}

package controllers

import (
	"net/http"

	"github.com/jkimanzi/dukahub-backend/api/responses"
	"github.com/jkimanzi/dukahub-backend/api/validators"
	checkoutsvc "github.com/jkimanzi/dukahub-backend/internal/checkout"
	"github.com/jkimanzi/dukahub-backend/pkg/logger"
)

type checkoutRequest struct {
	CustomerName    string  `json:"customer_name" validate:"required"`
	CustomerPhone   string  `json:"customer_phone" validate:"required"`
	CustomerEmail   *string `json:"customer_email,omitempty" validate:"omitempty,email"`
	ShippingAddress string  `json:"shipping_address" validate:"required"`
	Notes           *string `json:"notes,omitempty"`
	PromoCode       string  `json:"promo_code,omitempty"`
}

// Checkout turns the session cart into a placed order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := requireSessionID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Submit(r.Context(), sessionID, checkoutsvc.SubmitInput{
			CustomerName:    req.CustomerName,
			CustomerPhone:   req.CustomerPhone,
			CustomerEmail:   req.CustomerEmail,
			ShippingAddress: req.ShippingAddress,
			Notes:           req.Notes,
			PromoCode:       req.PromoCode,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

package controllers

import (
	"net/http"
	"strings"

	"github.com/jkimanzi/dukahub-backend/api/responses"
	"github.com/jkimanzi/dukahub-backend/api/validators"
	"github.com/jkimanzi/dukahub-backend/internal/consultations"
	"github.com/jkimanzi/dukahub-backend/pkg/enums"
	pkgerrors "github.com/jkimanzi/dukahub-backend/pkg/errors"
	"github.com/jkimanzi/dukahub-backend/pkg/logger"
)

type consultationRequest struct {
	Name    string  `json:"name" validate:"required"`
	Phone   string  `json:"phone" validate:"required"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Topic   string  `json:"topic" validate:"required"`
	Message string  `json:"message" validate:"required"`
}

// SubmitConsultation handles the public consultation form. The response
// carries the WhatsApp handoff link the storefront surfaces after submit.
func SubmitConsultation(svc consultations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req consultationRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		submission, err := svc.Submit(r.Context(), consultations.SubmitInput{
			Name:    validators.SanitizeString(req.Name, 200),
			Phone:   validators.SanitizeString(req.Phone, 30),
			Email:   req.Email,
			Topic:   validators.SanitizeString(req.Topic, 200),
			Message: validators.SanitizeString(req.Message, 2000),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, submission)
	}
}

func AdminListConsultations(svc consultations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status *enums.ConsultationStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseConsultationStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
				return
			}
			status = &parsed
		}
		list, err := svc.List(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

type consultationStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

func AdminUpdateConsultationStatus(svc consultations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "consultationId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req consultationStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseConsultationStatus(strings.TrimSpace(req.Status))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}
		consultation, err := svc.UpdateStatus(r.Context(), id, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, consultation)
	}
}

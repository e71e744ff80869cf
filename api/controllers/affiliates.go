package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jkimanzi/dukahub-backend/api/middleware"
	"github.com/jkimanzi/dukahub-backend/api/responses"
	"github.com/jkimanzi/dukahub-backend/api/validators"
	"github.com/jkimanzi/dukahub-backend/internal/affiliates"
	pkgerrors "github.com/jkimanzi/dukahub-backend/pkg/errors"
	"github.com/jkimanzi/dukahub-backend/pkg/logger"
)

// ResolveAffiliateLink handles /p/{slug} shares. A hit records the click
// and attribution, then bounces the visitor to the product page.
func ResolveAffiliateLink(svc affiliates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		result, err := svc.ResolveSlug(r.Context(), slug, sessionIDFromRequest(r))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		http.Redirect(w, r, result.RedirectURL, http.StatusFound)
	}
}

func AdminListAgents(svc affiliates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		agents, err := svc.ListAgents(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, agents)
	}
}

func AdminGetAgent(svc affiliates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "agentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		agent, err := svc.GetAgent(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, agent)
	}
}

type agentRequest struct {
	Name     string  `json:"name" validate:"required"`
	Phone    string  `json:"phone" validate:"required"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	UserID   *string `json:"user_id,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (req agentRequest) toInput() (affiliates.AgentInput, error) {
	input := affiliates.AgentInput{
		Name:     req.Name,
		Phone:    req.Phone,
		Email:    req.Email,
		IsActive: req.IsActive,
	}
	if req.UserID != nil && strings.TrimSpace(*req.UserID) != "" {
		id, err := uuid.Parse(*req.UserID)
		if err != nil {
			return affiliates.AgentInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
		}
		input.UserID = &id
	}
	return input, nil
}

func AdminCreateAgent(svc affiliates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req agentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		agent, err := svc.CreateAgent(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, agent)
	}
}

func AdminUpdateAgent(svc affiliates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "agentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req agentRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		agent, err := svc.UpdateAgent(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, agent)
	}
}

func AdminAgentStats(svc affiliates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "agentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		agent, err := svc.GetAgent(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stats, err := svc.AgentStats(r.Context(), agent.AgentCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func AdminListAffiliateLinks(svc affiliates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := affiliates.LinkFilters{
			ActiveOnly: r.URL.Query().Get("active") == "true",
		}
		if code := strings.TrimSpace(r.URL.Query().Get("agent_code")); code != "" {
			filters.AgentCode = &code
		}
		links, err := svc.ListLinks(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, links)
	}
}

type affiliateLinkRequest struct {
	ProductID  string `json:"product_id" validate:"required"`
	AgentCode  string `json:"agent_code" validate:"required"`
	AssignedTo string `json:"assigned_to" validate:"required"`
	Slug       string `json:"slug,omitempty"`
	IsActive   *bool  `json:"is_active,omitempty"`
}

func (req affiliateLinkRequest) toInput() (affiliates.LinkInput, error) {
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		return affiliates.LinkInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}
	return affiliates.LinkInput{
		ProductID:  productID,
		AgentCode:  req.AgentCode,
		AssignedTo: req.AssignedTo,
		Slug:       req.Slug,
		IsActive:   req.IsActive,
	}, nil
}

func AdminCreateAffiliateLink(svc affiliates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req affiliateLinkRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		link, err := svc.CreateLink(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, link)
	}
}

func AdminUpdateAffiliateLink(svc affiliates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "linkId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var req affiliateLinkRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := req.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		link, err := svc.UpdateLink(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, link)
	}
}

func AdminDeleteAffiliateLink(svc affiliates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseIDParam(r, "linkId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteLink(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func AdminListReferrals(svc affiliates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var agentCode *string
		if code := strings.TrimSpace(r.URL.Query().Get("agent_code")); code != "" {
			agentCode = &code
		}
		referrals, err := svc.ListReferrals(r.Context(), agentCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, referrals)
	}
}

// agentCodeFromContext pulls the code stamped into the agent's JWT at
// login. A missing code means the token was not minted for an agent.
func agentCodeFromContext(r *http.Request) (string, error) {
	code := middleware.AgentCodeFromContext(r.Context())
	if code == "" {
		return "", pkgerrors.New(pkgerrors.CodeForbidden, "agent context missing")
	}
	return code, nil
}

func AgentDashboard(svc affiliates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := agentCodeFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stats, err := svc.AgentStats(r.Context(), code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func AgentLinks(svc affiliates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := agentCodeFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		links, err := svc.ListLinks(r.Context(), affiliates.LinkFilters{AgentCode: &code})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, links)
	}
}

func AgentReferrals(svc affiliates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code, err := agentCodeFromContext(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		referrals, err := svc.ListReferrals(r.Context(), &code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, referrals)
	}
}

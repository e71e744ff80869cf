package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jkimanzi/dukahub-backend/api/middleware"
	"github.com/jkimanzi/dukahub-backend/internal/affiliates"
	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
	pkgerrors "github.com/jkimanzi/dukahub-backend/pkg/errors"
)

type stubAffiliatesService struct {
	resolve   *affiliates.ResolveResult
	agent     *models.Affiliate
	stats     *affiliates.AgentStats
	links     []models.ProductAffiliateLink
	referrals []models.Referral
	err       error

	gotSlug      string
	gotSessionID string
	gotStatsCode string
}

func (s *stubAffiliatesService) ResolveSlug(ctx context.Context, slug, sessionID string) (*affiliates.ResolveResult, error) {
	s.gotSlug = slug
	s.gotSessionID = sessionID
	return s.resolve, s.err
}

func (s *stubAffiliatesService) AgentCodeForSession(ctx context.Context, sessionID string) (*string, error) {
	return nil, nil
}

func (s *stubAffiliatesService) LinkOrder(ctx context.Context, sessionID string, orderID uuid.UUID) error {
	return nil
}

func (s *stubAffiliatesService) ListAgents(ctx context.Context) ([]models.Affiliate, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubAffiliatesService) GetAgent(ctx context.Context, id uuid.UUID) (*models.Affiliate, error) {
	return s.agent, s.err
}

func (s *stubAffiliatesService) CreateAgent(ctx context.Context, input affiliates.AgentInput) (*models.Affiliate, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubAffiliatesService) UpdateAgent(ctx context.Context, id uuid.UUID, input affiliates.AgentInput) (*models.Affiliate, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubAffiliatesService) AgentStats(ctx context.Context, agentCode string) (*affiliates.AgentStats, error) {
	s.gotStatsCode = agentCode
	return s.stats, s.err
}

func (s *stubAffiliatesService) ListLinks(ctx context.Context, filters affiliates.LinkFilters) ([]models.ProductAffiliateLink, error) {
	return s.links, s.err
}

func (s *stubAffiliatesService) CreateLink(ctx context.Context, input affiliates.LinkInput) (*models.ProductAffiliateLink, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubAffiliatesService) UpdateLink(ctx context.Context, id uuid.UUID, input affiliates.LinkInput) (*models.ProductAffiliateLink, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubAffiliatesService) DeleteLink(ctx context.Context, id uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeInternal, "not implemented")
}

func (s *stubAffiliatesService) ListReferrals(ctx context.Context, agentCode *string) ([]models.Referral, error) {
	return s.referrals, s.err
}

func TestResolveAffiliateLinkRedirects(t *testing.T) {
	t.Parallel()

	svc := &stubAffiliatesService{resolve: &affiliates.ResolveResult{
		RedirectURL: "https://dukahub.co.ke/products/abc?ref=AGT-0001",
	}}
	handler := ResolveAffiliateLink(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/p/sukuma-wiki-deal", nil)
	req.Header.Set("X-Session-ID", "sess-ref")
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("slug", "sukuma-wiki-deal")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302 got %d", resp.Code)
	}
	if loc := resp.Header().Get("Location"); loc != svc.resolve.RedirectURL {
		t.Fatalf("unexpected location: %s", loc)
	}
	if svc.gotSlug != "sukuma-wiki-deal" {
		t.Fatalf("unexpected slug: %s", svc.gotSlug)
	}
	if svc.gotSessionID != "sess-ref" {
		t.Fatalf("unexpected session id: %s", svc.gotSessionID)
	}
}

func TestResolveAffiliateLinkUnknownSlug(t *testing.T) {
	t.Parallel()

	svc := &stubAffiliatesService{err: pkgerrors.New(pkgerrors.CodeNotFound, "link not found")}
	handler := ResolveAffiliateLink(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/p/gone", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("slug", "gone")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestAdminAgentStatsResolvesCode(t *testing.T) {
	t.Parallel()

	agentID := uuid.New()
	svc := &stubAffiliatesService{
		agent: &models.Affiliate{ID: agentID, AgentCode: "AGT-0042", Name: "Otieno"},
		stats: &affiliates.AgentStats{AgentCode: "AGT-0042", LinkCount: 3, TotalClicks: 120},
	}
	handler := AdminAgentStats(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/affiliates/"+agentID.String()+"/stats", nil)
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("agentId", agentID.String())
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotStatsCode != "AGT-0042" {
		t.Fatalf("stats queried with wrong code: %s", svc.gotStatsCode)
	}

	var envelope struct {
		Data affiliates.AgentStats `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalClicks != 120 {
		t.Fatalf("unexpected clicks: %d", envelope.Data.TotalClicks)
	}
}

func TestAgentDashboardRequiresAgentContext(t *testing.T) {
	t.Parallel()

	handler := AgentDashboard(&stubAffiliatesService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/agent/dashboard", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestAgentDashboardUsesClaimCode(t *testing.T) {
	t.Parallel()

	svc := &stubAffiliatesService{stats: &affiliates.AgentStats{AgentCode: "AGT-0007", ReferralCount: 9}}
	handler := AgentDashboard(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/agent/dashboard", nil)
	req = req.WithContext(middleware.WithAgentCode(req.Context(), "AGT-0007"))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.gotStatsCode != "AGT-0007" {
		t.Fatalf("stats queried with wrong code: %s", svc.gotStatsCode)
	}
}

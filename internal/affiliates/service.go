package affiliates

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/config"
	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
	pkgerrors "github.com/jkimanzi/dukahub-backend/pkg/errors"
	"github.com/jkimanzi/dukahub-backend/pkg/logger"
)

const clickIncrementTimeout = 5 * time.Second

type attributionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	AttributionKey(sessionID string) string
}

// Service exposes slug resolution for the storefront, the attribution hooks
// used by checkout, and agent/link management for admins.
type Service interface {
	ResolveSlug(ctx context.Context, slug, sessionID string) (*ResolveResult, error)
	AgentCodeForSession(ctx context.Context, sessionID string) (*string, error)
	LinkOrder(ctx context.Context, sessionID string, orderID uuid.UUID) error

	ListAgents(ctx context.Context) ([]models.Affiliate, error)
	GetAgent(ctx context.Context, id uuid.UUID) (*models.Affiliate, error)
	CreateAgent(ctx context.Context, input AgentInput) (*models.Affiliate, error)
	UpdateAgent(ctx context.Context, id uuid.UUID, input AgentInput) (*models.Affiliate, error)
	AgentStats(ctx context.Context, agentCode string) (*AgentStats, error)

	ListLinks(ctx context.Context, filters LinkFilters) ([]models.ProductAffiliateLink, error)
	CreateLink(ctx context.Context, input LinkInput) (*models.ProductAffiliateLink, error)
	UpdateLink(ctx context.Context, id uuid.UUID, input LinkInput) (*models.ProductAffiliateLink, error)
	DeleteLink(ctx context.Context, id uuid.UUID) error
	ListReferrals(ctx context.Context, agentCode *string) ([]models.Referral, error)
}

type service struct {
	repo        Repository
	attribution attributionStore
	site        config.SiteConfig
	ttl         time.Duration
	logg        *logger.Logger
}

// NewService builds an affiliates service with its collaborators.
func NewService(repo Repository, attribution attributionStore, site config.SiteConfig, cfg config.AffiliatesConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("affiliates repository required")
	}
	if attribution == nil {
		return nil, fmt.Errorf("attribution store required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	ttl := cfg.AttributionTTL
	if ttl <= 0 {
		return nil, fmt.Errorf("attribution ttl must be positive")
	}
	return &service{
		repo:        repo,
		attribution: attribution,
		site:        site,
		ttl:         ttl,
		logg:        logg,
	}, nil
}

// ResolveResult carries the redirect target for a resolved affiliate slug.
type ResolveResult struct {
	RedirectURL string                       `json:"redirect_url"`
	Link        *models.ProductAffiliateLink `json:"link"`
}

// AgentInput carries the writable affiliate agent fields.
type AgentInput struct {
	Name     string
	Phone    string
	Email    *string
	UserID   *uuid.UUID
	IsActive *bool
}

// LinkInput carries the writable affiliate link fields.
type LinkInput struct {
	ProductID  uuid.UUID
	AgentCode  string
	AssignedTo string
	Slug       string
	IsActive   *bool
}

type attributionPayload struct {
	AgentCode string `json:"agent_code"`
	Slug      string `json:"slug"`
}

// ResolveSlug loads an active link for the slug, credits the click in the
// background and records an attribution touch against the session. A missing
// or deactivated slug resolves to nothing: no increment, no redirect.
func (s *service) ResolveSlug(ctx context.Context, slug, sessionID string) (*ResolveResult, error) {
	normalized := strings.ToLower(strings.TrimSpace(slug))
	if normalized == "" {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "affiliate link not found")
	}

	link, err := s.repo.FindLinkBySlug(ctx, normalized)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "affiliate link not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load affiliate link")
	}
	if !link.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "affiliate link not found")
	}

	go s.incrementClicks(normalized)

	if sessionID != "" {
		productName := ""
		if link.Product != nil {
			productName = link.Product.Name
		}
		productID := link.ProductID
		if _, err := s.repo.CreateReferral(ctx, &models.Referral{
			AgentCode:   link.AgentCode,
			Slug:        link.Slug,
			ProductID:   &productID,
			ProductName: productName,
			SessionID:   sessionID,
		}); err != nil {
			s.logg.Warn(ctx, "affiliates: recording referral failed")
		}
		if err := s.storeAttribution(ctx, sessionID, link); err != nil {
			s.logg.Warn(ctx, "affiliates: storing attribution failed")
		}
	}

	return &ResolveResult{
		RedirectURL: s.site.ShopProductURL(link.ProductID.String()),
		Link:        link,
	}, nil
}

// incrementClicks runs detached from the request so a slow write never
// delays the redirect.
func (s *service) incrementClicks(slug string) {
	ctx, cancel := context.WithTimeout(context.Background(), clickIncrementTimeout)
	defer cancel()
	if err := s.repo.IncrementLinkClicks(ctx, slug); err != nil {
		s.logg.Warn(ctx, "affiliates: click increment failed")
	}
}

func (s *service) storeAttribution(ctx context.Context, sessionID string, link *models.ProductAffiliateLink) error {
	payload, err := json.Marshal(attributionPayload{AgentCode: link.AgentCode, Slug: link.Slug})
	if err != nil {
		return err
	}
	return s.attribution.Set(ctx, s.attribution.AttributionKey(sessionID), payload, s.ttl)
}

func (s *service) AgentCodeForSession(ctx context.Context, sessionID string) (*string, error) {
	if sessionID == "" {
		return nil, nil
	}
	raw, err := s.attribution.Get(ctx, s.attribution.AttributionKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var payload attributionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, err
	}
	if payload.AgentCode == "" {
		return nil, nil
	}
	return &payload.AgentCode, nil
}

func (s *service) LinkOrder(ctx context.Context, sessionID string, orderID uuid.UUID) error {
	if sessionID == "" || orderID == uuid.Nil {
		return nil
	}
	return s.repo.AttachOrderToSessionReferrals(ctx, sessionID, orderID)
}

func (s *service) ListAgents(ctx context.Context) ([]models.Affiliate, error) {
	agents, err := s.repo.ListAffiliates(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list affiliates")
	}
	return agents, nil
}

func (s *service) GetAgent(ctx context.Context, id uuid.UUID) (*models.Affiliate, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "affiliate id required")
	}
	agent, err := s.repo.FindAffiliateByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "affiliate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load affiliate")
	}
	return agent, nil
}

func (s *service) CreateAgent(ctx context.Context, input AgentInput) (*models.Affiliate, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent name required")
	}
	phone := strings.TrimSpace(input.Phone)
	if phone == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent phone required")
	}

	agentCode, err := s.repo.NextAgentCode(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "generate agent code")
	}

	agent := &models.Affiliate{
		UserID:    input.UserID,
		Name:      name,
		Phone:     phone,
		Email:     input.Email,
		AgentCode: agentCode,
		IsActive:  true,
	}
	if input.IsActive != nil {
		agent.IsActive = *input.IsActive
	}

	created, err := s.repo.CreateAffiliate(ctx, agent)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create affiliate")
	}
	return created, nil
}

func (s *service) UpdateAgent(ctx context.Context, id uuid.UUID, input AgentInput) (*models.Affiliate, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "affiliate id required")
	}
	if _, err := s.repo.FindAffiliateByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "affiliate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load affiliate")
	}

	updates := map[string]any{}
	if name := strings.TrimSpace(input.Name); name != "" {
		updates["name"] = name
	}
	if phone := strings.TrimSpace(input.Phone); phone != "" {
		updates["phone"] = phone
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.UserID != nil {
		updates["user_id"] = *input.UserID
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateAffiliate(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update affiliate")
		}
	}
	agent, err := s.repo.FindAffiliateByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload affiliate")
	}
	return agent, nil
}

func (s *service) AgentStats(ctx context.Context, agentCode string) (*AgentStats, error) {
	code := strings.ToUpper(strings.TrimSpace(agentCode))
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent code required")
	}
	if _, err := s.repo.FindAffiliateByAgentCode(ctx, code); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "affiliate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load affiliate")
	}

	stats, err := s.repo.StatsByAgentCode(ctx, code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate agent stats")
	}
	return stats, nil
}

func (s *service) ListLinks(ctx context.Context, filters LinkFilters) ([]models.ProductAffiliateLink, error) {
	links, err := s.repo.ListLinks(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list affiliate links")
	}
	return links, nil
}

func (s *service) CreateLink(ctx context.Context, input LinkInput) (*models.ProductAffiliateLink, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	agentCode := strings.ToUpper(strings.TrimSpace(input.AgentCode))
	if agentCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent code required")
	}
	if _, err := s.repo.FindAffiliateByAgentCode(ctx, agentCode); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent code does not exist")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check agent code")
	}

	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if slug == "" {
		slug = newSlug()
	}

	link := &models.ProductAffiliateLink{
		ProductID:  input.ProductID,
		Slug:       slug,
		AgentCode:  agentCode,
		AssignedTo: strings.TrimSpace(input.AssignedTo),
		IsActive:   true,
	}
	if input.IsActive != nil {
		link.IsActive = *input.IsActive
	}

	created, err := s.repo.CreateLink(ctx, link)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create affiliate link")
	}
	return created, nil
}

func (s *service) UpdateLink(ctx context.Context, id uuid.UUID, input LinkInput) (*models.ProductAffiliateLink, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "link id required")
	}
	if _, err := s.repo.FindLinkByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "affiliate link not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load affiliate link")
	}

	updates := map[string]any{}
	if input.ProductID != uuid.Nil {
		updates["product_id"] = input.ProductID
	}
	if agentCode := strings.ToUpper(strings.TrimSpace(input.AgentCode)); agentCode != "" {
		if _, err := s.repo.FindAffiliateByAgentCode(ctx, agentCode); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeValidation, "agent code does not exist")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check agent code")
		}
		updates["agent_code"] = agentCode
	}
	if assignedTo := strings.TrimSpace(input.AssignedTo); assignedTo != "" {
		updates["assigned_to"] = assignedTo
	}
	if slug := strings.ToLower(strings.TrimSpace(input.Slug)); slug != "" {
		updates["slug"] = slug
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateLink(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update affiliate link")
		}
	}
	link, err := s.repo.FindLinkByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload affiliate link")
	}
	return link, nil
}

func (s *service) DeleteLink(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "link id required")
	}
	if err := s.repo.DeleteLink(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete affiliate link")
	}
	return nil
}

func (s *service) ListReferrals(ctx context.Context, agentCode *string) ([]models.Referral, error) {
	referrals, err := s.repo.ListReferrals(ctx, agentCode)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list referrals")
	}
	return referrals, nil
}

// newSlug returns a short random slug for links created without one.
func newSlug() string {
	return strings.Split(uuid.NewString(), "-")[0]
}

package affiliates

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
)

// LinkFilters narrows affiliate link listings.
type LinkFilters struct {
	AgentCode  *string
	ActiveOnly bool
}

// AgentStats aggregates an agent's link and referral performance.
type AgentStats struct {
	AgentCode      string `json:"agent_code"`
	LinkCount      int64  `json:"link_count"`
	TotalClicks    int64  `json:"total_clicks"`
	ReferralCount  int64  `json:"referral_count"`
	ConvertedCount int64  `json:"converted_count"`
}

// Repository defines persistence operations for agents, links and referrals.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	ListAffiliates(ctx context.Context) ([]models.Affiliate, error)
	FindAffiliateByID(ctx context.Context, id uuid.UUID) (*models.Affiliate, error)
	FindAffiliateByAgentCode(ctx context.Context, agentCode string) (*models.Affiliate, error)
	FindAffiliateByUserID(ctx context.Context, userID uuid.UUID) (*models.Affiliate, error)
	CreateAffiliate(ctx context.Context, affiliate *models.Affiliate) (*models.Affiliate, error)
	UpdateAffiliate(ctx context.Context, id uuid.UUID, updates map[string]any) error

	// NextAgentCode advances the counter row and returns the formatted
	// AGT-#### code. Runs inside its own transaction.
	NextAgentCode(ctx context.Context) (string, error)

	ListLinks(ctx context.Context, filters LinkFilters) ([]models.ProductAffiliateLink, error)
	FindLinkByID(ctx context.Context, id uuid.UUID) (*models.ProductAffiliateLink, error)
	FindLinkBySlug(ctx context.Context, slug string) (*models.ProductAffiliateLink, error)
	CreateLink(ctx context.Context, link *models.ProductAffiliateLink) (*models.ProductAffiliateLink, error)
	UpdateLink(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteLink(ctx context.Context, id uuid.UUID) error
	IncrementLinkClicks(ctx context.Context, slug string) error

	CreateReferral(ctx context.Context, referral *models.Referral) (*models.Referral, error)
	ListReferrals(ctx context.Context, agentCode *string) ([]models.Referral, error)
	AttachOrderToSessionReferrals(ctx context.Context, sessionID string, orderID uuid.UUID) error
	StatsByAgentCode(ctx context.Context, agentCode string) (*AgentStats, error)
}

package affiliates

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an affiliates repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListAffiliates(ctx context.Context) ([]models.Affiliate, error) {
	var affiliates []models.Affiliate
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&affiliates).Error
	if err != nil {
		return nil, err
	}
	return affiliates, nil
}

func (r *repository) FindAffiliateByID(ctx context.Context, id uuid.UUID) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&affiliate).Error
	if err != nil {
		return nil, err
	}
	return &affiliate, nil
}

func (r *repository) FindAffiliateByAgentCode(ctx context.Context, agentCode string) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := r.db.WithContext(ctx).
		Where("agent_code = ?", strings.ToUpper(strings.TrimSpace(agentCode))).
		First(&affiliate).Error
	if err != nil {
		return nil, err
	}
	return &affiliate, nil
}

func (r *repository) FindAffiliateByUserID(ctx context.Context, userID uuid.UUID) (*models.Affiliate, error) {
	var affiliate models.Affiliate
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&affiliate).Error
	if err != nil {
		return nil, err
	}
	return &affiliate, nil
}

func (r *repository) CreateAffiliate(ctx context.Context, affiliate *models.Affiliate) (*models.Affiliate, error) {
	if err := r.db.WithContext(ctx).Create(affiliate).Error; err != nil {
		return nil, err
	}
	return affiliate, nil
}

func (r *repository) UpdateAffiliate(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Affiliate{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// NextAgentCode claims the next counter value. The increment and the read
// run in one transaction so two concurrent creations never share a code.
func (r *repository) NextAgentCode(ctx context.Context) (string, error) {
	var value int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Exec(`UPDATE agent_code_counter SET last_value = last_value + 1 WHERE id = 1`)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("agent code counter row missing")
		}
		return tx.Raw(`SELECT last_value FROM agent_code_counter WHERE id = 1`).Scan(&value).Error
	})
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("AGT-%04d", value), nil
}

func (r *repository) ListLinks(ctx context.Context, filters LinkFilters) ([]models.ProductAffiliateLink, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductAffiliateLink{}).Preload("Product")
	if filters.AgentCode != nil {
		query = query.Where("agent_code = ?", *filters.AgentCode)
	}
	if filters.ActiveOnly {
		query = query.Where("is_active = ?", true)
	}

	var links []models.ProductAffiliateLink
	if err := query.Order("created_at DESC").Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}

func (r *repository) FindLinkByID(ctx context.Context, id uuid.UUID) (*models.ProductAffiliateLink, error) {
	var link models.ProductAffiliateLink
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("id = ?", id).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *repository) FindLinkBySlug(ctx context.Context, slug string) (*models.ProductAffiliateLink, error) {
	var link models.ProductAffiliateLink
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).
		First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *repository) CreateLink(ctx context.Context, link *models.ProductAffiliateLink) (*models.ProductAffiliateLink, error) {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

func (r *repository) UpdateLink(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.ProductAffiliateLink{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteLink(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.ProductAffiliateLink{}).Error
}

func (r *repository) IncrementLinkClicks(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE product_affiliate_links
		SET click_count = click_count + 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE slug = ?
	`, strings.ToLower(strings.TrimSpace(slug))).Error
}

func (r *repository) CreateReferral(ctx context.Context, referral *models.Referral) (*models.Referral, error) {
	if err := r.db.WithContext(ctx).Create(referral).Error; err != nil {
		return nil, err
	}
	return referral, nil
}

func (r *repository) ListReferrals(ctx context.Context, agentCode *string) ([]models.Referral, error) {
	query := r.db.WithContext(ctx).Model(&models.Referral{})
	if agentCode != nil {
		query = query.Where("agent_code = ?", *agentCode)
	}

	var referrals []models.Referral
	if err := query.Order("created_at DESC").Find(&referrals).Error; err != nil {
		return nil, err
	}
	return referrals, nil
}

func (r *repository) AttachOrderToSessionReferrals(ctx context.Context, sessionID string, orderID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Referral{}).
		Where("session_id = ? AND order_id IS NULL", sessionID).
		Update("order_id", orderID).Error
}

func (r *repository) StatsByAgentCode(ctx context.Context, agentCode string) (*AgentStats, error) {
	stats := &AgentStats{AgentCode: agentCode}

	err := r.db.WithContext(ctx).
		Model(&models.ProductAffiliateLink{}).
		Where("agent_code = ?", agentCode).
		Count(&stats.LinkCount).Error
	if err != nil {
		return nil, err
	}

	var clicks *int64
	err = r.db.WithContext(ctx).
		Model(&models.ProductAffiliateLink{}).
		Select("SUM(click_count)").
		Where("agent_code = ?", agentCode).
		Scan(&clicks).Error
	if err != nil {
		return nil, err
	}
	if clicks != nil {
		stats.TotalClicks = *clicks
	}

	err = r.db.WithContext(ctx).
		Model(&models.Referral{}).
		Where("agent_code = ?", agentCode).
		Count(&stats.ReferralCount).Error
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).
		Model(&models.Referral{}).
		Where("agent_code = ? AND order_id IS NOT NULL", agentCode).
		Count(&stats.ConvertedCount).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}

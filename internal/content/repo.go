package content

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jkimanzi/dukahub-backend/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a site content repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context) ([]models.SiteContent, error) {
	var blocks []models.SiteContent
	err := r.db.WithContext(ctx).
		Order("key ASC").
		Find(&blocks).Error
	if err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *repository) FindByKey(ctx context.Context, key string) (*models.SiteContent, error) {
	var block models.SiteContent
	err := r.db.WithContext(ctx).
		Where("key = ?", normalizeKey(key)).
		First(&block).Error
	if err != nil {
		return nil, err
	}
	return &block, nil
}

// Upsert writes the block by key so editing and first creation share one
// code path.
func (r *repository) Upsert(ctx context.Context, block *models.SiteContent) (*models.SiteContent, error) {
	block.Key = normalizeKey(block.Key)
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "body_html", "updated_by", "updated_at"}),
		}).
		Create(block).Error
	if err != nil {
		return nil, err
	}
	return r.FindByKey(ctx, block.Key)
}

func (r *repository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).
		Where("key = ?", normalizeKey(key)).
		Delete(&models.SiteContent{}).Error
}

func normalizeKey(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

package persistence

import (
	"context"

	"github.com/finlens/backend/internal/domain/ledger"
	"github.com/finlens/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTrialBalanceRepository implements ledger.TrialBalanceRepository using GORM
type GormTrialBalanceRepository struct {
	db *gorm.DB
}

// NewGormTrialBalanceRepository creates a new trial balance repository
func NewGormTrialBalanceRepository(db *gorm.DB) *GormTrialBalanceRepository {
	return &GormTrialBalanceRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormTrialBalanceRepository) WithTx(tx *gorm.DB) *GormTrialBalanceRepository {
	return &GormTrialBalanceRepository{db: tx}
}

// DeleteByPeriod removes all entries of one entity and period
func (r *GormTrialBalanceRepository) DeleteByPeriod(ctx context.Context, companyID, entityID uuid.UUID, period string) error {
	return r.db.WithContext(ctx).
		Where("company_id = ? AND entity_id = ? AND period = ?", companyID, entityID, period).
		Delete(&models.TrialBalanceEntryModel{}).Error
}

// CreateBatch inserts entries in a single transaction so a partial import
// never becomes visible
func (r *GormTrialBalanceRepository) CreateBatch(ctx context.Context, entries []*ledger.TrialBalanceEntry) error {
	if len(entries) == 0 {
		return nil
	}

	entryModels := make([]models.TrialBalanceEntryModel, len(entries))
	for i, entry := range entries {
		entryModels[i].FromDomain(entry)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(entryModels, 500).Error
	})
}

// FindByPeriod retrieves all entries of one entity and period ordered by
// account code
func (r *GormTrialBalanceRepository) FindByPeriod(ctx context.Context, companyID, entityID uuid.UUID, period string) ([]*ledger.TrialBalanceEntry, error) {
	var entryModels []models.TrialBalanceEntryModel
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND entity_id = ? AND period = ?", companyID, entityID, period).
		Order("account_code ASC").
		Find(&entryModels).Error
	if err != nil {
		return nil, err
	}

	entries := make([]*ledger.TrialBalanceEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = entryModels[i].ToDomain()
	}
	return entries, nil
}

// Ensure GormTrialBalanceRepository implements ledger.TrialBalanceRepository
var _ ledger.TrialBalanceRepository = (*GormTrialBalanceRepository)(nil)

package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/finlens/backend/internal/domain/ledger"
	"github.com/finlens/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormExchangeRateRepository implements ledger.ExchangeRateRepository using GORM
type GormExchangeRateRepository struct {
	db *gorm.DB
}

// NewGormExchangeRateRepository creates a new exchange rate repository
func NewGormExchangeRateRepository(db *gorm.DB) *GormExchangeRateRepository {
	return &GormExchangeRateRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormExchangeRateRepository) WithTx(tx *gorm.DB) *GormExchangeRateRepository {
	return &GormExchangeRateRepository{db: tx}
}

// Upsert inserts the rate or refreshes the row matching its natural key
// (company, from, to, date, type). Reports whether a new row was created.
func (r *GormExchangeRateRepository) Upsert(ctx context.Context, rate *ledger.ExchangeRate) (bool, error) {
	// Dates are compared at day granularity
	rateDate := rate.RateDate.Truncate(24 * time.Hour)

	created := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.ExchangeRateModel
		err := tx.Where(
			"company_id = ? AND from_currency = ? AND to_currency = ? AND rate_date = ? AND rate_type = ?",
			rate.CompanyID, rate.FromCurrency, rate.ToCurrency, rateDate, rate.RateType,
		).First(&existing).Error

		if errors.Is(err, gorm.ErrRecordNotFound) {
			model := &models.ExchangeRateModel{}
			model.FromDomain(rate)
			model.RateDate = rateDate
			created = true
			return tx.Create(model).Error
		}
		if err != nil {
			return err
		}

		return tx.Model(&existing).Updates(map[string]any{
			"rate":   rate.Rate,
			"source": rate.Source,
		}).Error
	})
	return created, err
}

// FindByCompany retrieves the most recent rates of a company
func (r *GormExchangeRateRepository) FindByCompany(ctx context.Context, companyID uuid.UUID, limit int) ([]*ledger.ExchangeRate, error) {
	if limit <= 0 {
		limit = 100
	}

	var rateModels []models.ExchangeRateModel
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("rate_date DESC, from_currency ASC, to_currency ASC").
		Limit(limit).
		Find(&rateModels).Error
	if err != nil {
		return nil, err
	}

	rates := make([]*ledger.ExchangeRate, len(rateModels))
	for i := range rateModels {
		rates[i] = rateModels[i].ToDomain()
	}
	return rates, nil
}

// Ensure GormExchangeRateRepository implements ledger.ExchangeRateRepository
var _ ledger.ExchangeRateRepository = (*GormExchangeRateRepository)(nil)

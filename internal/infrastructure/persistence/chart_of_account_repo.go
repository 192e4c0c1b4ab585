package persistence

import (
	"context"
	"errors"

	"github.com/finlens/backend/internal/domain/ledger"
	"github.com/finlens/backend/internal/domain/shared"
	"github.com/finlens/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormChartOfAccountRepository implements ledger.ChartOfAccountRepository using GORM
type GormChartOfAccountRepository struct {
	db *gorm.DB
}

// NewGormChartOfAccountRepository creates a new chart of accounts repository
func NewGormChartOfAccountRepository(db *gorm.DB) *GormChartOfAccountRepository {
	return &GormChartOfAccountRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormChartOfAccountRepository) WithTx(tx *gorm.DB) *GormChartOfAccountRepository {
	return &GormChartOfAccountRepository{db: tx}
}

// Create persists a new account
func (r *GormChartOfAccountRepository) Create(ctx context.Context, account *ledger.ChartOfAccount) error {
	model := &models.ChartOfAccountModel{}
	model.FromDomain(account)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing account
func (r *GormChartOfAccountRepository) Update(ctx context.Context, account *ledger.ChartOfAccount) error {
	model := &models.ChartOfAccountModel{}
	model.FromDomain(account)

	// Select forces zero-valued fields like is_active=false to be written
	result := r.db.WithContext(ctx).
		Model(&models.ChartOfAccountModel{}).
		Where("id = ? AND company_id = ?", account.ID, account.CompanyID).
		Select("account_name", "class_name", "subclass_name", "gl_code", "gl_name",
			"description", "entity_id", "is_active", "external_id", "external_account_type").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByCode retrieves an account by its natural key (company, account code)
func (r *GormChartOfAccountRepository) FindByCode(ctx context.Context, companyID uuid.UUID, accountCode string) (*ledger.ChartOfAccount, error) {
	var model models.ChartOfAccountModel
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND account_code = ?", companyID, accountCode).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCompany retrieves all accounts of a company ordered by account code
func (r *GormChartOfAccountRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]*ledger.ChartOfAccount, error) {
	var accountModels []models.ChartOfAccountModel
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("account_code ASC").
		Find(&accountModels).Error
	if err != nil {
		return nil, err
	}

	accounts := make([]*ledger.ChartOfAccount, len(accountModels))
	for i := range accountModels {
		accounts[i] = accountModels[i].ToDomain()
	}
	return accounts, nil
}

// Ensure GormChartOfAccountRepository implements ledger.ChartOfAccountRepository
var _ ledger.ChartOfAccountRepository = (*GormChartOfAccountRepository)(nil)

package persistence

import (
	"context"
	"errors"

	"github.com/finlens/backend/internal/domain/erpsync"
	"github.com/finlens/backend/internal/domain/shared"
	"github.com/finlens/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormIntegrationRepository implements erpsync.IntegrationRepository using GORM
type GormIntegrationRepository struct {
	db *gorm.DB
}

// NewGormIntegrationRepository creates a new integration repository
func NewGormIntegrationRepository(db *gorm.DB) *GormIntegrationRepository {
	return &GormIntegrationRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormIntegrationRepository) WithTx(tx *gorm.DB) *GormIntegrationRepository {
	return &GormIntegrationRepository{db: tx}
}

// Create persists a new integration
func (r *GormIntegrationRepository) Create(ctx context.Context, integration *erpsync.Integration) error {
	model := &models.IntegrationModel{}
	model.FromDomain(integration)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing integration
func (r *GormIntegrationRepository) Update(ctx context.Context, integration *erpsync.Integration) error {
	model := &models.IntegrationModel{}
	model.FromDomain(integration)

	result := r.db.WithContext(ctx).
		Model(&models.IntegrationModel{}).
		Where("id = ? AND company_id = ?", integration.ID, integration.CompanyID).
		Select("name", "credentials", "entity_mapping", "sync_entities",
			"sync_chart_of_accounts", "sync_trial_balance", "sync_exchange_rates",
			"auto_create_entities", "is_active").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID retrieves an integration by ID within a company scope
func (r *GormIntegrationRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*erpsync.Integration, error) {
	var model models.IntegrationModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", id, companyID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCompany retrieves all integrations of a company
func (r *GormIntegrationRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]*erpsync.Integration, error) {
	var integrationModels []models.IntegrationModel
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("created_at ASC").
		Find(&integrationModels).Error
	if err != nil {
		return nil, err
	}

	integrations := make([]*erpsync.Integration, len(integrationModels))
	for i := range integrationModels {
		integrations[i] = integrationModels[i].ToDomain()
	}
	return integrations, nil
}

// Ensure GormIntegrationRepository implements erpsync.IntegrationRepository
var _ erpsync.IntegrationRepository = (*GormIntegrationRepository)(nil)

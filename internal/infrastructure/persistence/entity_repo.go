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

// GormEntityRepository implements ledger.EntityRepository using GORM
type GormEntityRepository struct {
	db *gorm.DB
}

// NewGormEntityRepository creates a new entity repository
func NewGormEntityRepository(db *gorm.DB) *GormEntityRepository {
	return &GormEntityRepository{db: db}
}

// WithTx returns a repository bound to the given transaction
func (r *GormEntityRepository) WithTx(tx *gorm.DB) *GormEntityRepository {
	return &GormEntityRepository{db: tx}
}

// Create persists a new entity
func (r *GormEntityRepository) Create(ctx context.Context, entity *ledger.Entity) error {
	model := &models.EntityModel{}
	model.FromDomain(entity)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists changes to an existing entity
func (r *GormEntityRepository) Update(ctx context.Context, entity *ledger.Entity) error {
	model := &models.EntityModel{}
	model.FromDomain(entity)

	result := r.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", entity.ID, entity.CompanyID).
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID retrieves an entity by ID within a company scope
func (r *GormEntityRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*ledger.Entity, error) {
	var model models.EntityModel
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

// FindByCompany retrieves all entities of a company ordered by name
func (r *GormEntityRepository) FindByCompany(ctx context.Context, companyID uuid.UUID) ([]*ledger.Entity, error) {
	var entityModels []models.EntityModel
	err := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("name ASC").
		Find(&entityModels).Error
	if err != nil {
		return nil, err
	}

	entities := make([]*ledger.Entity, len(entityModels))
	for i := range entityModels {
		entities[i] = entityModels[i].ToDomain()
	}
	return entities, nil
}

// Ensure GormEntityRepository implements ledger.EntityRepository
var _ ledger.EntityRepository = (*GormEntityRepository)(nil)

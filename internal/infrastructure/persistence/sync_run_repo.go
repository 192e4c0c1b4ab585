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

// GormSyncRunRepository implements erpsync.SyncRunRepository using GORM
type GormSyncRunRepository struct {
	db *gorm.DB
}

// NewGormSyncRunRepository creates a new sync run repository
func NewGormSyncRunRepository(db *gorm.DB) *GormSyncRunRepository {
	return &GormSyncRunRepository{db: db}
}

// Create persists a new sync run
func (r *GormSyncRunRepository) Create(ctx context.Context, run *erpsync.SyncRun) error {
	model := &models.SyncRunModel{}
	model.FromDomain(run)
	return r.db.WithContext(ctx).Create(model).Error
}

// Update persists the final state of a sync run
func (r *GormSyncRunRepository) Update(ctx context.Context, run *erpsync.SyncRun) error {
	model := &models.SyncRunModel{}
	model.FromDomain(run)

	result := r.db.WithContext(ctx).
		Model(&models.SyncRunModel{}).
		Where("id = ? AND company_id = ?", run.ID, run.CompanyID).
		Select("status", "completed_at", "records_fetched", "records_imported",
			"records_failed", "summary", "error_message").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindByID retrieves a sync run by ID within a company scope
func (r *GormSyncRunRepository) FindByID(ctx context.Context, companyID, id uuid.UUID) (*erpsync.SyncRun, error) {
	var model models.SyncRunModel
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

// FindByIntegration retrieves the most recent runs of an integration
func (r *GormSyncRunRepository) FindByIntegration(ctx context.Context, companyID, integrationID uuid.UUID, limit int) ([]*erpsync.SyncRun, error) {
	if limit <= 0 {
		limit = 20
	}

	var runModels []models.SyncRunModel
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND integration_id = ?", companyID, integrationID).
		Order("started_at DESC").
		Limit(limit).
		Find(&runModels).Error
	if err != nil {
		return nil, err
	}

	runs := make([]*erpsync.SyncRun, len(runModels))
	for i := range runModels {
		runs[i] = runModels[i].ToDomain()
	}
	return runs, nil
}

// Ensure GormSyncRunRepository implements erpsync.SyncRunRepository
var _ erpsync.SyncRunRepository = (*GormSyncRunRepository)(nil)

// GormSyncLogRepository implements erpsync.SyncLogRepository using GORM
type GormSyncLogRepository struct {
	db *gorm.DB
}

// NewGormSyncLogRepository creates a new sync log repository
func NewGormSyncLogRepository(db *gorm.DB) *GormSyncLogRepository {
	return &GormSyncLogRepository{db: db}
}

// CreateBatch inserts all log entries of a run
func (r *GormSyncLogRepository) CreateBatch(ctx context.Context, entries []erpsync.SyncLogEntry) error {
	if len(entries) == 0 {
		return nil
	}

	logModels := make([]models.SyncLogModel, len(entries))
	for i, entry := range entries {
		logModels[i].FromDomain(entry)
	}
	return r.db.WithContext(ctx).CreateInBatches(logModels, 500).Error
}

// FindByRun retrieves the log entries of a run in insertion order
func (r *GormSyncLogRepository) FindByRun(ctx context.Context, companyID, runID uuid.UUID) ([]erpsync.SyncLogEntry, error) {
	var logModels []models.SyncLogModel
	err := r.db.WithContext(ctx).
		Where("company_id = ? AND run_id = ?", companyID, runID).
		Order("created_at ASC").
		Find(&logModels).Error
	if err != nil {
		return nil, err
	}

	entries := make([]erpsync.SyncLogEntry, len(logModels))
	for i := range logModels {
		entries[i] = logModels[i].ToDomain()
	}
	return entries, nil
}

// Ensure GormSyncLogRepository implements erpsync.SyncLogRepository
var _ erpsync.SyncLogRepository = (*GormSyncLogRepository)(nil)

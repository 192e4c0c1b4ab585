package erpsync

import (
	"context"

	"github.com/finlens/backend/internal/domain/erpsync"
	"github.com/finlens/backend/internal/domain/ledger"
	"github.com/finlens/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IntegrationService manages the lifecycle of ERP integrations: creation,
// per-domain toggles and the subsidiary-to-entity mapping used by sync runs.
type IntegrationService struct {
	integrations erpsync.IntegrationRepository
	entities     ledger.EntityRepository
	logger       *zap.Logger
}

// NewIntegrationService creates an integration service.
func NewIntegrationService(integrations erpsync.IntegrationRepository, entities ledger.EntityRepository, log *zap.Logger) *IntegrationService {
	if log == nil {
		log = zap.NewNop()
	}
	return &IntegrationService{
		integrations: integrations,
		entities:     entities,
		logger:       log.Named("erpsync.integration"),
	}
}

// CreateIntegrationInput carries the fields needed to register an integration.
type CreateIntegrationInput struct {
	Provider    erpsync.Provider
	Name        string
	Credentials erpsync.Credentials
}

// CreateIntegration registers a new integration for a company. Credentials
// are validated up front so a misconfigured connection never reaches storage.
func (s *IntegrationService) CreateIntegration(ctx context.Context, companyID uuid.UUID, input CreateIntegrationInput) (*erpsync.Integration, error) {
	if !input.Provider.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "unsupported provider")
	}
	if input.Name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "integration name is required")
	}

	integration, err := erpsync.NewIntegration(companyID, input.Provider, input.Name, input.Credentials)
	if err != nil {
		return nil, err
	}

	if err := s.integrations.Create(ctx, integration); err != nil {
		return nil, err
	}

	s.logger.Info("integration created",
		zap.String("integration_id", integration.ID.String()),
		zap.String("company_id", companyID.String()),
		zap.String("provider", string(input.Provider)),
	)
	return integration, nil
}

// GetIntegration retrieves a single integration within a company scope.
func (s *IntegrationService) GetIntegration(ctx context.Context, companyID, integrationID uuid.UUID) (*erpsync.Integration, error) {
	return s.integrations.FindByID(ctx, companyID, integrationID)
}

// ListIntegrations retrieves all integrations of a company.
func (s *IntegrationService) ListIntegrations(ctx context.Context, companyID uuid.UUID) ([]*erpsync.Integration, error) {
	return s.integrations.FindByCompany(ctx, companyID)
}

// MapEntity binds a remote subsidiary to a local entity. The entity must
// exist in the same company before the mapping is accepted.
func (s *IntegrationService) MapEntity(ctx context.Context, companyID, integrationID uuid.UUID, subsidiaryID string, entityID uuid.UUID) (*erpsync.Integration, error) {
	if subsidiaryID == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "subsidiary id is required")
	}

	integration, err := s.integrations.FindByID(ctx, companyID, integrationID)
	if err != nil {
		return nil, err
	}

	if _, err := s.entities.FindByID(ctx, companyID, entityID); err != nil {
		return nil, err
	}

	integration.MapEntity(subsidiaryID, entityID)
	if err := s.integrations.Update(ctx, integration); err != nil {
		return nil, err
	}

	s.logger.Info("subsidiary mapped",
		zap.String("integration_id", integrationID.String()),
		zap.String("subsidiary_id", subsidiaryID),
		zap.String("entity_id", entityID.String()),
	)
	return integration, nil
}

// UnmapEntity removes a subsidiary mapping.
func (s *IntegrationService) UnmapEntity(ctx context.Context, companyID, integrationID uuid.UUID, subsidiaryID string) (*erpsync.Integration, error) {
	integration, err := s.integrations.FindByID(ctx, companyID, integrationID)
	if err != nil {
		return nil, err
	}

	integration.UnmapEntity(subsidiaryID)
	if err := s.integrations.Update(ctx, integration); err != nil {
		return nil, err
	}
	return integration, nil
}

// SetActive enables or disables an integration. Disabled integrations
// reject sync runs.
func (s *IntegrationService) SetActive(ctx context.Context, companyID, integrationID uuid.UUID, active bool) (*erpsync.Integration, error) {
	integration, err := s.integrations.FindByID(ctx, companyID, integrationID)
	if err != nil {
		return nil, err
	}

	integration.Active = active
	if err := s.integrations.Update(ctx, integration); err != nil {
		return nil, err
	}
	return integration, nil
}

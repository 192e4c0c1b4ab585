package erpsync

import (
	"context"
	"time"

	"github.com/finlens/backend/internal/domain/erpsync"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConnectionService answers connectivity probes and period lookups without
// starting a sync run.
type ConnectionService struct {
	integrations erpsync.IntegrationRepository
	connectors   erpsync.ConnectorFactory
	logger       *zap.Logger
}

// NewConnectionService creates a connection service.
func NewConnectionService(integrations erpsync.IntegrationRepository, connectors erpsync.ConnectorFactory, log *zap.Logger) *ConnectionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ConnectionService{
		integrations: integrations,
		connectors:   connectors,
		logger:       log.Named("erpsync.connection"),
	}
}

// TestCredentials probes the remote system with ad hoc credentials, before
// any integration exists. Failures are results, not errors.
func (s *ConnectionService) TestCredentials(ctx context.Context, creds erpsync.Credentials) erpsync.ConnectionTestResult {
	if err := creds.Validate(); err != nil {
		return erpsync.ConnectionTestResult{
			Success:   false,
			Message:   "invalid credentials",
			AccountID: creds.AccountID,
			Sandbox:   creds.Sandbox,
			CheckedAt: time.Now(),
			Error:     err.Error(),
		}
	}

	connector, err := s.connectors(creds)
	if err != nil {
		return erpsync.ConnectionTestResult{
			Success:   false,
			Message:   "connector setup failed",
			AccountID: creds.AccountID,
			Sandbox:   creds.Sandbox,
			CheckedAt: time.Now(),
			Error:     err.Error(),
		}
	}
	return connector.TestConnection(ctx)
}

// TestIntegration probes the stored credentials of an existing integration.
func (s *ConnectionService) TestIntegration(ctx context.Context, companyID, integrationID uuid.UUID) (erpsync.ConnectionTestResult, error) {
	integration, err := s.integrations.FindByID(ctx, companyID, integrationID)
	if err != nil {
		return erpsync.ConnectionTestResult{}, err
	}
	return s.TestCredentials(ctx, integration.Credentials), nil
}

// ListPeriods fetches the remote accounting periods of an integration.
func (s *ConnectionService) ListPeriods(ctx context.Context, companyID, integrationID uuid.UUID) ([]erpsync.AccountingPeriod, error) {
	integration, err := s.integrations.FindByID(ctx, companyID, integrationID)
	if err != nil {
		return nil, err
	}
	connector, err := s.connectors(integration.Credentials)
	if err != nil {
		return nil, err
	}
	return connector.FetchAccountingPeriods(ctx)
}

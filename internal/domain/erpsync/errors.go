package erpsync

import "errors"

// Errors returned by ERP connectors and the sync engine
var (
	// ErrConnectorTimeout indicates the remote ERP did not answer within the
	// configured deadline. Safe to retry.
	ErrConnectorTimeout = errors.New("erpsync: remote request timed out")

	// ErrConnectorAuth indicates the remote ERP rejected the request
	// credentials or signature. Not retryable without reconfiguration.
	ErrConnectorAuth = errors.New("erpsync: remote authentication failed")

	// ErrConnectorRequest covers all other remote request failures.
	ErrConnectorRequest = errors.New("erpsync: remote request failed")

	// ErrInvalidQueryArgument indicates a value destined for query
	// interpolation failed validation and the request was never sent.
	ErrInvalidQueryArgument = errors.New("erpsync: invalid query argument")

	// ErrEntityMappingNotFound indicates a remote subsidiary has no local
	// entity mapped to it. Trial balance sync requires the mapping.
	ErrEntityMappingNotFound = errors.New("erpsync: no entity mapping for subsidiary")

	// ErrIntegrationInactive indicates a sync was requested for a disabled
	// integration.
	ErrIntegrationInactive = errors.New("erpsync: integration is not active")

	// ErrSyncAlreadyRunning indicates another sync run holds the lock for
	// this integration.
	ErrSyncAlreadyRunning = errors.New("erpsync: a sync run is already in progress")
)

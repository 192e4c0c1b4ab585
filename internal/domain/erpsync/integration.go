package erpsync

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Provider identifies the remote ERP system behind an integration.
type Provider string

const (
	ProviderNetSuite Provider = "netsuite"
)

// IsValid checks if the provider is supported
func (p Provider) IsValid() bool {
	return p == ProviderNetSuite
}

// Credential validation errors
var (
	ErrCredentialsMissingAccountID      = errors.New("erpsync: account id is required")
	ErrCredentialsMissingConsumerKey    = errors.New("erpsync: consumer key is required")
	ErrCredentialsMissingConsumerSecret = errors.New("erpsync: consumer secret is required")
	ErrCredentialsMissingTokenID        = errors.New("erpsync: token id is required")
	ErrCredentialsMissingTokenSecret    = errors.New("erpsync: token secret is required")
)

// Credentials holds the token-based credentials for a signed ERP connection.
type Credentials struct {
	// AccountID is the remote account identifier; it also determines the
	// API host for the connection
	AccountID string `json:"account_id"`
	// ConsumerKey identifies the integration record on the remote system
	ConsumerKey string `json:"consumer_key"`
	// ConsumerSecret signs requests together with TokenSecret
	ConsumerSecret string `json:"consumer_secret"`
	// TokenID identifies the access token
	TokenID string `json:"token_id"`
	// TokenSecret signs requests together with ConsumerSecret
	TokenSecret string `json:"token_secret"`
	// Sandbox selects the sandbox realm of the account
	Sandbox bool `json:"sandbox"`
}

// Validate checks that all credential fields required for signing are set.
func (c Credentials) Validate() error {
	if c.AccountID == "" {
		return ErrCredentialsMissingAccountID
	}
	if c.ConsumerKey == "" {
		return ErrCredentialsMissingConsumerKey
	}
	if c.ConsumerSecret == "" {
		return ErrCredentialsMissingConsumerSecret
	}
	if c.TokenID == "" {
		return ErrCredentialsMissingTokenID
	}
	if c.TokenSecret == "" {
		return ErrCredentialsMissingTokenSecret
	}
	return nil
}

// EntityMapping maps remote subsidiary IDs to local entity IDs.
type EntityMapping map[string]uuid.UUID

// EntityFor resolves the local entity mapped to a remote subsidiary.
func (m EntityMapping) EntityFor(subsidiaryID string) (uuid.UUID, bool) {
	id, ok := m[subsidiaryID]
	return id, ok
}

// Integration is the aggregate root for one configured ERP connection of a
// company. It owns the credentials, the subsidiary-to-entity mapping and
// the per-domain sync toggles.
type Integration struct {
	ID        uuid.UUID
	CompanyID uuid.UUID
	Provider  Provider
	Name      string

	Credentials   Credentials
	EntityMapping EntityMapping

	// Per-domain toggles honored by full sync
	SyncEntities        bool
	SyncChartOfAccounts bool
	SyncTrialBalance    bool
	SyncExchangeRates   bool

	// AutoCreateEntities is reserved policy: unmapped subsidiaries are
	// skipped until an administrator maps them, regardless of this flag.
	AutoCreateEntities bool

	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewIntegration creates an active integration with all sync domains enabled.
func NewIntegration(companyID uuid.UUID, provider Provider, name string, creds Credentials) (*Integration, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	now := time.Now()
	return &Integration{
		ID:                  uuid.New(),
		CompanyID:           companyID,
		Provider:            provider,
		Name:                name,
		Credentials:         creds,
		EntityMapping:       EntityMapping{},
		SyncEntities:        true,
		SyncChartOfAccounts: true,
		SyncTrialBalance:    true,
		SyncExchangeRates:   true,
		Active:              true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}, nil
}

// MapEntity records that a remote subsidiary corresponds to a local entity.
func (i *Integration) MapEntity(subsidiaryID string, entityID uuid.UUID) {
	if i.EntityMapping == nil {
		i.EntityMapping = EntityMapping{}
	}
	i.EntityMapping[subsidiaryID] = entityID
	i.UpdatedAt = time.Now()
}

// UnmapEntity removes a subsidiary mapping.
func (i *Integration) UnmapEntity(subsidiaryID string) {
	delete(i.EntityMapping, subsidiaryID)
	i.UpdatedAt = time.Now()
}

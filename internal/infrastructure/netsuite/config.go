// Package netsuite implements the ERP connector port against the NetSuite
// SuiteTalk REST API using token-based authentication and SuiteQL queries.
package netsuite

import (
	"errors"
	"fmt"
	"strings"

	"github.com/finlens/backend/internal/domain/erpsync"
)

// Config holds configuration for a NetSuite connection
type Config struct {
	// AccountID is the NetSuite account identifier, e.g. "1234567" or
	// "1234567_SB1" for a sandbox
	AccountID string
	// ConsumerKey is the integration record's consumer key
	ConsumerKey string
	// ConsumerSecret is the integration record's consumer secret
	ConsumerSecret string
	// TokenID is the access token id
	TokenID string
	// TokenSecret is the access token secret
	TokenSecret string
	// Sandbox indicates a sandbox account realm
	Sandbox bool
	// BaseURL overrides the derived account host (mainly for tests)
	BaseURL string
	// TimeoutSeconds is the HTTP request timeout
	TimeoutSeconds int
}

// Errors for NetSuite configuration
var (
	ErrConfigMissingAccountID      = errors.New("netsuite: account id is required")
	ErrConfigMissingConsumerKey    = errors.New("netsuite: consumer key is required")
	ErrConfigMissingConsumerSecret = errors.New("netsuite: consumer secret is required")
	ErrConfigMissingTokenID        = errors.New("netsuite: token id is required")
	ErrConfigMissingTokenSecret    = errors.New("netsuite: token secret is required")
)

// NewConfig creates a production configuration with defaults
func NewConfig(accountID, consumerKey, consumerSecret, tokenID, tokenSecret string) *Config {
	return &Config{
		AccountID:      accountID,
		ConsumerKey:    consumerKey,
		ConsumerSecret: consumerSecret,
		TokenID:        tokenID,
		TokenSecret:    tokenSecret,
		Sandbox:        false,
		TimeoutSeconds: 30,
	}
}

// NewSandboxConfig creates a configuration for a sandbox account. The first
// sandbox realm is used when the account id carries no sandbox suffix.
func NewSandboxConfig(accountID, consumerKey, consumerSecret, tokenID, tokenSecret string) *Config {
	cfg := NewConfig(accountID, consumerKey, consumerSecret, tokenID, tokenSecret)
	cfg.Sandbox = true
	return cfg
}

// ConfigFromCredentials builds a Config from stored integration credentials.
func ConfigFromCredentials(creds erpsync.Credentials) *Config {
	cfg := NewConfig(creds.AccountID, creds.ConsumerKey, creds.ConsumerSecret, creds.TokenID, creds.TokenSecret)
	cfg.Sandbox = creds.Sandbox
	return cfg
}

// Validate validates the configuration and fills derived defaults.
func (c *Config) Validate() error {
	if c.AccountID == "" {
		return ErrConfigMissingAccountID
	}
	if c.ConsumerKey == "" {
		return ErrConfigMissingConsumerKey
	}
	if c.ConsumerSecret == "" {
		return ErrConfigMissingConsumerSecret
	}
	if c.TokenID == "" {
		return ErrConfigMissingTokenID
	}
	if c.TokenSecret == "" {
		return ErrConfigMissingTokenSecret
	}
	if c.BaseURL == "" {
		c.BaseURL = fmt.Sprintf("https://%s.suitetalk.api.netsuite.com", c.hostAccount())
	}
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 30
	}
	return nil
}

// Realm returns the OAuth realm parameter, the account id in the upper-case
// underscore form NetSuite expects.
func (c *Config) Realm() string {
	return strings.ToUpper(c.hostRealm())
}

// hostAccount converts the account id to its hostname form: lower case with
// underscores replaced by hyphens ("1234567_SB1" becomes "1234567-sb1").
func (c *Config) hostAccount() string {
	account := strings.ToLower(c.hostRealm())
	return strings.ReplaceAll(account, "_", "-")
}

// hostRealm appends the first sandbox suffix when the sandbox flag is set
// on a bare account id.
func (c *Config) hostRealm() string {
	account := c.AccountID
	if c.Sandbox && !strings.Contains(strings.ToUpper(account), "_SB") {
		account += "_SB1"
	}
	return account
}

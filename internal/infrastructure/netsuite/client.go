package netsuite

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/finlens/backend/internal/domain/erpsync"
	"go.uber.org/zap"
)

const (
	suiteQLPath = "/services/rest/query/v1/suiteql"

	// defaultPageSize is the maximum page size SuiteQL accepts
	defaultPageSize = 1000

	// maxResponseSize limits response body reads to prevent memory issues
	maxResponseSize = 10 * 1024 * 1024
)

// Client talks to the SuiteTalk REST query service. It implements the
// erpsync.Connector port together with the fetchers in this package.
type Client struct {
	config     *Config
	httpClient *http.Client
	signer     *oauthSigner
	logger     *zap.Logger
}

// NewClient creates a SuiteTalk client. The configuration is validated and
// the request timeout applied to the underlying HTTP client.
func NewClient(cfg *Config, log *zap.Logger) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		signer: newOAuthSigner(cfg),
		logger: log.Named("netsuite"),
	}, nil
}

// NewConnector builds a Client from integration credentials. It satisfies
// erpsync.ConnectorFactory when partially applied with a logger.
func NewConnector(log *zap.Logger) erpsync.ConnectorFactory {
	return func(creds erpsync.Credentials) (erpsync.Connector, error) {
		return NewClient(ConfigFromCredentials(creds), log)
	}
}

// TestConnection probes the account with a minimal query. Remote failures
// are folded into the result; this method never returns an error.
func (c *Client) TestConnection(ctx context.Context) erpsync.ConnectionTestResult {
	result := erpsync.ConnectionTestResult{
		AccountID: c.config.AccountID,
		Sandbox:   c.config.Sandbox,
		CheckedAt: time.Now(),
	}

	_, err := c.queryPage(ctx, "SELECT id FROM subsidiary", 1, 0)
	if err != nil {
		result.Success = false
		result.Message = "connection failed"
		result.Error = err.Error()
		return result
	}

	result.Success = true
	result.Message = "connection established"
	return result
}

// row is one loosely typed SuiteQL result record. Column names arrive
// lower-cased regardless of the casing used in the query.
type row map[string]any

type suiteQLResponse struct {
	Items        []row `json:"items"`
	Count        int   `json:"count"`
	HasMore      bool  `json:"hasMore"`
	Offset       int   `json:"offset"`
	TotalResults int   `json:"totalResults"`
}

// query runs a SuiteQL statement and follows pagination until the result
// set is exhausted.
func (c *Client) query(ctx context.Context, statement string) ([]row, error) {
	var rows []row
	offset := 0
	for {
		page, err := c.queryPage(ctx, statement, defaultPageSize, offset)
		if err != nil {
			return nil, err
		}
		rows = append(rows, page.Items...)
		if !page.HasMore || len(page.Items) == 0 {
			return rows, nil
		}
		offset += len(page.Items)
	}
}

// queryPage runs a single SuiteQL request with explicit limit and offset.
func (c *Client) queryPage(ctx context.Context, statement string, limit, offset int) (*suiteQLResponse, error) {
	endpoint, err := url.Parse(c.config.BaseURL + suiteQLPath)
	if err != nil {
		return nil, fmt.Errorf("%w: parse endpoint: %v", erpsync.ErrConnectorRequest, err)
	}
	q := endpoint.Query()
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	endpoint.RawQuery = q.Encode()

	body, err := json.Marshal(map[string]string{"q": statement})
	if err != nil {
		return nil, fmt.Errorf("%w: encode query: %v", erpsync.ErrConnectorRequest, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", erpsync.ErrConnectorRequest, err)
	}

	auth, err := c.signer.Authorization(http.MethodPost, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", erpsync.ErrConnectorRequest, err)
	}
	req.Header.Set("Authorization", auth)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "transient")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.normalizeTransportError(ctx, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", erpsync.ErrConnectorRequest, err)
	}

	c.logger.Debug("suiteql request",
		zap.Int("status", resp.StatusCode),
		zap.Int("limit", limit),
		zap.Int("offset", offset),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := remoteErrorDetail(raw)
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return nil, fmt.Errorf("%w: status %d: %s", erpsync.ErrConnectorAuth, resp.StatusCode, detail)
		}
		return nil, fmt.Errorf("%w: status %d: %s", erpsync.ErrConnectorRequest, resp.StatusCode, detail)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var result suiteQLResponse
	if err := decoder.Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", erpsync.ErrConnectorRequest, err)
	}
	return &result, nil
}

// normalizeTransportError maps timeouts onto the retryable timeout sentinel
// and everything else onto the generic request failure.
func (c *Client) normalizeTransportError(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", erpsync.ErrConnectorTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", erpsync.ErrConnectorTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", erpsync.ErrConnectorRequest, context.Canceled)
	}
	return fmt.Errorf("%w: %v", erpsync.ErrConnectorRequest, err)
}

// remoteErrorDetail extracts the human readable detail from a SuiteTalk
// error envelope, falling back to the raw body.
func remoteErrorDetail(raw []byte) string {
	var envelope struct {
		ErrorDetails []struct {
			Detail string `json:"detail"`
		} `json:"o:errorDetails"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && len(envelope.ErrorDetails) > 0 && envelope.ErrorDetails[0].Detail != "" {
		return envelope.ErrorDetails[0].Detail
	}
	if len(raw) > 512 {
		raw = raw[:512]
	}
	return string(raw)
}

// Interface assertion
var _ erpsync.Connector = (*Client)(nil)

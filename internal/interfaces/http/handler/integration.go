package handler

import (
	"context"
	"time"

	erpsyncapp "github.com/finlens/backend/internal/application/erpsync"
	"github.com/finlens/backend/internal/domain/erpsync"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// IntegrationManager manages integration lifecycle operations
type IntegrationManager interface {
	CreateIntegration(ctx context.Context, companyID uuid.UUID, input erpsyncapp.CreateIntegrationInput) (*erpsync.Integration, error)
	GetIntegration(ctx context.Context, companyID, integrationID uuid.UUID) (*erpsync.Integration, error)
	ListIntegrations(ctx context.Context, companyID uuid.UUID) ([]*erpsync.Integration, error)
	MapEntity(ctx context.Context, companyID, integrationID uuid.UUID, subsidiaryID string, entityID uuid.UUID) (*erpsync.Integration, error)
	UnmapEntity(ctx context.Context, companyID, integrationID uuid.UUID, subsidiaryID string) (*erpsync.Integration, error)
	SetActive(ctx context.Context, companyID, integrationID uuid.UUID, active bool) (*erpsync.Integration, error)
}

// ConnectionTester probes remote ERP connectivity
type ConnectionTester interface {
	TestCredentials(ctx context.Context, creds erpsync.Credentials) erpsync.ConnectionTestResult
	TestIntegration(ctx context.Context, companyID, integrationID uuid.UUID) (erpsync.ConnectionTestResult, error)
	ListPeriods(ctx context.Context, companyID, integrationID uuid.UUID) ([]erpsync.AccountingPeriod, error)
}

// SyncRunner executes and inspects sync runs
type SyncRunner interface {
	ExecuteSync(ctx context.Context, companyID, integrationID uuid.UUID, opts erpsyncapp.SyncOptions) (*erpsync.SyncRun, error)
	RunHistory(ctx context.Context, companyID, integrationID uuid.UUID, limit int) ([]*erpsync.SyncRun, error)
	RunLogs(ctx context.Context, companyID, runID uuid.UUID) ([]erpsync.SyncLogEntry, error)
}

// IntegrationHandler handles ERP integration API endpoints
type IntegrationHandler struct {
	BaseHandler
	integrations IntegrationManager
	connections  ConnectionTester
	syncs        SyncRunner
}

// NewIntegrationHandler creates a new IntegrationHandler
func NewIntegrationHandler(integrations IntegrationManager, connections ConnectionTester, syncs SyncRunner) *IntegrationHandler {
	return &IntegrationHandler{
		integrations: integrations,
		connections:  connections,
		syncs:        syncs,
	}
}

// RegisterRoutes registers integration routes on the API group
func (h *IntegrationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	erp := rg.Group("/erp")
	{
		erp.POST("/test-connection", h.TestConnection)

		erp.POST("/integrations", h.CreateIntegration)
		erp.GET("/integrations", h.ListIntegrations)
		erp.GET("/integrations/:id", h.GetIntegration)
		erp.PATCH("/integrations/:id/active", h.SetActive)
		erp.POST("/integrations/:id/test", h.TestIntegration)
		erp.GET("/integrations/:id/periods", h.ListPeriods)
		erp.PUT("/integrations/:id/mappings", h.MapEntity)
		erp.DELETE("/integrations/:id/mappings/:subsidiaryID", h.UnmapEntity)
		erp.POST("/integrations/:id/sync", h.TriggerSync)
		erp.GET("/integrations/:id/runs", h.ListRuns)

		erp.GET("/runs/:id/logs", h.GetRunLogs)
	}
}

// ===================== Request/Response DTOs =====================

// CredentialsRequest carries ERP token credentials
type CredentialsRequest struct {
	AccountID      string `json:"account_id" binding:"required"`
	ConsumerKey    string `json:"consumer_key" binding:"required"`
	ConsumerSecret string `json:"consumer_secret" binding:"required"`
	TokenID        string `json:"token_id" binding:"required"`
	TokenSecret    string `json:"token_secret" binding:"required"`
	Sandbox        bool   `json:"sandbox"`
}

func (r CredentialsRequest) toDomain() erpsync.Credentials {
	return erpsync.Credentials{
		AccountID:      r.AccountID,
		ConsumerKey:    r.ConsumerKey,
		ConsumerSecret: r.ConsumerSecret,
		TokenID:        r.TokenID,
		TokenSecret:    r.TokenSecret,
		Sandbox:        r.Sandbox,
	}
}

// CreateIntegrationRequest creates a new ERP integration
type CreateIntegrationRequest struct {
	Provider    string             `json:"provider" binding:"required"`
	Name        string             `json:"name" binding:"required"`
	Credentials CredentialsRequest `json:"credentials" binding:"required"`
}

// SetActiveRequest toggles an integration on or off
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// MapEntityRequest binds a remote subsidiary to a local entity
type MapEntityRequest struct {
	SubsidiaryID string `json:"subsidiary_id" binding:"required"`
	EntityID     string `json:"entity_id" binding:"required,uuid"`
}

// TriggerSyncRequest starts a sync run. Dates use the YYYY-MM-DD format.
type TriggerSyncRequest struct {
	SyncType     string `json:"sync_type"`
	SubsidiaryID string `json:"subsidiary_id"`
	PeriodID     string `json:"period_id"`
	PeriodName   string `json:"period_name"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	TriggeredBy  string `json:"triggered_by"`
}

// IntegrationResponse represents an integration. Credentials are never
// echoed back; only the account identity is.
type IntegrationResponse struct {
	ID                  string            `json:"id"`
	CompanyID           string            `json:"company_id"`
	Provider            string            `json:"provider"`
	Name                string            `json:"name"`
	AccountID           string            `json:"account_id"`
	Sandbox             bool              `json:"sandbox"`
	EntityMapping       map[string]string `json:"entity_mapping"`
	SyncEntities        bool              `json:"sync_entities"`
	SyncChartOfAccounts bool              `json:"sync_chart_of_accounts"`
	SyncTrialBalance    bool              `json:"sync_trial_balance"`
	SyncExchangeRates   bool              `json:"sync_exchange_rates"`
	Active              bool              `json:"active"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`
}

// SyncRunResponse represents a sync run audit record
type SyncRunResponse struct {
	ID              string                  `json:"id"`
	IntegrationID   string                  `json:"integration_id"`
	SyncType        string                  `json:"sync_type"`
	Status          string                  `json:"status"`
	TriggeredBy     string                  `json:"triggered_by"`
	StartedAt       time.Time               `json:"started_at"`
	CompletedAt     *time.Time              `json:"completed_at,omitempty"`
	DurationSeconds float64                 `json:"duration_seconds"`
	RecordsFetched  int                     `json:"records_fetched"`
	RecordsImported int                     `json:"records_imported"`
	RecordsFailed   int                     `json:"records_failed"`
	Summary         *erpsync.FullSyncResult `json:"summary,omitempty"`
	ErrorMessage    string                  `json:"error_message,omitempty"`
}

// SyncLogEntryResponse represents one run log line
type SyncLogEntryResponse struct {
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// AccountingPeriodResponse represents a remote fiscal period
type AccountingPeriodResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Year       bool   `json:"is_year"`
	Quarter    bool   `json:"is_quarter"`
	Closed     bool   `json:"closed"`
	Adjustment bool   `json:"adjustment"`
}

// ===================== Handler Methods =====================

// TestConnection probes the remote ERP with ad hoc credentials. The probe
// outcome is always a 200 response; Success inside the body tells the story.
func (h *IntegrationHandler) TestConnection(c *gin.Context) {
	if _, err := getCompanyID(c); err != nil {
		h.Unauthorized(c, "Company identification required")
		return
	}

	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result := h.connections.TestCredentials(c.Request.Context(), req.toDomain())
	h.Success(c, result)
}

// CreateIntegration registers a new ERP integration for the company
func (h *IntegrationHandler) CreateIntegration(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Company identification required")
		return
	}

	var req CreateIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	integration, err := h.integrations.CreateIntegration(c.Request.Context(), companyID, erpsyncapp.CreateIntegrationInput{
		Provider:    erpsync.Provider(req.Provider),
		Name:        req.Name,
		Credentials: req.Credentials.toDomain(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, toIntegrationResponse(integration))
}

// ListIntegrations returns all integrations of the company
func (h *IntegrationHandler) ListIntegrations(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Company identification required")
		return
	}

	integrations, err := h.integrations.ListIntegrations(c.Request.Context(), companyID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]IntegrationResponse, len(integrations))
	for i, integration := range integrations {
		responses[i] = toIntegrationResponse(integration)
	}
	h.Success(c, responses)
}

// GetIntegration returns one integration
func (h *IntegrationHandler) GetIntegration(c *gin.Context) {
	companyID, integrationID, ok := h.companyAndID(c)
	if !ok {
		return
	}

	integration, err := h.integrations.GetIntegration(c.Request.Context(), companyID, integrationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toIntegrationResponse(integration))
}

// SetActive enables or disables an integration
func (h *IntegrationHandler) SetActive(c *gin.Context) {
	companyID, integrationID, ok := h.companyAndID(c)
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	integration, err := h.integrations.SetActive(c.Request.Context(), companyID, integrationID, *req.Active)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toIntegrationResponse(integration))
}

// TestIntegration probes the stored credentials of an existing integration
func (h *IntegrationHandler) TestIntegration(c *gin.Context) {
	companyID, integrationID, ok := h.companyAndID(c)
	if !ok {
		return
	}

	result, err := h.connections.TestIntegration(c.Request.Context(), companyID, integrationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListPeriods returns the remote accounting periods of an integration
func (h *IntegrationHandler) ListPeriods(c *gin.Context) {
	companyID, integrationID, ok := h.companyAndID(c)
	if !ok {
		return
	}

	periods, err := h.connections.ListPeriods(c.Request.Context(), companyID, integrationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]AccountingPeriodResponse, len(periods))
	for i, p := range periods {
		responses[i] = AccountingPeriodResponse{
			ID:         p.ExternalID,
			Name:       p.Name,
			StartDate:  p.StartDate.Format("2006-01-02"),
			EndDate:    p.EndDate.Format("2006-01-02"),
			Year:       p.Year,
			Quarter:    p.Quarter,
			Closed:     p.Closed,
			Adjustment: p.Adjustment,
		}
	}
	h.Success(c, responses)
}

// MapEntity binds a remote subsidiary to a local entity
func (h *IntegrationHandler) MapEntity(c *gin.Context) {
	companyID, integrationID, ok := h.companyAndID(c)
	if !ok {
		return
	}

	var req MapEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	entityID, err := uuid.Parse(req.EntityID)
	if err != nil {
		h.BadRequest(c, "Invalid entity ID")
		return
	}

	integration, err := h.integrations.MapEntity(c.Request.Context(), companyID, integrationID, req.SubsidiaryID, entityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toIntegrationResponse(integration))
}

// UnmapEntity removes a subsidiary mapping
func (h *IntegrationHandler) UnmapEntity(c *gin.Context) {
	companyID, integrationID, ok := h.companyAndID(c)
	if !ok {
		return
	}

	integration, err := h.integrations.UnmapEntity(c.Request.Context(), companyID, integrationID, c.Param("subsidiaryID"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toIntegrationResponse(integration))
}

// TriggerSync starts a sync run for the integration. The run executes
// within the request; the response carries the finished audit record.
func (h *IntegrationHandler) TriggerSync(c *gin.Context) {
	companyID, integrationID, ok := h.companyAndID(c)
	if !ok {
		return
	}

	var req TriggerSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	opts := erpsyncapp.SyncOptions{
		SyncType:     erpsync.SyncType(req.SyncType),
		SubsidiaryID: req.SubsidiaryID,
		PeriodID:     req.PeriodID,
		PeriodName:   req.PeriodName,
		TriggeredBy:  req.TriggeredBy,
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			h.BadRequest(c, "Invalid start_date format. Expected YYYY-MM-DD")
			return
		}
		opts.StartDate = start
	}
	if req.EndDate != "" {
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			h.BadRequest(c, "Invalid end_date format. Expected YYYY-MM-DD")
			return
		}
		opts.EndDate = end
	}

	run, err := h.syncs.ExecuteSync(c.Request.Context(), companyID, integrationID, opts)
	if err != nil && run == nil {
		h.HandleError(c, err)
		return
	}

	// A failed run is still an audit record worth returning
	h.Success(c, toSyncRunResponse(run))
}

// ListRuns returns the most recent sync runs of an integration
func (h *IntegrationHandler) ListRuns(c *gin.Context) {
	companyID, integrationID, ok := h.companyAndID(c)
	if !ok {
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := parseLimit(limitStr)
		if err != nil {
			h.BadRequest(c, "Invalid limit")
			return
		}
		limit = parsed
	}

	runs, err := h.syncs.RunHistory(c.Request.Context(), companyID, integrationID, limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]SyncRunResponse, len(runs))
	for i, run := range runs {
		responses[i] = toSyncRunResponse(run)
	}
	h.Success(c, responses)
}

// GetRunLogs returns the log entries of a sync run
func (h *IntegrationHandler) GetRunLogs(c *gin.Context) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Company identification required")
		return
	}
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid run ID")
		return
	}

	entries, err := h.syncs.RunLogs(c.Request.Context(), companyID, runID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]SyncLogEntryResponse, len(entries))
	for i, entry := range entries {
		responses[i] = SyncLogEntryResponse{
			Level:     entry.Level,
			Message:   entry.Message,
			Data:      entry.Data,
			CreatedAt: entry.CreatedAt,
		}
	}
	h.Success(c, responses)
}

// companyAndID extracts the company scope and the :id path parameter,
// responding with the appropriate error when either is missing.
func (h *IntegrationHandler) companyAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	companyID, err := getCompanyID(c)
	if err != nil {
		h.Unauthorized(c, "Company identification required")
		return uuid.Nil, uuid.Nil, false
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid integration ID")
		return uuid.Nil, uuid.Nil, false
	}
	return companyID, id, true
}

// ===================== Response Conversion Functions =====================

func toIntegrationResponse(i *erpsync.Integration) IntegrationResponse {
	mapping := make(map[string]string, len(i.EntityMapping))
	for subsidiaryID, entityID := range i.EntityMapping {
		mapping[subsidiaryID] = entityID.String()
	}

	return IntegrationResponse{
		ID:                  i.ID.String(),
		CompanyID:           i.CompanyID.String(),
		Provider:            string(i.Provider),
		Name:                i.Name,
		AccountID:           i.Credentials.AccountID,
		Sandbox:             i.Credentials.Sandbox,
		EntityMapping:       mapping,
		SyncEntities:        i.SyncEntities,
		SyncChartOfAccounts: i.SyncChartOfAccounts,
		SyncTrialBalance:    i.SyncTrialBalance,
		SyncExchangeRates:   i.SyncExchangeRates,
		Active:              i.Active,
		CreatedAt:           i.CreatedAt,
		UpdatedAt:           i.UpdatedAt,
	}
}

func toSyncRunResponse(r *erpsync.SyncRun) SyncRunResponse {
	return SyncRunResponse{
		ID:              r.ID.String(),
		IntegrationID:   r.IntegrationID.String(),
		SyncType:        string(r.SyncType),
		Status:          string(r.Status),
		TriggeredBy:     r.TriggeredBy,
		StartedAt:       r.StartedAt,
		CompletedAt:     r.CompletedAt,
		DurationSeconds: r.Duration().Seconds(),
		RecordsFetched:  r.RecordsFetched,
		RecordsImported: r.RecordsImported,
		RecordsFailed:   r.RecordsFailed,
		Summary:         r.Summary,
		ErrorMessage:    r.ErrorMessage,
	}
}

package models

import (
	"encoding/json"
	"time"

	"github.com/finlens/backend/internal/domain/erpsync"
	"github.com/google/uuid"
)

// IntegrationModel is the persistence model for the Integration aggregate.
// Credentials and the entity mapping are stored as JSON documents.
type IntegrationModel struct {
	ID                  uuid.UUID `gorm:"type:uuid;primary_key"`
	CompanyID           uuid.UUID `gorm:"type:uuid;not null;index:idx_integrations_company,priority:1"`
	Provider            string    `gorm:"type:varchar(50);not null"`
	Name                string    `gorm:"type:varchar(255);not null"`
	CredentialsJSON     string    `gorm:"type:jsonb;column:credentials"`
	EntityMappingJSON   string    `gorm:"type:jsonb;column:entity_mapping"`
	SyncEntities        bool      `gorm:"not null;default:true"`
	SyncChartOfAccounts bool      `gorm:"not null;default:true"`
	SyncTrialBalance    bool      `gorm:"not null;default:true"`
	SyncExchangeRates   bool      `gorm:"not null;default:true"`
	AutoCreateEntities  bool      `gorm:"not null;default:false"`
	IsActive            bool      `gorm:"not null;default:true"`
	CreatedAt           time.Time `gorm:"not null"`
	UpdatedAt           time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (IntegrationModel) TableName() string {
	return "integrations"
}

// ToDomain converts the persistence model to a domain Integration.
func (m *IntegrationModel) ToDomain() *erpsync.Integration {
	integration := &erpsync.Integration{
		ID:                  m.ID,
		CompanyID:           m.CompanyID,
		Provider:            erpsync.Provider(m.Provider),
		Name:                m.Name,
		EntityMapping:       erpsync.EntityMapping{},
		SyncEntities:        m.SyncEntities,
		SyncChartOfAccounts: m.SyncChartOfAccounts,
		SyncTrialBalance:    m.SyncTrialBalance,
		SyncExchangeRates:   m.SyncExchangeRates,
		AutoCreateEntities:  m.AutoCreateEntities,
		Active:              m.IsActive,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}

	if m.CredentialsJSON != "" {
		_ = json.Unmarshal([]byte(m.CredentialsJSON), &integration.Credentials)
	}
	if m.EntityMappingJSON != "" {
		var mapping erpsync.EntityMapping
		if err := json.Unmarshal([]byte(m.EntityMappingJSON), &mapping); err == nil {
			integration.EntityMapping = mapping
		}
	}
	return integration
}

// FromDomain populates the persistence model from a domain Integration.
func (m *IntegrationModel) FromDomain(i *erpsync.Integration) {
	m.ID = i.ID
	m.CompanyID = i.CompanyID
	m.Provider = string(i.Provider)
	m.Name = i.Name
	m.SyncEntities = i.SyncEntities
	m.SyncChartOfAccounts = i.SyncChartOfAccounts
	m.SyncTrialBalance = i.SyncTrialBalance
	m.SyncExchangeRates = i.SyncExchangeRates
	m.AutoCreateEntities = i.AutoCreateEntities
	m.IsActive = i.Active
	m.CreatedAt = i.CreatedAt
	m.UpdatedAt = i.UpdatedAt

	if jsonBytes, err := json.Marshal(i.Credentials); err == nil {
		m.CredentialsJSON = string(jsonBytes)
	}
	if len(i.EntityMapping) > 0 {
		if jsonBytes, err := json.Marshal(i.EntityMapping); err == nil {
			m.EntityMappingJSON = string(jsonBytes)
		}
	} else {
		m.EntityMappingJSON = "{}"
	}
}

// SyncRunModel is the persistence model for sync run audit records.
type SyncRunModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key"`
	IntegrationID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_sync_runs_integration,priority:1"`
	CompanyID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_sync_runs_company,priority:1"`
	SyncType        string     `gorm:"type:varchar(50);not null"`
	Status          string     `gorm:"type:varchar(20);not null"`
	TriggeredBy     string     `gorm:"type:varchar(50)"`
	StartedAt       time.Time  `gorm:"not null;index"`
	CompletedAt     *time.Time `gorm:""`
	RecordsFetched  int        `gorm:"not null;default:0"`
	RecordsImported int        `gorm:"not null;default:0"`
	RecordsFailed   int        `gorm:"not null;default:0"`
	SummaryJSON     string     `gorm:"type:jsonb;column:summary"`
	ErrorMessage    string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SyncRunModel) TableName() string {
	return "sync_runs"
}

// ToDomain converts the persistence model to a domain SyncRun.
func (m *SyncRunModel) ToDomain() *erpsync.SyncRun {
	run := &erpsync.SyncRun{
		ID:              m.ID,
		IntegrationID:   m.IntegrationID,
		CompanyID:       m.CompanyID,
		SyncType:        erpsync.SyncType(m.SyncType),
		Status:          erpsync.SyncStatus(m.Status),
		TriggeredBy:     m.TriggeredBy,
		StartedAt:       m.StartedAt,
		CompletedAt:     m.CompletedAt,
		RecordsFetched:  m.RecordsFetched,
		RecordsImported: m.RecordsImported,
		RecordsFailed:   m.RecordsFailed,
		ErrorMessage:    m.ErrorMessage,
	}

	if m.SummaryJSON != "" {
		var summary erpsync.FullSyncResult
		if err := json.Unmarshal([]byte(m.SummaryJSON), &summary); err == nil {
			run.Summary = &summary
		}
	}
	return run
}

// FromDomain populates the persistence model from a domain SyncRun.
func (m *SyncRunModel) FromDomain(r *erpsync.SyncRun) {
	m.ID = r.ID
	m.IntegrationID = r.IntegrationID
	m.CompanyID = r.CompanyID
	m.SyncType = string(r.SyncType)
	m.Status = string(r.Status)
	m.TriggeredBy = r.TriggeredBy
	m.StartedAt = r.StartedAt
	m.CompletedAt = r.CompletedAt
	m.RecordsFetched = r.RecordsFetched
	m.RecordsImported = r.RecordsImported
	m.RecordsFailed = r.RecordsFailed
	m.ErrorMessage = r.ErrorMessage

	if r.Summary != nil {
		if jsonBytes, err := json.Marshal(r.Summary); err == nil {
			m.SummaryJSON = string(jsonBytes)
		}
	}
}

// SyncLogModel is the persistence model for sync run log entries.
type SyncLogModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	RunID     uuid.UUID `gorm:"type:uuid;not null;index:idx_sync_logs_run,priority:1"`
	CompanyID uuid.UUID `gorm:"type:uuid;not null"`
	Level     string    `gorm:"type:varchar(10);not null"`
	Message   string    `gorm:"type:text;not null"`
	DataJSON  string    `gorm:"type:jsonb;column:data"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SyncLogModel) TableName() string {
	return "sync_logs"
}

// ToDomain converts the persistence model to a domain SyncLogEntry.
func (m *SyncLogModel) ToDomain() erpsync.SyncLogEntry {
	entry := erpsync.SyncLogEntry{
		ID:        m.ID,
		RunID:     m.RunID,
		CompanyID: m.CompanyID,
		Level:     m.Level,
		Message:   m.Message,
		CreatedAt: m.CreatedAt,
	}
	if m.DataJSON != "" {
		_ = json.Unmarshal([]byte(m.DataJSON), &entry.Data)
	}
	return entry
}

// FromDomain populates the persistence model from a domain SyncLogEntry.
func (m *SyncLogModel) FromDomain(e erpsync.SyncLogEntry) {
	m.ID = e.ID
	m.RunID = e.RunID
	m.CompanyID = e.CompanyID
	m.Level = e.Level
	m.Message = e.Message
	m.CreatedAt = e.CreatedAt

	if len(e.Data) > 0 {
		if jsonBytes, err := json.Marshal(e.Data); err == nil {
			m.DataJSON = string(jsonBytes)
		}
	}
}

package erpsync

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SyncLogEntry is one structured audit line of a sync run.
type SyncLogEntry struct {
	ID        uuid.UUID
	RunID     uuid.UUID
	CompanyID uuid.UUID
	Level     string
	Message   string
	Data      map[string]any
	CreatedAt time.Time
}

// RunLogger mirrors sync progress to the process logger while buffering
// structured entries for persistence at the end of the run. Safe for
// concurrent use.
type RunLogger struct {
	mu      sync.Mutex
	log     *zap.Logger
	entries []SyncLogEntry
}

// NewRunLogger creates a RunLogger writing through the given zap logger.
func NewRunLogger(log *zap.Logger) *RunLogger {
	if log == nil {
		log = zap.NewNop()
	}
	return &RunLogger{log: log}
}

// Info records an info-level entry.
func (l *RunLogger) Info(msg string, data map[string]any) {
	l.append("info", msg, data)
	l.log.Info(msg, dataField(data)...)
}

// Warn records a warn-level entry.
func (l *RunLogger) Warn(msg string, data map[string]any) {
	l.append("warn", msg, data)
	l.log.Warn(msg, dataField(data)...)
}

// Error records an error-level entry.
func (l *RunLogger) Error(msg string, data map[string]any) {
	l.append("error", msg, data)
	l.log.Error(msg, dataField(data)...)
}

// Entries returns a copy of the buffered entries stamped with the run and
// company they belong to.
func (l *RunLogger) Entries(runID, companyID uuid.UUID) []SyncLogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]SyncLogEntry, len(l.entries))
	copy(out, l.entries)
	for i := range out {
		out[i].RunID = runID
		out[i].CompanyID = companyID
	}
	return out
}

// Len reports the number of buffered entries.
func (l *RunLogger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func (l *RunLogger) append(level, msg string, data map[string]any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, SyncLogEntry{
		ID:        uuid.New(),
		Level:     level,
		Message:   msg,
		Data:      data,
		CreatedAt: time.Now(),
	})
}

func dataField(data map[string]any) []zap.Field {
	if len(data) == 0 {
		return nil
	}
	return []zap.Field{zap.Any("data", data)}
}

package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"kpitrack/internal/core"
)

// Snapshot is one recorded export.
type Snapshot struct {
	UserID string
	Data   core.KpiData
	At     time.Time
}

// Writer records snapshots in memory. It stands in for the Google Sheets
// client in tests and local development.
type Writer struct {
	mu    sync.Mutex
	now   func() time.Time
	items []Snapshot
}

func New() *Writer {
	return &Writer{now: time.Now}
}

// AppendSnapshot stores a copy of the document and returns a synthetic
// row reference.
func (w *Writer) AppendSnapshot(_ context.Context, userID string, data *core.KpiData) (string, error) {
	if data == nil {
		return "", errors.New("nil snapshot data")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.items = append(w.items, Snapshot{UserID: userID, Data: *data, At: w.now()})
	return fmt.Sprintf("mem:%d", len(w.items)), nil
}

// Snapshots returns a copy of everything recorded so far.
func (w *Writer) Snapshots() []Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Snapshot(nil), w.items...)
}

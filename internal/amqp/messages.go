package amqp

import (
	"encoding/json"
	"time"

	"kpitrack/internal/core"
)

// Change kinds carried by KpiChangeMessage.
const (
	ChangeValue  = "value"
	ChangeTarget = "target"
	ChangeReset  = "reset"
)

// KpiChangeMessage announces that one KPI slot changed in the store.
// Consumers interested in the new state fetch it themselves; the message
// only carries the key.
type KpiChangeMessage struct {
	UserID    string         `json:"user_id"`
	TimeFrame core.TimeFrame `json:"time_frame"`
	Category  core.Category  `json:"category,omitempty"` // empty for resets
	Kind      string         `json:"kind"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewKpiChangeMessage creates a change message stamped with the current time.
func NewKpiChangeMessage(userID string, tf core.TimeFrame, cat core.Category, kind string) *KpiChangeMessage {
	return &KpiChangeMessage{
		UserID:    userID,
		TimeFrame: tf,
		Category:  cat,
		Kind:      kind,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *KpiChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// KpiChangeMessageFromJSON creates a message from JSON bytes.
func KpiChangeMessageFromJSON(data []byte) (*KpiChangeMessage, error) {
	var msg KpiChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

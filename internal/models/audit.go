package models

import "time"

// AuditEvent описывает событие аудита, публикуемое сервисами в очередь.
type AuditEvent struct {
	UserUID    string    `json:"user_uid"`
	Action     string    `json:"action"`
	EntityType string    `json:"entity_type"`
	EntityID   int       `json:"entity_id,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

package models

import "time"

// AuditLog is an operational trail entry. Entries are written after the
// fact and best-effort; losing one never fails the request it describes.
type AuditLog struct {
	ID         string         `json:"id"`
	EntityType string         `json:"entity_type"`
	EntityID   *string        `json:"entity_id"`
	Action     string         `json:"action"`
	Details    map[string]any `json:"details"`
	CreatedAt  time.Time      `json:"created_at"`
}

package entities

import "time"

// Audit actions recorded on privileged user mutations.
const (
	ActionUpdateUser = "UPDATE_USER"
	ActionDeleteUser = "DELETE_USER"

	AuditStatusSuccess = "SUCCESS"
)

// AuditLog is append-only: entries are created by privileged mutations and
// never changed or removed through the API.
type AuditLog struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Action     string    `json:"action"`
	Status     string    `json:"status"`
	Details    string    `json:"details"`
	CreatedAt  time.Time `json:"createdAt"`
	ActorEmail string    `json:"actorEmail,omitempty"` // captured at append, outlives the actor
}

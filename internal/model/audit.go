package model

import "time"

// AuditAction is the closed vocabulary of auditable actions.
type AuditAction string

const (
	ActionCreateEntity  AuditAction = "CREATE_ENTITY"
	ActionUpdateEntity  AuditAction = "UPDATE_ENTITY"
	ActionDeleteEntity  AuditAction = "DELETE_ENTITY"
	ActionLogin         AuditAction = "LOGIN"
	ActionLogout        AuditAction = "LOGOUT"
	ActionResetPassword AuditAction = "RESET_PASSWORD"
)

func (a AuditAction) Valid() bool {
	switch a {
	case ActionCreateEntity, ActionUpdateEntity, ActionDeleteEntity,
		ActionLogin, ActionLogout, ActionResetPassword:
		return true
	}
	return false
}

// AuditActor identifies who performed an action. It is always resolved from
// the authenticated request context, never from the request body.
type AuditActor struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
	IP     string `json:"ip"`
}

// AuditRecord is one immutable row of the audit trail. EntityID is empty for
// account-level actions such as LOGIN and LOGOUT.
type AuditRecord struct {
	ID         int64       `json:"id"`
	Action     AuditAction `json:"action"`
	Actor      AuditActor  `json:"actor"`
	EntityType string      `json:"entity_type,omitempty"`
	EntityID   string      `json:"entity_id,omitempty"`
	Detail     string      `json:"detail"`
	OccurredAt time.Time   `json:"occurred_at"`
}

type AuditQuery struct {
	Action     string
	ActorID    string
	EntityType string
	EntityID   string
	From       string
	To         string
	Page       int
	Limit      int
}

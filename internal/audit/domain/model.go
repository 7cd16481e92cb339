package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ActorType string

const (
	ActorTypeSystem ActorType = "system"
	ActorTypeUser   ActorType = "user"
	ActorTypeAPIKey ActorType = "api_key"
)

// AuditLog is an append-only record of a state change.
type AuditLog struct {
	ID    snowflake.ID  `gorm:"primaryKey" json:"id"`
	OrgID *snowflake.ID `gorm:"index" json:"org_id,omitempty"`

	ActorType string  `gorm:"type:text;not null" json:"actor_type"`
	ActorID   *string `gorm:"type:text" json:"actor_id,omitempty"`

	Action     string  `gorm:"type:text;not null;index" json:"action"`
	TargetType string  `gorm:"type:text;not null" json:"target_type"`
	TargetID   *string `gorm:"type:text" json:"target_id,omitempty"`

	Metadata datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`

	IPAddress *string `gorm:"type:text" json:"ip_address,omitempty"`
	UserAgent *string `gorm:"type:text" json:"user_agent,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

// TableName sets the database table name.
func (AuditLog) TableName() string { return "audit_logs" }

type ListFilter struct {
	OrgID      snowflake.ID
	Action     string
	TargetType string
	TargetID   string
	ActorType  string
	StartAt    *time.Time
	EndAt      *time.Time
	Limit      int
	Offset     int
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*AuditLog, error)
}

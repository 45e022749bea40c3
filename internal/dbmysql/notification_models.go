package dbmysql

import (
	"time"

	"bizdesk/internal/common"
)

// Notification is the durable record behind every targeted or broadcast
// notification. Exactly one of TargetUserID / TargetRole is set; the service
// layer enforces that through common.Target before rows reach this table.
type Notification struct {
	ID                string    `gorm:"primaryKey;size:36" json:"id"`
	Type              string    `gorm:"not null;size:50;index" json:"type"`
	Title             string    `gorm:"not null;size:255" json:"title"`
	Message           string    `gorm:"not null;type:text" json:"message"`
	Priority          string    `gorm:"size:10;default:'medium'" json:"priority"`
	TargetUserID      *uint64   `gorm:"index" json:"target_user_id,omitempty"`
	TargetRole        *string   `gorm:"size:50;index" json:"target_role,omitempty"`
	RelatedEntityID   *string   `gorm:"size:36" json:"related_entity_id,omitempty"`
	RelatedEntityType *string   `gorm:"size:50" json:"related_entity_type,omitempty"`
	Read              bool      `gorm:"column:is_read;not null;default:false" json:"read"`
	Metadata          string    `gorm:"type:text" json:"metadata,omitempty"`
	CreatedAt         time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

// Target reconstructs the addressing union from the persisted columns.
func (n *Notification) Target() common.Target {
	if n.TargetUserID != nil {
		return common.UserTarget(*n.TargetUserID)
	}
	if n.TargetRole != nil {
		return common.RoleTarget(*n.TargetRole)
	}
	return common.Target{}
}

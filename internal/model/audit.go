package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	ActionCreateTax       = "CREATE_TAX"
	ActionUpdateTax       = "UPDATE_TAX"
	ActionDeleteTax       = "DELETE_TAX"
	ActionToggleTaxActive = "TOGGLE_TAX_ACTIVE"
)

// AuditLog tracks What and When for every tax mutation
type AuditLog struct {
	ID         ID        `gorm:"primaryKey" json:"id"`
	Action     string    `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string    `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference uuid of the tax
	EntityName string    `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string    `gorm:"type:text" json:"details"`                       // Serialized JSON payload of the action
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}

func (a *AuditLog) BeforeCreate(_ *gorm.DB) error {
	if a.ID.IsZero() {
		a.ID = NewID()
	}
	return nil
}

package models

import (
	"time"

	"github.com/vigil-dev/vigil/internal/types"
)

// Status is one immutable health observation for a monitor. Rows are only
// ever inserted; the store assigns Timestamp at write time.
type Status struct {
	ID        uint               `gorm:"primaryKey"`
	MonitorID uint               `gorm:"not null;index"`
	State     types.MonitorState `gorm:"not null"`
	Message   *string
	Timestamp time.Time `gorm:"not null;index"`

	// Relationships
	Monitor Monitor `gorm:"foreignKey:MonitorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}

package models

type Monitor struct {
	BaseModel

	Name string `gorm:"uniqueIndex;not null"`

	// Relationships
	Tags     []Tag    `gorm:"many2many:monitor_tags"`
	Statuses []Status `gorm:"foreignKey:MonitorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

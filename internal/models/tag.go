package models

// Tag is a shared label. Tags are many-to-many with monitors and survive
// monitor deletion.
type Tag struct {
	BaseModel

	Name string `gorm:"uniqueIndex;not null"`

	// Relationships
	Monitors []Monitor `gorm:"many2many:monitor_tags" json:"-"`
}

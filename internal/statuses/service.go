// Package statuses implements the status tracking engine: monitor lifecycle,
// the append-only status history, bulk latest-status resolution and
// AND-semantics tag filtering.
package statuses

import (
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

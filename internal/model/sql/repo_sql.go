package sql

import (
	"gorm.io/gorm"
)

// GormRepository implements Repository using GORM
type GormRepository struct {
	db *gorm.DB
}

// NewGormRepository creates a new repository instance
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db}
}

// clampPage normalises offset/limit pairs. A non-positive count yields an empty page.
func clampPage(start, count int) (int, int) {
	if start < 0 {
		start = 0
	}
	if count < 0 {
		count = 0
	}
	if count > 100 {
		count = 100
	}
	return start, count
}

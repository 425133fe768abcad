package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document ids are generated uuids, assigned on create. Pre-set ids (tests,
// data migrations) are kept as-is.

func (s *Shop) BeforeCreate(tx *gorm.DB) error {
	_ = tx
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	_ = tx
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	_ = tx
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	_ = tx
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base is embedded by records addressed by a string UUID.
// char(36) keeps the column portable to MariaDB 10.4, which has no UUID type.
type Base struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

// SeqBase is embedded by records addressed by an auto-increment integer.
type SeqBase struct {
	ID        uint      `json:"id"         gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Record status values shared by products and users.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactMessage is one accepted contact form submission. Rows are written
// once and never updated.
type ContactMessage struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:320;not null;index" json:"email"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (m *ContactMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// PageView is one counted visit of a tracked page. Visitors are identified
// by a random cookie value only.
type PageView struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Path      string    `gorm:"size:255;not null;index"`
	VisitorID string    `gorm:"size:36;not null;index"`
	Browser   string    `gorm:"size:32"`
	Language  string    `gorm:"size:35"`
	CreatedAt time.Time `gorm:"index"`
}

func (v *PageView) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

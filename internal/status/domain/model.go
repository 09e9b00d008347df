package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Status is an invoice payment status. Color is a free-form CSS class
// fragment; statuses seeded before it existed leave it empty.
type Status struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Slug      string       `json:"slug" gorm:"type:text;not null;uniqueIndex"`
	Name      string       `json:"name" gorm:"type:text;not null"`
	Color     *string      `json:"color,omitempty" gorm:"type:text"`
	CreatedAt time.Time    `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Status) TableName() string { return "invoice_statuses" }

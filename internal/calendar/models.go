package calendar

import (
	"time"

	"github.com/gracecity/church-backend/internal/store"
)

// Entry is an item on the internal staff calendar. It is never shown publicly.
type Entry struct {
	store.Base
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	StartsAt    time.Time `gorm:"index;not null" json:"start"`
	EndsAt      time.Time `json:"end"`
	AllDay      bool      `json:"allDay"`
	Location    string    `json:"location,omitempty"`
	Color       string    `json:"color,omitempty"`
	CreatedBy   string    `json:"createdBy,omitempty"`
}

func (Entry) TableName() string {
	return "church.calendar_entries"
}

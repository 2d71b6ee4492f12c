package events

import "github.com/gracecity/church-backend/internal/store"

// Event is a church service, conference or programme shown on the public events page.
// Dates are ISO YYYY-MM-DD strings so they sort correctly as text.
type Event struct {
	store.Base
	Title           string `gorm:"not null" json:"title"`
	Description     string `json:"description"`
	Date            string `gorm:"index" json:"date"`
	Time            string `json:"time"`
	EndDate         string `json:"endDate,omitempty"`
	Location        string `json:"location"`
	Category        string `gorm:"index" json:"category"`
	ImageURL        string `json:"imageUrl,omitempty"`
	RegistrationURL string `json:"registrationUrl,omitempty"`
	IsFeatured      bool   `json:"isFeatured"`
	IsPublished     bool   `json:"isPublished"`
}

func (Event) TableName() string {
	return "church.events"
}

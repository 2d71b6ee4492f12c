package counselling

import (
	"github.com/lib/pq"

	"github.com/gracecity/church-backend/internal/store"
)

type Counsellor struct {
	store.Base
	Name          string         `gorm:"not null" json:"name"`
	Title         string         `json:"title,omitempty"`
	Specialties   pq.StringArray `gorm:"type:text[]" json:"specialties"`
	Bio           string         `gorm:"type:text" json:"bio,omitempty"`
	ImageURL      string         `json:"imageUrl,omitempty"`
	Email         string         `json:"email,omitempty"`
	AvailableDays pq.StringArray `gorm:"type:text[]" json:"availableDays"`
	IsActive      bool           `json:"isActive"`
}

func (Counsellor) TableName() string {
	return "church.counsellors"
}

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var statuses = map[string]struct{}{
	StatusPending:   {},
	StatusConfirmed: {},
	StatusCompleted: {},
	StatusCancelled: {},
}

// Booking is a counselling session request. A counsellor's date and time slot can hold
// at most one booking that is not cancelled.
type Booking struct {
	store.Base
	CounsellorID   string `gorm:"index;not null" json:"counsellorId"`
	CounsellorName string `json:"counsellorName,omitempty"`
	Name           string `gorm:"not null" json:"name"`
	Email          string `gorm:"not null" json:"email"`
	Phone          string `json:"phone,omitempty"`
	Date           string `gorm:"index" json:"date"`
	TimeSlot       string `json:"timeSlot"`
	Topic          string `json:"topic,omitempty"`
	Notes          string `gorm:"type:text" json:"notes,omitempty"`
	Status         string `gorm:"index;not null" json:"status"`
}

func (Booking) TableName() string {
	return "church.bookings"
}

package testimonies

import "github.com/gracecity/church-backend/internal/store"

type Testimony struct {
	store.Base
	Name        string `gorm:"not null" json:"name"`
	Title       string `gorm:"not null" json:"title"`
	Content     string `gorm:"type:text;not null" json:"content"`
	Category    string `gorm:"index" json:"category"`
	Date        string `json:"date"`
	ImageURL    string `json:"imageUrl,omitempty"`
	IsPublished bool   `json:"isPublished"`
}

func (Testimony) TableName() string {
	return "church.testimonies"
}

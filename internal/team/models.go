package team

import "github.com/gracecity/church-backend/internal/store"

// Member is a pastor, leader or staff member on the "Our Team" page.
type Member struct {
	store.Base
	Name        string `gorm:"not null" json:"name"`
	Role        string `json:"role"`
	Department  string `gorm:"index" json:"department,omitempty"`
	Bio         string `gorm:"type:text" json:"bio,omitempty"`
	ImageURL    string `json:"imageUrl,omitempty"`
	Email       string `json:"email,omitempty"`
	SortOrder   int    `json:"order"`
	IsPublished bool   `json:"isPublished"`
}

func (Member) TableName() string {
	return "church.team_members"
}

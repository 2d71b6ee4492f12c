package media

import "github.com/gracecity/church-backend/internal/store"

// Media is an uploaded file referenced by content records.
type Media struct {
	store.Base
	Filename    string `gorm:"not null" json:"filename"`
	Key         string `gorm:"not null" json:"key"`
	URL         string `gorm:"not null" json:"url"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
	Alt         string `json:"alt,omitempty"`
	Folder      string `gorm:"index" json:"folder,omitempty"`
	UploadedBy  string `json:"uploadedBy,omitempty"`
}

func (Media) TableName() string {
	return "church.media"
}

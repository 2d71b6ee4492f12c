package auth

import (
	"time"

	"github.com/gracecity/church-backend/internal/store"
	"github.com/gracecity/church-backend/internal/utils"
)

// Account is an admin dashboard login. Accounts live only in the database; the in-memory
// fallback never holds them.
type Account struct {
	store.Base
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	DisplayName  string     `json:"displayName"`
	Role         string     `gorm:"not null" json:"role"`
	IsActive     bool       `gorm:"not null" json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

func (Account) TableName() string {
	return "church.accounts"
}

func (a Account) identity() Identity {
	return Identity{ID: a.ID, Email: a.Email, Name: a.DisplayName, Role: a.Role}
}

// Identity is the subset of an account embedded in credentials and returned to clients.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"displayName,omitempty"`
	Role  string `json:"role"`
}

var roles = map[string]struct{}{
	utils.RoleSuperAdmin: {},
	utils.RoleAdmin:      {},
	utils.RoleEditor:     {},
}

func validRole(role string) bool {
	_, ok := roles[role]
	return ok
}

package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// UserModel is a back-office account.
type UserModel struct {
	Base
	Username  string     `json:"username"   gorm:"size:150;uniqueIndex;not null"`
	Email     string     `json:"email"      gorm:"size:254"`
	Password  string     `json:"-"          gorm:"size:128;not null"`
	FullName  string     `json:"full_name"  gorm:"size:100"`
	Role      string     `json:"role"       gorm:"size:10;not null;default:editor"`
	Status    string     `json:"status"     gorm:"size:10;not null;default:active"`
	LastLogin *time.Time `json:"last_login"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) IsActive() bool { return u.Status == StatusActive }

package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ContactStatusNew     = "new"
	ContactStatusReplied = "replied"
	ContactStatusClosed  = "closed"
)

// ContactModel is an enquiry submitted through the public contact form.
type ContactModel struct {
	Base
	Name        string     `json:"name"        gorm:"size:100;not null"`
	Email       string     `json:"email"       gorm:"size:254;not null;index"`
	Phone       string     `json:"phone"       gorm:"size:20"`
	Subject     string     `json:"subject"     gorm:"size:200"`
	Message     string     `json:"message"     gorm:"type:text;not null"`
	Status      string     `json:"status"      gorm:"size:10;not null;default:new;index"`
	AdminReply  string     `json:"admin_reply" gorm:"type:text"`
	RepliedAt   *time.Time `json:"replied_at"`
	RepliedByID *string    `json:"replied_by"  gorm:"type:char(36);column:replied_by_id"`
	RepliedBy   *UserModel `json:"-"           gorm:"foreignKey:RepliedByID;constraint:OnDelete:SET NULL"`
	IPAddress   string     `json:"ip_address"  gorm:"size:45"`
	UserAgent   string     `json:"user_agent"  gorm:"size:500"`

	// RepliedByUsername is filled from RepliedBy when it is preloaded.
	RepliedByUsername string `json:"replied_by_username" gorm:"-"`
}

func (ContactModel) TableName() string { return "contacts" }

func (c *ContactModel) AfterFind(tx *gorm.DB) error {
	if c.RepliedBy != nil {
		c.RepliedByUsername = c.RepliedBy.Username
	}
	return nil
}

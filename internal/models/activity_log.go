package models

import (
	"time"

	"gorm.io/gorm"
)

// ActivityLogModel is an append-only audit entry. UserID is cleared when the
// acting user is deleted.
type ActivityLogModel struct {
	ID          uint       `json:"id"          gorm:"primaryKey"`
	UserID      *string    `json:"user"        gorm:"type:char(36);index"`
	User        *UserModel `json:"-"           gorm:"foreignKey:UserID;constraint:OnDelete:SET NULL"`
	Username    string     `json:"username"    gorm:"-"`
	Action      string     `json:"action"      gorm:"size:50;not null;index"`
	EntityType  string     `json:"entity_type" gorm:"size:50;index"`
	EntityID    string     `json:"entity_id"   gorm:"size:36"`
	Description string     `json:"description" gorm:"type:text"`
	IPAddress   string     `json:"ip_address"  gorm:"size:45"`
	UserAgent   string     `json:"user_agent"  gorm:"size:500"`
	CreatedAt   time.Time  `json:"created_at"  gorm:"index"`
}

func (ActivityLogModel) TableName() string { return "activity_logs" }

func (l *ActivityLogModel) AfterFind(tx *gorm.DB) error {
	if l.User != nil {
		l.Username = l.User.Username
	}
	return nil
}

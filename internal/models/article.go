package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

// ArticleModel is a news article.
type ArticleModel struct {
	Base
	Title       string     `json:"title"        gorm:"size:300;not null"`
	Category    string     `json:"category"     gorm:"size:100;not null;index"`
	Excerpt     string     `json:"excerpt"      gorm:"type:text"`
	Content     string     `json:"content"      gorm:"type:longtext"`
	Image       string     `json:"image"        gorm:"size:500"`
	Author      string     `json:"author"       gorm:"size:100;not null;default:Admin"`
	Tags        StringList `json:"tags"         gorm:"type:text"`
	Status      string     `json:"status"       gorm:"size:20;not null;default:draft;index"`
	IsFeatured  bool       `json:"is_featured"  gorm:"not null;default:false;index"`
	ViewCount   uint       `json:"view_count"   gorm:"not null;default:0"`
	ReadTime    string     `json:"read_time"    gorm:"size:20"`
	PublishedAt *time.Time `json:"published_at" gorm:"index"`
}

func (ArticleModel) TableName() string { return "articles" }

// ArticleDefaultOrder puts featured articles first, newest publication next.
const ArticleDefaultOrder = "is_featured DESC, published_at DESC, created_at DESC"

// SyncPublishedAt keeps PublishedAt consistent with Status. Publishing stamps
// the first publication time and keeps it on later saves; returning to draft
// clears it.
func (a *ArticleModel) SyncPublishedAt(now time.Time) {
	switch a.Status {
	case ArticleStatusPublished:
		if a.PublishedAt == nil {
			t := now
			a.PublishedAt = &t
		}
	case ArticleStatusDraft:
		a.PublishedAt = nil
	}
}

func (a *ArticleModel) BeforeSave(tx *gorm.DB) error {
	a.SyncPublishedAt(time.Now())
	return nil
}

func (a *ArticleModel) AfterFind(tx *gorm.DB) error {
	fillEmptyLists(&a.Tags)
	return nil
}

package models

import "gorm.io/gorm"

// MediaModel is the metadata of an uploaded file. EntityType/EntityID point at
// the record the file illustrates, if any.
type MediaModel struct {
	Base
	FileName     string     `json:"file_name"   gorm:"size:255;not null"`
	FilePath     string     `json:"file_path"   gorm:"size:500"`
	FileURL      string     `json:"file_url"    gorm:"size:500"`
	FileType     string     `json:"file_type"   gorm:"size:50;index"`
	MimeType     string     `json:"mime_type"   gorm:"size:100"`
	FileSize     int64      `json:"file_size"`
	Width        int        `json:"width"`
	Height       int        `json:"height"`
	Storage      string     `json:"storage"     gorm:"size:10;not null;default:local"`
	UploadedByID *string    `json:"uploaded_by" gorm:"type:char(36);index"`
	UploadedBy   *UserModel `json:"-"           gorm:"foreignKey:UploadedByID;constraint:OnDelete:SET NULL"`
	EntityType   string     `json:"entity_type" gorm:"size:50;index"`
	EntityID     string     `json:"entity_id"   gorm:"size:36"`
	IsPublic     bool       `json:"is_public"   gorm:"not null"`

	UploadedByUsername string `json:"uploaded_by_username" gorm:"-"`
}

func (MediaModel) TableName() string { return "media" }

func (m *MediaModel) AfterFind(tx *gorm.DB) error {
	if m.UploadedBy != nil {
		m.UploadedByUsername = m.UploadedBy.Username
	}
	return nil
}

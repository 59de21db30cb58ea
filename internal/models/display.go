package models

// SocialMediaModel is a social network link shown in the site footer.
type SocialMediaModel struct {
	Base
	Platform  string `json:"platform"   gorm:"size:50;not null"`
	URL       string `json:"url"        gorm:"size:500;not null"`
	IconURL   string `json:"icon_url"   gorm:"size:500"`
	IsActive  bool   `json:"is_active"  gorm:"not null"`
	SortOrder int    `json:"sort_order" gorm:"not null;default:0"`
}

func (SocialMediaModel) TableName() string { return "social_media" }

// CertificationModel is a quality certificate held by the company.
type CertificationModel struct {
	Base
	Name              string `json:"name"               gorm:"size:200;not null"`
	Description       string `json:"description"        gorm:"type:text"`
	Icon              string `json:"icon"               gorm:"size:50;not null;default:Award"`
	IconColor         string `json:"icon_color"         gorm:"size:50;not null;default:blue"`
	ImageURL          string `json:"image_url"          gorm:"size:500"`
	CertificateNumber string `json:"certificate_number" gorm:"size:100"`
	IssuedBy          string `json:"issued_by"          gorm:"size:200"`
	IssuedDate        *Date  `json:"issued_date"        gorm:"type:date"`
	ExpiryDate        *Date  `json:"expiry_date"        gorm:"type:date"`
	IsActive          bool   `json:"is_active"          gorm:"not null"`
	SortOrder         int    `json:"sort_order"         gorm:"not null;default:0"`
}

func (CertificationModel) TableName() string { return "certifications" }

// AboutFeatureModel is a bullet in the "about us" section.
type AboutFeatureModel struct {
	SeqBase
	FeatureText string `json:"feature_text" gorm:"size:200;not null"`
	SortOrder   int    `json:"sort_order"   gorm:"not null;default:0"`
	IsActive    bool   `json:"is_active"    gorm:"not null"`
}

func (AboutFeatureModel) TableName() string { return "about_features" }

// AboutValueModel is a core company value card.
type AboutValueModel struct {
	SeqBase
	Title       string `json:"title"       gorm:"size:100;not null"`
	Description string `json:"description" gorm:"type:text"`
	Color       string `json:"color"       gorm:"size:50;not null;default:blue"`
	Icon        string `json:"icon"        gorm:"size:50"`
	SortOrder   int    `json:"sort_order"  gorm:"not null;default:0"`
	IsActive    bool   `json:"is_active"   gorm:"not null"`
}

func (AboutValueModel) TableName() string { return "about_values" }

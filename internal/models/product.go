package models

import "gorm.io/gorm"

// ProductModel is a catalogue product. The five list attributes are stored
// through StringList.
type ProductModel struct {
	Base
	Name        string     `json:"name"         gorm:"size:200;not null"`
	Category    string     `json:"category"     gorm:"size:100;not null;index"`
	Description string     `json:"description"  gorm:"type:text"`
	Features    StringList `json:"features"     gorm:"type:text"`
	Usage       string     `json:"usage"        gorm:"type:text"`
	Ingredients string     `json:"ingredients"  gorm:"type:text"`
	Benefits    StringList `json:"benefits"     gorm:"type:text"`
	Packaging   StringList `json:"packaging"    gorm:"type:text"`
	Images      StringList `json:"images"       gorm:"type:text"`
	ImageLabels StringList `json:"image_labels" gorm:"type:text"`
	Status      string     `json:"status"       gorm:"size:10;not null;default:active;index"`
	IsPopular   bool       `json:"is_popular"   gorm:"not null;default:false;index"`
	SortOrder   int        `json:"sort_order"   gorm:"not null;default:0"`
	ViewCount   uint       `json:"view_count"   gorm:"not null;default:0"`
}

func (ProductModel) TableName() string { return "products" }

func (p *ProductModel) AfterFind(tx *gorm.DB) error {
	fillEmptyLists(&p.Features, &p.Benefits, &p.Packaging, &p.Images, &p.ImageLabels)
	return nil
}

// ProductDefaultOrder mirrors the catalogue's display order.
const ProductDefaultOrder = "is_popular DESC, sort_order ASC, created_at DESC"

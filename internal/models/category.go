package models

const (
	CategoryTypeProduct = "product"
	CategoryTypeArticle = "article"
)

// CategoryModel groups products or articles. Categories form a tree through
// ParentID; the tree must stay acyclic.
type CategoryModel struct {
	SeqBase
	Name        string          `json:"name"        gorm:"size:100;not null"`
	Slug        string          `json:"slug"        gorm:"size:150;uniqueIndex;not null"`
	Type        string          `json:"type"        gorm:"size:10;not null;index"`
	Description string          `json:"description" gorm:"type:text"`
	Icon        string          `json:"icon"        gorm:"size:50"`
	Color       string          `json:"color"       gorm:"size:50"`
	ParentID    *uint           `json:"parent"      gorm:"index"`
	Children    []CategoryModel `json:"children"    gorm:"foreignKey:ParentID;constraint:OnDelete:SET NULL"`
	SortOrder   int             `json:"sort_order"  gorm:"not null;default:0"`
	IsActive    bool            `json:"is_active"   gorm:"not null"`
}

func (CategoryModel) TableName() string { return "categories" }

// CategoryDefaultOrder is the listing order within a type.
const CategoryDefaultOrder = "type ASC, sort_order ASC, name ASC"

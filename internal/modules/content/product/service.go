package product

import (
	"errors"
	"strings"

	"github.com/ebgreentek/core/internal/models"
	"github.com/ebgreentek/core/internal/pkg/listquery"
	"github.com/ebgreentek/core/internal/pkg/pagination"
	"github.com/ebgreentek/core/internal/pkg/response"
	"gorm.io/gorm"
)

// PopularLimit caps the /popular listing.
const PopularLimit = 8

var orderingFields = []string{"created_at", "view_count", "sort_order"}

type CreateProductDTO struct {
	Name        string            `json:"name"         binding:"required,max=200"`
	Category    string            `json:"category"     binding:"required,max=100"`
	Description string            `json:"description"`
	Features    models.StringList `json:"features"`
	Usage       string            `json:"usage"`
	Ingredients string            `json:"ingredients"`
	Benefits    models.StringList `json:"benefits"`
	Packaging   models.StringList `json:"packaging"`
	Images      models.StringList `json:"images"`
	ImageLabels models.StringList `json:"image_labels"`
	Status      string            `json:"status"       binding:"omitempty,oneof=active inactive"`
	IsPopular   bool              `json:"is_popular"`
	SortOrder   int               `json:"sort_order"`
}

// UpdateProductDTO is used for PUT and PATCH. Nil fields are left unchanged.
type UpdateProductDTO struct {
	Name        *string            `json:"name"         binding:"omitempty,min=1,max=200"`
	Category    *string            `json:"category"     binding:"omitempty,min=1,max=100"`
	Description *string            `json:"description"`
	Features    *models.StringList `json:"features"`
	Usage       *string            `json:"usage"`
	Ingredients *string            `json:"ingredients"`
	Benefits    *models.StringList `json:"benefits"`
	Packaging   *models.StringList `json:"packaging"`
	Images      *models.StringList `json:"images"`
	ImageLabels *models.StringList `json:"image_labels"`
	Status      *string            `json:"status"       binding:"omitempty,oneof=active inactive"`
	IsPopular   *bool              `json:"is_popular"`
	SortOrder   *int               `json:"sort_order"`
}

// ListQuery carries list filters. Public restricts results to active products.
type ListQuery struct {
	Category  string
	Status    string
	IsPopular string
	Search    string
	Ordering  string
	Public    bool
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) visible(public bool) *gorm.DB {
	tx := s.db.Model(&models.ProductModel{})
	if public {
		tx = tx.Where("status = ?", models.StatusActive)
	}
	return tx
}

func (s *Service) List(q pagination.Query, f ListQuery) ([]models.ProductModel, response.Pagination, error) {
	tx := s.visible(f.Public)
	tx = listquery.Equal(tx, "category", f.Category)
	tx = listquery.Equal(tx, "status", f.Status)
	tx = listquery.EqualBool(tx, "is_popular", f.IsPopular)
	tx = listquery.Search(tx, f.Search, "name", "description", "category")
	tx = tx.Order(listquery.Ordering(f.Ordering, orderingFields, models.ProductDefaultOrder))

	var products []models.ProductModel
	pag, err := pagination.Paginate(tx, q, &products)
	return products, pag, err
}

// Popular returns up to limit active products flagged popular.
func (s *Service) Popular(limit int) ([]models.ProductModel, error) {
	products := []models.ProductModel{}
	err := s.visible(true).
		Where("is_popular = ?", true).
		Order(models.ProductDefaultOrder).
		Limit(limit).
		Find(&products).Error
	return products, err
}

// ByCategory pages through the active products of one category.
func (s *Service) ByCategory(category string, q pagination.Query) ([]models.ProductModel, response.Pagination, error) {
	tx := s.visible(true).Where("category = ?", category).Order(models.ProductDefaultOrder)
	var products []models.ProductModel
	pag, err := pagination.Paginate(tx, q, &products)
	return products, pag, err
}

func (s *Service) GetByID(id string, public bool) (*models.ProductModel, error) {
	var p models.ProductModel
	if err := s.visible(public).Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// IncrementView adds one to the stored view count in a single statement.
func (s *Service) IncrementView(id string) error {
	return s.db.Model(&models.ProductModel{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

func (s *Service) Create(dto *CreateProductDTO) (*models.ProductModel, error) {
	p := models.ProductModel{
		Name:        strings.TrimSpace(dto.Name),
		Category:    strings.TrimSpace(dto.Category),
		Description: dto.Description,
		Features:    dto.Features,
		Usage:       dto.Usage,
		Ingredients: dto.Ingredients,
		Benefits:    dto.Benefits,
		Packaging:   dto.Packaging,
		Images:      dto.Images,
		ImageLabels: dto.ImageLabels,
		Status:      dto.Status,
		IsPopular:   dto.IsPopular,
		SortOrder:   dto.SortOrder,
	}
	if p.Status == "" {
		p.Status = models.StatusActive
	}
	if err := s.db.Create(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Service) Update(id string, dto *UpdateProductDTO) (*models.ProductModel, error) {
	p, err := s.GetByID(id, false)
	if err != nil || p == nil {
		return p, err
	}

	if dto.Name != nil {
		p.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Category != nil {
		p.Category = strings.TrimSpace(*dto.Category)
	}
	if dto.Description != nil {
		p.Description = *dto.Description
	}
	if dto.Features != nil {
		p.Features = *dto.Features
	}
	if dto.Usage != nil {
		p.Usage = *dto.Usage
	}
	if dto.Ingredients != nil {
		p.Ingredients = *dto.Ingredients
	}
	if dto.Benefits != nil {
		p.Benefits = *dto.Benefits
	}
	if dto.Packaging != nil {
		p.Packaging = *dto.Packaging
	}
	if dto.Images != nil {
		p.Images = *dto.Images
	}
	if dto.ImageLabels != nil {
		p.ImageLabels = *dto.ImageLabels
	}
	if dto.Status != nil {
		p.Status = *dto.Status
	}
	if dto.IsPopular != nil {
		p.IsPopular = *dto.IsPopular
	}
	if dto.SortOrder != nil {
		p.SortOrder = *dto.SortOrder
	}

	// view_count is only ever changed by IncrementView.
	if err := s.db.Select("*").Omit("view_count", "created_at").Save(p).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id, false)
}

// Delete reports whether a row was removed.
func (s *Service) Delete(id string) (bool, error) {
	res := s.db.Delete(&models.ProductModel{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

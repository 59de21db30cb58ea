// Package about serves the feature bullets and company value cards of the
// "about us" section.
package about

import (
	"errors"
	"strings"

	"github.com/ebgreentek/core/internal/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"
)

const (
	defaultOrder      = "sort_order ASC, id ASC"
	defaultValueColor = "blue"
)

type FeatureDTO struct {
	FeatureText *string `json:"feature_text"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

// Validate checks d; partial updates may omit feature_text.
func (d FeatureDTO) Validate(partial bool) error {
	text := validation.Required
	if partial {
		text = validation.NilOrNotEmpty
	}
	return validation.ValidateStruct(&d,
		validation.Field(&d.FeatureText, text, validation.RuneLength(1, 200)),
	)
}

type ValueDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
	Icon        *string `json:"icon"`
	SortOrder   *int    `json:"sort_order"`
	IsActive    *bool   `json:"is_active"`
}

func (d ValueDTO) Validate(partial bool) error {
	title := validation.Required
	if partial {
		title = validation.NilOrNotEmpty
	}
	return validation.ValidateStruct(&d,
		validation.Field(&d.Title, title, validation.RuneLength(1, 100)),
		validation.Field(&d.Color, validation.Length(0, 50)),
		validation.Field(&d.Icon, validation.Length(0, 50)),
	)
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func visible(tx *gorm.DB, public bool) *gorm.DB {
	if public {
		return tx.Where("is_active = ?", true)
	}
	return tx
}

func first[T any](tx *gorm.DB, id uint) (*T, error) {
	var row T
	if err := tx.Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func (s *Service) Features(public bool) ([]models.AboutFeatureModel, error) {
	features := []models.AboutFeatureModel{}
	tx := visible(s.db.Model(&models.AboutFeatureModel{}), public)
	return features, tx.Order(defaultOrder).Find(&features).Error
}

func (s *Service) Feature(id uint, public bool) (*models.AboutFeatureModel, error) {
	return first[models.AboutFeatureModel](visible(s.db.Model(&models.AboutFeatureModel{}), public), id)
}

func (s *Service) CreateFeature(dto *FeatureDTO) (*models.AboutFeatureModel, error) {
	f := models.AboutFeatureModel{IsActive: true}
	applyFeature(&f, dto)
	return &f, s.db.Create(&f).Error
}

func (s *Service) UpdateFeature(id uint, dto *FeatureDTO) (*models.AboutFeatureModel, error) {
	f, err := s.Feature(id, false)
	if err != nil || f == nil {
		return f, err
	}
	applyFeature(f, dto)
	return f, s.db.Select("*").Omit("created_at").Save(f).Error
}

func (s *Service) DeleteFeature(id uint) (bool, error) {
	res := s.db.Delete(&models.AboutFeatureModel{}, id)
	return res.RowsAffected > 0, res.Error
}

func applyFeature(f *models.AboutFeatureModel, dto *FeatureDTO) {
	if dto.FeatureText != nil {
		f.FeatureText = strings.TrimSpace(*dto.FeatureText)
	}
	if dto.SortOrder != nil {
		f.SortOrder = *dto.SortOrder
	}
	if dto.IsActive != nil {
		f.IsActive = *dto.IsActive
	}
}

func (s *Service) Values(public bool) ([]models.AboutValueModel, error) {
	values := []models.AboutValueModel{}
	tx := visible(s.db.Model(&models.AboutValueModel{}), public)
	return values, tx.Order(defaultOrder).Find(&values).Error
}

func (s *Service) Value(id uint, public bool) (*models.AboutValueModel, error) {
	return first[models.AboutValueModel](visible(s.db.Model(&models.AboutValueModel{}), public), id)
}

func (s *Service) CreateValue(dto *ValueDTO) (*models.AboutValueModel, error) {
	v := models.AboutValueModel{Color: defaultValueColor, IsActive: true}
	applyValue(&v, dto)
	if v.Color == "" {
		v.Color = defaultValueColor
	}
	return &v, s.db.Create(&v).Error
}

func (s *Service) UpdateValue(id uint, dto *ValueDTO) (*models.AboutValueModel, error) {
	v, err := s.Value(id, false)
	if err != nil || v == nil {
		return v, err
	}
	applyValue(v, dto)
	return v, s.db.Select("*").Omit("created_at").Save(v).Error
}

func (s *Service) DeleteValue(id uint) (bool, error) {
	res := s.db.Delete(&models.AboutValueModel{}, id)
	return res.RowsAffected > 0, res.Error
}

func applyValue(v *models.AboutValueModel, dto *ValueDTO) {
	if dto.Title != nil {
		v.Title = strings.TrimSpace(*dto.Title)
	}
	if dto.Description != nil {
		v.Description = *dto.Description
	}
	if dto.Color != nil {
		v.Color = *dto.Color
	}
	if dto.Icon != nil {
		v.Icon = *dto.Icon
	}
	if dto.SortOrder != nil {
		v.SortOrder = *dto.SortOrder
	}
	if dto.IsActive != nil {
		v.IsActive = *dto.IsActive
	}
}

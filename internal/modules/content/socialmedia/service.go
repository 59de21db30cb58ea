package socialmedia

import (
	"errors"
	"strings"

	"github.com/ebgreentek/core/internal/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gorm.io/gorm"
)

const defaultOrder = "sort_order ASC, platform ASC"

type CreateSocialMediaDTO struct {
	Platform  string `json:"platform"`
	URL       string `json:"url"`
	IconURL   string `json:"icon_url"`
	IsActive  *bool  `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

func (d CreateSocialMediaDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Platform, validation.Required, validation.RuneLength(1, 50)),
		validation.Field(&d.URL, validation.Required, is.URL, validation.Length(1, 500)),
		validation.Field(&d.IconURL, is.URL, validation.Length(0, 500)),
	)
}

type UpdateSocialMediaDTO struct {
	Platform  *string `json:"platform"`
	URL       *string `json:"url"`
	IconURL   *string `json:"icon_url"`
	IsActive  *bool   `json:"is_active"`
	SortOrder *int    `json:"sort_order"`
}

func (d UpdateSocialMediaDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Platform, validation.NilOrNotEmpty, validation.RuneLength(1, 50)),
		validation.Field(&d.URL, validation.NilOrNotEmpty, is.URL, validation.Length(1, 500)),
		validation.Field(&d.IconURL, is.URL, validation.Length(0, 500)),
	)
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) visible(public bool) *gorm.DB {
	tx := s.db.Model(&models.SocialMediaModel{})
	if public {
		tx = tx.Where("is_active = ?", true)
	}
	return tx
}

// List returns links in display order. Public restricts to active links.
func (s *Service) List(public bool) ([]models.SocialMediaModel, error) {
	links := []models.SocialMediaModel{}
	return links, s.visible(public).Order(defaultOrder).Find(&links).Error
}

func (s *Service) GetByID(id string, public bool) (*models.SocialMediaModel, error) {
	var link models.SocialMediaModel
	if err := s.visible(public).Where("id = ?", id).First(&link).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &link, nil
}

func (s *Service) Create(dto *CreateSocialMediaDTO) (*models.SocialMediaModel, error) {
	link := models.SocialMediaModel{
		Platform:  strings.TrimSpace(dto.Platform),
		URL:       strings.TrimSpace(dto.URL),
		IconURL:   strings.TrimSpace(dto.IconURL),
		IsActive:  true,
		SortOrder: dto.SortOrder,
	}
	if dto.IsActive != nil {
		link.IsActive = *dto.IsActive
	}
	return &link, s.db.Create(&link).Error
}

func (s *Service) Update(id string, dto *UpdateSocialMediaDTO) (*models.SocialMediaModel, error) {
	link, err := s.GetByID(id, false)
	if err != nil || link == nil {
		return link, err
	}
	if dto.Platform != nil {
		link.Platform = strings.TrimSpace(*dto.Platform)
	}
	if dto.URL != nil {
		link.URL = strings.TrimSpace(*dto.URL)
	}
	if dto.IconURL != nil {
		link.IconURL = strings.TrimSpace(*dto.IconURL)
	}
	if dto.IsActive != nil {
		link.IsActive = *dto.IsActive
	}
	if dto.SortOrder != nil {
		link.SortOrder = *dto.SortOrder
	}
	return link, s.db.Select("*").Omit("created_at").Save(link).Error
}

// Delete reports whether a row was removed.
func (s *Service) Delete(id string) (bool, error) {
	res := s.db.Delete(&models.SocialMediaModel{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

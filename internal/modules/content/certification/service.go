package certification

import (
	"errors"
	"strings"

	"github.com/ebgreentek/core/internal/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gorm.io/gorm"
)

const (
	defaultOrder     = "sort_order ASC, name ASC"
	defaultIcon      = "Award"
	defaultIconColor = "blue"
)

var errExpiryBeforeIssue = validation.Errors{
	"expiry_date": validation.NewError("expiry_before_issue", "expiry date must not be before the issue date"),
}

type CreateCertificationDTO struct {
	Name              string       `json:"name"`
	Description       string       `json:"description"`
	Icon              string       `json:"icon"`
	IconColor         string       `json:"icon_color"`
	ImageURL          string       `json:"image_url"`
	CertificateNumber string       `json:"certificate_number"`
	IssuedBy          string       `json:"issued_by"`
	IssuedDate        *models.Date `json:"issued_date"`
	ExpiryDate        *models.Date `json:"expiry_date"`
	IsActive          *bool        `json:"is_active"`
	SortOrder         int          `json:"sort_order"`
}

func (d CreateCertificationDTO) Validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required, validation.RuneLength(1, 200)),
		validation.Field(&d.Icon, validation.Length(0, 50)),
		validation.Field(&d.IconColor, validation.Length(0, 50)),
		validation.Field(&d.ImageURL, validation.Length(0, 500)),
		validation.Field(&d.CertificateNumber, validation.Length(0, 100)),
		validation.Field(&d.IssuedBy, validation.RuneLength(0, 200)),
	)
	if err != nil {
		return err
	}
	if d.IssuedDate != nil && d.ExpiryDate != nil && d.ExpiryDate.Before(d.IssuedDate.Time) {
		return errExpiryBeforeIssue
	}
	return nil
}

type UpdateCertificationDTO struct {
	Name              *string      `json:"name"`
	Description       *string      `json:"description"`
	Icon              *string      `json:"icon"`
	IconColor         *string      `json:"icon_color"`
	ImageURL          *string      `json:"image_url"`
	CertificateNumber *string      `json:"certificate_number"`
	IssuedBy          *string      `json:"issued_by"`
	IssuedDate        *models.Date `json:"issued_date"`
	ExpiryDate        *models.Date `json:"expiry_date"`
	IsActive          *bool        `json:"is_active"`
	SortOrder         *int         `json:"sort_order"`
}

func (d UpdateCertificationDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.NilOrNotEmpty, validation.RuneLength(1, 200)),
		validation.Field(&d.Icon, validation.Length(0, 50)),
		validation.Field(&d.IconColor, validation.Length(0, 50)),
		validation.Field(&d.ImageURL, validation.Length(0, 500)),
		validation.Field(&d.CertificateNumber, validation.Length(0, 100)),
		validation.Field(&d.IssuedBy, validation.RuneLength(0, 200)),
	)
}

// imageURL accepts absolute URLs and site-relative upload paths.
var imageURL = validation.By(func(value interface{}) error {
	s, _ := value.(string)
	if s == "" || strings.HasPrefix(s, "/") {
		return nil
	}
	return is.URL.Validate(s)
})

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) visible(public bool) *gorm.DB {
	tx := s.db.Model(&models.CertificationModel{})
	if public {
		tx = tx.Where("is_active = ?", true)
	}
	return tx
}

func (s *Service) List(public bool) ([]models.CertificationModel, error) {
	certs := []models.CertificationModel{}
	return certs, s.visible(public).Order(defaultOrder).Find(&certs).Error
}

func (s *Service) GetByID(id string, public bool) (*models.CertificationModel, error) {
	var cert models.CertificationModel
	if err := s.visible(public).Where("id = ?", id).First(&cert).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cert, nil
}

func (s *Service) Create(dto *CreateCertificationDTO) (*models.CertificationModel, error) {
	if err := imageURL.Validate(dto.ImageURL); err != nil {
		return nil, validation.Errors{"image_url": err}
	}
	cert := models.CertificationModel{
		Name:              strings.TrimSpace(dto.Name),
		Description:       dto.Description,
		Icon:              dto.Icon,
		IconColor:         dto.IconColor,
		ImageURL:          dto.ImageURL,
		CertificateNumber: dto.CertificateNumber,
		IssuedBy:          dto.IssuedBy,
		IssuedDate:        dto.IssuedDate,
		ExpiryDate:        dto.ExpiryDate,
		IsActive:          true,
		SortOrder:         dto.SortOrder,
	}
	if cert.Icon == "" {
		cert.Icon = defaultIcon
	}
	if cert.IconColor == "" {
		cert.IconColor = defaultIconColor
	}
	if dto.IsActive != nil {
		cert.IsActive = *dto.IsActive
	}
	return &cert, s.db.Create(&cert).Error
}

func (s *Service) Update(id string, dto *UpdateCertificationDTO) (*models.CertificationModel, error) {
	cert, err := s.GetByID(id, false)
	if err != nil || cert == nil {
		return cert, err
	}
	if dto.Name != nil {
		cert.Name = strings.TrimSpace(*dto.Name)
	}
	if dto.Description != nil {
		cert.Description = *dto.Description
	}
	if dto.Icon != nil {
		cert.Icon = *dto.Icon
	}
	if dto.IconColor != nil {
		cert.IconColor = *dto.IconColor
	}
	if dto.ImageURL != nil {
		if err := imageURL.Validate(*dto.ImageURL); err != nil {
			return nil, validation.Errors{"image_url": err}
		}
		cert.ImageURL = *dto.ImageURL
	}
	if dto.CertificateNumber != nil {
		cert.CertificateNumber = *dto.CertificateNumber
	}
	if dto.IssuedBy != nil {
		cert.IssuedBy = *dto.IssuedBy
	}
	if dto.IssuedDate != nil {
		cert.IssuedDate = dto.IssuedDate
	}
	if dto.ExpiryDate != nil {
		cert.ExpiryDate = dto.ExpiryDate
	}
	if dto.IsActive != nil {
		cert.IsActive = *dto.IsActive
	}
	if dto.SortOrder != nil {
		cert.SortOrder = *dto.SortOrder
	}
	if cert.IssuedDate != nil && cert.ExpiryDate != nil && cert.ExpiryDate.Before(cert.IssuedDate.Time) {
		return nil, errExpiryBeforeIssue
	}
	return cert, s.db.Select("*").Omit("created_at").Save(cert).Error
}

// Delete reports whether a row was removed.
func (s *Service) Delete(id string) (bool, error) {
	res := s.db.Delete(&models.CertificationModel{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

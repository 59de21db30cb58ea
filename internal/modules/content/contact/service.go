package contact

import (
	"errors"
	"time"

	"github.com/ebgreentek/core/internal/models"
	"github.com/ebgreentek/core/internal/pkg/listquery"
	"github.com/ebgreentek/core/internal/pkg/pagination"
	"github.com/ebgreentek/core/internal/pkg/response"
	"gorm.io/gorm"
)

// ListQuery carries list filters.
type ListQuery struct {
	Status string
	Search string
}

// Submission is a validated contact form plus where it came from.
type Submission struct {
	CreateContactDTO
	IPAddress string
	UserAgent string
}

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

func (s *Service) base() *gorm.DB {
	return s.db.Model(&models.ContactModel{}).Preload("RepliedBy")
}

func (s *Service) List(q pagination.Query, f ListQuery) ([]models.ContactModel, response.Pagination, error) {
	tx := listquery.Equal(s.base(), "status", f.Status)
	tx = listquery.Search(tx, f.Search, "name", "email", "message")

	var contacts []models.ContactModel
	pag, err := pagination.Paginate(tx.Order("created_at DESC"), q, &contacts)
	return contacts, pag, err
}

func (s *Service) GetByID(id string) (*models.ContactModel, error) {
	var c models.ContactModel
	if err := s.base().Where("id = ?", id).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

// Submit stores a new enquiry with status "new".
func (s *Service) Submit(sub *Submission) (*models.ContactModel, error) {
	c := models.ContactModel{
		Name:      sub.Name,
		Email:     sub.Email,
		Phone:     sub.Phone,
		Subject:   sub.Subject,
		Message:   sub.Message,
		Status:    models.ContactStatusNew,
		IPAddress: sub.IPAddress,
		UserAgent: truncate(sub.UserAgent, 500),
	}
	if err := s.db.Create(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Service) Update(id string, dto *UpdateContactDTO) (*models.ContactModel, error) {
	c, err := s.GetByID(id)
	if err != nil || c == nil {
		return c, err
	}
	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Email != nil {
		updates["email"] = *dto.Email
	}
	if dto.Phone != nil {
		updates["phone"] = *dto.Phone
	}
	if dto.Subject != nil {
		updates["subject"] = *dto.Subject
	}
	if dto.Message != nil {
		updates["message"] = *dto.Message
	}
	if dto.Status != nil {
		updates["status"] = *dto.Status
	}
	if dto.AdminReply != nil {
		updates["admin_reply"] = *dto.AdminReply
	}
	if len(updates) > 0 {
		if err := s.db.Model(&models.ContactModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(id)
}

// Reply records a staff answer and marks the enquiry replied.
func (s *Service) Reply(id, userID, reply string) (*models.ContactModel, error) {
	c, err := s.GetByID(id)
	if err != nil || c == nil {
		return c, err
	}
	updates := map[string]interface{}{
		"admin_reply": reply,
		"replied_at":  s.now(),
		"status":      models.ContactStatusReplied,
	}
	if userID != "" {
		updates["replied_by_id"] = userID
	}
	if err := s.db.Model(&models.ContactModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id)
}

// Delete reports whether a row was removed.
func (s *Service) Delete(id string) (bool, error) {
	res := s.db.Delete(&models.ContactModel{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

package user

import (
	"errors"
	"strings"

	"github.com/ebgreentek/core/internal/config"
	"github.com/ebgreentek/core/internal/models"
	"github.com/ebgreentek/core/internal/pkg/listquery"
	"github.com/ebgreentek/core/internal/pkg/pagination"
	"github.com/ebgreentek/core/internal/pkg/response"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

func (s *Service) List(q pagination.Query, lq ListQuery) ([]models.UserModel, response.Pagination, error) {
	tx := s.db.Model(&models.UserModel{})
	tx = listquery.Equal(tx, "role", lq.Role)
	tx = listquery.Equal(tx, "status", lq.Status)
	tx = listquery.Search(tx, lq.Search, "username", "email", "full_name")

	var users []models.UserModel
	pag, err := pagination.Paginate(tx.Order("created_at DESC"), q, &users)
	return users, pag, err
}

func (s *Service) GetByID(id string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

func (s *Service) usernameTaken(username, exceptID string) (bool, error) {
	var count int64
	tx := s.db.Model(&models.UserModel{}).Where("username = ?", username)
	if exceptID != "" {
		tx = tx.Where("id <> ?", exceptID)
	}
	err := tx.Count(&count).Error
	return count > 0, err
}

func (s *Service) Create(dto *CreateUserDTO) (*models.UserModel, error) {
	taken, err := s.usernameTaken(dto.Username, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, errUsernameTaken
	}
	hash, err := hashPassword(dto.Password)
	if err != nil {
		return nil, err
	}
	u := models.UserModel{
		Username: dto.Username,
		Email:    strings.TrimSpace(dto.Email),
		Password: hash,
		FullName: dto.FullName,
		Role:     orDefault(dto.Role, models.RoleEditor),
		Status:   orDefault(dto.Status, models.StatusActive),
	}
	return &u, s.db.Create(&u).Error
}

func (s *Service) Update(id string, dto *UpdateUserDTO) (*models.UserModel, error) {
	u, err := s.GetByID(id)
	if err != nil || u == nil {
		return u, err
	}
	updates := map[string]interface{}{}
	if dto.Username != nil && *dto.Username != u.Username {
		taken, err := s.usernameTaken(*dto.Username, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, errUsernameTaken
		}
		updates["username"] = *dto.Username
	}
	if dto.Email != nil {
		updates["email"] = strings.TrimSpace(*dto.Email)
	}
	if dto.Password != nil {
		hash, err := hashPassword(*dto.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hash
	}
	if dto.FullName != nil {
		updates["full_name"] = *dto.FullName
	}
	if dto.Role != nil {
		updates["role"] = *dto.Role
	}
	if dto.Status != nil {
		updates["status"] = *dto.Status
	}
	if len(updates) > 0 {
		if err := s.db.Model(u).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(id)
}

// Delete removes the user. actorID, when set, may not delete itself.
func (s *Service) Delete(id, actorID string) (bool, error) {
	if id == actorID {
		return false, errDeleteSelf
	}
	result := s.db.Delete(&models.UserModel{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

// EnsureAdmin creates the configured administrator when no user exists yet.
// It reports whether an account was created.
func (s *Service) EnsureAdmin(cfg config.AdminConfig) (bool, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return false, nil
	}
	var count int64
	if err := s.db.Model(&models.UserModel{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	hash, err := hashPassword(cfg.Password)
	if err != nil {
		return false, err
	}
	u := models.UserModel{
		Username: cfg.Username,
		Email:    cfg.Email,
		Password: hash,
		FullName: "Administrator",
		Role:     models.RoleAdmin,
		Status:   models.StatusActive,
	}
	if err := s.db.Create(&u).Error; err != nil {
		return false, err
	}
	return true, nil
}

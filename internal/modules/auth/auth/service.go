package auth

import (
	"errors"
	"time"

	"github.com/ebgreentek/core/internal/models"
	"github.com/ebgreentek/core/internal/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// dummyHash is compared against when the username is unknown so both failure
// paths cost one bcrypt comparison.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("ebgreentek-dummy"), bcrypt.DefaultCost)

type Service struct {
	db         *gorm.DB
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewService(db *gorm.DB, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{db: db, accessTTL: accessTTL, refreshTTL: refreshTTL, now: time.Now}
}

// Login checks the credentials, refuses inactive accounts and stamps
// last_login on success.
func (s *Service) Login(username, password string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, errInvalidCredentials
	}
	if !u.IsActive() {
		return nil, errInactiveAccount
	}

	now := s.now()
	if err := s.db.Model(&u).UpdateColumn("last_login", now).Error; err != nil {
		return nil, err
	}
	u.LastLogin = &now
	return &u, nil
}

// IssueTokens signs an access and a refresh token for u.
func (s *Service) IssueTokens(u *models.UserModel) (access, refresh string, err error) {
	access, err = jwt.Sign(u.ID, u.Role, jwt.KindAccess, s.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = jwt.Sign(u.ID, u.Role, jwt.KindRefresh, s.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Refresh exchanges a refresh token for a new access token. The owner must
// still exist and be active.
func (s *Service) Refresh(token string) (string, error) {
	claims, err := jwt.ParseKind(token, jwt.KindRefresh)
	if err != nil {
		return "", errInvalidRefresh
	}
	u, err := s.GetByID(claims.UserID)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", errInvalidRefresh
	}
	if !u.IsActive() {
		return "", errInactiveAccount
	}
	return jwt.Sign(u.ID, u.Role, jwt.KindAccess, s.accessTTL)
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

package activity

import (
	"context"
	"errors"
	"strings"

	"github.com/ebgreentek/core/internal/middleware"
	"github.com/ebgreentek/core/internal/models"
	"github.com/ebgreentek/core/internal/pkg/listquery"
	"github.com/ebgreentek/core/internal/pkg/pagination"
	"github.com/ebgreentek/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Actions written by the application.
const (
	ActionLogin        = "login"
	ActionLogout       = "logout"
	ActionReplyContact = "reply_contact"
	ActionUploadImage  = "upload_image"
	ActionCreate       = "create"
	ActionUpdate       = "update"
	ActionDelete       = "delete"
)

// Entry is one audit event to append.
type Entry struct {
	UserID      string
	Action      string
	EntityType  string
	EntityID    string
	Description string
	IPAddress   string
	UserAgent   string
}

// Filter narrows List.
type Filter struct {
	UserID     string
	Action     string
	EntityType string
}

// Service appends and reads the activity log. Entries are never updated or
// deleted through it.
type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log}
}

// Record appends e.
func (s *Service) Record(ctx context.Context, e Entry) error {
	if strings.TrimSpace(e.Action) == "" {
		return errors.New("activity: action is required")
	}
	row := models.ActivityLogModel{
		Action:      e.Action,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Description: e.Description,
		IPAddress:   truncate(e.IPAddress, 45),
		UserAgent:   truncate(e.UserAgent, 500),
	}
	if e.UserID != "" {
		uid := e.UserID
		row.UserID = &uid
	}
	return s.db.WithContext(ctx).Create(&row).Error
}

// Track records an event for the current request, taking the user, client IP
// and user agent from c. Failures are logged, not returned. A nil Service
// records nothing.
func (s *Service) Track(c *gin.Context, action, entityType, entityID, description string) {
	s.TrackUser(c, middleware.CurrentUserID(c), action, entityType, entityID, description)
}

// TrackUser is Track for requests that identify the user themselves, such as
// a login.
func (s *Service) TrackUser(c *gin.Context, userID, action, entityType, entityID, description string) {
	if s == nil {
		return
	}
	e := Entry{
		UserID:      userID,
		Action:      action,
		EntityType:  entityType,
		EntityID:    entityID,
		Description: description,
		IPAddress:   middleware.ClientIP(c),
		UserAgent:   c.Request.UserAgent(),
	}
	if err := s.Record(c.Request.Context(), e); err != nil {
		s.log.Warn("activity log write failed",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.Error(err),
		)
	}
}

func (s *Service) List(q pagination.Query, f Filter) ([]models.ActivityLogModel, response.Pagination, error) {
	tx := s.db.Model(&models.ActivityLogModel{}).Preload("User")
	tx = listquery.Equal(tx, "user_id", f.UserID)
	tx = listquery.Equal(tx, "action", f.Action)
	tx = listquery.Equal(tx, "entity_type", f.EntityType)

	var logs []models.ActivityLogModel
	pag, err := pagination.Paginate(tx.Order("created_at DESC, id DESC"), q, &logs)
	return logs, pag, err
}

func (s *Service) GetByID(id uint) (*models.ActivityLogModel, error) {
	var entry models.ActivityLogModel
	if err := s.db.Preload("User").First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

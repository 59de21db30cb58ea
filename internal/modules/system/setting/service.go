package setting

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ebgreentek/core/internal/models"
	"github.com/ebgreentek/core/internal/pkg/listquery"
	"github.com/ebgreentek/core/internal/pkg/redis"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	publicCacheKey = "ebg:settings:public"
	publicCacheTTL = 10 * time.Minute
	defaultOrder   = "setting_group ASC, setting_key ASC"
)

var ErrKeyTaken = errors.New("setting with this key already exists")

var settingTypes = []interface{}{
	models.SettingTypeText,
	models.SettingTypeJSON,
	models.SettingTypeNumber,
	models.SettingTypeBoolean,
	models.SettingTypeImage,
}

type CreateSettingDTO struct {
	Key         string  `json:"setting_key"`
	Value       *string `json:"setting_value"`
	Type        string  `json:"setting_type"`
	Group       string  `json:"setting_group"`
	Description string  `json:"description"`
	IsPublic    bool    `json:"is_public"`
}

func (d CreateSettingDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Key, validation.Required, validation.Length(1, 100)),
		validation.Field(&d.Type, validation.In(settingTypes...)),
		validation.Field(&d.Group, validation.Length(0, 50)),
		validation.Field(&d.Description, validation.RuneLength(0, 300)),
	)
}

type UpdateSettingDTO struct {
	Key         *string `json:"setting_key"`
	Value       *string `json:"setting_value"`
	Type        *string `json:"setting_type"`
	Group       *string `json:"setting_group"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"is_public"`
}

func (d UpdateSettingDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Key, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&d.Type, validation.In(settingTypes...)),
		validation.Field(&d.Group, validation.NilOrNotEmpty, validation.Length(1, 50)),
		validation.Field(&d.Description, validation.RuneLength(0, 300)),
	)
}

// BulkValue is a setting value in a bulk update. Strings are stored as is and
// numbers by their literal text; anything else is rejected.
type BulkValue string

func (v *BulkValue) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return &models.ValidationError{Field: "settings", Message: "values may not be null"}
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = BulkValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*v = BulkValue(n.String())
		return nil
	}
	return &models.ValidationError{Field: "settings", Message: "values must be strings or numbers"}
}

type BulkUpdateDTO struct {
	Settings map[string]BulkValue `json:"settings" binding:"required"`
}

// ListQuery carries list filters. Public restricts results to public settings.
type ListQuery struct {
	Group    string
	IsPublic string
	Public   bool
}

type Service struct {
	db    *gorm.DB
	cache *redis.Client
	log   *zap.Logger
}

// NewService builds the settings service. cache may be nil.
func NewService(db *gorm.DB, cache *redis.Client, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, cache: cache, log: log}
}

func (s *Service) visible(public bool) *gorm.DB {
	tx := s.db.Model(&models.SettingModel{})
	if public {
		tx = tx.Where("is_public = ?", true)
	}
	return tx
}

func (s *Service) List(f ListQuery) ([]models.SettingModel, error) {
	tx := listquery.Equal(s.visible(f.Public), "setting_group", f.Group)
	tx = listquery.EqualBool(tx, "is_public", f.IsPublic)

	settings := []models.SettingModel{}
	return settings, tx.Order(defaultOrder).Find(&settings).Error
}

func (s *Service) GetByKey(key string, public bool) (*models.SettingModel, error) {
	var st models.SettingModel
	if err := s.visible(public).Where("setting_key = ?", key).First(&st).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &st, nil
}

// Public returns every public setting as {group: {key: value}}, served from
// the cache when one is configured.
func (s *Service) Public(ctx context.Context) (map[string]map[string]string, error) {
	if raw, err := s.cache.Get(ctx, publicCacheKey); err != nil {
		s.log.Warn("settings cache read failed", zap.Error(err))
	} else if raw != "" {
		var grouped map[string]map[string]string
		if err := json.Unmarshal([]byte(raw), &grouped); err == nil {
			return grouped, nil
		}
	}

	var settings []models.SettingModel
	if err := s.visible(true).Order(defaultOrder).Find(&settings).Error; err != nil {
		return nil, err
	}
	grouped := make(map[string]map[string]string)
	for _, st := range settings {
		if grouped[st.Group] == nil {
			grouped[st.Group] = make(map[string]string)
		}
		grouped[st.Group][st.Key] = st.Value
	}

	if data, err := json.Marshal(grouped); err == nil {
		if err := s.cache.Set(ctx, publicCacheKey, data, publicCacheTTL); err != nil {
			s.log.Warn("settings cache write failed", zap.Error(err))
		}
	}
	return grouped, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Del(ctx, publicCacheKey); err != nil {
		s.log.Warn("settings cache invalidation failed", zap.Error(err))
	}
}

func (s *Service) keyTaken(key string, exceptID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.SettingModel{}).
		Where("setting_key = ? AND id <> ?", key, exceptID).
		Count(&count).Error
	return count > 0, err
}

func (s *Service) Create(ctx context.Context, dto *CreateSettingDTO) (*models.SettingModel, error) {
	key := strings.TrimSpace(dto.Key)
	taken, err := s.keyTaken(key, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrKeyTaken
	}

	st := models.SettingModel{
		Key:         key,
		Type:        dto.Type,
		Group:       strings.TrimSpace(dto.Group),
		Description: dto.Description,
		IsPublic:    dto.IsPublic,
	}
	if dto.Value != nil {
		st.Value = *dto.Value
	}
	if st.Type == "" {
		st.Type = models.SettingTypeText
	}
	if st.Group == "" {
		st.Group = models.DefaultSettingGroup
	}
	if err := s.db.Create(&st).Error; err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return &st, nil
}

func (s *Service) Update(ctx context.Context, key string, dto *UpdateSettingDTO) (*models.SettingModel, error) {
	st, err := s.GetByKey(key, false)
	if err != nil || st == nil {
		return st, err
	}

	if dto.Key != nil && *dto.Key != st.Key {
		newKey := strings.TrimSpace(*dto.Key)
		taken, err := s.keyTaken(newKey, st.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrKeyTaken
		}
		st.Key = newKey
	}
	if dto.Value != nil {
		st.Value = *dto.Value
	}
	if dto.Type != nil {
		st.Type = *dto.Type
	}
	if dto.Group != nil {
		st.Group = strings.TrimSpace(*dto.Group)
	}
	if dto.Description != nil {
		st.Description = *dto.Description
	}
	if dto.IsPublic != nil {
		st.IsPublic = *dto.IsPublic
	}

	if err := s.db.Select("*").Omit("created_at").Save(st).Error; err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return st, nil
}

// Delete reports whether a row was removed.
func (s *Service) Delete(ctx context.Context, key string) (bool, error) {
	res := s.db.Where("setting_key = ?", key).Delete(&models.SettingModel{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		s.invalidate(ctx)
	}
	return res.RowsAffected > 0, nil
}

// GroupOf derives a setting group from a dotted key: the text before the
// first "." or the default group when there is none.
func GroupOf(key string) string {
	if i := strings.Index(key, "."); i >= 0 {
		return key[:i]
	}
	return models.DefaultSettingGroup
}

// BulkUpdate upserts every key as a public setting and returns the keys in
// sorted order.
func (s *Service) BulkUpdate(ctx context.Context, values map[string]BulkValue) ([]string, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, key := range keys {
			st := models.SettingModel{
				Key:      key,
				Value:    string(values[key]),
				Type:     models.SettingTypeText,
				Group:    GroupOf(key),
				IsPublic: true,
			}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "setting_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"setting_value", "setting_group", "is_public", "updated_at"}),
			}).Create(&st).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return keys, nil
}

// ValidateBulkKeys checks the keys of a bulk update.
func ValidateBulkKeys(values map[string]BulkValue) error {
	errs := validation.Errors{}
	for key := range values {
		if strings.TrimSpace(key) == "" || len(key) > 100 {
			errs["settings"] = validation.NewError("invalid_key", "invalid setting key "+strconv.Quote(key))
		}
		if g := GroupOf(key); g == "" || len(g) > 50 {
			errs["settings"] = validation.NewError("invalid_group", "invalid setting group in key "+strconv.Quote(key))
		}
	}
	return errs.Filter()
}

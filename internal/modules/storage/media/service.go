package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ebgreentek/core/internal/metrics"
	"github.com/ebgreentek/core/internal/models"
	"github.com/ebgreentek/core/internal/pkg/listquery"
	"github.com/ebgreentek/core/internal/pkg/pagination"
	"github.com/ebgreentek/core/internal/pkg/response"
	"github.com/gabriel-vasile/mimetype"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "golang.org/x/image/webp"
	"gorm.io/gorm"
)

// DefaultMaxImageBytes is the upload limit when none is configured.
const DefaultMaxImageBytes int64 = 5 << 20

const FileTypeImage = "image"

// Upload rejections; handlers answer 400 with the message.
var (
	ErrNotImage     = errors.New("only JPG, PNG, GIF and WebP images are accepted")
	ErrTooLarge     = errors.New("file too large")
	ErrCorruptImage = errors.New("image could not be decoded")
	ErrEmptyUpload  = errors.New("uploaded file is empty")
)

var allowedImageMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

type CreateMediaDTO struct {
	FileName   string `json:"file_name"`
	FilePath   string `json:"file_path"`
	FileURL    string `json:"file_url"`
	FileType   string `json:"file_type"`
	MimeType   string `json:"mime_type"`
	FileSize   int64  `json:"file_size"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	IsPublic   *bool  `json:"is_public"`
}

func (d CreateMediaDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.FileName, validation.Required, validation.RuneLength(1, 255)),
		validation.Field(&d.FilePath, validation.Length(0, 500)),
		validation.Field(&d.FileURL, validation.Length(0, 500)),
		validation.Field(&d.FileType, validation.Length(0, 50)),
		validation.Field(&d.FileSize, validation.Min(int64(0))),
		validation.Field(&d.Width, validation.Min(0)),
		validation.Field(&d.Height, validation.Min(0)),
		validation.Field(&d.EntityType, validation.Length(0, 50)),
		validation.Field(&d.EntityID, validation.Length(0, 36)),
	)
}

type UpdateMediaDTO struct {
	FileName   *string `json:"file_name"`
	EntityType *string `json:"entity_type"`
	EntityID   *string `json:"entity_id"`
	IsPublic   *bool   `json:"is_public"`
}

func (d UpdateMediaDTO) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.FileName, validation.NilOrNotEmpty, validation.RuneLength(1, 255)),
		validation.Field(&d.EntityType, validation.Length(0, 50)),
		validation.Field(&d.EntityID, validation.Length(0, 36)),
	)
}

// ListQuery carries list filters. Public restricts results to public files.
type ListQuery struct {
	FileType   string
	EntityType string
	IsPublic   string
	Search     string
	Public     bool
}

// ImageUpload is one image received from a client.
type ImageUpload struct {
	FileName   string
	Data       []byte
	UploadedBy string
}

type Service struct {
	db       *gorm.DB
	storage  Storage
	maxBytes int64
	log      *zap.Logger
	now      func() time.Time
}

func NewService(db *gorm.DB, storage Storage, maxBytes int64, log *zap.Logger) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, storage: storage, maxBytes: maxBytes, log: log, now: time.Now}
}

// MaxBytes is the largest accepted upload.
func (s *Service) MaxBytes() int64 { return s.maxBytes }

func (s *Service) visible(public bool) *gorm.DB {
	tx := s.db.Model(&models.MediaModel{}).Preload("UploadedBy")
	if public {
		tx = tx.Where("is_public = ?", true)
	}
	return tx
}

func (s *Service) List(q pagination.Query, f ListQuery) ([]models.MediaModel, response.Pagination, error) {
	tx := listquery.Equal(s.visible(f.Public), "file_type", f.FileType)
	tx = listquery.Equal(tx, "entity_type", f.EntityType)
	tx = listquery.EqualBool(tx, "is_public", f.IsPublic)
	tx = listquery.Search(tx, f.Search, "file_name")

	var files []models.MediaModel
	pag, err := pagination.Paginate(tx.Order("created_at DESC"), q, &files)
	return files, pag, err
}

func (s *Service) GetByID(id string, public bool) (*models.MediaModel, error) {
	var m models.MediaModel
	if err := s.visible(public).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Create records metadata for a file stored elsewhere.
func (s *Service) Create(dto *CreateMediaDTO, uploadedBy string) (*models.MediaModel, error) {
	m := models.MediaModel{
		FileName:   strings.TrimSpace(dto.FileName),
		FilePath:   dto.FilePath,
		FileURL:    dto.FileURL,
		FileType:   dto.FileType,
		MimeType:   dto.MimeType,
		FileSize:   dto.FileSize,
		Width:      dto.Width,
		Height:     dto.Height,
		Storage:    "external",
		EntityType: dto.EntityType,
		EntityID:   dto.EntityID,
		IsPublic:   true,
	}
	if dto.IsPublic != nil {
		m.IsPublic = *dto.IsPublic
	}
	if uploadedBy != "" {
		m.UploadedByID = &uploadedBy
	}
	if err := s.db.Create(&m).Error; err != nil {
		return nil, err
	}
	return s.GetByID(m.ID, false)
}

func (s *Service) Update(id string, dto *UpdateMediaDTO) (*models.MediaModel, error) {
	m, err := s.GetByID(id, false)
	if err != nil || m == nil {
		return m, err
	}
	updates := map[string]interface{}{}
	if dto.FileName != nil {
		updates["file_name"] = strings.TrimSpace(*dto.FileName)
	}
	if dto.EntityType != nil {
		updates["entity_type"] = *dto.EntityType
	}
	if dto.EntityID != nil {
		updates["entity_id"] = *dto.EntityID
	}
	if dto.IsPublic != nil {
		updates["is_public"] = *dto.IsPublic
	}
	if len(updates) > 0 {
		if err := s.db.Model(&models.MediaModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetByID(id, false)
}

// Delete removes the record and, for files this server stored, the object.
// Object removal failures are logged and do not fail the delete.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	m, err := s.GetByID(id, false)
	if err != nil || m == nil {
		return false, err
	}
	if err := s.db.Delete(&models.MediaModel{}, "id = ?", id).Error; err != nil {
		return false, err
	}
	if s.storage != nil && m.FilePath != "" && m.Storage == s.storage.Name() {
		if err := s.storage.Delete(ctx, m.FilePath); err != nil {
			s.log.Warn("stored object not removed", zap.String("key", m.FilePath), zap.Error(err))
		}
	}
	return true, nil
}

// ObjectKey builds the storage key for a new upload taken at now.
func ObjectKey(now time.Time, ext string) string {
	return path.Join("uploads", now.Format("2006/01/02"), uuid.NewString()+ext)
}

// inspectImage sniffs the payload and reads its dimensions.
func inspectImage(data []byte) (mime, ext string, width, height int, err error) {
	detected := mimetype.Detect(data)
	mime = detected.String()
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = mime[:i]
	}
	ext, ok := allowedImageMIME[mime]
	if !ok {
		return "", "", 0, 0, ErrNotImage
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", "", 0, 0, ErrCorruptImage
	}
	return mime, ext, cfg.Width, cfg.Height, nil
}

// UploadImage validates an image, stores it and records its metadata.
func (s *Service) UploadImage(ctx context.Context, up ImageUpload) (*models.MediaModel, error) {
	backend := "none"
	if s.storage != nil {
		backend = s.storage.Name()
	}

	size := int64(len(up.Data))
	if size == 0 {
		metrics.ObserveUpload(backend, "rejected", 0)
		return nil, ErrEmptyUpload
	}
	if size > s.maxBytes {
		metrics.ObserveUpload(backend, "rejected", 0)
		return nil, ErrTooLarge
	}
	mime, ext, width, height, err := inspectImage(up.Data)
	if err != nil {
		metrics.ObserveUpload(backend, "rejected", 0)
		return nil, err
	}
	if s.storage == nil {
		metrics.ObserveUpload(backend, "failure", 0)
		return nil, errors.New("no storage backend configured")
	}

	key := ObjectKey(s.now(), ext)
	fileURL, err := s.storage.Put(ctx, key, up.Data, mime)
	if err != nil {
		metrics.ObserveUpload(backend, "failure", 0)
		return nil, err
	}

	name := strings.TrimSpace(path.Base(strings.ReplaceAll(up.FileName, "\\", "/")))
	if name == "" || name == "." || name == "/" {
		name = path.Base(key)
	}
	m := models.MediaModel{
		FileName: truncate(name, 255),
		FilePath: key,
		FileURL:  fileURL,
		FileType: FileTypeImage,
		MimeType: mime,
		FileSize: size,
		Width:    width,
		Height:   height,
		Storage:  backend,
		IsPublic: true,
	}
	if up.UploadedBy != "" {
		m.UploadedByID = &up.UploadedBy
	}
	if err := s.db.Create(&m).Error; err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.log.Warn("orphaned upload not removed", zap.String("key", key), zap.Error(delErr))
		}
		metrics.ObserveUpload(backend, "failure", 0)
		return nil, fmt.Errorf("record upload: %w", err)
	}
	metrics.ObserveUpload(backend, "success", size)
	return &m, nil
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

package article

import (
	"errors"
	"strings"
	"time"

	"github.com/ebgreentek/core/internal/models"
	"github.com/ebgreentek/core/internal/modules/processing/markdown"
	"github.com/ebgreentek/core/internal/pkg/listquery"
	"github.com/ebgreentek/core/internal/pkg/pagination"
	"github.com/ebgreentek/core/internal/pkg/response"
	"gorm.io/gorm"
)

const (
	FeaturedLimit = 3
	defaultAuthor = "Admin"
)

var orderingFields = []string{"created_at", "published_at", "view_count"}

type CreateArticleDTO struct {
	Title      string            `json:"title"       binding:"required,max=300"`
	Category   string            `json:"category"    binding:"required,max=100"`
	Excerpt    string            `json:"excerpt"`
	Content    string            `json:"content"`
	Image      string            `json:"image"       binding:"max=500"`
	Author     string            `json:"author"      binding:"max=100"`
	Tags       models.StringList `json:"tags"`
	Status     string            `json:"status"      binding:"omitempty,oneof=draft published"`
	IsFeatured bool              `json:"is_featured"`
	ReadTime   string            `json:"read_time"   binding:"max=20"`
}

// UpdateArticleDTO is used for PUT and PATCH. Nil fields are left unchanged.
type UpdateArticleDTO struct {
	Title      *string            `json:"title"       binding:"omitempty,min=1,max=300"`
	Category   *string            `json:"category"    binding:"omitempty,min=1,max=100"`
	Excerpt    *string            `json:"excerpt"`
	Content    *string            `json:"content"`
	Image      *string            `json:"image"       binding:"omitempty,max=500"`
	Author     *string            `json:"author"      binding:"omitempty,max=100"`
	Tags       *models.StringList `json:"tags"`
	Status     *string            `json:"status"      binding:"omitempty,oneof=draft published"`
	IsFeatured *bool              `json:"is_featured"`
	ReadTime   *string            `json:"read_time"   binding:"omitempty,max=20"`
}

// Detail is an article with its rendered body.
type Detail struct {
	models.ArticleModel
	ContentHTML string `json:"content_html"`
}

// ListQuery carries list filters. Public restricts results to articles already
// published.
type ListQuery struct {
	Category   string
	Status     string
	IsFeatured string
	Author     string
	Search     string
	Ordering   string
	Public     bool
}

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

func (s *Service) visible(public bool) *gorm.DB {
	tx := s.db.Model(&models.ArticleModel{})
	if public {
		tx = tx.Where("status = ? AND published_at <= ?", models.ArticleStatusPublished, s.now())
	}
	return tx
}

func (s *Service) List(q pagination.Query, f ListQuery) ([]models.ArticleModel, response.Pagination, error) {
	tx := s.visible(f.Public)
	tx = listquery.Equal(tx, "category", f.Category)
	tx = listquery.Equal(tx, "status", f.Status)
	tx = listquery.EqualBool(tx, "is_featured", f.IsFeatured)
	tx = listquery.Equal(tx, "author", f.Author)
	tx = listquery.Search(tx, f.Search, "title", "excerpt", "content", "category")
	tx = tx.Order(listquery.Ordering(f.Ordering, orderingFields, models.ArticleDefaultOrder))

	var articles []models.ArticleModel
	pag, err := pagination.Paginate(tx, q, &articles)
	return articles, pag, err
}

// Featured returns up to limit published featured articles.
func (s *Service) Featured(public bool, limit int) ([]models.ArticleModel, error) {
	articles := []models.ArticleModel{}
	err := s.visible(public).
		Where("is_featured = ? AND status = ?", true, models.ArticleStatusPublished).
		Order(models.ArticleDefaultOrder).
		Limit(limit).
		Find(&articles).Error
	return articles, err
}

// Latest returns up to limit publicly visible articles, newest first.
func (s *Service) Latest(limit int) ([]models.ArticleModel, error) {
	articles := []models.ArticleModel{}
	err := s.visible(true).
		Order("published_at DESC, created_at DESC").
		Limit(limit).
		Find(&articles).Error
	return articles, err
}

// ByCategory pages through the published articles of one category.
func (s *Service) ByCategory(category string, public bool, q pagination.Query) ([]models.ArticleModel, response.Pagination, error) {
	tx := s.visible(public).
		Where("category = ? AND status = ?", category, models.ArticleStatusPublished).
		Order(models.ArticleDefaultOrder)
	var articles []models.ArticleModel
	pag, err := pagination.Paginate(tx, q, &articles)
	return articles, pag, err
}

func (s *Service) GetByID(id string, public bool) (*models.ArticleModel, error) {
	var a models.ArticleModel
	if err := s.visible(public).Where("id = ?", id).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// Detail returns the article with its body rendered to HTML.
func (s *Service) Detail(a *models.ArticleModel) *Detail {
	return &Detail{ArticleModel: *a, ContentHTML: markdown.Render(a.Content)}
}

// IncrementView adds one to the stored view count in a single statement.
func (s *Service) IncrementView(id string) error {
	return s.db.Model(&models.ArticleModel{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).Error
}

func (s *Service) Create(dto *CreateArticleDTO) (*models.ArticleModel, error) {
	a := models.ArticleModel{
		Title:      strings.TrimSpace(dto.Title),
		Category:   strings.TrimSpace(dto.Category),
		Excerpt:    dto.Excerpt,
		Content:    dto.Content,
		Image:      dto.Image,
		Author:     strings.TrimSpace(dto.Author),
		Tags:       dto.Tags,
		Status:     dto.Status,
		IsFeatured: dto.IsFeatured,
		ReadTime:   strings.TrimSpace(dto.ReadTime),
	}
	if a.Author == "" {
		a.Author = defaultAuthor
	}
	if a.Status == "" {
		a.Status = models.ArticleStatusDraft
	}
	if a.ReadTime == "" {
		a.ReadTime = markdown.ReadTime(a.Content)
	}
	if err := s.db.Create(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) Update(id string, dto *UpdateArticleDTO) (*models.ArticleModel, error) {
	a, err := s.GetByID(id, false)
	if err != nil || a == nil {
		return a, err
	}

	if dto.Title != nil {
		a.Title = strings.TrimSpace(*dto.Title)
	}
	if dto.Category != nil {
		a.Category = strings.TrimSpace(*dto.Category)
	}
	if dto.Excerpt != nil {
		a.Excerpt = *dto.Excerpt
	}
	if dto.Content != nil {
		a.Content = *dto.Content
	}
	if dto.Image != nil {
		a.Image = *dto.Image
	}
	if dto.Author != nil {
		a.Author = strings.TrimSpace(*dto.Author)
		if a.Author == "" {
			a.Author = defaultAuthor
		}
	}
	if dto.Tags != nil {
		a.Tags = *dto.Tags
	}
	if dto.Status != nil {
		a.Status = *dto.Status
	}
	if dto.IsFeatured != nil {
		a.IsFeatured = *dto.IsFeatured
	}
	if dto.ReadTime != nil {
		a.ReadTime = strings.TrimSpace(*dto.ReadTime)
	}
	if a.ReadTime == "" {
		a.ReadTime = markdown.ReadTime(a.Content)
	}

	// Save runs the BeforeSave hook that keeps published_at in step with status.
	if err := s.db.Select("*").Omit("view_count", "created_at").Save(a).Error; err != nil {
		return nil, err
	}
	return s.GetByID(id, false)
}

// Delete reports whether a row was removed.
func (s *Service) Delete(id string) (bool, error) {
	res := s.db.Delete(&models.ArticleModel{}, "id = ?", id)
	return res.RowsAffected > 0, res.Error
}

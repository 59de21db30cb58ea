package dashboard

import (
	"context"
	"time"

	"github.com/ebgreentek/core/internal/models"
	"gorm.io/gorm"
)

// Stats is the back-office overview.
type Stats struct {
	TotalProducts     int64 `json:"total_products"`
	TotalArticles     int64 `json:"total_articles"`
	NewContacts       int64 `json:"new_contacts"`
	TodayContacts     int64 `json:"today_contacts"`
	TotalProductViews int64 `json:"total_product_views"`
	TotalArticleViews int64 `json:"total_article_views"`
}

type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service { return &Service{db: db, now: time.Now} }

// Stats counts active products, published articles, unanswered and today's
// contacts, and sums view counters.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	db := s.db.WithContext(ctx)
	var st Stats

	if err := db.Model(&models.ProductModel{}).
		Where("status = ?", models.StatusActive).Count(&st.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.ArticleModel{}).
		Where("status = ?", models.ArticleStatusPublished).Count(&st.TotalArticles).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.ContactModel{}).
		Where("status = ?", models.ContactStatusNew).Count(&st.NewContacts).Error; err != nil {
		return nil, err
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if err := db.Model(&models.ContactModel{}).
		Where("created_at >= ? AND created_at < ?", dayStart, dayStart.AddDate(0, 0, 1)).
		Count(&st.TodayContacts).Error; err != nil {
		return nil, err
	}

	var err error
	if st.TotalProductViews, err = sumViews(db, &models.ProductModel{}); err != nil {
		return nil, err
	}
	if st.TotalArticleViews, err = sumViews(db, &models.ArticleModel{}); err != nil {
		return nil, err
	}
	return &st, nil
}

func sumViews(db *gorm.DB, model interface{}) (int64, error) {
	var total int64
	err := db.Model(model).Select("COALESCE(SUM(view_count), 0)").Scan(&total).Error
	return total, err
}

package syndication

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/ebgreentek/core/internal/models"
	"github.com/ebgreentek/core/internal/modules/content/article"
	"github.com/ebgreentek/core/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db := testutil.NewDB(t)
	r := testutil.NewRouter()
	RegisterRoutes(r.Group(""), NewService(db, article.NewService(db), "https://ebgreentek.vn"))
	return r, db
}

func TestSitemapListsVisibleContent(t *testing.T) {
	r, db := setup(t)
	active := models.ProductModel{Name: "Probiotic", Category: "probiotic", Status: models.StatusActive}
	hidden := models.ProductModel{Name: "Old", Category: "probiotic", Status: models.StatusInactive}
	require.NoError(t, db.Create(&active).Error)
	require.NoError(t, db.Create(&hidden).Error)

	published := models.ArticleModel{Title: "News", Category: "news", Content: "x", Status: models.ArticleStatusPublished}
	draft := models.ArticleModel{Title: "Draft", Category: "news", Content: "x", Status: models.ArticleStatusDraft}
	require.NoError(t, db.Create(&published).Error)
	require.NoError(t, db.Create(&draft).Error)

	w := testutil.Do(r, http.MethodGet, "/sitemap.xml", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/xml"))

	body := w.Body.String()
	assert.Contains(t, body, `<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">`)
	assert.Contains(t, body, "<loc>https://ebgreentek.vn/</loc>")
	assert.Contains(t, body, "https://ebgreentek.vn/products/"+active.ID)
	assert.NotContains(t, body, hidden.ID)
	assert.Contains(t, body, "https://ebgreentek.vn/articles/"+published.ID)
	assert.NotContains(t, body, draft.ID)
}

func TestFeedUsesSiteSettings(t *testing.T) {
	r, db := setup(t)
	require.NoError(t, db.Create(&models.SettingModel{Key: "site.name", Value: "EB Greentek & Co", Group: "site"}).Error)

	past := time.Now().Add(-time.Hour)
	a := models.ArticleModel{
		Title: "Vi sinh <moi>", Category: "news", Content: "x", Excerpt: "short",
		Status: models.ArticleStatusPublished, PublishedAt: &past,
	}
	require.NoError(t, db.Create(&a).Error)

	w := testutil.Do(r, http.MethodGet, "/feed.xml", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<rss version="2.0">`)
	assert.Contains(t, body, "<title>EB Greentek &amp; Co</title>")
	assert.Contains(t, body, "<title>Vi sinh &lt;moi&gt;</title>")
	assert.Contains(t, body, "<guid>"+a.ID+"</guid>")
	assert.Contains(t, body, "<description>short</description>")
}

func TestFeedDefaultsWithoutSettings(t *testing.T) {
	r, _ := setup(t)
	w := testutil.Do(r, http.MethodGet, "/feed.xml", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<title>EBGreentek</title>")
}

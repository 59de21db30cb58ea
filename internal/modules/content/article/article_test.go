package article

import (
	"net/http"
	"testing"
	"time"

	"github.com/ebgreentek/core/internal/middleware"
	"github.com/ebgreentek/core/internal/models"
	"github.com/ebgreentek/core/internal/modules/content/activity"
	"github.com/ebgreentek/core/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type articleBody struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	Author      string     `json:"author"`
	Tags        []string   `json:"tags"`
	ReadTime    string     `json:"read_time"`
	PublishedAt *time.Time `json:"published_at"`
	ViewCount   uint       `json:"view_count"`
	ContentHTML string     `json:"content_html"`
}

type pagedBody struct {
	Data       []articleBody `json:"data"`
	Pagination struct {
		Total int64 `json:"total"`
		Size  int   `json:"size"`
	} `json:"pagination"`
}

func setup(t *testing.T) (*gin.Engine, *gorm.DB, string) {
	t.Helper()
	db := testutil.NewDB(t)
	editor := testutil.CreateUser(t, db, "editor", models.RoleEditor, models.StatusActive)

	r := testutil.NewRouter()
	api := r.Group("/api", middleware.OptionalAuth(db))
	NewHandler(NewService(db), activity.NewService(db, nil)).RegisterRoutes(api, middleware.Auth(db))
	return r, db, testutil.AccessToken(t, editor)
}

func TestPublicationLifecycleOverHTTP(t *testing.T) {
	r, _, token := setup(t)

	w := testutil.Do(r, http.MethodPost, "/api/articles", map[string]any{
		"title": "Nuôi tôm", "category": "news", "content": "# Hello\n\nbody", "tags": []string{"tôm", "ao"},
	}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created articleBody
	testutil.DecodeJSON(t, w, &created)
	assert.Equal(t, models.ArticleStatusDraft, created.Status)
	assert.Nil(t, created.PublishedAt)
	assert.Equal(t, "Admin", created.Author)
	assert.Equal(t, "1 phút đọc", created.ReadTime)
	assert.Contains(t, created.ContentHTML, "<h1")

	w = testutil.Do(r, http.MethodPatch, "/api/articles/"+created.ID, map[string]any{"status": "published"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	var published articleBody
	testutil.DecodeJSON(t, w, &published)
	require.NotNil(t, published.PublishedAt)

	w = testutil.Do(r, http.MethodPatch, "/api/articles/"+created.ID, map[string]any{"title": "Nuôi tôm 2"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	var edited articleBody
	testutil.DecodeJSON(t, w, &edited)
	require.NotNil(t, edited.PublishedAt)
	assert.WithinDuration(t, *published.PublishedAt, *edited.PublishedAt, time.Second)
	assert.Equal(t, []string{"tôm", "ao"}, edited.Tags)

	w = testutil.Do(r, http.MethodPatch, "/api/articles/"+created.ID, map[string]any{"status": "draft"}, token)
	require.Equal(t, http.StatusOK, w.Code)
	var unpublished articleBody
	testutil.DecodeJSON(t, w, &unpublished)
	assert.Nil(t, unpublished.PublishedAt)
}

func TestCreatePublishedStampsTime(t *testing.T) {
	r, _, token := setup(t)
	before := time.Now().Add(-time.Second)

	w := testutil.Do(r, http.MethodPost, "/api/articles", map[string]any{
		"title": "t", "category": "c", "status": "published", "read_time": "7 phút đọc",
	}, token)
	require.Equal(t, http.StatusCreated, w.Code)
	var got articleBody
	testutil.DecodeJSON(t, w, &got)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, got.PublishedAt.After(before))
	assert.Equal(t, "7 phút đọc", got.ReadTime)
}

func TestRejectsNonListTags(t *testing.T) {
	r, db, token := setup(t)

	w := testutil.Do(r, http.MethodPost, "/api/articles", `{"title":"t","category":"c","tags":"a,b"}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.ArticleModel{}).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateRejectsNonListTags(t *testing.T) {
	r, db, token := setup(t)
	a := models.ArticleModel{Title: "Old", Category: "c", Tags: models.StringList{"em"}}
	require.NoError(t, db.Create(&a).Error)

	w := testutil.Do(r, http.MethodPatch, "/api/articles/"+a.ID, `{"title":"New","tags":{"0":"x"}}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var stored models.ArticleModel
	require.NoError(t, db.First(&stored, "id = ?", a.ID).Error)
	assert.Equal(t, "Old", stored.Title)
	assert.Equal(t, models.StringList{"em"}, stored.Tags)
}

func TestAnonymousSeesOnlyPublishedPast(t *testing.T) {
	r, db, token := setup(t)
	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(24 * time.Hour)

	live := models.ArticleModel{Title: "live", Category: "c", Status: models.ArticleStatusPublished, PublishedAt: &past}
	scheduled := models.ArticleModel{Title: "scheduled", Category: "c", Status: models.ArticleStatusPublished, PublishedAt: &future}
	draft := models.ArticleModel{Title: "draft", Category: "c", Status: models.ArticleStatusDraft}
	for _, a := range []*models.ArticleModel{&live, &scheduled, &draft} {
		require.NoError(t, db.Create(a).Error)
	}

	var body pagedBody
	w := testutil.Do(r, http.MethodGet, "/api/articles", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	testutil.DecodeJSON(t, w, &body)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "live", body.Data[0].Title)
	assert.Equal(t, 6, body.Pagination.Size)

	assert.Equal(t, http.StatusNotFound, testutil.Do(r, http.MethodGet, "/api/articles/"+draft.ID, nil, "").Code)
	assert.Equal(t, http.StatusNotFound, testutil.Do(r, http.MethodGet, "/api/articles/"+scheduled.ID, nil, "").Code)

	testutil.DecodeJSON(t, testutil.Do(r, http.MethodGet, "/api/articles", nil, token), &body)
	assert.Len(t, body.Data, 3)
}

func TestFeaturedAndByCategory(t *testing.T) {
	r, db, _ := setup(t)
	for _, title := range []string{"a", "b", "c", "d"} {
		a := models.ArticleModel{Title: title, Category: "news", Status: models.ArticleStatusPublished, IsFeatured: true}
		require.NoError(t, db.Create(&a).Error)
	}
	other := models.ArticleModel{Title: "tips", Category: "guide", Status: models.ArticleStatusPublished}
	require.NoError(t, db.Create(&other).Error)

	var list struct {
		Data []articleBody `json:"data"`
	}
	testutil.DecodeJSON(t, testutil.Do(r, http.MethodGet, "/api/articles/featured", nil, ""), &list)
	assert.Len(t, list.Data, FeaturedLimit)

	assert.Equal(t, http.StatusBadRequest, testutil.Do(r, http.MethodGet, "/api/articles/by_category", nil, "").Code)

	var body pagedBody
	testutil.DecodeJSON(t, testutil.Do(r, http.MethodGet, "/api/articles/by_category?category=guide", nil, ""), &body)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "tips", body.Data[0].Title)
}

func TestDetailIncrementsViewsAndRenders(t *testing.T) {
	r, db, _ := setup(t)
	a := models.ArticleModel{Title: "t", Category: "c", Status: models.ArticleStatusPublished, Content: "**bold**<script>x()</script>"}
	require.NoError(t, db.Create(&a).Error)

	w := testutil.Do(r, http.MethodGet, "/api/articles/"+a.ID, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got articleBody
	testutil.DecodeJSON(t, w, &got)
	assert.EqualValues(t, 1, got.ViewCount)
	assert.Contains(t, got.ContentHTML, "<strong>bold</strong>")
	assert.NotContains(t, got.ContentHTML, "<script")
}

func TestSearchAndFilters(t *testing.T) {
	r, db, token := setup(t)
	for _, a := range []models.ArticleModel{
		{Title: "Kỹ thuật nuôi", Category: "guide", Author: "Lan", Status: models.ArticleStatusPublished},
		{Title: "Tin tức", Category: "news", Excerpt: "about shrimp", Author: "Minh", Status: models.ArticleStatusDraft},
	} {
		require.NoError(t, db.Create(&a).Error)
	}

	var body pagedBody
	testutil.DecodeJSON(t, testutil.Do(r, http.MethodGet, "/api/articles?search=shrimp", nil, token), &body)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Tin tức", body.Data[0].Title)

	testutil.DecodeJSON(t, testutil.Do(r, http.MethodGet, "/api/articles?author=Lan", nil, token), &body)
	require.Len(t, body.Data, 1)

	testutil.DecodeJSON(t, testutil.Do(r, http.MethodGet, "/api/articles?status=draft", nil, token), &body)
	require.Len(t, body.Data, 1)
}

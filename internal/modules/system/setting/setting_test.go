package setting

import (
	"context"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/ebgreentek/core/internal/middleware"
	"github.com/ebgreentek/core/internal/models"
	"github.com/ebgreentek/core/internal/pkg/redis"
	"github.com/ebgreentek/core/internal/testutil"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type settingBody struct {
	Key      string `json:"setting_key"`
	Value    string `json:"setting_value"`
	Type     string `json:"setting_type"`
	Group    string `json:"setting_group"`
	IsPublic bool   `json:"is_public"`
}

type listBody struct {
	Data []settingBody `json:"data"`
}

func setup(t *testing.T, cache *redis.Client) (*gin.Engine, *gorm.DB, string) {
	t.Helper()
	db := testutil.NewDB(t)
	admin := testutil.CreateUser(t, db, "admin", models.RoleAdmin, models.StatusActive)

	r := testutil.NewRouter()
	api := r.Group("/api", middleware.OptionalAuth(db))
	NewHandler(NewService(db, cache, nil)).RegisterRoutes(api, middleware.Auth(db))
	return r, db, testutil.AccessToken(t, admin)
}

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	for _, st := range []models.SettingModel{
		{Key: "site_name", Value: "EBGreentek", Type: "text", Group: "general", IsPublic: true},
		{Key: "contact.phone", Value: "0909", Type: "text", Group: "contact", IsPublic: true},
		{Key: "smtp_password", Value: "secret", Type: "text", Group: "mail"},
	} {
		require.NoError(t, db.Create(&st).Error)
	}
}

func TestGroupOf(t *testing.T) {
	assert.Equal(t, "contact", GroupOf("contact.phone"))
	assert.Equal(t, "a", GroupOf("a.b.c"))
	assert.Equal(t, models.DefaultSettingGroup, GroupOf("logo_url"))
	assert.Equal(t, "", GroupOf(".x"))
}

func TestAnonymousSeesPublicOnly(t *testing.T) {
	r, db, token := setup(t, nil)
	seed(t, db)

	var list listBody
	testutil.DecodeJSON(t, testutil.Do(r, http.MethodGet, "/api/settings", nil, ""), &list)
	assert.Len(t, list.Data, 2)

	w := testutil.Do(r, http.MethodGet, "/api/settings/smtp_password", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	testutil.DecodeJSON(t, testutil.Do(r, http.MethodGet, "/api/settings", nil, token), &list)
	assert.Len(t, list.Data, 3)

	testutil.DecodeJSON(t, testutil.Do(r, http.MethodGet, "/api/settings?setting_group=mail", nil, token), &list)
	require.Len(t, list.Data, 1)
	assert.Equal(t, "smtp_password", list.Data[0].Key)

	testutil.DecodeJSON(t, testutil.Do(r, http.MethodGet, "/api/settings?is_public=false", nil, token), &list)
	assert.Len(t, list.Data, 1)

	w = testutil.Do(r, http.MethodGet, "/api/settings/contact.phone", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var st settingBody
	testutil.DecodeJSON(t, w, &st)
	assert.Equal(t, "0909", st.Value)
}

func TestPublicGroupsSettings(t *testing.T) {
	r, db, _ := setup(t, nil)
	seed(t, db)

	w := testutil.Do(r, http.MethodGet, "/api/settings/public", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var grouped map[string]map[string]string
	testutil.DecodeJSON(t, w, &grouped)
	assert.Equal(t, map[string]map[string]string{
		"general": {"site_name": "EBGreentek"},
		"contact": {"contact.phone": "0909"},
	}, grouped)
}

func TestBulkUpdateUpsertsPublicSettings(t *testing.T) {
	r, db, token := setup(t, nil)
	seed(t, db)

	body := `{"settings":{"contact.phone":"0911","logo_url":"/logo.png","hero.count":12}}`
	w := testutil.Do(r, http.MethodPost, "/api/settings/bulk_update", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutil.Do(r, http.MethodPost, "/api/settings/bulk_update", body, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var res struct {
		Message string   `json:"message"`
		Updated []string `json:"updated"`
	}
	testutil.DecodeJSON(t, w, &res)
	assert.Equal(t, []string{"contact.phone", "hero.count", "logo_url"}, res.Updated)
	assert.Equal(t, "Updated 3 settings", res.Message)

	var logo models.SettingModel
	require.NoError(t, db.Where("setting_key = ?", "logo_url").First(&logo).Error)
	assert.Equal(t, models.DefaultSettingGroup, logo.Group)
	assert.True(t, logo.IsPublic)

	var count models.SettingModel
	require.NoError(t, db.Where("setting_key = ?", "hero.count").First(&count).Error)
	assert.Equal(t, "12", count.Value)
	assert.Equal(t, "hero", count.Group)

	var phone []models.SettingModel
	require.NoError(t, db.Where("setting_key = ?", "contact.phone").Find(&phone).Error)
	require.Len(t, phone, 1)
	assert.Equal(t, "0911", phone[0].Value)

	w = testutil.Do(r, http.MethodPost, "/api/settings/bulk_update", `{"settings":{"x":true}}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = testutil.Do(r, http.MethodPost, "/api/settings/bulk_update", `{"settings":{".x":"v"}}`, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCrudByKey(t *testing.T) {
	r, _, token := setup(t, nil)

	w := testutil.Do(r, http.MethodPost, "/api/settings", map[string]any{"setting_key": "hotline", "setting_value": "1900"}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var st settingBody
	testutil.DecodeJSON(t, w, &st)
	assert.Equal(t, models.SettingTypeText, st.Type)
	assert.Equal(t, models.DefaultSettingGroup, st.Group)
	assert.False(t, st.IsPublic)

	w = testutil.Do(r, http.MethodPost, "/api/settings", map[string]any{"setting_key": "hotline"}, token)
	assert.Equal(t, http.StatusConflict, w.Code)
	w = testutil.Do(r, http.MethodPost, "/api/settings", map[string]any{"setting_key": "x", "setting_type": "blob"}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = testutil.Do(r, http.MethodPatch, "/api/settings/hotline", map[string]any{"setting_value": "1800", "is_public": true}, token)
	require.Equal(t, http.StatusOK, w.Code)
	testutil.DecodeJSON(t, w, &st)
	assert.Equal(t, "1800", st.Value)
	assert.True(t, st.IsPublic)

	w = testutil.Do(r, http.MethodDelete, "/api/settings/hotline", nil, token)
	assert.Equal(t, http.StatusNoContent, w.Code)
	w = testutil.Do(r, http.MethodDelete, "/api/settings/hotline", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPublicCacheIsInvalidatedOnWrite(t *testing.T) {
	mr := miniredis.RunT(t)
	cache := redis.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	r, db, token := setup(t, cache)
	seed(t, db)

	w := testutil.Do(r, http.MethodGet, "/api/settings/public", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, mr.Exists(publicCacheKey))

	// A write behind the service's back is not seen until the entry goes.
	require.NoError(t, db.Model(&models.SettingModel{}).Where("setting_key = ?", "site_name").Update("setting_value", "Stale").Error)
	var grouped map[string]map[string]string
	testutil.DecodeJSON(t, testutil.Do(r, http.MethodGet, "/api/settings/public", nil, ""), &grouped)
	assert.Equal(t, "EBGreentek", grouped["general"]["site_name"])

	w = testutil.Do(r, http.MethodPost, "/api/settings/bulk_update", `{"settings":{"general.slogan":"Xanh"}}`, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, mr.Exists(publicCacheKey))

	testutil.DecodeJSON(t, testutil.Do(r, http.MethodGet, "/api/settings/public", nil, ""), &grouped)
	assert.Equal(t, "Stale", grouped["general"]["site_name"])
	assert.Equal(t, "Xanh", grouped["general"]["general.slogan"])
}

func TestNilCacheIsHarmless(t *testing.T) {
	svc := NewService(testutil.NewDB(t), nil, nil)
	grouped, err := svc.Public(context.Background())
	require.NoError(t, err)
	assert.Empty(t, grouped)
}

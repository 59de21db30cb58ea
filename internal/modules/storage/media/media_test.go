package media

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/ebgreentek/core/internal/config"
	"github.com/ebgreentek/core/internal/metrics"
	"github.com/ebgreentek/core/internal/middleware"
	"github.com/ebgreentek/core/internal/models"
	"github.com/ebgreentek/core/internal/modules/content/activity"
	"github.com/ebgreentek/core/internal/testutil"
	"github.com/gin-gonic/gin"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	r     *gin.Engine
	db    *gorm.DB
	root  string
	token string
}

func setup(t *testing.T, maxBytes int64) env {
	t.Helper()
	db := testutil.NewDB(t)
	admin := testutil.CreateUser(t, db, "admin", models.RoleAdmin, models.StatusActive)
	root := t.TempDir()

	r := testutil.NewRouter()
	api := r.Group("/api", middleware.OptionalAuth(db))
	svc := NewService(db, NewLocalStorage(root, "https://cdn.example.com"), maxBytes, nil)
	NewHandler(svc, activity.NewService(db, nil)).RegisterRoutes(api, middleware.Auth(db))
	return env{r: r, db: db, root: root, token: testutil.AccessToken(t, admin)}
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 40, G: 160, B: 60, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func gifBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, w, h), color.Palette{color.White, color.Black})
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	return buf.Bytes()
}

func upload(t *testing.T, r http.Handler, field, filename string, data []byte, token string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload-image/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type uploadBody struct {
	URL      string `json:"url"`
	FileURL  string `json:"file_url"`
	ImageURL string `json:"image_url"`
	ID       string `json:"id"`
	FileName string `json:"file_name"`
	FileSize int64  `json:"file_size"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

func TestUploadImageStoresFileAndMetadata(t *testing.T) {
	e := setup(t, 0)
	data := pngBytes(t, 3, 2)
	before := promtestutil.ToFloat64(metrics.UploadsTotal.WithLabelValues("local", "success"))

	w := upload(t, e.r, "image", "san-pham.png", data, e.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got uploadBody
	testutil.DecodeJSON(t, w, &got)
	assert.Equal(t, got.URL, got.FileURL)
	assert.Equal(t, got.URL, got.ImageURL)
	assert.True(t, strings.HasPrefix(got.URL, "https://cdn.example.com/static/uploads/"), got.URL)
	assert.Equal(t, "san-pham.png", got.FileName)
	assert.EqualValues(t, len(data), got.FileSize)
	assert.Equal(t, 3, got.Width)
	assert.Equal(t, 2, got.Height)
	assert.Equal(t, before+1, promtestutil.ToFloat64(metrics.UploadsTotal.WithLabelValues("local", "success")))

	var m models.MediaModel
	require.NoError(t, e.db.First(&m, "id = ?", got.ID).Error)
	assert.Equal(t, "image/png", m.MimeType)
	assert.Equal(t, FileTypeImage, m.FileType)
	assert.Equal(t, "local", m.Storage)
	assert.True(t, m.IsPublic)
	require.NotNil(t, m.UploadedByID)
	assert.Contains(t, m.FilePath, time.Now().Format("2006/01/02"))

	stored, err := os.ReadFile(filepath.Join(e.root, filepath.FromSlash(m.FilePath)))
	require.NoError(t, err)
	assert.Equal(t, data, stored)

	var logs int64
	e.db.Model(&models.ActivityLogModel{}).Where("action = ? AND entity_id = ?", activity.ActionUploadImage, got.ID).Count(&logs)
	assert.EqualValues(t, 1, logs)
}

func TestUploadImageReadsGIFDimensions(t *testing.T) {
	e := setup(t, 0)
	w := upload(t, e.r, "image", "anim.gif", gifBytes(t, 7, 5), e.token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got uploadBody
	testutil.DecodeJSON(t, w, &got)
	assert.Equal(t, 7, got.Width)
	assert.Equal(t, 5, got.Height)
	assert.True(t, strings.HasSuffix(got.URL, ".gif"))
}

func TestUploadImageRejections(t *testing.T) {
	e := setup(t, 0)

	w := upload(t, e.r, "image", "a.png", pngBytes(t, 1, 1), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = upload(t, e.r, "file", "a.png", pngBytes(t, 1, 1), e.token)
	assert.Equal(t, http.StatusBadRequest, w.Code, "wrong field name")

	w = upload(t, e.r, "image", "notes.png", []byte("just some text, not an image"), e.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	corrupt := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	w = upload(t, e.r, "image", "broken.png", corrupt, e.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	big := append(pngBytes(t, 1, 1), bytes.Repeat([]byte{0}, int(DefaultMaxImageBytes))...)
	w = upload(t, e.r, "image", "huge.png", big, e.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	e.db.Model(&models.MediaModel{}).Count(&count)
	assert.Zero(t, count)
}

func TestUploadImageHonoursConfiguredLimit(t *testing.T) {
	e := setup(t, 64)
	w := upload(t, e.r, "image", "a.png", pngBytes(t, 200, 200), e.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMediaCrud(t *testing.T) {
	e := setup(t, 0)

	w := upload(t, e.r, "image", "san-pham.png", pngBytes(t, 2, 2), e.token)
	require.Equal(t, http.StatusOK, w.Code)
	var up uploadBody
	testutil.DecodeJSON(t, w, &up)

	w = testutil.Do(e.r, http.MethodPost, "/api/media", map[string]any{
		"file_name": "brochure.pdf", "file_type": "document", "file_url": "https://example.com/b.pdf", "is_public": false,
	}, e.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var page struct {
		Data []struct {
			ID                 string `json:"id"`
			FileName           string `json:"file_name"`
			UploadedByUsername string `json:"uploaded_by_username"`
		} `json:"data"`
		Pagination struct {
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	testutil.DecodeJSON(t, testutil.Do(e.r, http.MethodGet, "/api/media", nil, ""), &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "san-pham.png", page.Data[0].FileName)
	assert.Equal(t, "admin", page.Data[0].UploadedByUsername)

	testutil.DecodeJSON(t, testutil.Do(e.r, http.MethodGet, "/api/media?file_type=document", nil, e.token), &page)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "brochure.pdf", page.Data[0].FileName)

	testutil.DecodeJSON(t, testutil.Do(e.r, http.MethodGet, "/api/media?search=SAN-", nil, e.token), &page)
	assert.EqualValues(t, 1, page.Pagination.Total)

	w = testutil.Do(e.r, http.MethodPatch, "/api/media/"+up.ID, map[string]any{"entity_type": "product", "entity_id": "p-1"}, e.token)
	require.Equal(t, http.StatusOK, w.Code)
	testutil.DecodeJSON(t, testutil.Do(e.r, http.MethodGet, "/api/media?entity_type=product", nil, ""), &page)
	assert.Len(t, page.Data, 1)

	var m models.MediaModel
	require.NoError(t, e.db.First(&m, "id = ?", up.ID).Error)
	w = testutil.Do(e.r, http.MethodDelete, "/api/media/"+up.ID, nil, e.token)
	assert.Equal(t, http.StatusNoContent, w.Code)
	_, err := os.Stat(filepath.Join(e.root, filepath.FromSlash(m.FilePath)))
	assert.True(t, os.IsNotExist(err))

	w = testutil.Do(e.r, http.MethodDelete, "/api/media/"+up.ID, nil, e.token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestObjectKeyLayout(t *testing.T) {
	key := ObjectKey(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), ".png")
	assert.True(t, strings.HasPrefix(key, "uploads/2024/05/01/"), key)
	assert.True(t, strings.HasSuffix(key, ".png"))
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	name := "a" + strings.Repeat("ả", 200) + ".png"
	got := truncate(name, 255)
	assert.True(t, utf8.ValidString(got))
	assert.LessOrEqual(t, len(got), 255)
	assert.Equal(t, "a"+strings.Repeat("ả", 84), got)

	assert.Equal(t, "short.png", truncate("short.png", 255))
}

func TestLocalStorageRejectsEscapes(t *testing.T) {
	root := t.TempDir()
	store := NewLocalStorage(filepath.Join(root, "static"), "")

	url, err := store.Put(context.Background(), "../../etc/x.png", []byte("x"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/static/etc/x.png", url)
	_, err = os.Stat(filepath.Join(root, "static", "etc", "x.png"))
	assert.NoError(t, err, "key is confined to the static root")
}

func TestS3StoragePutAndDelete(t *testing.T) {
	var (
		mu       sync.Mutex
		requests []string
		bodies   [][]byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r.Body)
		mu.Lock()
		requests = append(requests, r.Method+" "+r.URL.Path)
		bodies = append(bodies, buf.Bytes())
		mu.Unlock()
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	store, err := NewS3Storage(config.S3Config{
		Enable:          true,
		Bucket:          "media",
		Region:          "us-east-1",
		Endpoint:        srv.URL,
		AccessKeyID:     "test",
		SecretAccessKey: "test",
	})
	require.NoError(t, err)
	assert.Equal(t, "s3", store.Name())

	url, err := store.Put(context.Background(), "uploads/2024/05/01/a.png", []byte("img"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/media/uploads/2024/05/01/a.png", url)
	require.NoError(t, store.Delete(context.Background(), "uploads/2024/05/01/a.png"))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, requests, 2)
	assert.Equal(t, "PUT /media/uploads/2024/05/01/a.png", requests[0])
	assert.Contains(t, string(bodies[0]), "img")
	assert.Equal(t, "DELETE /media/uploads/2024/05/01/a.png", requests[1])
}

func TestNewStorageFollowsConfig(t *testing.T) {
	cfg := &config.AppConfig{}
	store, err := NewStorage(cfg)
	require.NoError(t, err)
	assert.Equal(t, "local", store.Name())

	cfg.S3 = config.S3Config{Enable: true, Bucket: "b", Region: "ap-southeast-1", PublicBaseURL: "https://img.example.com/"}
	store, err = NewStorage(cfg)
	require.NoError(t, err)
	assert.Equal(t, "s3", store.Name())
	assert.Equal(t, "https://img.example.com", store.(*S3Storage).baseURL)
}

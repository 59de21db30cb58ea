package app

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ebgreentek/core/internal/config"
	"github.com/ebgreentek/core/internal/metrics"
	"github.com/ebgreentek/core/internal/models"
	"github.com/ebgreentek/core/internal/modules/storage/media"
	"github.com/ebgreentek/core/internal/testutil"
	"github.com/gin-gonic/gin"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T, cfg *config.AppConfig) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if cfg == nil {
		cfg = &config.AppConfig{Env: "development", Port: 8000}
	}
	cfg.Paths.Static = t.TempDir()
	cfg.JWT.AccessTTLMinutes = 60
	cfg.JWT.RefreshTTLHours = 24
	cfg.Contact.PerMinute = 5
	a := &App{
		cfg:     cfg,
		db:      testutil.NewDB(t),
		storage: media.NewLocalStorage(cfg.Paths.Static, "http://localhost:8000"),
		logger:  zap.NewNop(),
	}
	a.router = a.buildRouter()
	return a
}

func TestRoutesAreMounted(t *testing.T) {
	a := newTestApp(t, nil)
	admin := testutil.CreateUser(t, a.db, "admin", models.RoleAdmin, models.StatusActive)
	token := testutil.AccessToken(t, admin)

	public := []string{
		"/api", "/api/health", "/api/products", "/api/articles", "/api/settings/public",
		"/api/social-media", "/api/certifications", "/api/categories/tree",
		"/api/about-features", "/api/about-values", "/api/media",
	}
	for _, path := range public {
		w := testutil.Do(a.Router(), http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	authed := []string{
		"/api/users", "/api/contacts", "/api/activity-logs", "/api/dashboard/stats/", "/api/auth/profile/",
	}
	for _, path := range authed {
		assert.Equal(t, http.StatusUnauthorized, testutil.Do(a.Router(), http.MethodGet, path, nil, "").Code, path)
		assert.Equal(t, http.StatusOK, testutil.Do(a.Router(), http.MethodGet, path, nil, token).Code, path)
	}
}

func TestLoginThroughRouter(t *testing.T) {
	a := newTestApp(t, nil)
	testutil.CreateUser(t, a.db, "admin", models.RoleAdmin, models.StatusActive)

	w := testutil.Do(a.Router(), http.MethodPost, "/api/auth/login/", gin.H{"username": "admin", "password": "password"}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Access string `json:"access"`
	}
	testutil.DecodeJSON(t, w, &body)

	w = testutil.Do(a.Router(), http.MethodGet, "/api/dashboard/stats", nil, body.Access)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestErrorEnvelopes(t *testing.T) {
	a := newTestApp(t, nil)

	w := testutil.Do(a.Router(), http.MethodGet, "/api/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"ok":0,"code":404,"message":"not found"}`, w.Body.String())

	w = testutil.Do(a.Router(), http.MethodPut, "/api/products", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestRequestIDAndMetricsEndpoint(t *testing.T) {
	a := newTestApp(t, nil)

	w := testutil.Do(a.Router(), http.MethodGet, "/api/ping", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = testutil.Do(a.Router(), http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ebgreentek_http_requests_total")
}

func TestCORSOriginPatterns(t *testing.T) {
	a := newTestApp(t, &config.AppConfig{
		Env:            "production",
		Port:           8000,
		AllowedOrigins: []string{"*.ebgreentek.vn", "localhost:*"},
	})

	cases := map[string]bool{
		"https://www.ebgreentek.vn": true,
		"http://localhost:5173":     true,
		"https://evil.example.com":  false,
	}
	for origin, allowed := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		a.Router().ServeHTTP(w, req)
		if allowed {
			assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"), origin)
		} else {
			assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"), origin)
		}
	}
}

func TestMatchOriginPattern(t *testing.T) {
	assert.True(t, matchOriginPattern("ebgreentek.vn", "ebgreentek.vn"))
	assert.True(t, matchOriginPattern("*.ebgreentek.vn", "admin.ebgreentek.vn"))
	assert.False(t, matchOriginPattern("*.ebgreentek.vn", "ebgreentek.com"))
	assert.True(t, matchOriginPattern("localhost:*", "localhost:3000"))
	assert.Equal(t, "example.com:8080", extractOriginHost("http://example.com:8080"))
}

func TestCodecReporterCountsMalformed(t *testing.T) {
	installCodecReporter(zap.NewNop())
	t.Cleanup(func() { models.SetMalformedListReporter(nil) })

	before := promtestutil.ToFloat64(metrics.CodecMalformedTotal)
	assert.Empty(t, models.DecodeStringList("{not json"))
	assert.Equal(t, before+1, promtestutil.ToFloat64(metrics.CodecMalformedTotal))
}

func TestParseTimezoneLocation(t *testing.T) {
	loc, err := parseTimezoneLocation("+07:00")
	require.NoError(t, err)
	_, offset := time.Now().In(loc).Zone()
	assert.Equal(t, 7*3600, offset)

	_, err = parseTimezoneLocation("Mars/Olympus")
	assert.Error(t, err)
}

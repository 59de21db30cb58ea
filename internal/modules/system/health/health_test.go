package health

import (
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	pkgredis "github.com/ebgreentek/core/internal/pkg/redis"
	"github.com/ebgreentek/core/internal/testutil"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthWithoutRedis(t *testing.T) {
	db := testutil.NewDB(t)
	r := testutil.NewRouter()
	RegisterRoutes(r.Group("/api"), db, nil)

	w := testutil.Do(r, http.MethodGet, "/api/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	testutil.DecodeJSON(t, w, &body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, true, body["database"])
	assert.NotContains(t, body, "redis")
}

func TestHealthReportsRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := pkgredis.Wrap(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	db := testutil.NewDB(t)
	r := testutil.NewRouter()
	RegisterRoutes(r.Group("/api"), db, rc)

	var body map[string]interface{}
	testutil.DecodeJSON(t, testutil.Do(r, http.MethodGet, "/api/health", nil, ""), &body)
	assert.Equal(t, true, body["redis"])

	mr.Close()
	testutil.DecodeJSON(t, testutil.Do(r, http.MethodGet, "/api/health", nil, ""), &body)
	assert.Equal(t, false, body["redis"])
}

func TestHealthDegradedWhenDatabaseClosed(t *testing.T) {
	db := testutil.NewDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	r := testutil.NewRouter()
	RegisterRoutes(r.Group("/api"), db, nil)
	w := testutil.Do(r, http.MethodGet, "/api/health", nil, "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

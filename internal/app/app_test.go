package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/synonym-backend/internal/auth"
	"github.com/heartmarshall/synonym-backend/internal/config"
	"github.com/heartmarshall/synonym-backend/internal/transport/middleware"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{ImportRatePerMinute: 1},
		Store: config.StoreConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "synonyms.db"),
		},
		Auth: config.AuthConfig{
			JWTSecret:      testSecret,
			JWTIssuer:      "synonyms-test",
			AccessTokenTTL: time.Hour,
		},
		Import: config.ImportConfig{
			SyncThreshold:  50,
			ChunkSize:      10,
			Workers:        2,
			LookupMode:     "exact",
			MaxUploadBytes: 1 << 20,
		},
		Export: config.ExportConfig{MaxRecords: 1000},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	a, err := New(context.Background(), sqliteConfig(t), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func importRequest(t *testing.T, token, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range map[string]string{
		"format":          "csv",
		"language":        "en",
		"type":            "synonym",
		"update_existing": "merge",
	} {
		require.NoError(t, mw.WriteField(k, v))
	}
	fw, err := mw.CreateFormFile("file", "synonyms.csv")
	require.NoError(t, err)
	_, err = io.WriteString(fw, content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/synonyms/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestApp_ImportThenExport(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	tokens := auth.NewJWTManager(testSecret, "synonyms-test", time.Hour)
	token, _, err := tokens.Issue(uuid.New(), "test")
	require.NoError(t, err)

	limiter := middleware.NewRateLimiter(time.Minute)
	t.Cleanup(limiter.Stop)
	h := a.Handler(tokens, limiter)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, importRequest(t, token, "run;jog\nrun;sprint\nwalk;stroll\n"))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var summary struct {
		Imported int `json:"imported"`
		Failed   int `json:"failed"`
		Created  int `json:"created"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, 2, summary.Imported)
	assert.Equal(t, 0, summary.Failed)
	assert.Equal(t, 2, summary.Created)
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/synonyms/export?plugin=solr&language=en", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "run,jog,sprint\nwalk,stroll\n", rec.Body.String())

	// One upload per minute: the second is throttled.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, importRequest(t, token, "run;dash\n"))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestApp_Routes(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	h := a.Handler(auth.NewJWTManager(testSecret, "synonyms-test", time.Hour), nil)

	tests := []struct {
		name   string
		method string
		target string
		want   int
	}{
		{"live", http.MethodGet, "/live", http.StatusOK},
		{"ready", http.MethodGet, "/ready", http.StatusOK},
		{"health", http.MethodGet, "/health", http.StatusOK},
		{"plugins without token", http.MethodGet, "/synonyms/plugins", http.StatusOK},
		{"export without token", http.MethodGet, "/synonyms/export?plugin=solr&language=en", http.StatusUnauthorized},
		{"import without token", http.MethodPost, "/synonyms/import", http.StatusUnauthorized},
		{"wrong method", http.MethodDelete, "/synonyms/export", http.StatusMethodNotAllowed},
		{"unknown path", http.MethodGet, "/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.target, nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestApp_ServeRequiresSecret(t *testing.T) {
	t.Parallel()

	a := newTestApp(t)
	a.Config.Auth.JWTSecret = ""

	err := a.Serve(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "jwt_secret")
}

func TestMigrate_SQLite(t *testing.T) {
	t.Parallel()

	cfg := sqliteConfig(t)
	ctx := context.Background()

	applied, err := Migrate(ctx, cfg, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, 1, applied)

	applied, err = Migrate(ctx, cfg, discardLogger())
	require.NoError(t, err)
	assert.Zero(t, applied)
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	t.Parallel()

	cfg := sqliteConfig(t)
	cfg.Store.Driver = "mongo"

	_, err := OpenStore(context.Background(), cfg, discardLogger())
	require.Error(t, err)

	_, err = Migrate(context.Background(), cfg, discardLogger())
	require.Error(t, err)
}

package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"printshop_app_go/middleware"
	"printshop_app_go/models"
	"printshop_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testTokenSecret = "handlers-test-secret"

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique shared memory name isolates tests from each other
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := testDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, testDB.AutoMigrate(models.All()...))
	return testDB
}

type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) Broadcast(event string, payload any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *eventLog) last() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return ""
	}
	return l.events[len(l.events)-1]
}

type testApp struct {
	e       *echo.Echo
	db      *gorm.DB
	handler *Handler
	events  *eventLog
	token   string
}

// setupApp wires a handler over a fresh database with seeded options and settings
func setupApp(t *testing.T) *testApp {
	t.Helper()
	testDB := setupTestDB(t)
	events := &eventLog{}

	matrix := services.NewMatrixService(testDB)
	options := services.NewOptionService(testDB, matrix)
	require.NoError(t, options.SeedDefaultOptions())

	settings := services.NewSettingsService(testDB, events)
	require.NoError(t, settings.SeedDefaults())

	auth := middleware.NewJWTAuthorizer(testTokenSecret)
	token, err := auth.Sign("staff", time.Hour)
	require.NoError(t, err)

	h := &Handler{
		Options:  options,
		Matrix:   matrix,
		Orders:   services.NewOrderService(testDB, events),
		Settings: settings,
		Storage:  services.NewLocalStorage(t.TempDir()),
		Auth:     auth,
	}

	return &testApp{e: newEcho(h), db: testDB, handler: h, events: events, token: token}
}

func newEcho(h *Handler) *echo.Echo {
	e := echo.New()
	h.Register(e)
	return e
}

// do sends a request through the router; admin adds the bearer token
func (a *testApp) do(method, path string, body interface{}, admin bool) *httptest.ResponseRecorder {
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			panic(fmt.Sprintf("marshal body: %v", err))
		}
		reader = strings.NewReader(string(raw))
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if admin {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e, e.NewContext(req, rec), rec
}

package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"taskify/backend/internal/cache"
	"taskify/backend/internal/config"
	"taskify/backend/internal/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestApplicationStartup(t *testing.T) {
	os.Setenv("ENVIRONMENT", "development")
	os.Setenv("DB_HOST", "localhost")
	os.Setenv("REDIS_HOST", "localhost")
	defer func() {
		os.Unsetenv("ENVIRONMENT")
		os.Unsetenv("DB_HOST")
		os.Unsetenv("REDIS_HOST")
	}()

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg == nil {
		t.Fatal("Configuration should not be nil")
	}
}

func setupTestApp(t *testing.T) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg, err := config.LoadConfig()
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to access connection pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	mr := miniredis.RunT(t)
	cacheConfig := cache.DefaultCacheConfig()
	cacheConfig.Addr = mr.Addr()

	return buildRouter(cfg, db, cache.NewRedisCache(cacheConfig))
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("Failed to marshal payload: %v", err)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestEndToEndTaskLifecycle(t *testing.T) {
	router := setupTestApp(t)

	w := doJSON(t, router, "POST", "/api/auth/register", "", map[string]string{
		"email":    "test@example.com",
		"password": "password123",
		"username": "Jonny123",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	w = doJSON(t, router, "POST", "/api/auth/token", "", map[string]string{
		"email":    "test@example.com",
		"password": "password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("token: expected %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var login struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil {
		t.Fatalf("Failed to parse login response: %v", err)
	}

	w = doJSON(t, router, "POST", "/api/tasks/", login.AccessToken, map[string]interface{}{
		"description": "Test task",
		"due_date":    time.Date(2089, 4, 20, 0, 0, 0, 0, time.UTC),
		"tags":        []map[string]string{{"name": "Work"}},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create task: expected %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var created struct {
		ID   string `json:"id"`
		Tags []struct {
			Name string `json:"name"`
		} `json:"tags"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("Failed to parse create response: %v", err)
	}
	if len(created.Tags) != 1 || created.Tags[0].Name != "Work" {
		t.Fatalf("Expected one tag 'Work', got %+v", created.Tags)
	}

	w = doJSON(t, router, "PATCH", "/api/tasks/"+created.ID+"/", login.AccessToken, map[string]interface{}{
		"tags": []map[string]string{},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("patch task: expected %d, got %d: %s", http.StatusOK, w.Code, w.Body.String())
	}

	var patched struct {
		Tags []struct {
			Name string `json:"name"`
		} `json:"tags"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &patched); err != nil {
		t.Fatalf("Failed to parse patch response: %v", err)
	}
	if len(patched.Tags) != 0 {
		t.Fatalf("Expected cleared tags, got %+v", patched.Tags)
	}

	// The Work tag record itself survives the disassociation.
	w = doJSON(t, router, "GET", "/api/tags/", login.AccessToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list tags: expected %d, got %d", http.StatusOK, w.Code)
	}
	var tags []struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &tags); err != nil {
		t.Fatalf("Failed to parse tags response: %v", err)
	}
	if len(tags) != 1 || tags[0].Name != "Work" {
		t.Fatalf("Expected tag 'Work' to still exist, got %+v", tags)
	}

	w = doJSON(t, router, "DELETE", "/api/tasks/"+created.ID+"/", login.AccessToken, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("delete task: expected %d, got %d", http.StatusNoContent, w.Code)
	}
}

func TestRequestsWithoutTokenRejected(t *testing.T) {
	router := setupTestApp(t)

	w := doJSON(t, router, "GET", "/api/tasks/", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected %d, got %d", http.StatusUnauthorized, w.Code)
	}

	w = doJSON(t, router, "GET", "/api/tags/", "", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected %d, got %d", http.StatusUnauthorized, w.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router := setupTestApp(t)

	w := doJSON(t, router, "GET", "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("Expected %d, got %d", http.StatusOK, w.Code)
	}
}

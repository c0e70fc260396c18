package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/TriStrac/scarrow-server/internal/repository"
	"github.com/TriStrac/scarrow-server/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newActivityFixture(t *testing.T) (*gin.Engine, *services.ActivityLogService, *services.ActivityRecorder) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repository.Migrate(db))

	logs := services.NewActivityLogService(db)
	recorder := services.NewActivityRecorder(logs, 8)
	recorder.Start()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	return r, logs, recorder
}

func asUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
	}
}

func TestActivityLoggerRecordsSuccessfulRequest(t *testing.T) {
	r, logs, recorder := newActivityFixture(t)

	r.POST("/api/devices", asUser("user-1"), ActivityLogger(recorder, "Devices", "Created a Device"), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"success": true})
	})

	body := bytes.NewBufferString(`{"DeviceName":"unit-01","deviceId":"device-1"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/devices", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	recorder.Stop()

	records, err := logs.List()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "user-1", records[0].UserID)
	require.Equal(t, "Devices", records[0].ActivityClass)
	require.Equal(t, "Created a Device", records[0].ActivityType)
	require.NotNil(t, records[0].DeviceID)
	require.Equal(t, "device-1", *records[0].DeviceID)

	var info services.ActivityInfo
	require.NoError(t, json.Unmarshal(records[0].ActivityInfo, &info))
	require.Equal(t, http.MethodPost, info.Method)
	require.Equal(t, "/api/devices", info.Route)
	require.Equal(t, http.StatusCreated, info.Status)
	require.Equal(t, "unit-01", info.Body["DeviceName"])
}

func TestActivityLoggerMasksPasswords(t *testing.T) {
	r, logs, recorder := newActivityFixture(t)

	r.POST("/api/users/login", asUser("user-1"), ActivityLogger(recorder, "Accounts", "Logged In"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	body := bytes.NewBufferString(`{"email":"juan@example.com","password":"secret123","oldPassword":"x"}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/users/login", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	recorder.Stop()

	records, err := logs.List()
	require.NoError(t, err)
	require.Len(t, records, 1)

	var info services.ActivityInfo
	require.NoError(t, json.Unmarshal(records[0].ActivityInfo, &info))
	require.Equal(t, "[HIDDEN]", info.Body["password"])
	require.Equal(t, "[HIDDEN]", info.Body["oldPassword"])
	require.Equal(t, "juan@example.com", info.Body["email"])
}

func TestActivityLoggerSkipsFailuresAndAnonymous(t *testing.T) {
	r, logs, recorder := newActivityFixture(t)

	r.POST("/fail", asUser("user-1"), ActivityLogger(recorder, "Devices", "Created a Device"), func(c *gin.Context) {
		c.JSON(http.StatusConflict, gin.H{"success": false})
	})
	r.POST("/anon", ActivityLogger(recorder, "Devices", "Created a Device"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	for _, path := range []string{"/fail", "/anon"} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
	}

	recorder.Stop()

	records, err := logs.List()
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestActivityLoggerPreservesBodyForHandler(t *testing.T) {
	r, _, recorder := newActivityFixture(t)

	var bound struct {
		DeviceName string `json:"DeviceName"`
	}
	r.POST("/api/devices", asUser("user-1"), ActivityLogger(recorder, "Devices", "Created a Device"), func(c *gin.Context) {
		require.NoError(t, c.ShouldBindJSON(&bound))
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/devices", bytes.NewBufferString(`{"DeviceName":"unit-01"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "unit-01", bound.DeviceName)
	recorder.Stop()
}

package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/TriStrac/scarrow-server/internal/middleware"
	"github.com/TriStrac/scarrow-server/internal/repository"
	"github.com/TriStrac/scarrow-server/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	router  *gin.Engine
	jwtAuth *middleware.JWTAuth
	users   *services.UserService
	groups  *services.GroupService
	devices *services.DeviceService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, repository.Migrate(db))

	jwtAuth := middleware.NewJWTAuth("test-secret", 30)
	users := services.NewUserService(db)
	groups := services.NewGroupService(db)
	devices := services.NewDeviceService(db)
	deviceLogs := services.NewDeviceLogService(db, devices)

	userHandler := NewUserHandler(users, jwtAuth)
	groupHandler := NewGroupHandler(groups)
	deviceHandler := NewDeviceHandler(devices)
	deviceLogHandler := NewDeviceLogHandler(deviceLogs)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api")

	u := api.Group("/users")
	u.POST("", userHandler.Create)
	u.POST("/login", userHandler.Login)
	up := api.Group("/users")
	up.Use(jwtAuth.Middleware())
	up.GET("", userHandler.List)
	up.GET("/:userId", userHandler.Get)
	up.POST("/changePassword", userHandler.ChangePassword)
	up.POST("/emailExists", userHandler.EmailExists)

	g := api.Group("/groups")
	g.Use(jwtAuth.Middleware())
	g.POST("", groupHandler.Create)
	g.POST("/member", groupHandler.AddMember)
	g.DELETE("/member", groupHandler.RemoveMember)

	d := api.Group("/devices")
	d.Use(jwtAuth.Middleware())
	d.POST("", deviceHandler.Create)
	d.GET("/:deviceId", deviceHandler.Get)
	d.GET("/:deviceId/status", deviceHandler.GetStatus)

	dl := api.Group("/deviceLogs")
	dl.POST("", deviceLogHandler.Create)

	return &testEnv{router: r, jwtAuth: jwtAuth, users: users, groups: groups, devices: devices}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	} else {
		reader = bytes.NewBuffer(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) token(t *testing.T, userID, email string) string {
	t.Helper()
	token, err := e.jwtAuth.GenerateToken(userID, email)
	require.NoError(t, err)
	return token
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func createUserBody(email string) map[string]interface{} {
	return map[string]interface{}{
		"email":    email,
		"password": "secret123",
		"address": map[string]interface{}{
			"streetName": "1 Mango St",
			"baranggay":  "San Isidro",
			"town":       "Lipa",
			"province":   "Batangas",
			"zipCode":    "4217",
		},
		"profile": map[string]interface{}{
			"firstName":   "Juan",
			"lastName":    "Dela Cruz",
			"birthDate":   "1990-01-01",
			"phoneNumber": "+639171234567",
		},
	}
}

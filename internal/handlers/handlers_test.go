package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/agripulse/marketplace/internal/models"
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB
	A  *AuthHandler
	P  *ProductHandler
}

func newTestEnv(t *testing.T) *testEnv {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Product{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return &testEnv{
		T:  t,
		E:  echo.New(),
		DB: db,
		A:  &AuthHandler{DB: db},
		P:  &ProductHandler{DB: db},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) createFarmer(name, location string) models.User {
	env.T.Helper()
	user := models.User{Name: name, Location: location, Password: "secret", UserType: models.RoleFarmer}
	require.NoError(env.T, env.DB.Create(&user).Error)
	return user
}

func (env *testEnv) createCustomer(name string) models.User {
	env.T.Helper()
	user := models.User{Name: name, Location: "Pune", Password: "secret", UserType: models.RoleCustomer}
	require.NoError(env.T, env.DB.Create(&user).Error)
	return user
}

func requireHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected HTTPError, got %v", err)
	require.Equal(t, code, he.Code)
	return he
}

func (env *testEnv) productCount() int64 {
	var n int64
	require.NoError(env.T, env.DB.Model(&models.Product{}).Count(&n).Error)
	return n
}

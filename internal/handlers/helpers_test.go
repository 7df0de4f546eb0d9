package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/example/bundleshop/internal/config"
	"github.com/example/bundleshop/internal/database"
	"github.com/example/bundleshop/internal/models"
	"github.com/example/bundleshop/internal/routes"
	"github.com/example/bundleshop/internal/services"
)

// gatewayFunc adapts a function to the payment verifier interface.
type gatewayFunc func(ctx context.Context, reference string) (*services.VerifyResult, error)

func (f gatewayFunc) VerifyTransaction(ctx context.Context, reference string) (*services.VerifyResult, error) {
	return f(ctx, reference)
}

func successGateway() gatewayFunc {
	return func(ctx context.Context, reference string) (*services.VerifyResult, error) {
		return &services.VerifyResult{Status: "success", Reference: reference, Currency: "GHS"}, nil
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func setupApp(t *testing.T, gateway services.PaymentVerifier) (*fiber.App, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	cfg := &config.Config{
		JWTSecret:         "test-secret",
		TokenExpires:      time.Hour,
		PaystackPublicKey: "pk_test_123",
		Currency:          "GHS",
	}

	app := fiber.New()
	orderService := services.NewOrderService(db, gateway, nil)
	routes.RegisterWithServices(app, db, cfg, orderService)
	return app, db
}

func httpDo(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, 5000)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &payload), "body: %s", string(raw))
	return payload
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

// registerUser creates an account through the API and returns its token.
func registerUser(t *testing.T, app *fiber.App, email, password, fullName string) string {
	t.Helper()

	resp := httpDo(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":     email,
		"password":  password,
		"full_name": fullName,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	payload := decodeJSON(t, resp)
	token, _ := payload["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func promoteToAdmin(t *testing.T, db *gorm.DB, email string) {
	t.Helper()
	res := db.Model(&models.User{}).Where("email = ?", email).Update("is_admin", true)
	require.NoError(t, res.Error)
	require.EqualValues(t, 1, res.RowsAffected)
}

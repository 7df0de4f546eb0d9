package handlers_test

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/example/bundleshop/internal/models"
)

func seedPendingOrder(t *testing.T, db *gorm.DB, reference string) models.Order {
	t.Helper()
	order := models.Order{
		ProviderName:     "MTN",
		BundleID:         "mtn-1gb",
		DataAmount:       "1GB",
		Price:            6.00,
		RecipientNumber:  "0241234567",
		PaymentReference: reference,
		Status:           models.OrderStatusPending,
	}
	require.NoError(t, db.Create(&order).Error)
	return order
}

func TestAdminEndpointsRejectNonAdmins(t *testing.T) {
	app, _ := setupApp(t, successGateway())
	token := registerUser(t, app, "user@example.com", "secret123", "User")

	for _, path := range []string{"/api/admin/stats", "/api/admin/orders", "/api/admin/users", "/api/admin/payments"} {
		resp := httpDo(t, app, http.MethodGet, path, token, nil)
		require.Equal(t, http.StatusForbidden, resp.StatusCode, "path %s", path)

		resp = httpDo(t, app, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "path %s", path)
	}
}

func TestAdminDashboardStats(t *testing.T) {
	app, db := setupApp(t, successGateway())
	admin := registerUser(t, app, "admin@example.com", "secret123", "Admin")
	promoteToAdmin(t, db, "admin@example.com")

	buyer := registerUser(t, app, "buyer@example.com", "secret123", "Buyer")
	checkout := httpDo(t, app, http.MethodPost, "/api/payments/checkout", buyer, map[string]string{
		"provider_id":      "mtn",
		"bundle_id":        "mtn-5gb",
		"recipient_number": "0241234567",
	})
	require.Equal(t, http.StatusOK, checkout.StatusCode)
	reference := decodeJSON(t, checkout)["data"].(map[string]interface{})["reference"].(string)

	verify := httpDo(t, app, http.MethodPost, "/api/payments/verify", "", map[string]string{
		"reference": reference,
	})
	require.Equal(t, http.StatusOK, verify.StatusCode)

	resp := httpDo(t, app, http.MethodGet, "/api/admin/stats", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := decodeJSON(t, resp)["data"].(map[string]interface{})
	require.EqualValues(t, 2, data["total_users"])
	require.EqualValues(t, 1, data["total_orders"])
	require.EqualValues(t, 26.00, data["total_revenue"])
	require.EqualValues(t, 1, data["recent_orders"])

	byStatus := data["orders_by_status"].(map[string]interface{})
	require.EqualValues(t, 1, byStatus["completed"])
}

func TestAdminListOrders(t *testing.T) {
	app, db := setupApp(t, successGateway())
	admin := registerUser(t, app, "admin@example.com", "secret123", "Admin")
	promoteToAdmin(t, db, "admin@example.com")

	seedPendingOrder(t, db, "REF_A")
	completed := seedPendingOrder(t, db, "REF_B")
	require.NoError(t, db.Model(&completed).Update("status", models.OrderStatusCompleted).Error)

	resp := httpDo(t, app, http.MethodGet, "/api/admin/orders", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload := decodeJSON(t, resp)
	require.Len(t, payload["data"], 2)

	resp = httpDo(t, app, http.MethodGet, "/api/admin/orders?status=pending", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, decodeJSON(t, resp)["data"], 1)

	resp = httpDo(t, app, http.MethodGet, "/api/admin/orders?status=shipped", admin, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	app, db := setupApp(t, successGateway())
	admin := registerUser(t, app, "admin@example.com", "secret123", "Admin")
	promoteToAdmin(t, db, "admin@example.com")

	order := seedPendingOrder(t, db, "REF_C")
	path := "/api/admin/orders/" + order.ID.String() + "/status"

	resp := httpDo(t, app, http.MethodPatch, path, admin, map[string]string{"status": "processing"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := decodeJSON(t, resp)["data"].(map[string]interface{})
	require.Equal(t, "processing", data["status"])

	resp = httpDo(t, app, http.MethodPatch, path, admin, map[string]string{"status": "failed"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Terminal states stay terminal.
	resp = httpDo(t, app, http.MethodPatch, path, admin, map[string]string{"status": "completed"})
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var stored models.Order
	require.NoError(t, db.First(&stored, "id = ?", order.ID).Error)
	require.Equal(t, models.OrderStatusFailed, stored.Status)

	resp = httpDo(t, app, http.MethodPatch, path, admin, map[string]string{"status": "shipped"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	missing := "/api/admin/orders/" + uuid.NewString() + "/status"
	resp = httpDo(t, app, http.MethodPatch, missing, admin, map[string]string{"status": "processing"})
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAdminListUsers(t *testing.T) {
	app, db := setupApp(t, successGateway())
	admin := registerUser(t, app, "admin@example.com", "secret123", "Admin")
	promoteToAdmin(t, db, "admin@example.com")
	registerUser(t, app, "buyer@example.com", "secret123", "Buyer")

	var buyer models.User
	require.NoError(t, db.First(&buyer, "email = ?", "buyer@example.com").Error)

	order := seedPendingOrder(t, db, "REF_D")
	require.NoError(t, db.Model(&order).Updates(map[string]interface{}{
		"user_id": buyer.ID,
		"status":  models.OrderStatusCompleted,
	}).Error)

	resp := httpDo(t, app, http.MethodGet, "/api/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeJSON(t, resp)
	users := payload["data"].([]interface{})
	require.Len(t, users, 2)

	for _, u := range users {
		entry := u.(map[string]interface{})

		// Password hashes never leave the API.
		_, leaked := entry["password_hash"]
		require.False(t, leaked)

		if entry["email"] == "buyer@example.com" {
			require.EqualValues(t, 1, entry["order_count"])
			require.EqualValues(t, 6.00, entry["total_spent"])
		} else {
			require.EqualValues(t, 0, entry["order_count"])
		}
	}
}

func TestAdminListPayments(t *testing.T) {
	app, db := setupApp(t, successGateway())
	admin := registerUser(t, app, "admin@example.com", "secret123", "Admin")
	promoteToAdmin(t, db, "admin@example.com")

	checkout := httpDo(t, app, http.MethodPost, "/api/payments/checkout", "", map[string]string{
		"provider_id":      "mtn",
		"bundle_id":        "mtn-1gb",
		"recipient_number": "0241234567",
		"guest_email":      "guest@example.com",
	})
	require.Equal(t, http.StatusOK, checkout.StatusCode)
	reference := decodeJSON(t, checkout)["data"].(map[string]interface{})["reference"].(string)

	resp := httpDo(t, app, http.MethodGet, "/api/admin/payments?reference="+reference, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeJSON(t, resp)
	txns := payload["data"].([]interface{})
	require.Len(t, txns, 1)
	require.Equal(t, "initiated", txns[0].(map[string]interface{})["state"])
}

package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	app, _ := setupApp(t, successGateway())

	token := registerUser(t, app, "kofi@example.com", "secret123", "Kofi Boateng")
	require.NotEmpty(t, token)

	resp := httpDo(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "kofi@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := decodeJSON(t, resp)
	require.Equal(t, true, payload["success"])
	user := payload["user"].(map[string]interface{})
	require.Equal(t, "kofi@example.com", user["email"])
	require.Equal(t, false, user["is_admin"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, _ := setupApp(t, successGateway())
	registerUser(t, app, "kofi@example.com", "secret123", "Kofi")

	resp := httpDo(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "kofi@example.com",
		"password": "another123",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRegisterShortPassword(t *testing.T) {
	app, _ := setupApp(t, successGateway())

	resp := httpDo(t, app, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "short@example.com",
		"password": "12345",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginDoesNotLeakWhichFieldWasWrong(t *testing.T) {
	app, _ := setupApp(t, successGateway())
	registerUser(t, app, "kofi@example.com", "secret123", "Kofi")

	wrongPassword := httpDo(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "kofi@example.com",
		"password": "wrongpass",
	})
	unknownEmail := httpDo(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@example.com",
		"password": "secret123",
	})

	require.Equal(t, http.StatusUnauthorized, wrongPassword.StatusCode)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.StatusCode)
	require.Equal(t, readBody(t, wrongPassword), readBody(t, unknownEmail))
}

func TestProfileRequiresAuth(t *testing.T) {
	app, _ := setupApp(t, successGateway())

	resp := httpDo(t, app, http.MethodGet, "/api/profile", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateProfile(t *testing.T) {
	app, _ := setupApp(t, successGateway())
	token := registerUser(t, app, "ama@example.com", "secret123", "Ama")

	resp := httpDo(t, app, http.MethodPut, "/api/profile", token, map[string]string{
		"full_name": "Ama Mensah",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = httpDo(t, app, http.MethodGet, "/api/profile", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	payload := decodeJSON(t, resp)
	data := payload["data"].(map[string]interface{})
	require.Equal(t, "Ama Mensah", data["full_name"])
}

func TestUpdatePassword(t *testing.T) {
	app, _ := setupApp(t, successGateway())
	token := registerUser(t, app, "ama@example.com", "secret123", "Ama")

	// Wrong current password is rejected.
	resp := httpDo(t, app, http.MethodPut, "/api/profile/password", token, map[string]string{
		"current_password": "wrongpass",
		"new_password":     "newsecret1",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Too-short new password is rejected.
	resp = httpDo(t, app, http.MethodPut, "/api/profile/password", token, map[string]string{
		"current_password": "secret123",
		"new_password":     "12345",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = httpDo(t, app, http.MethodPut, "/api/profile/password", token, map[string]string{
		"current_password": "secret123",
		"new_password":     "newsecret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Old password no longer works, new one does.
	resp = httpDo(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ama@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = httpDo(t, app, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ama@example.com",
		"password": "newsecret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

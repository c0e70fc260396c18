package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCreateUserEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/users", "", createUserBody("juan@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, "User created", body["message"])
	require.NotEmpty(t, body["userId"])
	require.NotEmpty(t, body["profileId"])
	require.NotEmpty(t, body["addressId"])
}

func TestCreateUserDuplicateEmailConflict(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/users", "", createUserBody("juan@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodPost, "/api/users", "", createUserBody("juan@example.com"))
	require.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t)

	body := createUserBody("not-an-email")
	w := env.request(t, http.MethodPost, "/api/users", "", body)
	require.Equal(t, http.StatusBadRequest, w.Code)

	body = createUserBody("juan@example.com")
	delete(body, "address")
	w = env.request(t, http.MethodPost, "/api/users", "", body)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/users", "", createUserBody("juan@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)
	userID := decodeBody(t, w)["userId"].(string)

	// Wrong password and unknown email both collapse to 401.
	w = env.request(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "juan@example.com", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "nobody@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, http.MethodPost, "/api/users/login", "", map[string]string{
		"email": "juan@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])
	require.Equal(t, userID, body["userId"])

	// The issued token works against a protected route.
	token := body["token"].(string)
	w = env.request(t, http.MethodGet, "/api/users/"+userID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodGet, "/api/users", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token := env.token(t, "user-1", "juan@example.com")
	w = env.request(t, http.MethodGet, "/api/users", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestGetUserNeverExposesPassword(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/users", "", createUserBody("juan@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)
	userID := decodeBody(t, w)["userId"].(string)

	token := env.token(t, userID, "juan@example.com")
	w = env.request(t, http.MethodGet, "/api/users/"+userID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), "password")
	require.NotContains(t, w.Body.String(), "secret123")

	w = env.request(t, http.MethodGet, "/api/users/no-such-user", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestChangePasswordEndpoint(t *testing.T) {
	env := newTestEnv(t)

	w := env.request(t, http.MethodPost, "/api/users", "", createUserBody("juan@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)
	userID := decodeBody(t, w)["userId"].(string)
	token := env.token(t, userID, "juan@example.com")

	w = env.request(t, http.MethodPost, "/api/users/changePassword", token, map[string]string{
		"userId": "no-such-user", "oldPassword": "secret123", "newPassword": "newpass1",
	})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.request(t, http.MethodPost, "/api/users/changePassword", token, map[string]string{
		"userId": userID, "oldPassword": "wrong", "newPassword": "newpass1",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.request(t, http.MethodPost, "/api/users/changePassword", token, map[string]string{
		"userId": userID, "oldPassword": "secret123", "newPassword": "newpass1",
	})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestEmailExistsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1", "juan@example.com")

	w := env.request(t, http.MethodPost, "/api/users/emailExists", token, map[string]string{"email": "juan@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, false, decodeBody(t, w)["exists"])

	w = env.request(t, http.MethodPost, "/api/users", "", createUserBody("juan@example.com"))
	require.Equal(t, http.StatusCreated, w.Code)

	w = env.request(t, http.MethodPost, "/api/users/emailExists", token, map[string]string{"email": "juan@example.com"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, decodeBody(t, w)["exists"])
}

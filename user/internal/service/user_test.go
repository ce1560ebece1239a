package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopindream/storefront/internal/backend"
	inErrors "github.com/shopindream/storefront/internal/errors"
	"github.com/shopindream/storefront/user/pkg/request"
)

func newUserService(t *testing.T, handler http.HandlerFunc) *UserService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewUserService(backend.NewClient(2*time.Second), server.URL)
}

func signedToken(t *testing.T, expiresAt time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestLogin(t *testing.T) {
	expiresAt := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	token := signedToken(t, expiresAt)

	var received map[string]string
	svc := newUserService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/login.php", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		fmt.Fprintf(w, `{"status":200,"data":{
			"user":{"id":7,"username":"ada","email":"ada@example.com"},
			"token":%q
		}}`, token)
	})

	session, err := svc.Login(context.Background(), request.Login{
		Email:    " ada@example.com ",
		Password: "hunter2hunter2",
	})

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", received["email"], "email is trimmed")
	assert.Equal(t, "hunter2hunter2", received["password"], "real password reaches the backend")
	assert.EqualValues(t, 7, session.User.ID)
	assert.Equal(t, "ada", session.User.Username)
	assert.Equal(t, token, session.Token)
	assert.True(t, session.ExpiresAt.Equal(expiresAt))
}

func TestLoginUserAsDataObject(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	svc := newUserService(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"code":200,
			"data":{"id":3,"username":"bob","email":"bob@example.com"},
			"token":%q
		}`, token)
	})

	session, err := svc.Login(context.Background(), request.Login{
		Email:    "bob@example.com",
		Password: "password123",
	})

	require.NoError(t, err)
	assert.Equal(t, "bob", session.User.Username, "user may be the data object itself")
	assert.Equal(t, token, session.Token, "token may live at the top level")
}

func TestLoginOpaqueTokenHasNoExpiry(t *testing.T) {
	svc := newUserService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":200,"data":{
			"user":{"id":7,"username":"ada","email":"ada@example.com"},
			"token":"not-a-jwt"
		}}`))
	})

	session, err := svc.Login(context.Background(), request.Login{
		Email:    "ada@example.com",
		Password: "hunter2hunter2",
	})

	require.NoError(t, err)
	assert.Equal(t, "not-a-jwt", session.Token)
	assert.True(t, session.ExpiresAt.IsZero())
}

func TestLoginRejected(t *testing.T) {
	svc := newUserService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":401,"message":"invalid credentials"}`))
	})

	_, err := svc.Login(context.Background(), request.Login{
		Email:    "ada@example.com",
		Password: "wrong",
	})

	require.ErrorIs(t, err, inErrors.ErrBackendStatus)
	assert.ErrorContains(t, err, "invalid credentials")
}

func TestLoginMissingToken(t *testing.T) {
	svc := newUserService(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":200,"data":{
			"user":{"id":7,"username":"ada","email":"ada@example.com"}
		}}`))
	})

	_, err := svc.Login(context.Background(), request.Login{
		Email:    "ada@example.com",
		Password: "hunter2hunter2",
	})

	require.ErrorIs(t, err, inErrors.ErrTokenInvalid)
}

func TestRegister(t *testing.T) {
	token := signedToken(t, time.Now().Add(time.Hour))
	var received map[string]string
	svc := newUserService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reg.php", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		fmt.Fprintf(w, `{"status":200,"data":{
			"user":{"id":8,"username":"grace","email":"grace@example.com"},
			"token":%q
		}}`, token)
	})

	session, err := svc.Register(context.Background(), request.Register{
		Username: " grace ",
		Email:    "grace@example.com",
		Password: "correcthorse",
		Phone:    "",
	})

	require.NoError(t, err)
	assert.Equal(t, "grace", received["username"], "username is trimmed")
	assert.Equal(t, "correcthorse", received["password"])
	assert.EqualValues(t, 8, session.User.ID)
	assert.Equal(t, token, session.Token)
}

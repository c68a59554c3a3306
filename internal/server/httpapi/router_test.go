package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youverse/dupliverse/internal/common"
	"github.com/youverse/dupliverse/internal/logging"
	"github.com/youverse/dupliverse/internal/server/config"
	"github.com/youverse/dupliverse/internal/server/repositories/repomanager"
	"github.com/youverse/dupliverse/internal/server/services"
)

const (
	testAPIKey = "test-api-key"
	testSecret = "test-secret"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		SecretKey:                    testSecret,
		APIKey:                       testAPIKey,
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 24 * time.Hour,
	}
	rm := repomanager.NewInMemoryRepositoryManager()
	h := NewHandlers(
		services.NewUserService(nil, rm, cfg),
		services.NewProfileService(nil, rm),
	)

	router := NewRouter(h, testAPIKey, []byte(testSecret), logging.NewDev(slog.LevelError))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv
}

type tokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

func doJSON(t *testing.T, method, url, accessToken string, body any) (*http.Response, []byte) {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.APIKeyHeaderName, testAPIKey)
	if accessToken != "" {
		req.Header.Set(common.AuthorizationHeaderName, "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, data
}

func signUp(t *testing.T, srv *httptest.Server, email string) tokens {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/v1/signup", "",
		map[string]string{"email": email, "password": "hunter2"})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "signup: %s", body)

	var tk tokens
	require.NoError(t, json.Unmarshal(body, &tk))
	require.NotEmpty(t, tk.AccessToken)
	require.NotEmpty(t, tk.RefreshToken)
	return tk
}

func subjectOf(t *testing.T, srv *httptest.Server, tk tokens) string {
	t.Helper()
	// The id is the JWT subject; easiest to learn it by creating the profile.
	resp, body := doJSON(t, http.MethodPost, srv.URL+"/rest/v1/profiles", tk.AccessToken,
		map[string]any{"username": nil})
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create profile: %s", body)

	var p struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &p))
	return p.ID
}

// --- auth surface ---

func TestHealthzNeedsNoAPIKey(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAPIKeyRequired(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/auth/v1/signup", bytes.NewReader([]byte("{}")))
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSignUpAndPasswordGrant(t *testing.T) {
	srv := newTestServer(t)
	signUp(t, srv, "alex@example.com")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/v1/token?grant_type=password", "",
		map[string]string{"email": "alex@example.com", "password": "hunter2"})
	require.Equal(t, http.StatusOK, resp.StatusCode, "login: %s", body)

	var tk tokens
	require.NoError(t, json.Unmarshal(body, &tk))
	assert.NotEmpty(t, tk.AccessToken)
	assert.EqualValues(t, 3600, tk.ExpiresIn)
}

func TestPasswordGrant_WrongPassword(t *testing.T) {
	srv := newTestServer(t)
	signUp(t, srv, "alex@example.com")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/v1/token?grant_type=password", "",
		map[string]string{"email": "alex@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	var e map[string]string
	require.NoError(t, json.Unmarshal(body, &e))
	assert.NotEmpty(t, e["error"])
}

func TestSignUp_DuplicateEmail(t *testing.T) {
	srv := newTestServer(t)
	signUp(t, srv, "alex@example.com")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/v1/signup", "",
		map[string]string{"email": "alex@example.com", "password": "x"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRefreshGrant_RotatesToken(t *testing.T) {
	srv := newTestServer(t)
	tk := signUp(t, srv, "alex@example.com")

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/auth/v1/token?grant_type=refresh_token", "",
		map[string]string{"refresh_token": tk.RefreshToken})
	require.Equal(t, http.StatusOK, resp.StatusCode, "refresh: %s", body)

	var fresh tokens
	require.NoError(t, json.Unmarshal(body, &fresh))
	assert.NotEqual(t, tk.RefreshToken, fresh.RefreshToken)

	// the old refresh token is now revoked
	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/v1/token?grant_type=refresh_token", "",
		map[string]string{"refresh_token": tk.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogout_RevokesRefreshToken(t *testing.T) {
	srv := newTestServer(t)
	tk := signUp(t, srv, "alex@example.com")

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/v1/logout", "",
		map[string]string{"refresh_token": tk.RefreshToken})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/auth/v1/token?grant_type=refresh_token", "",
		map[string]string{"refresh_token": tk.RefreshToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUnsupportedGrantType(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/auth/v1/token?grant_type=implicit", "", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// --- profile surface ---

func TestProfileLifecycle(t *testing.T) {
	srv := newTestServer(t)
	tk := signUp(t, srv, "alex@example.com")

	// first fetch finds nothing; clients react by creating the row
	userID := subjectOf(t, srv, tk)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/rest/v1/profiles/"+userID, tk.AccessToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "get: %s", body)

	var p struct {
		ID            string         `json:"id"`
		WalletBalance float64        `json:"wallet_balance"`
		Preferences   map[string]any `json:"preferences"`
	}
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, userID, p.ID)
	assert.Equal(t, 0.0, p.WalletBalance)

	// patch merges preferences per key
	resp, _ = doJSON(t, http.MethodPatch, srv.URL+"/rest/v1/profiles/"+userID, tk.AccessToken,
		map[string]any{"preferences": map[string]any{"theme": "dark"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPatch, srv.URL+"/rest/v1/profiles/"+userID, tk.AccessToken,
		map[string]any{"preferences": map[string]any{"lang": "lv"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, "dark", p.Preferences["theme"], "sibling keys must survive")
	assert.Equal(t, "lv", p.Preferences["lang"])
}

func TestProfileGet_MissingIs404(t *testing.T) {
	srv := newTestServer(t)
	tk := signUp(t, srv, "alex@example.com")

	claims := jwt.RegisteredClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(tk.AccessToken, &claims)
	require.NoError(t, err)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/rest/v1/profiles/"+claims.Subject, tk.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode, "no row yet, clients create on 404")
}

func TestProfileGet_ForeignProfileForbidden(t *testing.T) {
	srv := newTestServer(t)
	tk := signUp(t, srv, "alex@example.com")
	userID := subjectOf(t, srv, signUp(t, srv, "other@example.com"))

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/rest/v1/profiles/"+userID, tk.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "foreign profile must be unreadable")
}

func TestProfilePatch_NegativeWalletRejected(t *testing.T) {
	srv := newTestServer(t)
	tk := signUp(t, srv, "alex@example.com")
	userID := subjectOf(t, srv, tk)

	resp, body := doJSON(t, http.MethodPatch, srv.URL+"/rest/v1/profiles/"+userID, tk.AccessToken,
		map[string]any{"wallet_balance": -3})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var e map[string]string
	require.NoError(t, json.Unmarshal(body, &e))
	assert.NotEmpty(t, e["error"])
}

func TestProfilePatch_UsernameConflict(t *testing.T) {
	srv := newTestServer(t)

	tkA := signUp(t, srv, "a@example.com")
	idA := subjectOf(t, srv, tkA)
	tkB := signUp(t, srv, "b@example.com")
	idB := subjectOf(t, srv, tkB)

	resp, _ := doJSON(t, http.MethodPatch, srv.URL+"/rest/v1/profiles/"+idA, tkA.AccessToken,
		map[string]any{"username": "alex"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPatch, srv.URL+"/rest/v1/profiles/"+idB, tkB.AccessToken,
		map[string]any{"username": "alex"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestProfile_RequiresBearerToken(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/rest/v1/profiles/whatever", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

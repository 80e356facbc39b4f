package app

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"brokerdesk/internal/config"
	"brokerdesk/internal/database"
	"brokerdesk/internal/pkg/jwt"
)

const testSecret = "test-secret"

type TestResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *ErrorDetail           `json:"error,omitempty"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type suite struct {
	router *gin.Engine
	jwt    *jwt.Service
	// emails holds the provider-verified email to put in a user's token.
	emails map[string]string
}

func setupSuite(t *testing.T) *suite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.ConnectMemory("app_" + t.Name())
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	cfg := &config.Config{
		AppEnv:          "test",
		JWTSecret:       testSecret,
		JWTTTL:          time.Hour,
		DefaultPageSize: 20,
		MaxPageSize:     100,
	}
	return &suite{
		router: NewRouter(cfg, db, zap.NewNop()),
		jwt:    jwt.New(testSecret, time.Hour),
		emails: map[string]string{},
	}
}

func (s *suite) request(t *testing.T, userID, method, path string, body interface{}) (int, TestResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := s.jwt.GenerateToken(userID)
		if email, ok := s.emails[userID]; ok {
			token, err = s.jwt.GenerateVerifiedToken(userID, email)
		}
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp TestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func TestHealth(t *testing.T) {
	s := setupSuite(t)

	code, resp := s.request(t, "", http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
}

func TestBrokerRoutesNeedAuthAndProfile(t *testing.T) {
	s := setupSuite(t)

	code, resp := s.request(t, "", http.MethodGet, "/api/v1/relations", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "AUTH_HEADER_MISSING", resp.Error.Code)

	code, resp = s.request(t, "stranger", http.MethodGet, "/api/v1/relations", nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "COURTIER_REQUIRED", resp.Error.Code)
}

func TestBrokerJourney(t *testing.T) {
	s := setupSuite(t)

	code, _ := s.request(t, "broker-1", http.MethodPost, "/api/v1/courtiers/me", map[string]string{
		"email": "bruno@cabinet.fr", "first_name": "Bruno", "last_name": "Petit", "role": "admin",
	})
	require.Equal(t, http.StatusCreated, code)

	s.emails["user-9"] = "existing@user.com"
	code, _ = s.request(t, "user-9", http.MethodPost, "/api/v1/accounts/me", map[string]string{
		"email": "existing@user.com", "first_name": "Eve", "last_name": "Durand",
	})
	require.Equal(t, http.StatusCreated, code)

	code, resp := s.request(t, "broker-1", http.MethodGet, "/api/v1/clients/lookup?email=existing@user.com", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, resp.Data["found"])
	assert.Equal(t, "account_holder", resp.Data["kind"])

	code, resp = s.request(t, "broker-1", http.MethodPost, "/api/v1/roster/clients", map[string]string{
		"email": "a@b.com", "first_name": "Alice", "last_name": "Martin",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "created", resp.Data["outcome"])
	alice := resp.Data["client"].(map[string]interface{})["id"].(string)

	code, resp = s.request(t, "broker-1", http.MethodPost, "/api/v1/roster/clients", map[string]string{
		"email": "existing@user.com", "first_name": "Eve", "last_name": "Durand",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "attached_account", resp.Data["outcome"])
	eve := resp.Data["client"].(map[string]interface{})["id"].(string)

	code, resp = s.request(t, "broker-1", http.MethodPut, "/api/v1/roster/clients/"+eve, map[string]string{"phone": "0600"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "NOT_AUTHORIZED", resp.Error.Code)

	code, _ = s.request(t, "broker-1", http.MethodPut, "/api/v1/roster/clients/"+alice, map[string]string{"phone": "0600"})
	assert.Equal(t, http.StatusOK, code)

	code, resp = s.request(t, "broker-1", http.MethodGet, "/api/v1/relations?page_size=1", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp.Data["relations"], 1)
	cursor, _ := resp.Data["next_cursor"].(string)
	require.NotEmpty(t, cursor)

	code, resp = s.request(t, "broker-1", http.MethodGet, "/api/v1/relations?page_size=1&cursor="+cursor, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp.Data["relations"], 1)
	assert.Empty(t, resp.Data["next_cursor"])

	code, resp = s.request(t, "broker-1", http.MethodPost, "/api/v1/cabinets", map[string]string{"name": "Cabinet Petit"})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "broker-1", resp.Data["admin_id"])

	code, resp = s.request(t, "stranger", http.MethodPost, "/api/v1/accounts/me", map[string]string{
		"email": "a@b.com", "first_name": "Mal", "last_name": "Lory",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.NotEqual(t, alice, resp.Data["id"])
	assert.Equal(t, false, resp.Data["email_verified"])

	code, resp = s.request(t, "broker-1", http.MethodGet, "/api/v1/clients/lookup?email=a@b.com", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "broker_managed", resp.Data["kind"])
	assert.Equal(t, alice, resp.Data["profile"].(map[string]interface{})["id"])
}

func TestLiveLookupOverWebsocket(t *testing.T) {
	s := setupSuite(t)

	code, _ := s.request(t, "broker-1", http.MethodPost, "/api/v1/courtiers/me", map[string]string{
		"email": "bruno@cabinet.fr", "first_name": "Bruno", "last_name": "Petit",
	})
	require.Equal(t, http.StatusCreated, code)

	srv := httptest.NewServer(s.router)
	defer srv.Close()

	token, err := s.jwt.GenerateToken("broker-1")
	require.NoError(t, err)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/clients/lookup/ws?token=" + token

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(map[string]interface{}{"seq": 1, "email": "nobody@nowhere.com"}))

	var got map[string]interface{}
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	require.NoError(t, conn.ReadJSON(&got))
	assert.Equal(t, float64(1), got["seq"])
	assert.Equal(t, false, got["found"])
}

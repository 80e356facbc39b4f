package relation

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(svc *Service, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1", func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(g)
	return r
}

type pageEnvelope struct {
	Success bool `json:"success"`
	Data    Page `json:"data"`
}

func TestHandlerListAndDeactivate(t *testing.T) {
	svc, _ := setupTestService(t, Options{})
	rel, err := svc.Upsert(context.Background(), UpsertInput{BrokerID: "broker-1", ClientID: "client-1", ClientName: "Alice"})
	require.NoError(t, err)

	r := setupRouter(svc, "broker-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/relations?page_size=10", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body pageEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data.Relations, 1)
	assert.Equal(t, rel.ID, body.Data.Relations[0].ID)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/relations/"+rel.ID+"/deactivate", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	stored, err := svc.Get(context.Background(), rel.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusInactive, stored.Status)
}

func TestHandlerHidesOtherBrokersRelation(t *testing.T) {
	svc, _ := setupTestService(t, Options{})
	rel, err := svc.Upsert(context.Background(), UpsertInput{BrokerID: "broker-1", ClientID: "client-1", ClientName: "Alice"})
	require.NoError(t, err)

	r := setupRouter(svc, "broker-2")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/relations/"+rel.ID+"/deactivate", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	stored, err := svc.Get(context.Background(), rel.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusActive, stored.Status)
}

func TestHandlerRejectsBadPageParams(t *testing.T) {
	svc, _ := setupTestService(t, Options{})
	r := setupRouter(svc, "broker-1")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/relations?page_size=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/relations?cursor=bogus", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

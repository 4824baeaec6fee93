package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ecoscan/backend/config"
	"github.com/ecoscan/backend/internal/infrastructure/openfoodfacts"
	"github.com/ecoscan/backend/internal/infrastructure/storage"
	"github.com/ecoscan/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestStack wires the real services against a fake upstream.
func newTestStack(t *testing.T, upstream http.HandlerFunc) (*gin.Engine, *usecase.ScanService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	server := httptest.NewServer(upstream)
	t.Cleanup(server.Close)

	logger := zap.NewNop()
	client := openfoodfacts.NewClient(server.URL, "ecoscan-test/1.0", 5*time.Second, logger)
	history := usecase.NewHistoryService(storage.NewMemoryStore(), "scanHistory", logger)
	scans := usecase.NewScanService(client, history, usecase.ScanServiceConfig{}, logger)
	t.Cleanup(scans.Wait)

	cfg := &config.Config{}
	cfg.Server.Environment = "test"
	cfg.Server.AllowedOrigins = []string{"*"}

	return SetupRouter(cfg, NewHandler(scans, history)), scans
}

func knownProductUpstream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{
		"status": 1,
		"product": {
			"product_name": "Bar",
			"ecoscore_grade": "c",
			"packaging": "PVC wrap"
		}
	}`))
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestScanEndpoint_Ready(t *testing.T) {
	router, scans := newTestStack(t, knownProductUpstream)

	w := doJSON(router, http.MethodPost, "/api/v1/scan", `{"barcode":"123","symbology":"ean13"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var session struct {
		State  string `json:"state"`
		Record struct {
			ProductName string `json:"product_name"`
		} `json:"record"`
		Assessment struct {
			EcoScore  string `json:"ecoScore"`
			Packaging string `json:"packaging"`
		} `json:"assessment"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, "ready", session.State)
	assert.Equal(t, "Bar", session.Record.ProductName)
	assert.Contains(t, session.Assessment.EcoScore, "moderate eco-score")
	assert.Contains(t, session.Assessment.Packaging, "non-recyclable materials")

	// The scan shows up in history once the background append drains.
	scans.Wait()
	w = doJSON(router, http.MethodGet, "/api/v1/history", "")
	require.Equal(t, http.StatusOK, w.Code)

	var history struct {
		Count int `json:"count"`
		Items []struct {
			ProductName string `json:"product_name"`
		} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Equal(t, 1, history.Count)
	assert.Equal(t, "Bar", history.Items[0].ProductName)
}

func TestScanEndpoint_EmptyBarcode(t *testing.T) {
	var hits int
	router, _ := newTestStack(t, func(w http.ResponseWriter, r *http.Request) { hits++ })

	w := doJSON(router, http.MethodPost, "/api/v1/scan", `{"barcode":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, hits, "no lookup may be attempted without a barcode")
}

func TestScanEndpoint_InvalidBody(t *testing.T) {
	router, _ := newTestStack(t, knownProductUpstream)

	w := doJSON(router, http.MethodPost, "/api/v1/scan", `{"barcode":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScanEndpoint_NotFound(t *testing.T) {
	router, _ := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": 0, "status_verbose": "product not found"}`))
	})

	w := doJSON(router, http.MethodPost, "/api/v1/scan", `{"barcode":"000"}`)
	require.Equal(t, http.StatusNotFound, w.Code)

	var session struct {
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, "not_found", session.State)
}

func TestScanEndpoint_UpstreamFailure(t *testing.T) {
	router, _ := newTestStack(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	w := doJSON(router, http.MethodPost, "/api/v1/scan", `{"barcode":"123"}`)
	require.Equal(t, http.StatusBadGateway, w.Code)

	var session struct {
		State string `json:"state"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &session))
	assert.Equal(t, "failed", session.State)
}

func TestHistoryEndpoint_Empty(t *testing.T) {
	router, _ := newTestStack(t, knownProductUpstream)

	w := doJSON(router, http.MethodGet, "/api/v1/history", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":0,"items":[]}`, w.Body.String())
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestStack(t, knownProductUpstream)

	w := doJSON(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}

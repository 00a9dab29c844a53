package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/entity-resolver/internal/classify"
	"github.com/sells-group/entity-resolver/internal/govcheck"
	"github.com/sells-group/entity-resolver/internal/model"
	"github.com/sells-group/entity-resolver/internal/resolver"
	"github.com/sells-group/entity-resolver/pkg/google"
	"github.com/sells-group/entity-resolver/pkg/jina"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

type healthSearcher struct{ err error }

func (h *healthSearcher) Search(context.Context, string, string) ([]model.RegistryRecord, error) {
	return nil, nil
}

func (h *healthSearcher) Ping(context.Context) error { return h.err }
func (h *healthSearcher) Close()                     {}

type healthSearch struct{ err error }

func (h *healthSearch) Search(context.Context, string) (*jina.SearchResponse, error) {
	return &jina.SearchResponse{}, nil
}

func (h *healthSearch) Read(context.Context, string) (*jina.ReadResponse, error) {
	return nil, eris.New("not implemented")
}

func (h *healthSearch) Ping(context.Context) error { return h.err }

type healthPlaces struct{ err error }

func (h *healthPlaces) Lookup(context.Context, string, string, string) (*google.PlaceProfile, error) {
	return nil, nil
}

func (h *healthPlaces) Ping(context.Context) error { return h.err }

// testEnv wires a pipeline with only the classifier; every optional component
// is absent so runs degrade instead of reaching the network.
func testEnv() *env {
	return &env{
		Pipeline: resolver.NewPipeline(classify.NewDefault(), nil, nil, nil, govcheck.New(nil, nil), nil),
	}
}

type healthBody struct {
	Status       string          `json:"status"`
	Dependencies map[string]bool `json:"dependencies"`
}

func TestRunHandler_ValidRequest(t *testing.T) {
	body, _ := json.Marshal(map[string]string{
		"business_name": "Fulton County Tax Commissioner",
		"state":         "GA",
	})
	req := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	runHandler(testEnv())(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var resp resolver.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Resolution)
	assert.Equal(t, model.EntityGovStateLocal, resp.Resolution.EntityType)
	assert.False(t, resp.Resolution.NeedsReview)
	assert.Empty(t, resp.Audit.Errors)
}

func TestRunHandler_EmptyBusinessNameStill200(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader([]byte(`{"state":"GA"}`)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	runHandler(testEnv())(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp resolver.Response
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Resolution)
	assert.True(t, resp.Resolution.NeedsReview)
	assert.NotEmpty(t, resp.Audit.Errors)
}

func TestRunHandler_InvalidJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/run", bytes.NewReader([]byte("not json")))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	runHandler(testEnv())(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid request body")
}

func TestHealthHandler_AllReachable(t *testing.T) {
	e := testEnv()
	e.Searcher = &healthSearcher{}
	e.Search = &healthSearch{}
	e.Places = &healthPlaces{}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	healthHandler(e)(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body healthBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.True(t, body.Dependencies["registry"])
	assert.True(t, body.Dependencies["search"])
	assert.True(t, body.Dependencies["places"])
}

func TestHealthHandler_RegistryUnreachableDegrades(t *testing.T) {
	e := testEnv()
	e.Searcher = &healthSearcher{err: eris.New("connection refused")}
	e.Search = &healthSearch{}
	e.Places = &healthPlaces{}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	healthHandler(e)(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body healthBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.False(t, body.Dependencies["registry"])
	assert.True(t, body.Dependencies["search"])
	assert.True(t, body.Dependencies["places"])
}

func TestHealthHandler_UnconfiguredReportsFalseWithoutDegrading(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	healthHandler(testEnv())(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var body healthBody
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.False(t, body.Dependencies["registry"])
	assert.False(t, body.Dependencies["search"])
	assert.False(t, body.Dependencies["places"])
}

func TestServeCmd_Metadata(t *testing.T) {
	assert.Equal(t, "serve", serveCmd.Use)
	assert.NotEmpty(t, serveCmd.Short)

	flag := serveCmd.Flags().Lookup("port")
	require.NotNil(t, flag)
	assert.Equal(t, "0", flag.DefValue)
}

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apimocks "github.com/goran-ethernal/ReorgTracker/internal/api/mocks"
	"github.com/goran-ethernal/ReorgTracker/internal/logger"
	"github.com/goran-ethernal/ReorgTracker/internal/tracker"
	"github.com/goran-ethernal/ReorgTracker/internal/types"
	"github.com/stretchr/testify/require"
)

func sampleStatus() tracker.Status {
	return tracker.Status{
		State: tracker.StateSteady,
		Chain: tracker.ChainState{
			Height:    201,
			TipHash:   "0xtip",
			UpdatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		},
		TrackedHashes:  101,
		TrackedHeights: 100,
		Cycles:         12,
		Reorgs:         1,
		LastReorg: &tracker.ReorgSummary{
			LatestHeight:    190,
			LatestTip:       "0xold",
			AffectedHeights: []uint64{189},
			ExtraHashCount:  1,
			SnapshotPath:    "reorg_data/reorg-1714557600000.json",
		},
	}
}

func newTestMux(provider StatusProvider) *http.ServeMux {
	h := NewHandler(provider, logger.NewNopLogger())

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("GET /api/v1/status", h.Status)
	mux.HandleFunc("GET /api/v1/heights/{height}", h.Height)
	return mux
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()

	provider := apimocks.NewStatusProvider(t)
	provider.EXPECT().Status().Return(sampleStatus()).Once()

	w := httptest.NewRecorder()
	newTestMux(provider).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, "ok", resp.Status)
	require.Equal(t, "steady", resp.State)
	require.Equal(t, uint64(201), resp.ChainHeight)
	require.False(t, resp.Timestamp.IsZero())
}

func TestHandler_Status(t *testing.T) {
	t.Parallel()

	provider := apimocks.NewStatusProvider(t)
	provider.EXPECT().Status().Return(sampleStatus()).Once()

	w := httptest.NewRecorder()
	newTestMux(provider).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/status", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var resp tracker.Status
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, sampleStatus(), resp)
}

func TestHandler_Height(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		path           string
		setup          func(p *apimocks.StatusProvider)
		expectedStatus int
		validate       func(t *testing.T, body []byte)
	}{
		{
			name: "competing hashes",
			path: "/api/v1/heights/200",
			setup: func(p *apimocks.StatusProvider) {
				p.EXPECT().Blocks(uint64(200)).Return([]*types.Block{
					{Hash: "0xa", Height: 200},
					{Hash: "0xb", Height: 200},
				}).Once()
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, body []byte) {
				t.Helper()

				var resp HeightResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				require.Equal(t, uint64(200), resp.Height)
				require.Equal(t, []string{"0xa", "0xb"}, resp.Hashes)
				require.Len(t, resp.Blocks, 2)
				require.True(t, resp.Competing)
			},
		},
		{
			name: "single hash",
			path: "/api/v1/heights/5",
			setup: func(p *apimocks.StatusProvider) {
				p.EXPECT().Blocks(uint64(5)).Return([]*types.Block{{Hash: "0xa", Height: 5}}).Once()
			},
			expectedStatus: http.StatusOK,
			validate: func(t *testing.T, body []byte) {
				t.Helper()

				var resp HeightResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				require.False(t, resp.Competing)
			},
		},
		{
			name: "not tracked",
			path: "/api/v1/heights/7",
			setup: func(p *apimocks.StatusProvider) {
				p.EXPECT().Blocks(uint64(7)).Return(nil).Once()
			},
			expectedStatus: http.StatusNotFound,
			validate: func(t *testing.T, body []byte) {
				t.Helper()

				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				require.Equal(t, http.StatusNotFound, resp.Code)
				require.Equal(t, "Not Found", resp.Error)
				require.Equal(t, "height 7 is not tracked", resp.Message)
			},
		},
		{
			name:           "invalid height",
			path:           "/api/v1/heights/-1",
			setup:          func(*apimocks.StatusProvider) {},
			expectedStatus: http.StatusBadRequest,
			validate: func(t *testing.T, body []byte) {
				t.Helper()

				var resp ErrorResponse
				require.NoError(t, json.Unmarshal(body, &resp))
				require.Equal(t, http.StatusBadRequest, resp.Code)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			provider := apimocks.NewStatusProvider(t)
			tt.setup(provider)

			w := httptest.NewRecorder()
			newTestMux(provider).ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, tt.expectedStatus, w.Code)
			tt.validate(t, w.Body.Bytes())
		})
	}
}

func TestRespondJSON_EncodeFailure(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondJSON(w, http.StatusOK, map[string]any{"bad": make(chan int)})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Contains(t, w.Body.String(), "Failed to encode response")
}

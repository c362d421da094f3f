package rpc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goran-ethernal/ReorgTracker/internal/common"
	"github.com/goran-ethernal/ReorgTracker/internal/logger"
	"github.com/goran-ethernal/ReorgTracker/pkg/config"
	pkgrpc "github.com/goran-ethernal/ReorgTracker/pkg/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const blockPayload = `{
	"canonical": true,
	"height": 145833,
	"hash": "0xabc",
	"parent_block_hash": "0xparent",
	"burn_block_time_iso": "2024-05-01T10:00:00.000Z",
	"tx_count": 3
}`

func TestClientImplementsInterface(t *testing.T) {
	var _ pkgrpc.BlockSource = (*Client)(nil)
}

func newTestClient(t *testing.T, url string, log *logger.Logger) *Client {
	t.Helper()

	client, err := NewClient(config.SourceConfig{
		APIURL:         url,
		RequestTimeout: common.NewDuration(2 * time.Second),
		Retry:          fastRetry(10),
	}, log)
	require.NoError(t, err)
	return client
}

func TestNewClient_InvalidURL(t *testing.T) {
	_, err := NewClient(config.SourceConfig{APIURL: "not a url"}, nil)
	require.Error(t, err)

	_, err = NewClient(config.SourceConfig{APIURL: "://missing-scheme"}, nil)
	require.Error(t, err)
}

func TestClient_GetBlock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/extended/v2/blocks/145833", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(blockPayload))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL+"/", nil)

	block, err := client.GetBlock(context.Background(), 145833)
	require.NoError(t, err)
	require.Equal(t, "0xabc", block.Hash)
	require.Equal(t, uint64(145833), block.Height)
	require.Equal(t, "0xparent", block.ParentHash)
	require.True(t, block.Canonical)
	require.JSONEq(t, "3", string(block.Extra["tx_count"]))
}

func TestClient_GetChainInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/info", r.URL.Path)
		_, _ = w.Write([]byte(`{"stacks_tip_height": 200, "stacks_tip": "0xtip", "burn_block_height": 840000}`))
	}))
	defer srv.Close()

	info, err := newTestClient(t, srv.URL, nil).GetChainInfo(context.Background())
	require.NoError(t, err)
	require.Equal(t, uint64(200), info.TipHeight)
	require.Equal(t, "0xtip", info.TipHash)
	require.Equal(t, uint64(840000), info.BurnBlockHeight)
}

func TestClient_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) <= 2 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(blockPayload))
	}))
	defer srv.Close()

	block, err := newTestClient(t, srv.URL, nil).GetBlock(context.Background(), 145833)
	require.NoError(t, err)
	require.Equal(t, "0xabc", block.Hash)
	require.EqualValues(t, 3, calls.Load())
}

func TestClient_ExhaustsRetries(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := logger.NewLoggerFromCore(core)

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, "internal", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, log).GetBlock(context.Background(), 7)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to get block 7")
	require.Contains(t, err.Error(), "all 10 attempts failed")

	var statusErr *HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	require.Equal(t, "internal", statusErr.Body)

	require.EqualValues(t, 10, calls.Load())

	failures := logs.FilterMessage("request attempt failed").All()
	require.Len(t, failures, 10)
	for i, entry := range failures {
		require.EqualValues(t, i+1, entry.ContextMap()["attempt"])
		require.EqualValues(t, 10-(i+1), entry.ContextMap()["retries_left"])
		require.Equal(t, methodGetBlock, entry.ContextMap()["operation"])
	}
}

func TestClient_DecodeErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"height": 1}`))
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL, nil).GetBlock(context.Background(), 1)
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	require.EqualValues(t, 1, calls.Load())
}

func TestErrorType(t *testing.T) {
	require.Equal(t, "http_503", errorType(&HTTPStatusError{StatusCode: 503}))
	require.Equal(t, "decode", errorType(&DecodeError{}))
	require.Equal(t, "timeout", errorType(context.DeadlineExceeded))
	require.Equal(t, "canceled", errorType(context.Canceled))
	require.Equal(t, "transport", errorType(http.ErrHandlerTimeout))
}

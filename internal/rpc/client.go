package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goran-ethernal/ReorgTracker/internal/logger"
	"github.com/goran-ethernal/ReorgTracker/internal/types"
	"github.com/goran-ethernal/ReorgTracker/pkg/config"
	pkgrpc "github.com/goran-ethernal/ReorgTracker/pkg/rpc"
)

// Compile-time check to ensure Client implements pkgrpc.BlockSource interface.
var _ pkgrpc.BlockSource = (*Client)(nil)

const (
	methodGetBlock     = "get_block"
	methodGetChainInfo = "get_chain_info"

	blockPath = "/extended/v2/blocks/"
	infoPath  = "/v2/info"

	// maxErrorBody caps how much of a failed response body ends up in errors and logs.
	maxErrorBody = 512
)

// Client talks to a Stacks node REST API.
// It implements the pkgrpc.BlockSource interface.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	retry   *config.RetryConfig
	log     *logger.Logger
}

// NewClient creates a new client for the node API described by cfg.
func NewClient(cfg config.SourceConfig, log *logger.Logger) (*Client, error) {
	u, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api url %q: %w", cfg.APIURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api url %q: scheme and host are required", cfg.APIURL)
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		http:    &http.Client{},
		timeout: cfg.RequestTimeout.Duration,
		retry:   cfg.Retry,
		log:     log,
	}, nil
}

// GetBlock retrieves the block at the given height.
func (c *Client) GetBlock(ctx context.Context, height uint64) (*types.Block, error) {
	var block types.Block
	endpoint := c.baseURL + blockPath + strconv.FormatUint(height, 10)

	if err := c.getJSON(ctx, methodGetBlock, endpoint, &block); err != nil {
		return nil, fmt.Errorf("failed to get block %d: %w", height, err)
	}

	return &block, nil
}

// GetChainInfo retrieves the node's current tip.
func (c *Client) GetChainInfo(ctx context.Context) (*types.ChainInfo, error) {
	var info types.ChainInfo

	if err := c.getJSON(ctx, methodGetChainInfo, c.baseURL+infoPath, &info); err != nil {
		return nil, fmt.Errorf("failed to get chain info: %w", err)
	}

	return &info, nil
}

// getJSON performs a retried GET and decodes the response body into out.
func (c *Client) getJSON(ctx context.Context, method, endpoint string, out any) error {
	return retryWithBackoff(ctx, c.retry, c.log, method, func(ctx context.Context) error {
		start := time.Now()
		MethodInc(method)

		err := c.doGet(ctx, endpoint, out)
		MethodDuration(method, time.Since(start))
		if err != nil {
			MethodError(method, errorType(err))
		}
		return err
	})
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPStatusError{
			Method:     http.MethodGet,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &DecodeError{URL: endpoint, Err: err}
	}

	return nil
}

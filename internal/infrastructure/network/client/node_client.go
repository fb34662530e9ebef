package client

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strconv"
	"strings"
	"time"

	"alph_dashboard/internal/domain/entity"
	"alph_dashboard/internal/pkg/metrics"
	"alph_dashboard/internal/pkg/utils"

	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const apiKeyHeader = "X-API-KEY"

// APIError is returned for every non-2xx reply of the node.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("node %s %s failed with status %d: %s", e.Method, e.Path, e.StatusCode, e.Detail)
}

// IsNotFound reports whether err is a 404 reply from the node.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == fasthttp.StatusNotFound
}

// Options tunes a NodeClient.
type Options struct {
	APIKey             string
	Timeout            time.Duration
	RateLimitPerSecond float64
	RateLimitBurst     int
	BlockCacheTTL      time.Duration
}

// NodeClient talks to the REST API of an Alephium full node.
type NodeClient struct {
	client  *fasthttp.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	limiter *rate.Limiter
	blocks  *cache.Cache // block hash -> entity.BlockInfo, blocks never change once known
	netDef  entity.NetworkDefinition
	logger  *zap.Logger
}

// NewNodeClient creates a client for the node configured in netDef.NodeURL.
func NewNodeClient(netDef entity.NetworkDefinition, opts Options, logger *zap.Logger) *NodeClient {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if opts.RateLimitPerSecond > 0 {
		limit = rate.Limit(opts.RateLimitPerSecond)
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 1
	}
	if opts.BlockCacheTTL <= 0 {
		opts.BlockCacheTTL = time.Hour
	}

	return &NodeClient{
		client:  &fasthttp.Client{Name: "alphdash"},
		baseURL: strings.TrimRight(netDef.NodeURL, "/"),
		apiKey:  opts.APIKey,
		timeout: opts.Timeout,
		limiter: rate.NewLimiter(limit, opts.RateLimitBurst),
		blocks:  cache.New(opts.BlockCacheTTL, 10*time.Minute),
		netDef:  netDef,
		logger:  logger.Named("NodeClient"),
	}
}

// Definition returns the network definition for this client.
func (c *NodeClient) Definition() entity.NetworkDefinition {
	return c.netDef
}

// do performs one request. endpoint is the route template used as metric label.
func (c *NodeClient) do(ctx context.Context, method, endpoint, path string, query url.Values, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", path, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	requestURL := c.baseURL + path
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body for %s: %w", path, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	c.logger.Debug("Requesting node", zap.String("method", method), zap.String("url", requestURL))

	start := time.Now()
	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		metrics.NodeRequestDuration.WithLabelValues(endpoint, "error").Observe(time.Since(start).Seconds())
		c.logger.Warn("Node request failed", zap.String("url", requestURL), zap.Error(err))
		return fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}
	status := resp.StatusCode()
	metrics.NodeRequestDuration.WithLabelValues(endpoint, strconv.Itoa(status)).Observe(time.Since(start).Seconds())

	rawBody := resp.Body()
	if status < 200 || status >= 300 {
		apiErr := &APIError{Method: method, Path: path, StatusCode: status, Detail: decodeDetail(rawBody)}
		c.logger.Debug("Node returned error status",
			zap.String("url", requestURL),
			zap.Int("statusCode", status),
			zap.ByteString("responseBody", rawBody))
		return apiErr
	}

	if out == nil || len(rawBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(rawBody, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", requestURL, err)
	}
	return nil
}

// decodeDetail extracts the "detail" field of the node's error body, falling back to the raw text.
func decodeDetail(body []byte) string {
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != "" {
		return payload.Detail
	}
	return strings.TrimSpace(string(body))
}

// GetTransactionStatus implements port.NodeQueryService. A 404 reply is reported as
// entity.ErrTransactionNotFound. A TxNotFound status is returned as a plain result.
func (c *NodeClient) GetTransactionStatus(ctx context.Context, txID string) (entity.TxStatusResult, error) {
	var result entity.TxStatusResult
	err := c.do(ctx, fasthttp.MethodGet, "/transactions/status", "/transactions/status", url.Values{"txId": {txID}}, nil, &result)
	if err != nil {
		if IsNotFound(err) {
			return result, fmt.Errorf("%w: %s: %v", entity.ErrTransactionNotFound, txID, err)
		}
		return result, err
	}
	return result, nil
}

// GetBlockByHash implements port.NodeQueryService.
func (c *NodeClient) GetBlockByHash(ctx context.Context, hash string) (entity.BlockInfo, error) {
	if cached, ok := c.blocks.Get(hash); ok {
		return cached.(entity.BlockInfo), nil
	}

	var block entity.BlockInfo
	if err := c.do(ctx, fasthttp.MethodGet, "/blockflow/blocks/{hash}", "/blockflow/blocks/"+url.PathEscape(hash), nil, nil, &block); err != nil {
		return block, err
	}
	c.blocks.SetDefault(hash, block)
	return block, nil
}

// GetAddressBalance fetches the ALPH and token balances of address.
func (c *NodeClient) GetAddressBalance(ctx context.Context, address string) (entity.AccountBalance, error) {
	var raw struct {
		Balance       string               `json:"balance"`
		LockedBalance string               `json:"lockedBalance"`
		TokenBalances []entity.TokenAmount `json:"tokenBalances"`
		UtxoNum       int                  `json:"utxoNum"`
	}
	out := entity.AccountBalance{Address: address, NativeSymbol: c.netDef.NativeSymbol}
	if err := c.do(ctx, fasthttp.MethodGet, "/addresses/{address}/balance", "/addresses/"+url.PathEscape(address)+"/balance", nil, nil, &raw); err != nil {
		return out, err
	}

	balance, ok := new(big.Int).SetString(raw.Balance, 10)
	if !ok {
		return out, fmt.Errorf("node returned malformed balance %q for %s", raw.Balance, address)
	}
	locked := new(big.Int)
	if raw.LockedBalance != "" {
		if _, ok := locked.SetString(raw.LockedBalance, 10); !ok {
			return out, fmt.Errorf("node returned malformed locked balance %q for %s", raw.LockedBalance, address)
		}
	}

	out.Balance = balance
	out.LockedBalance = locked
	out.UtxoNum = raw.UtxoNum
	out.Tokens = raw.TokenBalances
	decimals := uint8(c.netDef.Decimals)
	var err error
	if out.FormattedBalance, err = utils.FormatBigInt(balance, decimals); err != nil {
		return out, fmt.Errorf("failed to format balance for %s: %w", address, err)
	}
	if out.FormattedLocked, err = utils.FormatBigInt(locked, decimals); err != nil {
		return out, fmt.Errorf("failed to format locked balance for %s: %w", address, err)
	}
	return out, nil
}

// GetNodeInfo fetches /infos/node.
func (c *NodeClient) GetNodeInfo(ctx context.Context) (entity.NodeInfo, error) {
	var out entity.NodeInfo
	err := c.do(ctx, fasthttp.MethodGet, "/infos/node", "/infos/node", nil, nil, &out)
	return out, err
}

// GetNodeVersion fetches /infos/version.
func (c *NodeClient) GetNodeVersion(ctx context.Context) (entity.NodeVersion, error) {
	var out entity.NodeVersion
	err := c.do(ctx, fasthttp.MethodGet, "/infos/version", "/infos/version", nil, nil, &out)
	return out, err
}

// GetChainParams fetches /infos/chain-params.
func (c *NodeClient) GetChainParams(ctx context.Context) (entity.ChainParams, error) {
	var out entity.ChainParams
	err := c.do(ctx, fasthttp.MethodGet, "/infos/chain-params", "/infos/chain-params", nil, nil, &out)
	return out, err
}

// GetSelfClique fetches /infos/self-clique.
func (c *NodeClient) GetSelfClique(ctx context.Context) (entity.SelfClique, error) {
	var out entity.SelfClique
	err := c.do(ctx, fasthttp.MethodGet, "/infos/self-clique", "/infos/self-clique", nil, nil, &out)
	return out, err
}

// GetCurrentDifficulty fetches /infos/current-difficulty.
func (c *NodeClient) GetCurrentDifficulty(ctx context.Context) (string, error) {
	var out struct {
		Difficulty jsoniter.RawMessage `json:"difficulty"`
	}
	err := c.do(ctx, fasthttp.MethodGet, "/infos/current-difficulty", "/infos/current-difficulty", nil, nil, &out)
	return strings.Trim(string(out.Difficulty), `"`), err
}

// GetCurrentHashrate fetches /infos/current-hashrate.
func (c *NodeClient) GetCurrentHashrate(ctx context.Context) (string, error) {
	var out struct {
		Hashrate string `json:"hashrate"`
	}
	err := c.do(ctx, fasthttp.MethodGet, "/infos/current-hashrate", "/infos/current-hashrate", nil, nil, &out)
	return out.Hashrate, err
}

// GetContractState fetches /contracts/{address}/state.
func (c *NodeClient) GetContractState(ctx context.Context, address string) (entity.ContractState, error) {
	var out entity.ContractState
	err := c.do(ctx, fasthttp.MethodGet, "/contracts/{address}/state", "/contracts/"+url.PathEscape(address)+"/state", nil, nil, &out)
	return out, err
}

// GetEventsByTxID fetches /events/tx-id/{txId}.
func (c *NodeClient) GetEventsByTxID(ctx context.Context, txID string) (entity.ContractEvents, error) {
	var out entity.ContractEvents
	err := c.do(ctx, fasthttp.MethodGet, "/events/tx-id/{txId}", "/events/tx-id/"+url.PathEscape(txID), nil, nil, &out)
	return out, err
}

// GetEventsByBlockHash fetches /events/block-hash/{blockHash}.
func (c *NodeClient) GetEventsByBlockHash(ctx context.Context, blockHash string) (entity.ContractEvents, error) {
	var out entity.ContractEvents
	err := c.do(ctx, fasthttp.MethodGet, "/events/block-hash/{blockHash}", "/events/block-hash/"+url.PathEscape(blockHash), nil, nil, &out)
	return out, err
}

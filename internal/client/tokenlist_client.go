package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"alph_dashboard/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TokenListClient downloads the per-network documents of the Alephium token-list repository.
// It implements port.TokenProvider.
type TokenListClient struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewTokenListClient creates a new instance of TokenListClient.
func NewTokenListClient(baseURL string, timeout time.Duration, logger *zap.Logger) *TokenListClient {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TokenListClient{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("TokenListClient"),
	}
}

// GetTokenList fetches <baseURL>/<networkIdentifier>.json.
func (c *TokenListClient) GetTokenList(ctx context.Context, networkIdentifier string) (entity.TokenList, error) {
	var list entity.TokenList
	if networkIdentifier == "" {
		return list, fmt.Errorf("networkIdentifier cannot be empty")
	}
	requestURL := fmt.Sprintf("%s/%s.json", c.baseURL, networkIdentifier)

	c.logger.Debug("Requesting token list", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			c.logger.Error("Failed to execute token list request", zap.String("url", requestURL), zap.Error(err))
			return list, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			c.logger.Error("Failed to execute token list request (with default timeout)", zap.String("url", requestURL), zap.Error(err))
			return list, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	rawBody := resp.Body()
	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Token list request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody),
		)
		return list, fmt.Errorf("token list request to %s failed with status %d", requestURL, resp.StatusCode())
	}

	if err := json.Unmarshal(rawBody, &list); err != nil {
		c.logger.Error("Failed to unmarshal token list", zap.String("url", requestURL), zap.Error(err))
		return list, fmt.Errorf("failed to unmarshal token list from %s: %w", requestURL, err)
	}

	if len(list.Tokens) == 0 {
		c.logger.Warn("Token list is empty", zap.String("url", requestURL))
	}
	c.logger.Debug("Token list fetched",
		zap.String("network", networkIdentifier),
		zap.Int32("networkId", list.NetworkID),
		zap.Int("tokenCount", len(list.Tokens)))
	return list, nil
}

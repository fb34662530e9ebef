package provider

import (
	"context"
	"fmt"
	"time"

	"alph_dashboard/internal/app/port"
	"alph_dashboard/internal/domain/entity"

	"github.com/patrickmn/go-cache"
)

type tokenProviderImpl struct {
	source      port.TokenProvider
	sourceName  string
	logger      port.Logger
	tokensCache *cache.Cache // network identifier -> entity.TokenList
}

// NewTokenProvider wraps source (the token-list repository or a local directory) with a TTL cache.
func NewTokenProvider(source port.TokenProvider, sourceName string, ttl time.Duration, logger port.Logger) port.TokenProvider {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &tokenProviderImpl{
		source:      source,
		sourceName:  sourceName,
		logger:      logger,
		tokensCache: cache.New(ttl, 2*ttl),
	}
}

// GetTokenList returns the cached list of networkIdentifier, loading it on a miss.
func (p *tokenProviderImpl) GetTokenList(ctx context.Context, networkIdentifier string) (entity.TokenList, error) {
	if cached, ok := p.tokensCache.Get(networkIdentifier); ok {
		p.logger.Debug("Returning cached token list", "network", networkIdentifier)
		return cached.(entity.TokenList), nil
	}

	p.logger.Debug("Loading token list", "network", networkIdentifier, "source", p.sourceName)
	list, err := p.source.GetTokenList(ctx, networkIdentifier)
	if err != nil {
		p.logger.Error("Failed to load token list", "network", networkIdentifier, "source", p.sourceName, "error", err)
		return entity.TokenList{}, fmt.Errorf("token list for %s: %w", networkIdentifier, err)
	}

	p.tokensCache.SetDefault(networkIdentifier, list)
	p.logger.Info("Token list loaded and cached successfully", "network", networkIdentifier, "count", len(list.Tokens))
	return list, nil
}

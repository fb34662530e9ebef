package service

import (
	"context"
	"fmt"
	"time"

	"alph_dashboard/internal/app/port"
	"alph_dashboard/internal/domain/entity"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"
)

const networkInfoCacheKey = "network-info"

// NetworkInfoServiceImpl implements port.NetworkInfoService.
type NetworkInfoServiceImpl struct {
	fetcher port.NodeInfoFetcher
	network entity.NetworkDefinition
	logger  port.Logger
	cache   *cache.Cache
}

// NewNetworkInfoService creates a new instance of NetworkInfoServiceImpl.
func NewNetworkInfoService(fetcher port.NodeInfoFetcher, network entity.NetworkDefinition, ttl time.Duration, l port.Logger) *NetworkInfoServiceImpl {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &NetworkInfoServiceImpl{
		fetcher: fetcher,
		network: network,
		logger:  l,
		cache:   cache.New(ttl, 2*ttl),
	}
}

// Fetch queries the six /infos endpoints concurrently. The first failure cancels the others.
func (s *NetworkInfoServiceImpl) Fetch(ctx context.Context) (entity.NetworkInfo, error) {
	if cached, ok := s.cache.Get(networkInfoCacheKey); ok {
		return cached.(entity.NetworkInfo), nil
	}

	info := entity.NetworkInfo{Network: s.network}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		info.Node, err = s.fetcher.GetNodeInfo(gctx)
		return wrapInfoErr("node", err)
	})
	g.Go(func() (err error) {
		info.Version, err = s.fetcher.GetNodeVersion(gctx)
		return wrapInfoErr("version", err)
	})
	g.Go(func() (err error) {
		info.ChainParams, err = s.fetcher.GetChainParams(gctx)
		return wrapInfoErr("chain-params", err)
	})
	g.Go(func() (err error) {
		info.SelfClique, err = s.fetcher.GetSelfClique(gctx)
		return wrapInfoErr("self-clique", err)
	})
	g.Go(func() (err error) {
		info.Difficulty, err = s.fetcher.GetCurrentDifficulty(gctx)
		return wrapInfoErr("current-difficulty", err)
	})
	g.Go(func() (err error) {
		info.Hashrate, err = s.fetcher.GetCurrentHashrate(gctx)
		return wrapInfoErr("current-hashrate", err)
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Failed to fetch network info", "network", s.network.Identifier, "error", err)
		return entity.NetworkInfo{}, err
	}

	s.cache.SetDefault(networkInfoCacheKey, info)
	s.logger.Debug("Network info fetched", "network", s.network.Identifier, "version", info.Version.Version)
	return info, nil
}

func wrapInfoErr(endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to fetch /infos/%s: %w", endpoint, err)
}

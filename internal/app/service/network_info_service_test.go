package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"alph_dashboard/internal/domain/entity"
	"alph_dashboard/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeInfoFetcher struct {
	calls         atomic.Int32
	difficultyErr error
}

func (f *fakeInfoFetcher) GetNodeInfo(context.Context) (entity.NodeInfo, error) {
	f.calls.Add(1)
	var info entity.NodeInfo
	info.BuildInfo.ReleaseVersion = "3.5.0"
	return info, nil
}

func (f *fakeInfoFetcher) GetNodeVersion(context.Context) (entity.NodeVersion, error) {
	f.calls.Add(1)
	return entity.NodeVersion{Version: "v3.5.0"}, nil
}

func (f *fakeInfoFetcher) GetChainParams(context.Context) (entity.ChainParams, error) {
	f.calls.Add(1)
	return entity.ChainParams{NetworkID: 1, Groups: 4}, nil
}

func (f *fakeInfoFetcher) GetSelfClique(context.Context) (entity.SelfClique, error) {
	f.calls.Add(1)
	return entity.SelfClique{CliqueID: "clique", Synced: true, SelfReady: true}, nil
}

func (f *fakeInfoFetcher) GetCurrentDifficulty(context.Context) (string, error) {
	f.calls.Add(1)
	if f.difficultyErr != nil {
		return "", f.difficultyErr
	}
	return "123456789", nil
}

func (f *fakeInfoFetcher) GetCurrentHashrate(context.Context) (string, error) {
	f.calls.Add(1)
	return "42 MH/s", nil
}

func TestNetworkInfoService_Fetch(t *testing.T) {
	fetcher := &fakeInfoFetcher{}
	network := entity.NetworkDefinition{Identifier: "testnet", NetworkID: 1}
	svc := NewNetworkInfoService(fetcher, network, time.Minute, logger.Nop{})

	info, err := svc.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, network, info.Network)
	assert.Equal(t, "3.5.0", info.Node.BuildInfo.ReleaseVersion)
	assert.Equal(t, "v3.5.0", info.Version.Version)
	assert.EqualValues(t, 4, info.ChainParams.Groups)
	assert.True(t, info.SelfClique.Synced)
	assert.Equal(t, "123456789", info.Difficulty)
	assert.Equal(t, "42 MH/s", info.Hashrate)
	assert.EqualValues(t, 6, fetcher.calls.Load())

	_, err = svc.Fetch(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 6, fetcher.calls.Load(), "second fetch is served from cache")
}

func TestNetworkInfoService_FetchError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewNetworkInfoService(&fakeInfoFetcher{difficultyErr: boom}, entity.NetworkDefinition{}, time.Minute, logger.Nop{})

	_, err := svc.Fetch(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "current-difficulty")
}

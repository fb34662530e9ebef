package main

import (
	"fmt"
	"time"

	"alph_dashboard/internal/app/port"
	"alph_dashboard/internal/app/provider"
	"alph_dashboard/internal/app/service"
	tokenlistclient "alph_dashboard/internal/client"
	"alph_dashboard/internal/infrastructure/configloader"
	nodeclient "alph_dashboard/internal/infrastructure/network/client"
	networkdefinition "alph_dashboard/internal/infrastructure/network/definition"
	"alph_dashboard/internal/infrastructure/notification"
	"alph_dashboard/internal/infrastructure/tokenloader"
	"alph_dashboard/internal/infrastructure/wallet"
	"alph_dashboard/internal/pkg/logger"

	"go.uber.org/zap"
)

// app holds every wired component. Commands build one with newApp and release it with close.
type app struct {
	cfg         *configloader.Config
	log         *zap.Logger
	networks    *networkdefinition.NetworkDefinitionProvider
	node        *nodeclient.NodeClient
	wallet      *wallet.NodeWalletSession
	hub         *notification.Hub
	balance     *service.BalanceServiceImpl
	transfers   *service.TransferOrchestratorImpl
	networkInfo *service.NetworkInfoServiceImpl
	explorer    *service.ExplorerServiceImpl
	tokens      port.TokenListService
}

// newApp loads the configuration and wires the services. quiet lowers the log level to warn
// so CLI output is not interleaved with info logs.
func newApp(configPath string, quiet bool) (*app, error) {
	cfg, err := configloader.Load(configPath)
	if err != nil {
		return nil, err
	}
	if quiet && !globalFlags.Verbose {
		cfg.Logging.Level = "warn"
	}

	zl, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.InitFromZap(zl)
	slogLogger := logger.NewSlogAdapter()

	networks, err := networkdefinition.NewNetworkDefinitionProvider(slogLogger, cfg.Network)
	if err != nil {
		return nil, err
	}
	active := networks.Active()

	node := nodeclient.NewNodeClient(active, nodeclient.Options{
		APIKey:             cfg.Network.APIKey,
		Timeout:            time.Duration(cfg.Network.RequestTimeoutMillis) * time.Millisecond,
		RateLimitPerSecond: cfg.Network.RateLimitPerSecond,
		RateLimitBurst:     cfg.Network.RateLimitBurst,
		BlockCacheTTL:      time.Duration(cfg.Network.BlockCacheMinutes) * time.Minute,
	}, zl)
	zl.Info("Node client initialized", zap.String("network", active.Identifier), zap.String("node", active.NodeURL))

	session := wallet.NewNodeWalletSession(node, cfg.Wallet.Name, cfg.Wallet.Password, zl)
	hub := notification.NewHub(time.Duration(cfg.Transfer.NotificationDurationMillis)*time.Millisecond, zl)

	balance := service.NewBalanceService(session, node, time.Duration(cfg.Balance.CacheTTLSeconds)*time.Second, slogLogger)
	transfers := service.NewTransferOrchestrator(session, node, balance, hub, service.TransferOptions{
		PollInterval:                  time.Duration(cfg.Transfer.PollIntervalMillis) * time.Millisecond,
		MaxPollAttempts:               cfg.Transfer.MaxPollAttempts,
		TransientErrorNotifyThreshold: cfg.Transfer.TransientErrorNotifyThreshold,
		TxNotFoundThreshold:           cfg.Transfer.TxNotFoundThreshold,
		NotificationDuration:          time.Duration(cfg.Transfer.NotificationDurationMillis) * time.Millisecond,
	}, slogLogger)

	networkInfo := service.NewNetworkInfoService(node, active, time.Duration(cfg.NetworkInfo.CacheTTLSeconds)*time.Second, slogLogger)
	explorer := service.NewExplorerService(node, slogLogger)

	var tokenSource port.TokenProvider
	sourceName := "token-list"
	if cfg.Tokens.Dir != "" {
		tokenSource = tokenloader.NewTokenLoader(cfg.Tokens.Dir, logger.Info, logger.Warn)
		sourceName = cfg.Tokens.Dir
	} else {
		tokenSource = tokenlistclient.NewTokenListClient(cfg.Tokens.BaseURL, time.Duration(cfg.Tokens.RequestTimeoutMillis)*time.Millisecond, zl)
	}
	tokenProvider := provider.NewTokenProvider(tokenSource, sourceName, time.Duration(cfg.Tokens.CacheTTLMinutes)*time.Minute, slogLogger)
	tokens := service.NewTokenListService(tokenProvider, active.Identifier, slogLogger)

	return &app{
		cfg:         cfg,
		log:         zl,
		networks:    networks,
		node:        node,
		wallet:      session,
		hub:         hub,
		balance:     balance,
		transfers:   transfers,
		networkInfo: networkInfo,
		explorer:    explorer,
		tokens:      tokens,
	}, nil
}

// close stops the poll loop and flushes the logger.
func (a *app) close() {
	a.transfers.Close()
	_ = a.log.Sync()
}

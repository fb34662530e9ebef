package restapi

import (
	"net/http"
	"net/http/pprof"
	"net/url"
	"strings"

	"alph_dashboard/internal/app/port"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers groups the route handlers mounted by SetupRouter.
type Handlers struct {
	Transfers     *TransferHandler
	Wallet        *WalletHandler
	Notifications *NotificationHandler
	Explorer      *ExplorerHandler
}

// SetupRouter настраивает и возвращает экземпляр Gin роутера.
func SetupRouter(cfgProvider port.ConfigProvider, h Handlers, logger *zap.Logger) *gin.Engine {
	cfg := cfgProvider.GetConfig()

	router := gin.New()

	corsConfig := cors.DefaultConfig()
	if len(cfg.Server.AllowOrigins) == 0 {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = cfg.Server.AllowOrigins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.Use(ZapLoggerMiddleware(logger.Named("HTTP")))
	router.Use(gin.Recovery())

	router.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	v1 := router.Group("/api/v1")
	{
		v1.POST("/transfers", h.Transfers.SubmitTransfer)
		v1.GET("/transfers/current", h.Transfers.CurrentTransfer)

		v1.GET("/wallet", h.Wallet.GetWallet)
		v1.POST("/wallet/connect", h.Wallet.Connect)
		v1.POST("/wallet/disconnect", h.Wallet.Disconnect)
		v1.GET("/balance", h.Wallet.GetBalance)

		v1.GET("/notifications", h.Notifications.List)
		v1.DELETE("/notifications/:id", h.Notifications.Dismiss)
		v1.GET("/notifications/ws", h.Notifications.Stream)

		v1.GET("/network", h.Explorer.GetNetwork)
		v1.GET("/contracts/:address/state", h.Explorer.GetContractState)
		v1.GET("/events/tx/:txId", h.Explorer.GetEventsByTxID)
		v1.GET("/events/block/:blockHash", h.Explorer.GetEventsByBlockHash)
		v1.GET("/tokens", h.Explorer.SearchTokens)
		v1.GET("/tokens/address/:contractId", h.Explorer.ContractAddress)
	}

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
		logger.Info("Prometheus metrics endpoint enabled", zap.String("path", cfg.Metrics.Path))
	}

	if cfg.Server.EnablePprof {
		pprofRouter := router.Group("/debug/pprof")
		{
			pprofRouter.GET("/", gin.WrapF(pprof.Index))
			pprofRouter.GET("/cmdline", gin.WrapF(pprof.Cmdline))
			pprofRouter.GET("/profile", gin.WrapF(pprof.Profile))
			pprofRouter.POST("/symbol", gin.WrapF(pprof.Symbol))
			pprofRouter.GET("/symbol", gin.WrapF(pprof.Symbol))
			pprofRouter.GET("/trace", gin.WrapF(pprof.Trace))
			pprofRouter.GET("/allocs", gin.WrapH(pprof.Handler("allocs")))
			pprofRouter.GET("/block", gin.WrapH(pprof.Handler("block")))
			pprofRouter.GET("/goroutine", gin.WrapH(pprof.Handler("goroutine")))
			pprofRouter.GET("/heap", gin.WrapH(pprof.Handler("heap")))
			pprofRouter.GET("/mutex", gin.WrapH(pprof.Handler("mutex")))
			pprofRouter.GET("/threadcreate", gin.WrapH(pprof.Handler("threadcreate")))
		}
		logger.Info("Pprof endpoints enabled under /debug/pprof")
	}

	return router
}

// OriginChecker accepts websocket upgrades from the configured CORS origins, or from anywhere
// when none are configured.
func OriginChecker(allowOrigins []string) func(r *http.Request) bool {
	if len(allowOrigins) == 0 {
		return nil
	}
	allowed := make(map[string]struct{}, len(allowOrigins))
	for _, o := range allowOrigins {
		allowed[strings.TrimRight(strings.ToLower(o), "/")] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		_, ok := allowed[strings.ToLower(u.Scheme+"://"+u.Host)]
		return ok
	}
}

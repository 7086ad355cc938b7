package main

import (
	"context"
	"encoding/json"
	"log"
	"log/slog"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/barrymichaeldoyle/rightfront/internal/app/applink"
	alcache "github.com/barrymichaeldoyle/rightfront/internal/app/applink/cache"
	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/geo"
	applinkhttpapi "github.com/barrymichaeldoyle/rightfront/internal/app/applink/httpapi"
	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/probe"
	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/repo"
	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/stats"
	platformcache "github.com/barrymichaeldoyle/rightfront/internal/platform/cache"
	"github.com/barrymichaeldoyle/rightfront/internal/platform/config"
	"github.com/barrymichaeldoyle/rightfront/internal/platform/db"
	"github.com/barrymichaeldoyle/rightfront/internal/platform/httpmiddleware"
	"github.com/barrymichaeldoyle/rightfront/internal/platform/httpserver"
	"github.com/barrymichaeldoyle/rightfront/internal/platform/metrics"
	"github.com/barrymichaeldoyle/rightfront/internal/platform/migrate"
	"github.com/barrymichaeldoyle/rightfront/internal/platform/ratelimit"
	"github.com/barrymichaeldoyle/rightfront/internal/platform/trace"
	"github.com/barrymichaeldoyle/rightfront/web"
	"github.com/barrymichaeldoyle/rightfront/web/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	version   = "dev"
	commit    = "none"
	buildTime = "unknown"
)

func main() {
	cfg := config.Load()

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})
	slog.SetDefault(slog.New(h))
	//DB
	dbCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	dbPool, errDB := db.New(dbCtx, cfg.DBDSN)
	if errDB != nil {
		log.Fatal(errDB)
	}
	defer dbPool.Close()
	if err := dbPool.Ping(dbCtx); err != nil {
		log.Fatal(err)
	}
	slog.Info("数据库连接成功")

	//迁移：幂等，启动时直接跑
	migCtx, migCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer migCancel()
	if res, err := migrate.Up(migCtx, dbPool, migrate.Options{}); err != nil {
		log.Fatal(err)
	} else if len(res.AppliedFiles) > 0 {
		slog.Info("迁移完成", "applied", res.AppliedFiles)
	}

	//Redis
	redisClient, errRedis := platformcache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if errRedis != nil {
		log.Fatal(errRedis)
	}
	defer redisClient.Close()
	//限流器
	var limiter *ratelimit.Limiter
	if cfg.RateLimitEnabled {
		limiter = ratelimit.NewLimiter(redisClient)
	} else {
		slog.Warn("RateLimit disabled by config", "RATELIMIT_ENABLED", false)
	}

	//可用性缓存：本地 1 万条目 16MB + Redis，过期看 FetchedAt
	localCache, errLocal := alcache.NewLocalCache(10_000, 1<<24, cfg.AvailabilityTTL)
	if errLocal != nil {
		log.Fatal(errLocal)
	}
	defer localCache.Close()
	availCache := alcache.NewAvailabilityCache(redisClient, localCache, cfg.AvailabilityTTL, time.Now)

	//创建布隆过滤器 预期 10 万 slug，1% 误判率
	bloomFilter := alcache.NewBloomFilter(100_000, 0.01)
	linksRepo := repo.NewAppLinksRepo(dbPool, bloomFilter)
	if err := linksRepo.WarmFilter(dbCtx); err != nil {
		slog.Error("布隆过滤器预热失败", "err", err)
	}

	//初始化统计收集器（根据配置选择 Channel 或 Kafka）
	var collector stats.Collector
	var kafkaConsumer *stats.KafkaConsumer
	var channelConsumer *stats.Consumer
	if cfg.KafkaEnabled {
		slog.Info("使用 Kafka 收集点击统计", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
		collector = stats.NewKafkaCollector(cfg.KafkaBrokers, cfg.KafkaTopic)
		kafkaConsumer = stats.NewKafkaConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, dbPool)
	} else {
		slog.Info("使用 Channel 收集点击统计")
		channelCollector := stats.NewChannelCollector(10000)
		collector = channelCollector
		channelConsumer = stats.NewConsumer(dbPool, channelCollector)
	}

	//解析链：地理定位 → 商店探测 → 跳转决策
	geoResolver := geo.New(
		&http.Client{Timeout: 2 * time.Second},
		cfg.GeoAPIURL, cfg.DefaultCountry, cfg.DefaultLanguage,
	)
	prober := probe.NewStoreProber(cfg.ITunesAPIURL, cfg.PlayStoreURL, cfg.ProbeTimeout)
	scanner := probe.NewScanner(prober, cfg.ProbeTimeout)
	resolver := applink.NewResolver(
		geoResolver, prober,
		cfg.AppStoreURL, cfg.PlayStoreURL, cfg.SiteURL,
		cfg.DefaultLanguage, cfg.ProbeTimeout,
	)
	availability := applink.NewAvailabilityService(scanner, availCache, cfg.DefaultLanguage)

	metrics.Init()

	var shutdown func(context.Context) error
	if cfg.TracingEnabled {
		shutdown = trace.InitTrace(cfg.OtlpGrpcEndpoint, cfg.OtlpServiceName)
		if shutdown == nil {
			slog.Error("Trace init failed")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					slog.Error(err.Error())
				}
			}()
		}
	} else {
		slog.Warn("Tracing disabled by config", "TRACING_ENABLED", false)
	}

	// 对外业务
	r := web.New()
	r.Use(web.Recovery(), middleware.ReqID(), middleware.AccessLog(), httpmiddleware.Metrics(), httpmiddleware.TraceName())

	api := r.Group("/api")

	applinkhttpapi.RegisterPublicRoutes(r, resolver, linksRepo, collector, limiter)
	applinkhttpapi.RegisterAPIRoutes(api, availability, geoResolver, linksRepo, limiter)

	publicHandler := http.Handler(r)
	if cfg.TracingEnabled {
		publicHandler = otelhttp.NewHandler(r, "http")
	}
	publicSrv := httpserver.New(cfg, publicHandler)

	// 仅本机/内网
	adminMux := http.NewServeMux()
	adminMux.Handle("/metrics", promhttp.Handler())
	// 数据库连接状态检测
	adminMux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		dbCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := dbPool.Ping(dbCtx); err != nil {
			w.WriteHeader(500)
			w.Write([]byte("DB Ping Err"))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("DB ready"))
	})

	adminMux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"service_name": cfg.ServiceName,
			"version":      version,
			"commit":       commit,
			"build_time":   buildTime,
			"go_version":   runtime.Version(),
		})
	})

	if cfg.PprofEnabled {
		adminMux.HandleFunc("/debug/pprof/", pprof.Index)
		adminMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		adminMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		adminMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		adminMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}

	adminSrv := &http.Server{
		Addr:              cfg.AdminAddr, // 推荐：127.0.0.1:6060
		Handler:           adminMux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errch := make(chan error, 2)

	go func() {
		errch <- httpserver.RunWithGracefulShutdownContext(publicSrv, cfg.ShutdownTimeout, stopCtx)
	}()
	go func() {
		errch <- httpserver.RunWithGracefulShutdownContext(adminSrv, cfg.ShutdownTimeout, stopCtx)
	}()

	// 启动 Kafka consumer（如果启用）
	if kafkaConsumer != nil {
		go kafkaConsumer.Run(stopCtx)
		defer kafkaConsumer.Close()
	}
	// 启动 Channel consumer（如果启用）
	if channelConsumer != nil {
		go channelConsumer.Run(stopCtx)
	}
	defer collector.Close()

	err := <-errch
	if err != nil {
		stop()
		select {
		case <-errch:
		case <-time.After(cfg.ShutdownTimeout + time.Second):
		}
		log.Fatal(err)
	}

	stop()
	<-errch
}

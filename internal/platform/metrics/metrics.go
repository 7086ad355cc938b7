package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// once 用来保证指标只注册一次。
	// Prometheus 的 registry 不允许重复注册同名指标，否则会直接 panic。
	once sync.Once

	// HTTPRequestsTotal：累计请求数（Counter）。
	//
	// labels：
	// - method：HTTP 方法
	// - route：路由模板（用 pattern，例如 /p/:slug；不要用带真实 slug 的 path，否则会产生无限 label）
	// - status：HTTP 状态码字符串
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "HTTP请求的总数",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDurationSeconds：请求耗时分布（Histogram），用于算 P95/P99。
	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency distributions.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// HTTPInflightRequests：当前正在处理中的请求数（Gauge）。
	HTTPInflightRequests = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Current number of in-flight HTTP requests.",
		},
	)

	// RedirectsTotal：重定向结果计数。
	//
	// labels：
	// - platform：ios / android
	// - outcome：resolved / fallback
	RedirectsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "applink_redirects_total",
			Help: "App 跳转解析结果总数",
		},
		[]string{"platform", "outcome"},
	)

	// StoreProbesTotal：对外部商店的探测次数。
	//
	// labels：
	// - store：ios / android
	// - result：exists / missing / error
	StoreProbesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "applink_store_probes_total",
			Help: "对商店前台的存在性探测总数",
		},
		[]string{"store", "result"},
	)

	// StoreProbeDurationSeconds：单次探测耗时。外部商店接口慢起来很夸张，
	// 桶要比默认的宽一些。
	StoreProbeDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "applink_store_probe_duration_seconds",
			Help:    "Storefront probe latency distributions.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"store"},
	)

	// CacheOperations：可用性缓存命中情况。
	//
	// labels：
	// - layer：l1（本地）/ l2（redis）
	// - op：hit / miss / refresh
	CacheOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "applink_availability_cache_ops_total",
			Help: "可用性扫描缓存操作计数",
		},
		[]string{"layer", "op"},
	)
)

// Init 注册指标：只允许注册一次（否则 panic: duplicate metrics collector registration）
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			HTTPInflightRequests,
			RedirectsTotal,
			StoreProbesTotal,
			StoreProbeDurationSeconds,
			CacheOperations,
		)
	})
}

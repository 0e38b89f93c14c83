// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層とミドルウェアから利用する。
type MetricsCollector interface {
	RecordHTTPStatus(statusCode int)
	RecordRequestLatency(duration time.Duration)
	RecordReviewCreated()
	RecordLikeToggled(liked bool)
	RecordTMDBLookup(outcome string)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpStatus     *prometheus.CounterVec
	requestLatency prometheus.Histogram
	reviewsCreated prometheus.Counter
	likeToggles    *prometheus.CounterVec
	tmdbLookups    *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cinelog_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cinelog_request_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		reviewsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cinelog_reviews_created_total",
			Help: "作成されたレビューの合計数",
		}),
		likeToggles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cinelog_like_toggles_total",
			Help: "いいねトグル操作の合計数（結果別）",
		}, []string{"result"}),
		tmdbLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cinelog_tmdb_lookups_total",
			Help: "TMDBメタデータ照会の合計数（結果別）",
		}, []string{"outcome"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.requestLatency,
		c.reviewsCreated,
		c.likeToggles,
		c.tmdbLookups,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordRequestLatency(duration time.Duration) {
	c.requestLatency.Observe(duration.Seconds())
}

// RecordReviewCreated はレビュー作成を記録する。
func (c *Collector) RecordReviewCreated() {
	c.reviewsCreated.Inc()
}

// RecordLikeToggled はいいねトグルの結果を記録する。
func (c *Collector) RecordLikeToggled(liked bool) {
	result := "unliked"
	if liked {
		result = "liked"
	}
	c.likeToggles.WithLabelValues(result).Inc()
}

// RecordTMDBLookup はTMDB照会の結果を記録する。
// outcomeは "hit"、"miss"、"error" のいずれか。
func (c *Collector) RecordTMDBLookup(outcome string) {
	c.tmdbLookups.WithLabelValues(outcome).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

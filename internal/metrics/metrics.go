// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector はPrometheusメトリクスを収集する実装。
// schedule.SweepMetrics、auth.LoginMetrics、middleware.DenialRecorder、
// middleware.StatusRecorderを満たす。
type Collector struct {
	sweepCompleted prometheus.Counter
	sweepFailed    prometheus.Counter
	sweepRuns      prometheus.Counter
	logins         *prometheus.CounterVec
	accessDenied   *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		sweepCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planboard_sweep_completed_total",
			Help: "自動完了されたタスクの合計数",
		}),
		sweepFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planboard_sweep_failed_total",
			Help: "自動完了の書き込みに失敗したタスクの合計数",
		}),
		sweepRuns: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "planboard_sweep_runs_total",
			Help: "スイープ実行回数の合計",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planboard_logins_total",
			Help: "ログイン成功の合計数",
		}, []string{"new_user"}),
		accessDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planboard_access_denied_total",
			Help: "ロールゲートで拒否されたリクエストの合計数",
		}, []string{"role"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "planboard_http_requests_total",
			Help: "メソッド・ステータスコード別のHTTPリクエスト数",
		}, []string{"method", "status_code"}),
	}

	reg.MustRegister(
		c.sweepCompleted,
		c.sweepFailed,
		c.sweepRuns,
		c.logins,
		c.accessDenied,
		c.httpRequests,
	)

	return c
}

// RecordSweep は1回のスイープの完了数と失敗数を記録する。
func (c *Collector) RecordSweep(completed, failed int) {
	c.sweepRuns.Inc()
	c.sweepCompleted.Add(float64(completed))
	c.sweepFailed.Add(float64(failed))
}

// RecordLogin はログイン成功を記録する。
func (c *Collector) RecordLogin(newUser bool) {
	c.logins.WithLabelValues(strconv.FormatBool(newUser)).Inc()
}

// RecordAccessDenied はロールゲートでのアクセス拒否を記録する。
func (c *Collector) RecordAccessDenied(role string) {
	c.accessDenied.WithLabelValues(role).Inc()
}

// RecordHTTPRequest はHTTPリクエストの完了を記録する。
func (c *Collector) RecordHTTPRequest(method string, status int) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// gatherCounter は指定メトリクスのカウンタ値合計を返す。
func gatherCounter(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()

	metrics, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		var sum float64
		for _, m := range mf.GetMetric() {
			sum += m.GetCounter().GetValue()
		}
		return sum
	}

	t.Fatalf("%s metric not found", name)
	return 0
}

// TestNewCollector_ReturnsNonNil はCollectorが正常に生成されることを検証する。
func TestNewCollector_ReturnsNonNil(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	if c == nil {
		t.Fatal("expected non-nil Collector")
	}
}

// TestRecordSweep_IncrementsCounters はスイープの記録が各カウンタに反映されることを検証する。
func TestRecordSweep_IncrementsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordSweep(3, 1)
	c.RecordSweep(2, 0)

	if got := gatherCounter(t, reg, "planboard_sweep_runs_total"); got != 2 {
		t.Errorf("sweep_runs_total = %v, want 2", got)
	}
	if got := gatherCounter(t, reg, "planboard_sweep_completed_total"); got != 5 {
		t.Errorf("sweep_completed_total = %v, want 5", got)
	}
	if got := gatherCounter(t, reg, "planboard_sweep_failed_total"); got != 1 {
		t.Errorf("sweep_failed_total = %v, want 1", got)
	}
}

// TestRecordLogin_IncrementsCounter はログイン記録がカウンタに反映されることを検証する。
func TestRecordLogin_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordLogin(true)
	c.RecordLogin(false)
	c.RecordLogin(false)

	if got := gatherCounter(t, reg, "planboard_logins_total"); got != 3 {
		t.Errorf("logins_total = %v, want 3", got)
	}
}

// TestRecordAccessDenied_IncrementsCounter はアクセス拒否記録がカウンタに反映されることを検証する。
func TestRecordAccessDenied_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordAccessDenied("partner")
	c.RecordAccessDenied("restricted")

	if got := gatherCounter(t, reg, "planboard_access_denied_total"); got != 2 {
		t.Errorf("access_denied_total = %v, want 2", got)
	}
}

// TestRecordHTTPRequest_IncrementsCounter はHTTPリクエスト記録がカウンタに反映されることを検証する。
func TestRecordHTTPRequest_IncrementsCounter(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordHTTPRequest("GET", 200)
	c.RecordHTTPRequest("POST", 201)
	c.RecordHTTPRequest("GET", 404)

	if got := gatherCounter(t, reg, "planboard_http_requests_total"); got != 3 {
		t.Errorf("http_requests_total = %v, want 3", got)
	}
}

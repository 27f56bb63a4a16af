package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestServiceMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewServiceMetrics(reg)

	m.IncCaptionsGenerated()
	m.IncCaptionsGenerated()
	m.IncQuotaDenied("trial_exhausted")
	m.IncQuotaDenied("")
	m.IncStripeEvent("checkout.session.completed")
	m.IncNotifyFailure("slack")

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather failed: %v", err)
	}

	byName := map[string]*dto.MetricFamily{}
	for _, fam := range families {
		byName[fam.GetName()] = fam
	}

	if got := counterValue(t, byName, "captions_generated_total", nil); got != 2 {
		t.Fatalf("expected 2 generated captions, got %v", got)
	}
	if got := counterValue(t, byName, "quota_denied_total", map[string]string{"reason": "trial_exhausted"}); got != 1 {
		t.Fatalf("expected 1 trial denial, got %v", got)
	}
	if got := counterValue(t, byName, "quota_denied_total", map[string]string{"reason": "unknown"}); got != 1 {
		t.Fatalf("expected empty reason to normalize to unknown, got %v", got)
	}
	if got := counterValue(t, byName, "stripe_events_total", map[string]string{"type": "checkout.session.completed"}); got != 1 {
		t.Fatalf("expected 1 stripe event, got %v", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	var m *ServiceMetrics
	m.IncCaptionsGenerated()
	m.IncQuotaDenied("x")
	m.IncStripeEvent("y")
	m.IncNotifyFailure("z")
}

func counterValue(t *testing.T, families map[string]*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	fam, ok := families[name]
	if !ok {
		t.Fatalf("metric family %s not found", name)
	}
	for _, metric := range fam.GetMetric() {
		matched := true
		for _, pair := range metric.GetLabel() {
			if want, ok := labels[pair.GetName()]; ok && want != pair.GetValue() {
				matched = false
				break
			}
		}
		if len(labels) > 0 && len(metric.GetLabel()) == 0 {
			matched = false
		}
		if matched {
			return metric.GetCounter().GetValue()
		}
	}
	t.Fatalf("no metric in %s matched labels %v", name, labels)
	return 0
}

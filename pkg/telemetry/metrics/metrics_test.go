package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"mercator-hq/symbolic/pkg/config"
	"mercator-hq/symbolic/pkg/engine"
	"mercator-hq/symbolic/pkg/expr/function"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func testConfig() *config.MetricsConfig {
	return &config.MetricsConfig{
		Enabled:   true,
		Namespace: "test",
		Subsystem: "engine",
	}
}

var (
	_ engine.Recorder           = (*Collector)(nil)
	_ engine.EvaluationRecorder = (*Collector)(nil)
)

func TestCollector_NewCollector(t *testing.T) {
	registry := prometheus.NewRegistry()
	collector := NewCollector(testConfig(), registry)

	if collector.Registry() != registry {
		t.Error("Collector registry not set correctly")
	}

	cfg := &config.MetricsConfig{Enabled: true}
	NewCollector(cfg, nil)
	if cfg.Namespace != config.DefaultMetricsNamespace || cfg.Subsystem != config.DefaultMetricsSubsystem {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestCollector_RecordEvaluation(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordEvaluation(engine.OperationEvaluate, "success", time.Millisecond)
	collector.RecordEvaluation(engine.OperationRewrite, "success", 2*time.Millisecond)
	collector.RecordEvaluation(engine.OperationEvaluate, "error", time.Microsecond)

	total := collector.evaluationMetrics.evaluationsTotal
	if got := testutil.ToFloat64(total.WithLabelValues("success")); got != 2 {
		t.Errorf("evaluations_total{status=success} = %v, want 2", got)
	}
	if got := testutil.ToFloat64(total.WithLabelValues("error")); got != 1 {
		t.Errorf("evaluations_total{status=error} = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(collector.evaluationMetrics.evaluationDuration); got != 2 {
		t.Errorf("evaluation_duration_seconds series = %d, want 2", got)
	}
}

func TestCollector_RuleMetrics(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	collector.RecordRewrite("add_zero", 3)
	collector.RecordRewrite("add_zero", 2)
	collector.RecordRewrite("mul_one", 0)
	collector.RecordNonConvergent("loop")
	collector.RecordNonConvergent("*")
	collector.SetRulesLoaded(7)

	rewrites := collector.ruleMetrics.rewritesTotal
	if got := testutil.ToFloat64(rewrites.WithLabelValues("add_zero")); got != 5 {
		t.Errorf("rewrites_total{rule=add_zero} = %v, want 5", got)
	}
	if got := testutil.CollectAndCount(rewrites); got != 1 {
		t.Errorf("rewrites_total series = %d, want 1 (zero counts are skipped)", got)
	}
	if got := testutil.CollectAndCount(collector.ruleMetrics.nonConvergentTotal); got != 2 {
		t.Errorf("non_convergent_total series = %d, want 2", got)
	}
	if got := testutil.ToFloat64(collector.ruleMetrics.rulesLoaded); got != 7 {
		t.Errorf("rules_loaded = %v, want 7", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	cfg := testConfig()
	cfg.Enabled = false
	collector := NewCollector(cfg, prometheus.NewRegistry())

	collector.RecordEvaluation("evaluate", "success", time.Millisecond)
	collector.RecordRewrite("r", 1)
	collector.SetRulesLoaded(3)

	if got := testutil.CollectAndCount(collector.evaluationMetrics.evaluationsTotal); got != 0 {
		t.Errorf("evaluations_total series = %d, want 0 when disabled", got)
	}
	if got := testutil.ToFloat64(collector.ruleMetrics.rulesLoaded); got != 0 {
		t.Errorf("rules_loaded = %v, want 0 when disabled", got)
	}
}

func TestCollector_RuleCardinality(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.cardinalityLimiter = NewCardinalityLimiter(2)

	for i := 0; i < 4; i++ {
		collector.RecordRewrite(fmt.Sprintf("rule_%d", i), 1)
	}

	rewrites := collector.ruleMetrics.rewritesTotal
	if got := testutil.ToFloat64(rewrites.WithLabelValues(otherRule)); got != 2 {
		t.Errorf("rewrites_total{rule=other} = %v, want 2", got)
	}
}

func TestCardinalityLimiter(t *testing.T) {
	cl := NewCardinalityLimiter(2)

	tests := []struct {
		label string
		want  bool
	}{
		{"a", true},
		{"b", true},
		{"a", true},
		{"c", false},
	}
	for _, tt := range tests {
		if got := cl.Allow(tt.label); got != tt.want {
			t.Errorf("Allow(%q) = %v, want %v", tt.label, got, tt.want)
		}
	}
	if cl.Count() != 2 {
		t.Errorf("Count() = %d, want 2", cl.Count())
	}
}

func TestCollector_Handler(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	collector.RecordRewrite("add_zero", 1)
	collector.SetRulesLoaded(4)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		`test_engine_rewrites_total{rule="add_zero"} 1`,
		"test_engine_rules_loaded 4",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q:\n%s", want, body)
		}
	}
}

func TestCollector_RegisterRuntimeCollectors(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())
	if err := collector.RegisterRuntimeCollectors(); err != nil {
		t.Fatalf("RegisterRuntimeCollectors() error = %v", err)
	}
	if err := collector.RegisterRuntimeCollectors(); err == nil {
		t.Error("second RegisterRuntimeCollectors() should report duplicate registration")
	}

	rec := httptest.NewRecorder()
	collector.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Errorf("runtime metrics missing from output")
	}
}

func TestCollector_WithRuleSet(t *testing.T) {
	collector := NewCollector(testConfig(), prometheus.NewRegistry())

	rule, err := engine.NewNamedRule("add_zero",
		engine.CallOf(function.Add, engine.Tag(0, engine.Any()), engine.Value(0)),
		engine.Ref(0))
	if err != nil {
		t.Fatal(err)
	}
	rs := engine.NewRuleSet("test").WithRecorder(collector)
	if err := rs.Add(rule); err != nil {
		t.Fatal(err)
	}

	tree, err := engine.Evaluate("(a + 0) * (b + 0)")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := rs.Rewrite(t.Context(), tree); err != nil {
		t.Fatal(err)
	}

	if got := testutil.ToFloat64(collector.ruleMetrics.rewritesTotal.WithLabelValues("add_zero")); got != 2 {
		t.Errorf("rewrites_total{rule=add_zero} = %v, want 2", got)
	}
}

// Package metrics records reduction activity as prometheus metrics.
package metrics

import (
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"nickandperla.net/snailfish/internal/reduce"
)

const namespace = "snailfish"

// Recorder implements reduce.Observer on top of prometheus collectors.
type Recorder struct {
	explodes   prometheus.Counter
	splits     prometheus.Counter
	reductions *prometheus.CounterVec
	iterations prometheus.Histogram
}

var _ reduce.Observer = (*Recorder)(nil)

// NewRecorder creates the collectors and registers them on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		explodes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "explodes_total",
			Help:      "Pairs exploded during reduction.",
		}),
		splits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "splits_total",
			Help:      "Regular numbers split during reduction.",
		}),
		reductions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reductions_total",
			Help:      "Completed reductions by outcome.",
		}, []string{"outcome"}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reduction_iterations",
			Help:      "Rule applications per reduction.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12),
		}),
	}
	for _, c := range []prometheus.Collector{r.explodes, r.splits, r.reductions, r.iterations} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("registering metrics: %w", err)
		}
	}
	return r, nil
}

// ObserveReduction records one reduction.
func (r *Recorder) ObserveReduction(s reduce.Stats, err error) {
	r.explodes.Add(float64(s.Explodes))
	r.splits.Add(float64(s.Splits))
	r.iterations.Observe(float64(s.Iterations))
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.reductions.WithLabelValues(outcome).Inc()
}

// Sample is one flattened metric value.
type Sample struct {
	Name  string
	Value float64
}

// Snapshot gathers g and flattens counters and histogram sums/counts into
// name-sorted samples.
func Snapshot(g prometheus.Gatherer) ([]Sample, error) {
	mfs, err := g.Gather()
	if err != nil {
		return nil, err
	}
	var out []Sample
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			name := mf.GetName() + labelSuffix(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				out = append(out, Sample{Name: name, Value: m.GetCounter().GetValue()})
			case dto.MetricType_GAUGE:
				out = append(out, Sample{Name: name, Value: m.GetGauge().GetValue()})
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				out = append(out,
					Sample{Name: name + "_count", Value: float64(h.GetSampleCount())},
					Sample{Name: name + "_sum", Value: h.GetSampleSum()})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func labelSuffix(labels []*dto.LabelPair) string {
	if len(labels) == 0 {
		return ""
	}
	parts := make([]string, len(labels))
	for i, l := range labels {
		parts[i] = fmt.Sprintf("%s=%q", l.GetName(), l.GetValue())
	}
	return "{" + strings.Join(parts, ",") + "}"
}

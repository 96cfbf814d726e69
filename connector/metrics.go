package connector

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/syssam/osql/dialect/sql"
)

// StatsSource is a connector built WithStats.
type StatsSource interface {
	Stats() (sql.StatsSnapshot, bool)
}

// Collector exports the statistics of a connector to Prometheus. Nothing is
// reported while the connector is disconnected.
//
//	c := connector.NewSQLite("app.db", connector.WithStats())
//	prometheus.MustRegister(connector.NewCollector("app", c))
type Collector struct {
	src StatsSource

	statements  *prometheus.Desc
	calls       *prometheus.Desc
	errors      *prometheus.Desc
	slow        *prometheus.Desc
	duration    *prometheus.Desc
	maxDuration *prometheus.Desc
}

// NewCollector returns a collector for src, labeled with the connector name.
func NewCollector(name string, src StatsSource) *Collector {
	labels := prometheus.Labels{"connector": name}
	return &Collector{
		src: src,
		statements: prometheus.NewDesc("osql_statements_total",
			"Statements executed, by kind.", []string{"kind"}, labels),
		calls: prometheus.NewDesc("osql_calls_total",
			"Driver calls, by call.", []string{"call"}, labels),
		errors: prometheus.NewDesc("osql_statement_errors_total",
			"Statements the backend failed.", nil, labels),
		slow: prometheus.NewDesc("osql_slow_statements_total",
			"Statements over the slow threshold.", nil, labels),
		duration: prometheus.NewDesc("osql_statement_duration_seconds_total",
			"Time spent executing statements.", nil, labels),
		maxDuration: prometheus.NewDesc("osql_statement_duration_max_seconds",
			"Longest single statement.", nil, labels),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.statements
	ch <- c.calls
	ch <- c.errors
	ch <- c.slow
	ch <- c.duration
	ch <- c.maxDuration
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s, ok := c.src.Stats()
	if !ok {
		return
	}
	for _, kind := range []string{sql.KindSelect, sql.KindInsert, sql.KindUpdate, sql.KindDelete, sql.KindOther} {
		ch <- prometheus.MustNewConstMetric(c.statements, prometheus.CounterValue, float64(s.ByKind[kind]), kind)
	}
	ch <- prometheus.MustNewConstMetric(c.calls, prometheus.CounterValue, float64(s.TotalQueries), "query")
	ch <- prometheus.MustNewConstMetric(c.calls, prometheus.CounterValue, float64(s.TotalExecs), "exec")
	ch <- prometheus.MustNewConstMetric(c.errors, prometheus.CounterValue, float64(s.Errors))
	ch <- prometheus.MustNewConstMetric(c.slow, prometheus.CounterValue, float64(s.SlowQueries))
	ch <- prometheus.MustNewConstMetric(c.duration, prometheus.CounterValue, s.TotalDuration.Seconds())
	ch <- prometheus.MustNewConstMetric(c.maxDuration, prometheus.GaugeValue, s.MaxDuration.Seconds())
}

var _ prometheus.Collector = (*Collector)(nil)

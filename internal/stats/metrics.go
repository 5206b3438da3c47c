package stats

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Collector exports Counters and the index size to Prometheus.
type Collector struct {
	counters *Counters
	entries  func() int

	requests *prometheus.Desc
	blocks   *prometheus.Desc
	passes   *prometheus.Desc
	size     *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a Collector reading counters and entries on every
// scrape. entries may be nil.
func NewCollector(counters *Counters, entries func() int) *Collector {
	return &Collector{
		counters: counters,
		entries:  entries,
		requests: prometheus.NewDesc("redblock_requests_total", "Lookups answered.", nil, nil),
		blocks:   prometheus.NewDesc("redblock_blocks_total", "Lookups answered as blocked.", nil, nil),
		passes:   prometheus.NewDesc("redblock_passes_total", "Lookups answered as not blocked.", nil, nil),
		size:     prometheus.NewDesc("redblock_blocklist_entries", "Entries in the loaded index.", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.requests
	ch <- c.blocks
	ch <- c.passes
	ch <- c.size
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.counters.Snapshot()
	ch <- prometheus.MustNewConstMetric(c.requests, prometheus.CounterValue, float64(s.Requests))
	ch <- prometheus.MustNewConstMetric(c.blocks, prometheus.CounterValue, float64(s.Blocks))
	ch <- prometheus.MustNewConstMetric(c.passes, prometheus.CounterValue, float64(s.Passes))

	n := 0
	if c.entries != nil {
		n = c.entries()
	}
	ch <- prometheus.MustNewConstMetric(c.size, prometheus.GaugeValue, float64(n))
}

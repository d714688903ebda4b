// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package metrics exports the traffic counters of a [csp.Factory] to
// Prometheus.
package metrics

import (
	"code.hybscloud.com/csp"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector is a prometheus.Collector reading a factory's Stats on every
// scrape.
type Collector struct {
	factory    *csp.Factory
	channels   *prometheus.Desc
	reads      *prometheus.Desc
	writes     *prometheus.Desc
	poisons    *prometheus.Desc
	selections *prometheus.Desc
}

// NewCollector returns a collector for f. namespace prefixes every metric
// name and may be empty.
func NewCollector(f *csp.Factory, namespace string) *Collector {
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "csp", name), help, nil, nil)
	}
	return &Collector{
		factory:    f,
		channels:   desc("channels_created_total", "Channels created from the factory."),
		reads:      desc("reads_total", "Values read from the factory's channels."),
		writes:     desc("writes_total", "Values written to the factory's channels."),
		poisons:    desc("poisons_total", "Poison calls on the factory's channels."),
		selections: desc("selections_total", "Completed selections of the factory's alternatives."),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.channels
	ch <- c.reads
	ch <- c.writes
	ch <- c.poisons
	ch <- c.selections
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.factory.Stats()
	ch <- prometheus.MustNewConstMetric(c.channels, prometheus.CounterValue, float64(s.Channels))
	ch <- prometheus.MustNewConstMetric(c.reads, prometheus.CounterValue, float64(s.Reads))
	ch <- prometheus.MustNewConstMetric(c.writes, prometheus.CounterValue, float64(s.Writes))
	ch <- prometheus.MustNewConstMetric(c.poisons, prometheus.CounterValue, float64(s.Poisons))
	ch <- prometheus.MustNewConstMetric(c.selections, prometheus.CounterValue, float64(s.Selections))
}

var _ prometheus.Collector = (*Collector)(nil)

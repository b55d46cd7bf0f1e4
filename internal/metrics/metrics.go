// Package metrics keeps the counters of one sampling run in a private
// Prometheus registry. Batch runs have no scrape endpoint, so the registry is
// written out in the node-exporter textfile format at the end of the run.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "magsample"

// Run holds the metrics for a single run. A nil *Run is a valid no-op.
type Run struct {
	reg *prometheus.Registry

	catalogRecords prometheus.Gauge
	nonEmptyBins   prometheus.Gauge
	requested      prometheus.Counter
	voted          prometheus.Counter
	written        prometheus.Counter
	rounds         prometheus.Counter
	duration       prometheus.Gauge
}

// New builds a registry whose series all carry the run_id label.
func New(runID string) *Run {
	labels := prometheus.Labels{"run_id": runID}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: name, Help: help, ConstLabels: labels,
		})
	}
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: name, Help: help, ConstLabels: labels,
		})
	}
	r := &Run{
		reg:            prometheus.NewRegistry(),
		catalogRecords: gauge("catalog_records", "Rows in the loaded index catalog."),
		nonEmptyBins:   gauge("nonempty_bins", "Magnetization values with at least one row in the sampled range."),
		requested:      counter("samples_requested_total", "Samples asked for on the command line."),
		voted:          counter("samples_voted_total", "Level-A votes cast across all rounds."),
		written:        counter("samples_written_total", "Rows written to the sample catalog."),
		rounds:         counter("level_a_rounds_total", "Level-A rounds executed."),
		duration:       gauge("run_duration_seconds", "Wall time of the run."),
	}
	r.reg.MustRegister(r.catalogRecords, r.nonEmptyBins, r.requested, r.voted, r.written, r.rounds, r.duration)
	return r
}

// ObserveCatalog records the catalog size and the populated bins in range.
func (r *Run) ObserveCatalog(records, nonEmpty int) {
	if r == nil {
		return
	}
	r.catalogRecords.Set(float64(records))
	r.nonEmptyBins.Set(float64(nonEmpty))
}

// AddRequested counts samples asked for.
func (r *Run) AddRequested(n int) {
	if r == nil {
		return
	}
	r.requested.Add(float64(n))
}

// AddRound counts one Level-A round and the votes it cast.
func (r *Run) AddRound(votes int) {
	if r == nil {
		return
	}
	r.rounds.Inc()
	r.voted.Add(float64(votes))
}

// AddWritten counts rows written.
func (r *Run) AddWritten(n int) {
	if r == nil {
		return
	}
	r.written.Add(float64(n))
}

// SetDuration records the run's wall time.
func (r *Run) SetDuration(d time.Duration) {
	if r == nil {
		return
	}
	r.duration.Set(d.Seconds())
}

// WriteTextfile writes the registry to path. A nil *Run or empty path is a no-op.
func (r *Run) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics %s: %w", path, err)
	}
	return nil
}

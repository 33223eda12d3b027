// Package metrics exports link and bridge counters to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/robotalks/skylink/pkg/link"
)

// Namespace of all metrics.
const Namespace = "skylink"

// StatsSource provides decoder counters, e.g. *link.Stream.
type StatsSource interface {
	Stats() link.Stats
}

// LinkCollector reads link counters on every scrape.
type LinkCollector struct {
	source StatsSource

	frames    *prometheus.Desc
	attempts  *prometheus.Desc
	rejected  *prometheus.Desc
	discarded *prometheus.Desc
	overflows *prometheus.Desc
	resets    *prometheus.Desc
}

// NewLinkCollector creates a LinkCollector. The port is added as a const label.
func NewLinkCollector(source StatsSource, port string) *LinkCollector {
	labels := prometheus.Labels{"port": port}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(Namespace, "link", name), help, nil, labels)
	}
	return &LinkCollector{
		source:    source,
		frames:    desc("frames_total", "Frames decoded."),
		attempts:  desc("decode_attempts_total", "Full windows validated."),
		rejected:  desc("rejected_total", "Windows failing validation."),
		discarded: desc("discarded_bytes_total", "Bytes dropped while looking for a frame start."),
		overflows: desc("overflows_total", "Buffer overflows."),
		resets:    desc("resets_total", "Partial frames abandoned after idle timeout."),
	}
}

// Describe implements prometheus.Collector.
func (c *LinkCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.frames
	ch <- c.attempts
	ch <- c.rejected
	ch <- c.discarded
	ch <- c.overflows
	ch <- c.resets
}

// Collect implements prometheus.Collector.
func (c *LinkCollector) Collect(ch chan<- prometheus.Metric) {
	stats := c.source.Stats()
	counter := func(desc *prometheus.Desc, val uint64) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.CounterValue, float64(val))
	}
	counter(c.frames, stats.Frames)
	counter(c.attempts, stats.Attempts)
	counter(c.rejected, stats.Rejected)
	counter(c.discarded, stats.Discarded)
	counter(c.overflows, stats.Overflows)
	counter(c.resets, stats.Resets)
}

// PacketWriter is the sink being counted.
type PacketWriter interface {
	WritePacket([]byte) error
}

// CountingWriter counts packets written to a bridge sink.
type CountingWriter struct {
	PacketWriter

	packets prometheus.Counter
	bytes   prometheus.Counter
	errors  prometheus.Counter
}

// NewCountingWriter wraps w and registers its counters with reg,
// labeled by the sink name.
func NewCountingWriter(reg prometheus.Registerer, sink string, w PacketWriter) *CountingWriter {
	factory := promauto.With(reg)
	opts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace:   Namespace,
			Subsystem:   "bridge",
			Name:        name,
			Help:        help,
			ConstLabels: prometheus.Labels{"sink": sink},
		}
	}
	return &CountingWriter{
		PacketWriter: w,
		packets:      factory.NewCounter(opts("packets_total", "Packets written.")),
		bytes:        factory.NewCounter(opts("bytes_total", "Bytes written.")),
		errors:       factory.NewCounter(opts("errors_total", "Failed writes.")),
	}
}

// WritePacket implements PacketWriter.
func (w *CountingWriter) WritePacket(pkt []byte) error {
	if err := w.PacketWriter.WritePacket(pkt); err != nil {
		w.errors.Inc()
		return err
	}
	w.packets.Inc()
	w.bytes.Add(float64(len(pkt)))
	return nil
}

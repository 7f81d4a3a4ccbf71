// Package metrics exposes the bridge's Prometheus counters and gauges.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups every counter/gauge the bridge exports.
type Metrics struct {
	YSFFramesTotal  prometheus.Counter
	DMRFramesTotal  prometheus.Counter
	FramesDropped   prometheus.Counter
	WiresXCommands  *prometheus.CounterVec
	PictureUploads  prometheus.Counter
	PictureDownloads prometheus.Counter
	CurrentTalkGroup prometheus.Gauge
}

// New registers and returns the bridge's metric set against reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		YSFFramesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridge_ysf_frames_total",
			Help: "Total YSF voice frames received from the VOICE-A network.",
		}),
		DMRFramesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridge_dmr_frames_total",
			Help: "Total DMR voice frames received from the VOICE-B network.",
		}),
		FramesDropped: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridge_frames_dropped_total",
			Help: "Total frames dropped due to ring-buffer overflow in the mode converter.",
		}),
		WiresXCommands: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bridge_wiresx_commands_total",
			Help: "Total WIRES-X commands processed, labeled by command name.",
		}, []string{"command"}),
		PictureUploads: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridge_wiresx_picture_uploads_total",
			Help: "Total WIRES-X picture uploads completed to the news board.",
		}),
		PictureDownloads: factory.NewCounter(prometheus.CounterOpts{
			Name: "bridge_wiresx_picture_downloads_total",
			Help: "Total WIRES-X picture downloads streamed to a handset.",
		}),
		CurrentTalkGroup: factory.NewGauge(prometheus.GaugeOpts{
			Name: "bridge_current_talk_group",
			Help: "The DMR destination ID currently selected on the bridge.",
		}),
	}
}

// Handler returns the /metrics HTTP handler for reg.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

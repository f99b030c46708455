// Package metrics defines prometheus metric types and provides convenience
// methods to add accounting to the codec and IPC layers.
//
// When defining new operations or metrics, these are helpful values to track:
//  - things coming into or go out of the system: commands, responses, datagrams.
//  - the success or error status of any of the above.
//  - the distribution of processing latency.
package metrics

import (
	"log"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EncodeTimeHistogram tracks how long encoding an envelope takes,
	// keyed by envelope kind (command, response).
	EncodeTimeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "satnet_ipc_encode_time_histogram",
			Help: "struct/union encode latency distribution (seconds)",
			Buckets: []float64{
				0.0001, 0.000125, 0.00016, 0.0002, 0.00025, 0.00032, 0.0004, 0.0005,
				0.00063, 0.00079, 0.001, 0.00125, 0.0016, 0.002, 0.0025, 0.0032, 0.004,
			},
		},
		[]string{"type"})

	// DecodeTimeHistogram tracks how long decoding an envelope takes,
	// keyed by envelope kind (command, response).
	DecodeTimeHistogram = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "satnet_ipc_decode_time_histogram",
			Help: "struct/union decode latency distribution (seconds)",
			Buckets: []float64{
				0.0001, 0.000125, 0.00016, 0.0002, 0.00025, 0.00032, 0.0004, 0.0005,
				0.00063, 0.00079, 0.001, 0.00125, 0.0016, 0.002, 0.0025, 0.0032, 0.004,
			},
		},
		[]string{"type"})

	// CodecErrorCount counts encode/decode failures, by error kind
	// (BufferTooSmall, Truncated, UnknownType, BareString, ...).
	CodecErrorCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satnet_ipc_codec_error_total",
			Help: "The total number of codec errors encountered, by kind.",
		}, []string{"kind"})

	// IPCRefRate counts commands sent, by local command id.
	IPCRefRate = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satnet_ipc_commands_sent_total",
			Help: "Number of commands sent, by command id.",
		}, []string{"cmd"})

	// PendingTableSize tracks the number of in-flight asynchronous
	// commands awaiting a reply or timeout at any instant.
	PendingTableSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "satnet_ipc_pending_table_size",
			Help: "Number of commands awaiting a response or timeout.",
		},
	)

	// ResponseResultCount counts responses received, by result code.
	ResponseResultCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satnet_ipc_response_result_total",
			Help: "Number of responses received, by result code.",
		}, []string{"result"})

	// EndpointErrorCount counts transport-level failures on an endpoint
	// (send/recv/bind), by operation.
	EndpointErrorCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "satnet_ipc_endpoint_error_total",
			Help: "Number of endpoint transport errors, by operation.",
		}, []string{"op"})
)

// init logs a message to let the operator know that the package has been
// loaded and the metrics registered. The metrics are auto-registered, which
// means they are registered as soon as this package is loaded, and the exact
// time this occurs (and whether this occurs at all in a given context) can be
// opaque.
func init() {
	log.Println("Prometheus metrics in satnet-ipc.metrics are registered.")
}

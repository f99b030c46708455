package ipc

import (
	"errors"
	"time"

	"github.com/polysat/satnet-ipc/aggregate"
	"github.com/polysat/satnet-ipc/metrics"
	"github.com/polysat/satnet-ipc/registry"
	"github.com/polysat/satnet-ipc/xdr"
	"github.com/polysat/satnet-ipc/xdrunion"
)

// scratchSize is the initial encode buffer size; if the encoder reports
// ErrBufferTooSmall along with a required size larger than this, the
// caller reallocates once and retries, mirroring IPC_command_internal's
// malloc(1024)-then-retry pattern.
const scratchSize = 1024

// EncodeCommand encodes cmd into a buffer sized by a single retry on
// ErrBufferTooSmall, matching IPC_Command_encode's caller-side
// fallback.
func EncodeCommand(cmd *Command, r *registry.Registry) ([]byte, error) {
	start := time.Now()
	defs := commandFields(r)
	buf, err := encodeWithFallback(cmd, defs)
	metrics.EncodeTimeHistogram.WithLabelValues("command").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CodecErrorCount.WithLabelValues(errorKind(err)).Inc()
	}
	return buf, err
}

// DecodeCommand decodes a Command envelope from src. Decode failures are
// not counted into CodecErrorCount here: a host loop peek-decodes every
// datagram both ways, so an expected mismatch is not a codec error (the
// loop counts the case where neither decode succeeds).
func DecodeCommand(src []byte, r *registry.Registry) (*Command, error) {
	start := time.Now()
	cmd := &Command{}
	defs := commandFields(r)
	_, err := aggregate.StructDecode(src, cmd, defs, len(src))
	metrics.DecodeTimeHistogram.WithLabelValues("command").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	return cmd, nil
}

// EncodeResponse encodes resp into a buffer sized by a single retry on
// ErrBufferTooSmall, matching IPC_Response_encode's caller-side
// fallback.
func EncodeResponse(resp *Response, r *registry.Registry) ([]byte, error) {
	start := time.Now()
	defs := responseFields(r)
	buf, err := encodeWithFallback(resp, defs)
	metrics.EncodeTimeHistogram.WithLabelValues("response").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CodecErrorCount.WithLabelValues(errorKind(err)).Inc()
	}
	return buf, err
}

// DecodeResponse decodes a Response envelope from src. See DecodeCommand
// for why decode failures are left to the caller's accounting.
func DecodeResponse(src []byte, r *registry.Registry) (*Response, error) {
	start := time.Now()
	resp := &Response{}
	defs := responseFields(r)
	_, err := aggregate.StructDecode(src, resp, defs, len(src))
	metrics.DecodeTimeHistogram.WithLabelValues("response").Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// errorKind maps a codec error to its CodecErrorCount label.
func errorKind(err error) string {
	switch {
	case errors.Is(err, xdr.ErrBufferTooSmall):
		return "BufferTooSmall"
	case errors.Is(err, xdr.ErrTruncated):
		return "Truncated"
	case errors.Is(err, xdr.ErrBareString):
		return "BareString"
	case errors.Is(err, xdrunion.ErrUnknownDiscriminant):
		return "UnknownType"
	default:
		return "Other"
	}
}

func encodeWithFallback(container interface{}, defs []registry.FieldDefinition) ([]byte, error) {
	buf := make([]byte, scratchSize)
	n, err := aggregate.StructEncode(container, defs, buf, scratchSize)
	if err == nil {
		return buf[:n], nil
	}
	if !errors.Is(err, xdr.ErrBufferTooSmall) || n <= scratchSize {
		return nil, err
	}

	buf = make([]byte, n)
	n2, err := aggregate.StructEncode(container, defs, buf, n)
	if err != nil {
		return nil, err
	}
	return buf[:n2], nil
}

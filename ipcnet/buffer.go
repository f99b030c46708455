package ipcnet

// FrameBuffer accumulates received bytes and hands them to a callback
// that consumes whole frames, shifting any unconsumed remainder to the
// front. Adapted from IPCBuffer / ipc_append_buffer / ipc_process_buffer
// in C libproc, which grows a malloc'd buffer geometrically
// and pulls frames off the front as the callback reports how much it
// consumed.
type FrameBuffer struct {
	data []byte
}

// NewFrameBuffer returns an empty FrameBuffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{}
}

// Append adds data to the end of the buffer, mirroring ipc_append_buffer
// (Go's append already grows geometrically so there is no explicit
// doubling step here).
func (b *FrameBuffer) Append(data []byte) {
	b.data = append(b.data, data...)
}

// Len returns the number of unconsumed bytes currently buffered.
func (b *FrameBuffer) Len() int {
	return len(b.data)
}

// Reset discards all buffered data, mirroring ipc_reset_buffer.
func (b *FrameBuffer) Reset() {
	b.data = b.data[:0]
}

// FrameConsumer inspects buf and returns how many leading bytes form
// one complete frame, or 0 if buf doesn't yet hold a full frame.
type FrameConsumer func(buf []byte) (consumed int)

// Process repeatedly calls consume against the buffer's remaining
// bytes until it reports 0 (no complete frame available), then shifts
// any unconsumed remainder to the front, mirroring ipc_process_buffer's
// consume-then-compact loop. It returns the total number of bytes
// consumed across all full frames.
func (b *FrameBuffer) Process(consume FrameConsumer) int {
	if consume == nil || len(b.data) == 0 {
		return 0
	}

	total := 0
	for {
		n := consume(b.data[total:])
		if n <= 0 {
			break
		}
		total += n
	}

	if total > 0 {
		if total == len(b.data) {
			b.Reset()
		} else {
			b.data = append(b.data[:0], b.data[total:]...)
		}
	}
	return total
}

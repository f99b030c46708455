package ipc

// RefCounter hands out the monotonically increasing ipcref values used
// to correlate a Response back to the Command that triggered it,
// mirroring IPC_command_internal's static
// next_cmd_ref counter. It starts at 1, matching libproc (0 is
// reserved so a zeroed struct is visibly not yet assigned a ref).
type RefCounter struct {
	next uint32
}

// NewRefCounter returns a counter starting at 1.
func NewRefCounter() *RefCounter {
	return &RefCounter{next: 1}
}

// Next returns the next ipcref and advances the counter.
func (c *RefCounter) Next() uint32 {
	v := c.next
	c.next++
	return v
}

package ipc

import "time"

// CBType distinguishes why a pending command's callback fired, mirroring
// enum IPC_CB_TYPE.
type CBType int

const (
	CBReply CBType = iota
	CBTimeout
	CBError
)

// Callback is invoked exactly once per pending command: with the
// decoded Response and CBReply on a matching reply, with a nil
// Response and CBTimeout on deadline expiry, or with a nil Response and
// CBError on a transport failure.
type Callback func(resp *Response, cbType CBType)

// pendingEntry is one in-flight asynchronous command awaiting a reply,
// mirroring the callback registration CMD_add_response_cb performs.
type pendingEntry struct {
	ipcref   uint32
	destName string
	cb       Callback
	deadline time.Time
	fired    bool
}

// PendingTable tracks in-flight asynchronous commands by ipcref, for a
// host loop to drain on every incoming datagram and timer tick. It is
// NOT threadsafe, matching the single-threaded cooperative model: only
// the loop's own thread registers, delivers, and
// expires entries.
type PendingTable struct {
	entries map[uint32]*pendingEntry
}

// NewPendingTable returns an empty table.
func NewPendingTable() *PendingTable {
	return &PendingTable{entries: make(map[uint32]*pendingEntry)}
}

// Register adds a pending entry for ipcref, due to fire cb by deadline.
func (t *PendingTable) Register(ipcref uint32, destName string, deadline time.Time, cb Callback) {
	t.entries[ipcref] = &pendingEntry{
		ipcref:   ipcref,
		destName: destName,
		cb:       cb,
		deadline: deadline,
	}
}

// Deliver matches resp.IPCRef against a pending entry and fires its
// callback with CBReply, removing the entry. Reports whether a match
// was found.
func (t *PendingTable) Deliver(resp *Response) bool {
	e, ok := t.entries[resp.IPCRef]
	if !ok {
		return false
	}
	delete(t.entries, resp.IPCRef)
	fire(e, resp, CBReply)
	return true
}

// ExpireBefore fires CBTimeout for, and removes, every entry whose
// deadline is at or before now. Returns the number of entries expired.
func (t *PendingTable) ExpireBefore(now time.Time) int {
	expired := 0
	for ref, e := range t.entries {
		if !e.deadline.After(now) {
			delete(t.entries, ref)
			fire(e, nil, CBTimeout)
			expired++
		}
	}
	return expired
}

// Cancel removes a pending entry for ipcref and fires its callback with
// CBError, e.g. after a send-time transport failure. Reports whether an
// entry existed.
func (t *PendingTable) Cancel(ipcref uint32) bool {
	e, ok := t.entries[ipcref]
	if !ok {
		return false
	}
	delete(t.entries, ipcref)
	fire(e, nil, CBError)
	return true
}

// Len returns the number of in-flight entries.
func (t *PendingTable) Len() int {
	return len(t.entries)
}

func fire(e *pendingEntry, resp *Response, cbType CBType) {
	if e.fired || e.cb == nil {
		return
	}
	e.fired = true
	e.cb(resp, cbType)
}

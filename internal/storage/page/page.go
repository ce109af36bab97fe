package page

import (
	util "framedb/internal/utils"
)

// Page is one fixed-size buffer pool frame: a memory slot that holds the
// contents of at most one logical page at a time, plus the bookkeeping the
// pool needs to decide whether the slot may be recycled.
//
// The buffer pool allocates every Page once at construction and never frees
// them; only the metadata and contents are recycled across logical pages.
// All mutators assume the caller holds the pool's latch.
type Page struct {
	id       util.PageID
	pinCount int32
	dirty    bool
	data     [util.PageSize]byte
}

// ID returns the logical page currently held, or InvalidPageID for a free frame.
func (p *Page) ID() util.PageID {
	return p.id
}

func (p *Page) SetID(id util.PageID) {
	p.id = id
}

// PinCount is the number of active holders of this frame.
func (p *Page) PinCount() int32 {
	return p.pinCount
}

func (p *Page) IncPin() {
	p.pinCount++
}

func (p *Page) DecPin() {
	if p.pinCount <= 0 {
		panic("page: pin count underflow")
	}
	p.pinCount--
}

func (p *Page) SetPinCount(n int32) {
	p.pinCount = n
}

// IsDirty reports whether the contents were mutated since the last write-back.
func (p *Page) IsDirty() bool {
	return p.dirty
}

// SetDirty marks the frame dirty. The flag is sticky: it is only ever
// cleared by a write-back (ClearDirty), never by a later clean unpin.
func (p *Page) SetDirty() {
	p.dirty = true
}

func (p *Page) ClearDirty() {
	p.dirty = false
}

// Data exposes the frame's contents for in-place reads and writes.
// The returned slice aliases the frame buffer for the life of the pool.
func (p *Page) Data() []byte {
	return p.data[:]
}

// Reset returns the frame to its unassigned state: no id, no pin, clean,
// zeroed contents.
func (p *Page) Reset() {
	p.id = util.InvalidPageID
	p.pinCount = 0
	p.dirty = false
	clear(p.data[:])
}

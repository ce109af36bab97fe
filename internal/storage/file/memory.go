package file

import (
	"sync"

	util "framedb/internal/utils"
)

// MemDisk is an in-memory disk manager for tests and benchmarks. It records
// per-page read/write counts so tests can assert on exactly how many
// write-backs the buffer pool issued.
type MemDisk struct {
	mu         sync.Mutex
	pages      map[util.PageID][]byte
	nextPageID util.PageID
	freeIDs    []util.PageID

	reads       map[util.PageID]int
	writes      map[util.PageID]int
	deallocated map[util.PageID]int
	allocateCnt int
}

func NewMemDisk() *MemDisk {
	return &MemDisk{
		pages:       make(map[util.PageID][]byte),
		reads:       make(map[util.PageID]int),
		writes:      make(map[util.PageID]int),
		deallocated: make(map[util.PageID]int),
	}
}

func (d *MemDisk) ReadPage(pageID util.PageID, buf []byte) error {
	if pageID < 0 {
		return util.ErrInvalidPageId
	}
	if len(buf) != util.PageSize {
		return util.ErrPageOutOfBounds
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.reads[pageID]++
	if stored, ok := d.pages[pageID]; ok {
		copy(buf, stored)
		return nil
	}
	clear(buf)
	return nil
}

func (d *MemDisk) WritePage(pageID util.PageID, buf []byte) error {
	if pageID < 0 {
		return util.ErrInvalidPageId
	}
	if len(buf) != util.PageSize {
		return util.ErrPageOutOfBounds
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.writes[pageID]++
	stored := make([]byte, util.PageSize)
	copy(stored, buf)
	d.pages[pageID] = stored
	return nil
}

func (d *MemDisk) AllocatePage() util.PageID {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.allocateCnt++
	if n := len(d.freeIDs); n > 0 {
		id := d.freeIDs[n-1]
		d.freeIDs = d.freeIDs[:n-1]
		return id
	}
	id := d.nextPageID
	d.nextPageID++
	return id
}

func (d *MemDisk) DeallocatePage(pageID util.PageID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.deallocated[pageID]++
	delete(d.pages, pageID)
	d.freeIDs = append(d.freeIDs, pageID)
}

// Writes returns how many times the given page was written.
func (d *MemDisk) Writes(pageID util.PageID) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.writes[pageID]
}

// Reads returns how many times the given page was read.
func (d *MemDisk) Reads(pageID util.PageID) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reads[pageID]
}

// Deallocations returns how many times the given page id was deallocated.
func (d *MemDisk) Deallocations(pageID util.PageID) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.deallocated[pageID]
}

// Contents returns a copy of the stored page image, or nil if never written.
func (d *MemDisk) Contents(pageID util.PageID) []byte {
	d.mu.Lock()
	defer d.mu.Unlock()

	stored, ok := d.pages[pageID]
	if !ok {
		return nil
	}
	out := make([]byte, len(stored))
	copy(out, stored)
	return out
}

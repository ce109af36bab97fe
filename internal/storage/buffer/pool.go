// Package buffer implements the page cache of the storage engine: a fixed
// set of in-memory frames fronting the disk manager, with pin counting,
// dirty-page write-back and a pluggable replacement policy.
package buffer

import (
	"fmt"
	"sync"

	"framedb/internal/storage/page"
	util "framedb/internal/utils"
)

// DiskManager is what the pool requires of its disk collaborator. Calls are
// synchronous; errors are surfaced to the caller unretried.
type DiskManager interface {
	ReadPage(pageID util.PageID, buf []byte) error
	WritePage(pageID util.PageID, buf []byte) error
	AllocatePage() util.PageID
	DeallocatePage(pageID util.PageID)
}

// LogManager, when present, is notified before each dirty-page write-back so
// the log can establish a durability boundary. A nil LogManager disables
// logging entirely.
type LogManager interface {
	LogDirtyWriteback(pageID util.PageID)
}

// Stats are cumulative operation counters, maintained under the pool latch.
type Stats struct {
	Hits       uint64
	Misses     uint64
	Evictions  uint64
	Writebacks uint64
}

// BufferPoolManager mediates all page access. It owns the frame array, the
// free list, the page table and the replacer, and keeps them consistent
// under one latch: every public operation is mutually exclusive with every
// other, so each either fully completes its table and metadata updates or
// makes none.
//
// Disk IO happens while the latch is held. That serializes the pool behind
// the device on a miss-heavy workload; correctness first.
type BufferPoolManager struct {
	mu       sync.Mutex
	frames   []page.Page
	freeList []util.FrameID
	table    PageTable
	replacer Replacer
	disk     DiskManager
	log      LogManager
	stats    Stats
}

// NewBufferPoolManager creates a pool of poolSize frames over disk, with the
// default LRU policy and extendible-hash page table. logm may be nil.
func NewBufferPoolManager(poolSize int, disk DiskManager, logm LogManager) *BufferPoolManager {
	opts := util.DefaultOptions()
	opts.BufferPoolSize = poolSize
	pool, err := NewBufferPoolManagerFromOptions(opts, disk, logm)
	if err != nil {
		panic(err)
	}
	return pool
}

// NewBufferPoolManagerFromOptions creates a pool configured by opts
// (pool size, replacement policy, page table kind). logm may be nil.
func NewBufferPoolManagerFromOptions(opts util.Options, disk DiskManager, logm LogManager) (*BufferPoolManager, error) {
	if opts.BufferPoolSize <= 0 {
		return nil, util.ErrInvalidPoolSize
	}

	replacer, err := NewReplacer(opts.ReplacerPolicy, opts.BufferPoolSize)
	if err != nil {
		return nil, err
	}
	table, err := NewPageTable(opts.PageTable)
	if err != nil {
		return nil, err
	}

	b := &BufferPoolManager{
		frames:   make([]page.Page, opts.BufferPoolSize),
		freeList: make([]util.FrameID, 0, opts.BufferPoolSize),
		table:    table,
		replacer: replacer,
		disk:     disk,
		log:      logm,
	}
	for i := range b.frames {
		b.frames[i].Reset()
		b.freeList = append(b.freeList, util.FrameID(i))
	}
	return b, nil
}

// FetchPage returns the frame holding pageID, pinned for the caller. On a
// miss the page is read from disk into a free frame, or into an evicted one
// (written back first if dirty). Returns ErrNoFreeFrame when every frame is
// pinned.
func (b *BufferPoolManager) FetchPage(pageID util.PageID) (*page.Page, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if frameID, ok := b.table.Find(pageID); ok {
		frame := &b.frames[frameID]
		frame.IncPin()
		// The frame just left the resident-unpinned state (if it was in it).
		b.replacer.Erase(frameID)
		b.stats.Hits++
		return frame, nil
	}
	b.stats.Misses++

	frameID, err := b.victimFrame()
	if err != nil {
		return nil, err
	}

	frame := &b.frames[frameID]
	b.table.Insert(pageID, frameID)
	if err := b.disk.ReadPage(pageID, frame.Data()); err != nil {
		// Undo the claim so the pool stays consistent; the frame goes back
		// to the free list untouched by this page id.
		b.table.Remove(pageID)
		frame.Reset()
		b.freeList = append(b.freeList, frameID)
		return nil, fmt.Errorf("fetch page %d: %w", pageID, err)
	}
	frame.SetID(pageID)
	frame.SetPinCount(1)
	frame.ClearDirty()
	return frame, nil
}

// NewPage allocates a fresh logical page id from the disk manager and binds
// it to a victim frame, zeroed and pinned. Fails with ErrNoFreeFrame when
// every frame is pinned; the id is only allocated after a frame is secured.
func (b *BufferPoolManager) NewPage() (*page.Page, util.PageID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, err := b.victimFrame()
	if err != nil {
		return nil, util.InvalidPageID, err
	}

	pageID := b.disk.AllocatePage()
	frame := &b.frames[frameID]
	b.table.Insert(pageID, frameID)
	frame.Reset()
	frame.SetID(pageID)
	frame.SetPinCount(1)
	return frame, pageID, nil
}

// UnpinPage drops one pin on pageID, marking the frame dirty if isDirty.
// The dirty flag is sticky: a later clean unpin never clears it. Unpinning
// a page that is not resident, or whose pin count is already zero, fails
// and changes nothing.
func (b *BufferPoolManager) UnpinPage(pageID util.PageID, isDirty bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, ok := b.table.Find(pageID)
	if !ok {
		return util.ErrPageNotFound
	}
	frame := &b.frames[frameID]
	if frame.PinCount() == 0 {
		return util.ErrPageNotPinned
	}
	if isDirty {
		frame.SetDirty()
	}
	frame.DecPin()
	if frame.PinCount() == 0 {
		b.replacer.Insert(frameID)
	}
	return nil
}

// FlushPage writes pageID back to disk if dirty and clears the dirty flag.
// Flushing a pinned page is legal and leaves the pin count untouched.
func (b *BufferPoolManager) FlushPage(pageID util.PageID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	frameID, ok := b.table.Find(pageID)
	if !ok {
		return util.ErrPageNotFound
	}
	frame := &b.frames[frameID]
	if frame.ID() == util.InvalidPageID {
		return util.ErrInvalidPageId
	}
	if !frame.IsDirty() {
		return nil
	}
	return b.writeback(frame)
}

// FlushAllPages writes back every dirty resident page.
func (b *BufferPoolManager) FlushAllPages() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.frames {
		frame := &b.frames[i]
		if frame.ID() == util.InvalidPageID || !frame.IsDirty() {
			continue
		}
		if err := b.writeback(frame); err != nil {
			return err
		}
	}
	return nil
}

// DeletePage evicts pageID from the pool, returns its frame to the free
// list and asks the disk manager to deallocate the id. Deleting a page that
// was never resident still deallocates the id and succeeds; the only
// failure is a resident page that is currently pinned, which leaves all
// state unchanged.
func (b *BufferPoolManager) DeletePage(pageID util.PageID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if frameID, ok := b.table.Find(pageID); ok {
		frame := &b.frames[frameID]
		if frame.PinCount() > 0 {
			return util.ErrPagePinned
		}
		b.replacer.Erase(frameID)
		b.table.Remove(pageID)
		frame.Reset()
		b.freeList = append(b.freeList, frameID)
	}
	b.disk.DeallocatePage(pageID)
	return nil
}

// Stats returns a snapshot of the pool's operation counters.
func (b *BufferPoolManager) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.stats
}

// victimFrame secures a frame for reuse: strictly from the free list first
// (unused frames cost no write-back), then from the replacer. An evicted
// frame has its dirty contents written back under its old id and its old
// page table entry removed before it is handed out. Callers hold the latch.
func (b *BufferPoolManager) victimFrame() (util.FrameID, error) {
	var frameID util.FrameID
	if len(b.freeList) > 0 {
		frameID = b.freeList[0]
		b.freeList = b.freeList[1:]
	} else {
		victim, ok := b.replacer.Victim()
		if !ok {
			return 0, util.ErrNoFreeFrame
		}
		frameID = victim
		b.stats.Evictions++
	}

	frame := &b.frames[frameID]
	if frame.PinCount() != 0 {
		panic(fmt.Sprintf("buffer: victim frame %d has pin count %d", frameID, frame.PinCount()))
	}
	if frame.IsDirty() {
		if err := b.writeback(frame); err != nil {
			// Put the frame back where it came from and report.
			if frame.ID() == util.InvalidPageID {
				b.freeList = append(b.freeList, frameID)
			} else {
				b.replacer.Insert(frameID)
			}
			return 0, err
		}
	}
	if frame.ID() != util.InvalidPageID {
		b.table.Remove(frame.ID())
	}
	return frameID, nil
}

// writeback persists a dirty frame under its current id and clears the
// flag. Callers hold the latch.
func (b *BufferPoolManager) writeback(frame *page.Page) error {
	if b.log != nil {
		b.log.LogDirtyWriteback(frame.ID())
	}
	if err := b.disk.WritePage(frame.ID(), frame.Data()); err != nil {
		return fmt.Errorf("write back page %d: %w", frame.ID(), err)
	}
	frame.ClearDirty()
	b.stats.Writebacks++
	return nil
}

package buffer

import (
	"github.com/puzpuzpuz/xsync/v3"

	"framedb/internal/storage/hash"
	util "framedb/internal/utils"
)

// pageTableBucketSize is the extendible-hash bucket capacity. Splits stay
// cheap at this size while keeping the directory shallow for typical pools.
const pageTableBucketSize = 64

// PageTable maps a logical page id to the frame currently holding it.
// Keys are unique: a page id is resident in at most one frame.
type PageTable interface {
	Find(pageID util.PageID) (util.FrameID, bool)
	Insert(pageID util.PageID, frameID util.FrameID)
	Remove(pageID util.PageID)
	Size() int
}

// NewPageTable creates a page table of the named kind: "extendible" for the
// dynamic hash index, "sync" for a concurrent map. Both are interchangeable
// under the pool's latch; the map variant trades the bounded-resize property
// for simplicity.
func NewPageTable(kind string) (PageTable, error) {
	switch kind {
	case "extendible", "":
		return &extendibleTable{index: hash.NewExtendible[util.PageID, util.FrameID](pageTableBucketSize)}, nil
	case "sync":
		return &syncTable{entries: xsync.NewMapOf[util.PageID, util.FrameID]()}, nil
	default:
		return nil, util.ErrUnknownPageTable
	}
}

type extendibleTable struct {
	index *hash.Extendible[util.PageID, util.FrameID]
}

func (t *extendibleTable) Find(pageID util.PageID) (util.FrameID, bool) {
	return t.index.Find(pageID)
}

func (t *extendibleTable) Insert(pageID util.PageID, frameID util.FrameID) {
	t.index.Insert(pageID, frameID)
}

func (t *extendibleTable) Remove(pageID util.PageID) {
	t.index.Remove(pageID)
}

func (t *extendibleTable) Size() int {
	return t.index.Size()
}

type syncTable struct {
	entries *xsync.MapOf[util.PageID, util.FrameID]
}

func (t *syncTable) Find(pageID util.PageID) (util.FrameID, bool) {
	return t.entries.Load(pageID)
}

func (t *syncTable) Insert(pageID util.PageID, frameID util.FrameID) {
	t.entries.Store(pageID, frameID)
}

func (t *syncTable) Remove(pageID util.PageID) {
	t.entries.Delete(pageID)
}

func (t *syncTable) Size() int {
	return t.entries.Size()
}

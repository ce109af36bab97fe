package util

// PageID identifies a logical page on disk.
type PageID int64

// InvalidPageID marks a frame that currently holds no page.
const InvalidPageID PageID = -1

// FrameID indexes a slot in the buffer pool's frame array. Frames are
// allocated once at pool construction and recycled across logical pages,
// so a FrameID is stable for the life of the pool.
type FrameID int

// PageSize is the standard page size (4KB)
const PageSize = 4096

// Options represents storage configuration options
type Options struct {
	Path           string
	BufferPoolSize int
	ReplacerPolicy string // "lru", "clock" or "cache"
	PageTable      string // "extendible" or "sync"
	SyncWrites     bool
}

// DefaultOptions returns default storage options
func DefaultOptions() Options {
	return Options{
		BufferPoolSize: 1000, // 4MB default buffer pool
		ReplacerPolicy: "lru",
		PageTable:      "extendible",
		SyncWrites:     false,
	}
}

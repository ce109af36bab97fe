package util

import "errors"

var (
	ErrInvalidPageId    = errors.New("invalid page id")
	ErrChecksumMismatch = errors.New("checksum mismatch")
	ErrPageOutOfBounds  = errors.New("page out of bounds")
	ErrInvalidPoolSize  = errors.New("invalid pool size")
	ErrNoFreeFrame      = errors.New("no free frames")
	ErrPageNotFound     = errors.New("page not found in buffer pool")
	ErrPageNotPinned    = errors.New("page is not pinned")
	ErrPagePinned       = errors.New("page is pinned")
	ErrUnknownPolicy    = errors.New("unknown replacement policy")
	ErrUnknownPageTable = errors.New("unknown page table kind")
)

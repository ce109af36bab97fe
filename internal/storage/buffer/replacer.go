package buffer

import (
	util "framedb/internal/utils"
)

// Replacer tracks the frames that are eligible for eviction and picks the
// victim when the pool runs out of free frames. Membership must equal
// exactly the set of resident frames whose pin count is zero; the pool
// maintains that by calling Insert when a pin count drops to zero and Erase
// when a frame is pinned or deleted.
//
// Implementations other than the hashicorp-backed one carry no internal
// lock: the pool's latch already serializes every call, and a second lock
// here would only add an ordering hazard.
type Replacer interface {
	// Insert marks frame as eviction-eligible at the most-recently-used
	// position. Inserting an already tracked frame is a no-op.
	Insert(frameID util.FrameID)

	// Victim removes and returns the next frame to evict per the policy's
	// ordering. ok is false when nothing is tracked.
	Victim() (frameID util.FrameID, ok bool)

	// Erase removes frame from tracking. Safe on an untracked frame.
	Erase(frameID util.FrameID)

	// Size returns the number of tracked frames.
	Size() int
}

// NewReplacer creates a replacer for the named policy ("lru", "clock" or
// "cache"). poolSize bounds how many frames can ever be tracked at once.
func NewReplacer(policy string, poolSize int) (Replacer, error) {
	if poolSize <= 0 {
		return nil, util.ErrInvalidPoolSize
	}
	switch policy {
	case "lru", "":
		return NewLRUReplacer(), nil
	case "clock":
		return NewClockReplacer(poolSize), nil
	case "cache":
		return NewCacheReplacer(poolSize), nil
	default:
		return nil, util.ErrUnknownPolicy
	}
}

package buffer

import (
	util "framedb/internal/utils"
)

// ClockReplacer approximates LRU with a reference-bit sweep: a hand walks
// the frame slots in a circle, clearing set reference bits and evicting the
// first tracked frame found with its bit already clear. Each tracked frame
// therefore survives at most one full sweep after its last Insert.
type ClockReplacer struct {
	tracked []bool
	refBit  []bool
	hand    int
	size    int
}

func NewClockReplacer(poolSize int) *ClockReplacer {
	if poolSize <= 0 {
		panic(util.ErrInvalidPoolSize)
	}
	return &ClockReplacer{
		tracked: make([]bool, poolSize),
		refBit:  make([]bool, poolSize),
	}
}

func (r *ClockReplacer) Insert(frameID util.FrameID) {
	if r.tracked[frameID] {
		return
	}
	r.tracked[frameID] = true
	r.refBit[frameID] = true
	r.size++
}

func (r *ClockReplacer) Victim() (util.FrameID, bool) {
	if r.size == 0 {
		return 0, false
	}
	// Two sweeps bound the walk: the first may only clear reference bits.
	for sweep := 0; sweep < 2*len(r.tracked); sweep++ {
		i := r.hand
		r.hand = (r.hand + 1) % len(r.tracked)
		if !r.tracked[i] {
			continue
		}
		if r.refBit[i] {
			r.refBit[i] = false
			continue
		}
		r.tracked[i] = false
		r.size--
		return util.FrameID(i), true
	}
	return 0, false
}

func (r *ClockReplacer) Erase(frameID util.FrameID) {
	if !r.tracked[frameID] {
		return
	}
	r.tracked[frameID] = false
	r.refBit[frameID] = false
	r.size--
}

func (r *ClockReplacer) Size() int {
	return r.size
}

package buffer

import (
	"container/list"

	util "framedb/internal/utils"
)

// LRUReplacer evicts in strict insertion-recency order: the tracked frame
// whose Insert is oldest goes first. A doubly-linked list keeps the order
// and a map indexes each frame's list position, so every operation is O(1).
type LRUReplacer struct {
	order    *list.List // front = least recently used
	elements map[util.FrameID]*list.Element
}

func NewLRUReplacer() *LRUReplacer {
	return &LRUReplacer{
		order:    list.New(),
		elements: make(map[util.FrameID]*list.Element),
	}
}

func (r *LRUReplacer) Insert(frameID util.FrameID) {
	if _, ok := r.elements[frameID]; ok {
		return
	}
	r.elements[frameID] = r.order.PushBack(frameID)
}

func (r *LRUReplacer) Victim() (util.FrameID, bool) {
	front := r.order.Front()
	if front == nil {
		return 0, false
	}
	frameID := r.order.Remove(front).(util.FrameID)
	delete(r.elements, frameID)
	return frameID, true
}

func (r *LRUReplacer) Erase(frameID util.FrameID) {
	elem, ok := r.elements[frameID]
	if !ok {
		return
	}
	r.order.Remove(elem)
	delete(r.elements, frameID)
}

func (r *LRUReplacer) Size() int {
	return len(r.elements)
}

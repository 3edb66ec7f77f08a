// This file is part of um - https://github.com/universalmachine/um
//
// Copyright 2026 The UM Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package vm

// The segment heap is where most of the engine's complexity lives. It maps
// a segment identifier to an ordered sequence of Words, and supports
// allocate, abandon (recycle), clone-into-zero, indexed read/write, and
// clear. Segment 0 always exists and is the code segment.
//
// Segments are backed by a buffer that is shared, copy-on-write, between
// segment table slots. clone_into_zero (used by load_program) just makes
// segment 0's slot point at the same buffer as the source segment and bumps
// a reference count; the first write to either slot afterward dissociates
// it into its own copy. This makes the common case — replacing segment 0
// with a large image that is never mutated again — effectively free, while
// remaining indistinguishable from an eager deep copy to any guest program.

type cowBuffer struct {
	words []Word
	refs  int
}

func newBuffer(n int) *cowBuffer {
	return &cowBuffer{words: make([]Word, n), refs: 1}
}

func (b *cowBuffer) retain() *cowBuffer {
	b.refs++
	return b
}

func (b *cowBuffer) release() {
	b.refs--
}

// heap is the segment table: a slice of buffer pointers indexed by segment
// identifier, plus a LIFO free list of recycled identifiers. A nil slot is a
// dead identifier.
type heap struct {
	segs []*cowBuffer
	free []Word
	// cow disables the copy-on-write optimization when false, forcing every
	// clone_into_zero to perform an eager deep copy instead. Both modes must
	// be observationally identical; this flag exists so tests can assert
	// that equivalence directly (see heap_test.go).
	cow bool
}

// newHeap creates a segment heap with segment 0 initialized to the given
// program image.
func newHeap(image []Word, cow bool) *heap {
	buf := &cowBuffer{words: image, refs: 1}
	return &heap{segs: []*cowBuffer{buf}, cow: cow}
}

// Stats is a read-only diagnostic snapshot of heap occupancy.
type Stats struct {
	SegmentCount  int
	FreeCount     int
	WordsResident int
}

func (h *heap) stats() Stats {
	s := Stats{SegmentCount: len(h.segs), FreeCount: len(h.free)}
	for _, b := range h.segs {
		if b != nil {
			s.WordsResident += len(b.words)
		}
	}
	return s
}

func (h *heap) live(id Word) bool {
	return int(id) < len(h.segs) && h.segs[id] != nil
}

// length reports the size of segment id and whether it is live.
func (h *heap) length(id Word) (int, bool) {
	if !h.live(id) {
		return 0, false
	}
	return len(h.segs[id].words), true
}

// allocate mints or recycles a segment identifier and returns it with a
// fresh zero-filled backing of length n. Recycled identifiers are popped
// LIFO from the free list.
func (h *heap) allocate(n Word) Word {
	buf := newBuffer(int(n))
	if l := len(h.free); l > 0 {
		id := h.free[l-1]
		h.free = h.free[:l-1]
		h.segs[id] = buf
		return id
	}
	id := Word(len(h.segs))
	h.segs = append(h.segs, buf)
	return id
}

// abandon recycles id, making it available to a future allocate. It is a
// fault to abandon segment 0 or a dead identifier.
func (h *heap) abandon(id Word) error {
	if id == 0 {
		return newFault(FaultAbandonZero, 0, "")
	}
	if !h.live(id) {
		return newFault(FaultBadSegment, 0, "")
	}
	h.segs[id].release()
	h.segs[id] = nil
	h.free = append(h.free, id)
	return nil
}

// cloneIntoZero replaces segment 0's contents with a value-copy of segment
// id. Segment id remains live and unaffected by later writes to segment 0,
// and vice versa.
func (h *heap) cloneIntoZero(id Word) error {
	if !h.live(id) {
		return newFault(FaultBadSegment, 0, "")
	}
	src := h.segs[id]
	var buf *cowBuffer
	if h.cow {
		buf = src.retain()
	} else {
		words := make([]Word, len(src.words))
		copy(words, src.words)
		buf = &cowBuffer{words: words, refs: 1}
	}
	h.segs[0].release()
	h.segs[0] = buf
	return nil
}

// dissociate ensures the buffer backing id is not shared with any other
// segment slot, copying it first if necessary. Must be called before any
// in-place mutation of a segment's words.
func (h *heap) dissociate(id Word) {
	buf := h.segs[id]
	if buf.refs <= 1 {
		return
	}
	words := make([]Word, len(buf.words))
	copy(words, buf.words)
	buf.release()
	h.segs[id] = &cowBuffer{words: words, refs: 1}
}

func (h *heap) read(id, i Word) (Word, error) {
	if !h.live(id) {
		return 0, newFault(FaultBadSegment, 0, "")
	}
	words := h.segs[id].words
	if int(i) >= len(words) {
		return 0, newFault(FaultOutOfBounds, 0, "")
	}
	return words[i], nil
}

func (h *heap) write(id, i, w Word) error {
	if !h.live(id) {
		return newFault(FaultBadSegment, 0, "")
	}
	if int(i) >= len(h.segs[id].words) {
		return newFault(FaultOutOfBounds, 0, "")
	}
	h.dissociate(id)
	h.segs[id].words[i] = w
	return nil
}

// codeFetch reads segment 0 at i. Equivalent to read(0, i).
func (h *heap) codeFetch(i Word) (Word, error) {
	words := h.segs[0].words
	if int(i) >= len(words) {
		return 0, newFault(FaultBadFetch, 0, "")
	}
	return words[i], nil
}

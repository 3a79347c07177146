package lctr

import (
	"fmt"
)

// Handle addresses a StreamContext in a Store. The zero Handle is invalid.
type Handle struct {
	index uint16
	gen   uint16
}

var NilHandle Handle

func (h Handle) Valid() bool {
	return h.gen != 0
}

func (h Handle) String() string {
	if !h.Valid() {
		return "nil"
	}
	return fmt.Sprintf("%d.%d", h.index, h.gen)
}

type slot struct {
	gen  uint16
	used bool
	ctx  StreamContext
}

// Store is a fixed capacity arena of stream contexts.
type Store struct {
	slots []slot
	free  []uint16
	inUse int
}

func NewStore(capacity int) *Store {
	if capacity < 0 {
		capacity = 0
	}
	if capacity > 0xFFFF {
		capacity = 0xFFFF
	}

	s := &Store{slots: make([]slot, capacity)}
	for i := capacity - 1; i >= 0; i-- {
		s.free = append(s.free, uint16(i))
	}
	return s
}

// Alloc hands out a zeroed context.
func (s *Store) Alloc() (Handle, *StreamContext, error) {
	if len(s.free) == 0 {
		return NilHandle, nil, newError(ResourceExhausted, "no stream context available (capacity %v)", len(s.slots))
	}

	idx := s.free[len(s.free)-1]
	s.free = s.free[:len(s.free)-1]

	sl := &s.slots[idx]
	sl.gen++
	if sl.gen == 0 {
		sl.gen = 1
	}
	sl.used = true

	h := Handle{index: idx, gen: sl.gen}
	sl.ctx = StreamContext{handle: h}
	s.inUse++
	return h, &sl.ctx, nil
}

func (s *Store) Get(h Handle) (*StreamContext, bool) {
	if !h.Valid() || int(h.index) >= len(s.slots) {
		return nil, false
	}
	sl := &s.slots[h.index]
	if !sl.used || sl.gen != h.gen {
		return nil, false
	}
	return &sl.ctx, true
}

// Free releases the slot. The stream must be unlinked first.
func (s *Store) Free(h Handle) error {
	ctx, ok := s.Get(h)
	if !ok {
		return fmt.Errorf("stale or unknown handle %v", h)
	}
	if ctx.list != nil {
		return fmt.Errorf("stream %v still linked", h)
	}

	sl := &s.slots[h.index]
	sl.used = false
	sl.ctx = StreamContext{}
	s.free = append(s.free, h.index)
	s.inUse--
	return nil
}

func (s *Store) Len() int {
	return s.inUse
}

func (s *Store) Cap() int {
	return len(s.slots)
}

// StreamList is a doubly linked list threaded through a Store by handle.
// A stream is a member of at most one list.
type StreamList struct {
	store *Store
	head  Handle
	tail  Handle
	count int
}

func NewStreamList(s *Store) *StreamList {
	return &StreamList{store: s}
}

func (l *StreamList) unlinked(h Handle) (*StreamContext, error) {
	ctx, ok := l.store.Get(h)
	if !ok {
		return nil, fmt.Errorf("stale or unknown handle %v", h)
	}
	if ctx.list != nil {
		return nil, fmt.Errorf("stream %v already linked", h)
	}
	return ctx, nil
}

func (l *StreamList) InsertHead(h Handle) error {
	ctx, err := l.unlinked(h)
	if err != nil {
		return err
	}

	ctx.list = l
	ctx.prev = NilHandle
	ctx.next = l.head
	if hc, ok := l.store.Get(l.head); ok {
		hc.prev = h
	} else {
		l.tail = h
	}
	l.head = h
	l.count++
	return nil
}

func (l *StreamList) InsertTail(h Handle) error {
	ctx, err := l.unlinked(h)
	if err != nil {
		return err
	}

	ctx.list = l
	ctx.next = NilHandle
	ctx.prev = l.tail
	if tc, ok := l.store.Get(l.tail); ok {
		tc.next = h
	} else {
		l.head = h
	}
	l.tail = h
	l.count++
	return nil
}

// Remove unlinks h; the slot stays allocated.
func (l *StreamList) Remove(h Handle) error {
	ctx, ok := l.store.Get(h)
	if !ok {
		return fmt.Errorf("stale or unknown handle %v", h)
	}
	if ctx.list != l {
		return fmt.Errorf("stream %v not in list", h)
	}

	if pc, ok := l.store.Get(ctx.prev); ok {
		pc.next = ctx.next
	} else {
		l.head = ctx.next
	}
	if nc, ok := l.store.Get(ctx.next); ok {
		nc.prev = ctx.prev
	} else {
		l.tail = ctx.prev
	}

	ctx.list = nil
	ctx.prev = NilHandle
	ctx.next = NilHandle
	l.count--
	return nil
}

func (l *StreamList) Head() Handle {
	return l.head
}

func (l *StreamList) Tail() Handle {
	return l.tail
}

func (l *StreamList) Next(h Handle) Handle {
	if ctx, ok := l.member(h); ok {
		return ctx.next
	}
	return NilHandle
}

func (l *StreamList) Prev(h Handle) Handle {
	if ctx, ok := l.member(h); ok {
		return ctx.prev
	}
	return NilHandle
}

func (l *StreamList) Count() int {
	return l.count
}

func (l *StreamList) Contains(h Handle) bool {
	_, ok := l.member(h)
	return ok
}

// Handles returns the members head to tail.
func (l *StreamList) Handles() []Handle {
	out := make([]Handle, 0, l.count)
	for h := l.head; h.Valid(); h = l.Next(h) {
		out = append(out, h)
	}
	return out
}

func (l *StreamList) member(h Handle) (*StreamContext, bool) {
	ctx, ok := l.store.Get(h)
	if !ok || ctx.list != l {
		return nil, false
	}
	return ctx, true
}

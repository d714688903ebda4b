// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
)

// minQueueCapacity is the smallest capacity lfq accepts.
const minQueueCapacity = 2

// Buffer is a bounded FIFO store. It reports Full once it holds capacity
// values, so the writer of the last value waits until a reader takes one.
//
// Values live in a lock-free SPSC ring from lfq; the owning channel's lock
// serializes both ends, so the ring only ever sees one producer and one
// consumer. head caches a value dequeued by StartGet until EndGet.
type Buffer[T any] struct {
	q        *lfq.SPSC[T]
	capacity int
	count    int
	head     T
	cached   bool
}

// NewBuffer returns an empty FIFO store holding up to capacity values.
func NewBuffer[T any](capacity int) (*Buffer[T], error) {
	if capacity < 1 {
		return nil, &BufferCapacityError{Policy: "buffer", Capacity: capacity}
	}
	return &Buffer[T]{
		q:        lfq.NewSPSC[T](max(capacity, minQueueCapacity)),
		capacity: capacity,
	}, nil
}

// Put appends v, or returns iox.ErrWouldBlock if the buffer holds capacity values.
func (b *Buffer[T]) Put(v T) error {
	if b.count == b.capacity {
		return iox.ErrWouldBlock
	}
	if err := b.q.Enqueue(&v); err != nil {
		return err
	}
	b.count++
	return nil
}

// Get removes and returns the oldest value.
func (b *Buffer[T]) Get() (T, error) {
	v, err := b.StartGet()
	if err != nil {
		return v, err
	}
	b.EndGet()
	return v, nil
}

// StartGet returns the oldest value and keeps it until EndGet.
func (b *Buffer[T]) StartGet() (T, error) {
	if !b.cached {
		v, err := b.q.Dequeue()
		if err != nil {
			var zero T
			return zero, iox.ErrWouldBlock
		}
		b.head, b.cached = v, true
	}
	return b.head, nil
}

// EndGet removes the value returned by StartGet.
func (b *Buffer[T]) EndGet() {
	if !b.cached {
		return
	}
	var zero T
	b.head, b.cached = zero, false
	b.count--
}

// State reports Full once the buffer holds capacity values.
func (b *Buffer[T]) State() State {
	switch b.count {
	case 0:
		return Empty
	case b.capacity:
		return Full
	}
	return NonEmptyFull
}

// Clone returns an empty Buffer of the same capacity.
func (b *Buffer[T]) Clone() DataStore[T] {
	c, _ := NewBuffer[T](b.capacity)
	return c
}

// RemoveAll discards every value, including one held by StartGet.
func (b *Buffer[T]) RemoveAll() {
	for {
		if _, err := b.q.Dequeue(); err != nil {
			break
		}
	}
	var zero T
	b.head, b.cached = zero, false
	b.count = 0
}

// Len returns the number of buffered values.
func (b *Buffer[T]) Len() int { return b.count }

// Cap returns the capacity the buffer was created with.
func (b *Buffer[T]) Cap() int { return b.capacity }

// OverflowingBuffer is a bounded FIFO store that silently discards values
// written while it is full. It never reports Full.
type OverflowingBuffer[T any] struct {
	ring[T]
}

// NewOverflowingBuffer returns an empty overflowing store of the given capacity.
func NewOverflowingBuffer[T any](capacity int) (*OverflowingBuffer[T], error) {
	if capacity < 1 {
		return nil, &BufferCapacityError{Policy: "overflowing buffer", Capacity: capacity}
	}
	return &OverflowingBuffer[T]{ring: newRing[T](capacity)}, nil
}

// Put appends v, or drops it if the store is full.
func (b *OverflowingBuffer[T]) Put(v T) error {
	if !b.full() {
		b.push(v)
	}
	return nil
}

// Clone returns an empty OverflowingBuffer of the same capacity.
func (b *OverflowingBuffer[T]) Clone() DataStore[T] {
	return &OverflowingBuffer[T]{ring: newRing[T](len(b.buf))}
}

// OverwriteOldestBuffer is a bounded store that, when full, evicts the
// oldest value to make room for the new one. It never reports Full.
type OverwriteOldestBuffer[T any] struct {
	ring[T]
}

// NewOverwriteOldestBuffer returns an empty overwrite-oldest store of the given capacity.
func NewOverwriteOldestBuffer[T any](capacity int) (*OverwriteOldestBuffer[T], error) {
	if capacity < 1 {
		return nil, &BufferCapacityError{Policy: "overwrite-oldest buffer", Capacity: capacity}
	}
	return &OverwriteOldestBuffer[T]{ring: newRing[T](capacity)}, nil
}

// Put appends v, evicting the oldest value if the store is full.
func (b *OverwriteOldestBuffer[T]) Put(v T) error {
	if b.full() {
		b.evictOldest(v)
		return nil
	}
	b.push(v)
	return nil
}

// Clone returns an empty OverwriteOldestBuffer of the same capacity.
func (b *OverwriteOldestBuffer[T]) Clone() DataStore[T] {
	return &OverwriteOldestBuffer[T]{ring: newRing[T](len(b.buf))}
}

// OverwritingBuffer is a bounded store that, when full, replaces the most
// recently written value with the new one. It never reports Full.
type OverwritingBuffer[T any] struct {
	ring[T]
}

// NewOverwritingBuffer returns an empty overwrite-newest store of the given capacity.
func NewOverwritingBuffer[T any](capacity int) (*OverwritingBuffer[T], error) {
	if capacity < 1 {
		return nil, &BufferCapacityError{Policy: "overwriting buffer", Capacity: capacity}
	}
	return &OverwritingBuffer[T]{ring: newRing[T](capacity)}, nil
}

// Put appends v, or replaces the newest value with it if the store is full.
func (b *OverwritingBuffer[T]) Put(v T) error {
	if b.full() {
		b.replaceNewest(v)
		return nil
	}
	b.push(v)
	return nil
}

// Clone returns an empty OverwritingBuffer of the same capacity.
func (b *OverwritingBuffer[T]) Clone() DataStore[T] {
	return &OverwritingBuffer[T]{ring: newRing[T](len(b.buf))}
}

// defaultInfiniteSize is the initial ring size of an InfiniteBuffer.
const defaultInfiniteSize = 8

// InfiniteBuffer is an unbounded FIFO store whose ring doubles whenever it
// fills. It never reports Full.
type InfiniteBuffer[T any] struct {
	ring[T]
	initial int
}

// NewInfiniteBuffer returns an empty unbounded store. An initial size of 0
// selects the default.
func NewInfiniteBuffer[T any](initial int) (*InfiniteBuffer[T], error) {
	if initial == 0 {
		initial = defaultInfiniteSize
	}
	if initial < 1 {
		return nil, &BufferCapacityError{Policy: "infinite buffer", Capacity: initial}
	}
	return &InfiniteBuffer[T]{ring: newRing[T](initial), initial: initial}, nil
}

// Put appends v, doubling the ring first if it is full.
func (b *InfiniteBuffer[T]) Put(v T) error {
	if b.full() {
		b.grow()
	}
	b.push(v)
	return nil
}

// RemoveAll discards the contents and shrinks the ring back to its initial size.
func (b *InfiniteBuffer[T]) RemoveAll() {
	b.ring = newRing[T](b.initial)
}

// Clone returns an empty InfiniteBuffer with the same initial size.
func (b *InfiniteBuffer[T]) Clone() DataStore[T] {
	return &InfiniteBuffer[T]{ring: newRing[T](b.initial), initial: b.initial}
}

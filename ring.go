// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import "code.hybscloud.com/iox"

// ring is the circular store shared by the overflowing, overwriting and
// infinite policies, which embed it for their read side. peekLost records
// that a put displaced the value handed out by StartGet, so the matching
// EndGet must not remove anything.
type ring[T any] struct {
	buf      []T
	first    int
	count    int
	peeking  bool
	peekLost bool
}

func newRing[T any](n int) ring[T] {
	return ring[T]{buf: make([]T, n)}
}

func (r *ring[T]) full() bool { return r.count == len(r.buf) }

func (r *ring[T]) newest() int {
	return (r.first + r.count - 1) % len(r.buf)
}

// push appends v; the caller guarantees there is room.
func (r *ring[T]) push(v T) {
	r.buf[(r.first+r.count)%len(r.buf)] = v
	r.count++
}

func (r *ring[T]) pop() T {
	var zero T
	v := r.buf[r.first]
	r.buf[r.first] = zero
	r.first = (r.first + 1) % len(r.buf)
	r.count--
	return v
}

// evictOldest overwrites the oldest slot with v, which becomes the newest.
func (r *ring[T]) evictOldest(v T) {
	r.buf[r.first] = v
	r.first = (r.first + 1) % len(r.buf)
	if r.peeking {
		r.peekLost = true
	}
}

// replaceNewest overwrites the most recently written slot with v.
func (r *ring[T]) replaceNewest(v T) {
	i := r.newest()
	r.buf[i] = v
	if r.peeking && i == r.first {
		r.peekLost = true
	}
}

// grow doubles the backing array, unrolling the ring to index 0.
func (r *ring[T]) grow() {
	buf := make([]T, 2*len(r.buf))
	n := copy(buf, r.buf[r.first:])
	copy(buf[n:], r.buf[:r.first])
	r.buf = buf
	r.first = 0
}

// Get removes and returns the oldest value, or iox.ErrWouldBlock if the
// store is empty.
func (r *ring[T]) Get() (T, error) {
	if r.count == 0 {
		var zero T
		return zero, iox.ErrWouldBlock
	}
	r.peeking, r.peekLost = false, false
	return r.pop(), nil
}

// StartGet returns the oldest value without removing it.
func (r *ring[T]) StartGet() (T, error) {
	if r.count == 0 {
		var zero T
		return zero, iox.ErrWouldBlock
	}
	r.peeking, r.peekLost = true, false
	return r.buf[r.first], nil
}

// EndGet removes the value returned by StartGet, unless a put displaced it
// in the meantime.
func (r *ring[T]) EndGet() {
	if !r.peeking {
		return
	}
	lost := r.peekLost
	r.peeking, r.peekLost = false, false
	if !lost && r.count > 0 {
		r.pop()
	}
}

// State reports Empty or NonEmptyFull: a ring policy never makes a writer wait.
func (r *ring[T]) State() State {
	if r.count == 0 {
		return Empty
	}
	return NonEmptyFull
}

// RemoveAll discards every value and any outstanding StartGet.
func (r *ring[T]) RemoveAll() {
	clear(r.buf)
	r.first, r.count = 0, 0
	r.peeking, r.peekLost = false, false
}

// Len returns the number of stored values.
func (r *ring[T]) Len() int { return r.count }

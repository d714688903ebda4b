// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import "code.hybscloud.com/iox"

// State is the occupancy of a [DataStore] as seen by its channel.
type State uint8

const (
	// Empty means Get would return iox.ErrWouldBlock.
	Empty State = iota
	// NonEmptyFull means the store holds data and accepts more.
	NonEmptyFull
	// Full means the store holds data and a writer must wait for a reader.
	Full
)

// String returns "empty", "nonempty" or "full".
func (s State) String() string {
	switch s {
	case Empty:
		return "empty"
	case NonEmptyFull:
		return "nonempty"
	case Full:
		return "full"
	}
	return "invalid"
}

// DataStore is a buffering policy for a buffered channel.
//
// A DataStore is not safe for concurrent use: the owning channel calls it
// only while holding its own lock. Put on a store with no room and Get or
// StartGet on an empty store return [iox.ErrWouldBlock].
//
// StartGet and EndGet implement the extended read: StartGet returns the head
// without removing it and EndGet removes it. If a Put displaces the peeked
// value before EndGet, EndGet removes nothing.
type DataStore[T any] interface {
	// Put stores v according to the policy.
	Put(v T) error
	// Get removes and returns the next value.
	Get() (T, error)
	// StartGet returns the next value without removing it.
	StartGet() (T, error)
	// EndGet removes the value returned by StartGet.
	EndGet()
	State() State
	// Clone returns an empty store with the same policy and capacity.
	Clone() DataStore[T]
	// RemoveAll discards every stored value.
	RemoveAll()
	// Len returns the number of stored values.
	Len() int
}

// ZeroBuffer holds at most one value and reports Full while it does, so a
// channel built on it behaves as a rendezvous.
type ZeroBuffer[T any] struct {
	slot T
	full bool
}

// NewZeroBuffer returns an empty [ZeroBuffer].
func NewZeroBuffer[T any]() *ZeroBuffer[T] {
	return &ZeroBuffer[T]{}
}

// Put stores v, or returns iox.ErrWouldBlock if a value is already held.
func (b *ZeroBuffer[T]) Put(v T) error {
	if b.full {
		return iox.ErrWouldBlock
	}
	b.slot, b.full = v, true
	return nil
}

// Get removes and returns the held value.
func (b *ZeroBuffer[T]) Get() (T, error) {
	v, err := b.StartGet()
	if err == nil {
		b.EndGet()
	}
	return v, err
}

// StartGet returns the held value without removing it.
func (b *ZeroBuffer[T]) StartGet() (T, error) {
	if !b.full {
		var zero T
		return zero, iox.ErrWouldBlock
	}
	return b.slot, nil
}

// EndGet removes the held value.
func (b *ZeroBuffer[T]) EndGet() {
	var zero T
	b.slot, b.full = zero, false
}

// State reports Full while a value is held.
func (b *ZeroBuffer[T]) State() State {
	if b.full {
		return Full
	}
	return Empty
}

// Clone returns an empty ZeroBuffer.
func (b *ZeroBuffer[T]) Clone() DataStore[T] { return NewZeroBuffer[T]() }

// RemoveAll drops the held value.
func (b *ZeroBuffer[T]) RemoveAll() { b.EndGet() }

// Len returns 1 while a value is held, else 0.
func (b *ZeroBuffer[T]) Len() int {
	if b.full {
		return 1
	}
	return 0
}

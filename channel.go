// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"context"

	"code.hybscloud.com/iox"
	"golang.org/x/sync/semaphore"
)

// Poisonable is implemented by every channel end.
type Poisonable interface {
	// Poison raises the channel's poison strength to at least strength.
	// A strength of 0 or less is ignored.
	Poison(strength int)
}

// Input is the reading end of a channel.
type Input[T any] interface {
	Poisonable
	// Read blocks until a value is available.
	Read(ctx context.Context) (T, error)
	// StartRead blocks until a value is available and returns it without
	// completing the read. EndRead must follow.
	StartRead(ctx context.Context) (T, error)
	EndRead()
	// TryRead returns iox.ErrWouldBlock instead of blocking.
	TryRead() (T, error)
}

// AltingInput is an Input that can be offered to an [Alternative].
type AltingInput[T any] interface {
	Input[T]
	Guard
	Pending() bool
}

// Output is the writing end of a channel.
type Output[T any] interface {
	Poisonable
	// Write blocks until the channel accepts v.
	Write(ctx context.Context, v T) error
	// TryWrite returns iox.ErrWouldBlock instead of blocking.
	TryWrite(v T) error
}

// AltingOutput is an Output that can be offered to an [Alternative]. A
// channel keeps one registration per end, so a reader and a writer may alt
// on the same channel at the same time.
type AltingOutput[T any] interface {
	Output[T]
	Guard
	Pending() bool
}

// Reader is the single reading end of a One2One or Any2One channel.
// It may be used by one goroutine at a time.
type Reader[T any] struct {
	core     chanCore[T]
	immunity int
}

// Read blocks until a writer supplies a value, the channel is poisoned
// beyond the end's immunity, or ctx ends. Buffered values are drained
// before poison is reported.
func (r *Reader[T]) Read(ctx context.Context) (T, error) {
	return r.core.read(ctx, r.immunity)
}

// StartRead returns the next value without completing the read. On an
// unbuffered channel the writer stays blocked until EndRead.
func (r *Reader[T]) StartRead(ctx context.Context) (T, error) {
	return r.core.startRead(ctx, r.immunity)
}

// EndRead completes the read begun by StartRead. It panics without one.
func (r *Reader[T]) EndRead() { r.core.endRead() }

// TryRead returns iox.ErrWouldBlock if no value is available.
func (r *Reader[T]) TryRead() (T, error) { return r.core.tryRead(r.immunity) }

// Poison poisons the channel from the reading side, discarding any
// buffered values.
func (r *Reader[T]) Poison(strength int) { r.core.poison(strength, sideReader) }

// Enable implements Guard.
func (r *Reader[T]) Enable(a *Alternative) bool { return r.core.readerEnable(a, r.immunity) }

// Disable implements Guard.
func (r *Reader[T]) Disable() bool { return r.core.readerDisable(r.immunity) }

// Pending reports whether a Read would return without blocking.
func (r *Reader[T]) Pending() bool { return r.core.readerPending(r.immunity) }

// Immunity returns the end's poison immunity.
func (r *Reader[T]) Immunity() int { return r.immunity }

// Serial returns the serial of the channel the end belongs to.
func (r *Reader[T]) Serial() Serial { return r.core.info().serial }

// Writer is the single writing end of a One2One or One2Any channel.
// It may be used by one goroutine at a time.
type Writer[T any] struct {
	core     chanCore[T]
	immunity int
}

// Write blocks until the channel accepts v: a reader took it, or the store
// has room. A poisoned channel fails immediately.
func (w *Writer[T]) Write(ctx context.Context, v T) error {
	return w.core.write(ctx, v, w.immunity)
}

// TryWrite returns iox.ErrWouldBlock if the channel cannot accept v now.
// On an unbuffered channel that means no reader is blocked in Read.
func (w *Writer[T]) TryWrite(v T) error { return w.core.tryWrite(v, w.immunity) }

// Poison poisons the channel from the writing side. Buffered values stay
// readable.
func (w *Writer[T]) Poison(strength int) { w.core.poison(strength, sideWriter) }

// Enable implements Guard. The guard is ready when a Write would be
// accepted: a reader is committed to Read, or the store has room.
func (w *Writer[T]) Enable(a *Alternative) bool { return w.core.writerEnable(a, w.immunity) }

// Disable implements Guard.
func (w *Writer[T]) Disable() bool { return w.core.writerDisable(w.immunity) }

// Pending reports whether a Write would be accepted without waiting for a reader.
func (w *Writer[T]) Pending() bool { return w.core.writerPending(w.immunity) }

// Immunity returns the end's poison immunity.
func (w *Writer[T]) Immunity() int { return w.immunity }

// Serial returns the serial of the channel the end belongs to.
func (w *Writer[T]) Serial() Serial { return w.core.info().serial }

// SharedReader is the reading end of a One2Any or Any2Any channel. Any
// number of goroutines may read; they are admitted to the core one at a time.
type SharedReader[T any] struct {
	core     chanCore[T]
	sem      *semaphore.Weighted
	immunity int
}

// Read waits for admission, then reads as [Reader.Read].
func (r *SharedReader[T]) Read(ctx context.Context) (T, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		var zero T
		return zero, interrupted(err)
	}
	defer r.sem.Release(1)
	return r.core.read(ctx, r.immunity)
}

// StartRead keeps other readers out until the matching EndRead.
func (r *SharedReader[T]) StartRead(ctx context.Context) (T, error) {
	if err := r.sem.Acquire(ctx, 1); err != nil {
		var zero T
		return zero, interrupted(err)
	}
	v, err := r.core.startRead(ctx, r.immunity)
	if err != nil {
		r.sem.Release(1)
		return v, err
	}
	return v, nil
}

// EndRead completes the extended read and admits the next reader. Without a
// matching StartRead it panics and releases nothing.
func (r *SharedReader[T]) EndRead() {
	r.core.endRead()
	r.sem.Release(1)
}

// TryRead returns iox.ErrWouldBlock if another reader is admitted or no
// value is available.
func (r *SharedReader[T]) TryRead() (T, error) {
	if !r.sem.TryAcquire(1) {
		var zero T
		return zero, iox.ErrWouldBlock
	}
	defer r.sem.Release(1)
	return r.core.tryRead(r.immunity)
}

// Poison does not queue behind other readers.
func (r *SharedReader[T]) Poison(strength int) { r.core.poison(strength, sideReader) }

// Immunity returns the end's poison immunity.
func (r *SharedReader[T]) Immunity() int { return r.immunity }

// Serial returns the serial of the channel the end belongs to.
func (r *SharedReader[T]) Serial() Serial { return r.core.info().serial }

// SharedWriter is the writing end of an Any2One or Any2Any channel. Any
// number of goroutines may write; they are admitted to the core one at a time.
type SharedWriter[T any] struct {
	core     chanCore[T]
	sem      *semaphore.Weighted
	immunity int
}

// Write waits for admission, then writes as [Writer.Write]. The admission
// is released on every return, poison included.
func (w *SharedWriter[T]) Write(ctx context.Context, v T) error {
	if err := w.sem.Acquire(ctx, 1); err != nil {
		return interrupted(err)
	}
	defer w.sem.Release(1)
	return w.core.write(ctx, v, w.immunity)
}

// TryWrite returns iox.ErrWouldBlock if another writer is admitted or the
// channel cannot accept v now.
func (w *SharedWriter[T]) TryWrite(v T) error {
	if !w.sem.TryAcquire(1) {
		return iox.ErrWouldBlock
	}
	defer w.sem.Release(1)
	return w.core.tryWrite(v, w.immunity)
}

// Poison does not queue behind other writers.
func (w *SharedWriter[T]) Poison(strength int) { w.core.poison(strength, sideWriter) }

// Immunity returns the end's poison immunity.
func (w *SharedWriter[T]) Immunity() int { return w.immunity }

// Serial returns the serial of the channel the end belongs to.
func (w *SharedWriter[T]) Serial() Serial { return w.core.info().serial }

// newCore builds the one-to-one core. A nil store selects the rendezvous
// core; otherwise the channel owns a clone of store.
func newCore[T any](store DataStore[T], c *config) chanCore[T] {
	if store == nil {
		return newRendezvous[T](c)
	}
	return newBuffered[T](store.Clone(), c)
}

// One2One is a channel with one reader and one writer.
type One2One[T any] struct {
	in  *Reader[T]
	out *Writer[T]
}

// NewOne2One returns an unbuffered (rendezvous) One2One channel.
func NewOne2One[T any](opts ...Option) *One2One[T] {
	return NewBufferedOne2One[T](nil, opts...)
}

// NewBufferedOne2One returns a One2One channel buffering through a clone of
// store. A nil store makes the channel unbuffered.
func NewBufferedOne2One[T any](store DataStore[T], opts ...Option) *One2One[T] {
	c := resolve(opts)
	core := newCore(store, &c)
	return &One2One[T]{
		in:  &Reader[T]{core: core, immunity: c.readerImmunity},
		out: &Writer[T]{core: core, immunity: c.writerImmunity},
	}
}

// In returns the reading end.
func (c *One2One[T]) In() *Reader[T] { return c.in }
// Out returns the writing end.
func (c *One2One[T]) Out() *Writer[T] { return c.out }

// Any2One is a channel with many writers and one reader.
type Any2One[T any] struct {
	in  *Reader[T]
	out *SharedWriter[T]
}

// NewAny2One returns an unbuffered Any2One channel.
func NewAny2One[T any](opts ...Option) *Any2One[T] {
	return NewBufferedAny2One[T](nil, opts...)
}

// NewBufferedAny2One returns an Any2One channel buffering through a clone of store.
func NewBufferedAny2One[T any](store DataStore[T], opts ...Option) *Any2One[T] {
	c := resolve(opts)
	core := newCore(store, &c)
	return &Any2One[T]{
		in:  &Reader[T]{core: core, immunity: c.readerImmunity},
		out: &SharedWriter[T]{core: core, sem: semaphore.NewWeighted(1), immunity: c.writerImmunity},
	}
}

// In returns the reading end.
func (c *Any2One[T]) In() *Reader[T] { return c.in }
// Out returns the shared writing end.
func (c *Any2One[T]) Out() *SharedWriter[T] { return c.out }

// One2Any is a channel with one writer and many readers.
type One2Any[T any] struct {
	in  *SharedReader[T]
	out *Writer[T]
}

// NewOne2Any returns an unbuffered One2Any channel.
func NewOne2Any[T any](opts ...Option) *One2Any[T] {
	return NewBufferedOne2Any[T](nil, opts...)
}

// NewBufferedOne2Any returns a One2Any channel buffering through a clone of store.
func NewBufferedOne2Any[T any](store DataStore[T], opts ...Option) *One2Any[T] {
	c := resolve(opts)
	core := newCore(store, &c)
	return &One2Any[T]{
		in:  &SharedReader[T]{core: core, sem: semaphore.NewWeighted(1), immunity: c.readerImmunity},
		out: &Writer[T]{core: core, immunity: c.writerImmunity},
	}
}

// In returns the shared reading end.
func (c *One2Any[T]) In() *SharedReader[T] { return c.in }
// Out returns the writing end.
func (c *One2Any[T]) Out() *Writer[T] { return c.out }

// Any2Any is a channel with many writers and many readers. Each side has
// its own admission lock in front of a one-to-one core.
type Any2Any[T any] struct {
	in  *SharedReader[T]
	out *SharedWriter[T]
}

// NewAny2Any returns an unbuffered Any2Any channel.
func NewAny2Any[T any](opts ...Option) *Any2Any[T] {
	return NewBufferedAny2Any[T](nil, opts...)
}

// NewBufferedAny2Any returns an Any2Any channel buffering through a clone
// of store, over the same one-to-one buffered core as the other variants.
func NewBufferedAny2Any[T any](store DataStore[T], opts ...Option) *Any2Any[T] {
	c := resolve(opts)
	core := newCore(store, &c)
	return &Any2Any[T]{
		in:  &SharedReader[T]{core: core, sem: semaphore.NewWeighted(1), immunity: c.readerImmunity},
		out: &SharedWriter[T]{core: core, sem: semaphore.NewWeighted(1), immunity: c.writerImmunity},
	}
}

// In returns the shared reading end.
func (c *Any2Any[T]) In() *SharedReader[T] { return c.in }
// Out returns the shared writing end.
func (c *Any2Any[T]) Out() *SharedWriter[T] { return c.out }

var (
	_ AltingInput[int]  = (*Reader[int])(nil)
	_ AltingOutput[int] = (*Writer[int])(nil)
	_ Input[int]        = (*SharedReader[int])(nil)
	_ Output[int]       = (*SharedWriter[int])(nil)
)

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"context"
	"sync"

	"code.hybscloud.com/iox"
)

// buffered is the one-to-one core over a DataStore. Readers block while the
// store is Empty; writers block while it is Full, both before and after
// their put.
type buffered[T any] struct {
	mu       sync.Mutex
	cond     sync.Cond
	store    DataStore[T]
	alt      altLink
	meta     chanInfo
	strength poisonLevel
	reading  bool
	writing  bool
	extended bool
	// discards counts buffers dropped by reader-side poison.
	discards uint64
}

func newBuffered[T any](store DataStore[T], c *config) *buffered[T] {
	b := &buffered[T]{store: store, meta: newChanInfo(c)}
	b.cond.L = &b.mu
	return b
}

func (c *buffered[T]) info() *chanInfo { return &c.meta }

func (c *buffered[T]) beginWrite() {
	if c.writing {
		panic("csp: concurrent writers on a one-to-one channel")
	}
	c.writing = true
}

func (c *buffered[T]) beginRead() {
	if c.reading {
		panic("csp: concurrent readers on a one-to-one channel")
	}
	c.reading = true
}

func (c *buffered[T]) waitWhileFull(ctx context.Context, imm int) error {
	for c.store.State() == Full {
		if err := c.strength.check(imm); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return interrupted(err)
		}
		c.cond.Wait()
	}
	return nil
}

// write stores v and then holds the writer while the store reports Full.
// If ctx ends during that second wait the value stays buffered and the
// InterruptedError only reports that the writer was not released normally.
// If reader-side poison discards the value meanwhile, the writer sees poison.
func (c *buffered[T]) write(ctx context.Context, v T, imm int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.beginWrite()
	defer func() { c.writing = false }()
	if err := c.strength.check(imm); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return interrupted(err)
	}
	stop := watch(ctx, &c.cond)
	defer stop()

	if err := c.waitWhileFull(ctx, imm); err != nil {
		return err
	}
	// Reader poison empties the store, which also ends the wait above.
	if err := c.strength.check(imm); err != nil {
		return err
	}
	if err := c.store.Put(v); err != nil {
		return err
	}
	c.stored()
	gen := c.discards
	if err := c.waitWhileFull(ctx, imm); err != nil {
		return err
	}
	if c.discards != gen {
		return c.strength.check(imm)
	}
	return nil
}

// tryWrite stores v if the store has room. It does not wait for a reader
// even if the put leaves the store Full.
func (c *buffered[T]) tryWrite(v T, imm int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.beginWrite()
	defer func() { c.writing = false }()
	if err := c.strength.check(imm); err != nil {
		return err
	}
	if c.store.State() == Full {
		return iox.ErrWouldBlock
	}
	if err := c.store.Put(v); err != nil {
		return err
	}
	c.stored()
	return nil
}

func (c *buffered[T]) stored() {
	c.meta.countWrite()
	c.alt.schedule(sideReader)
	c.cond.Broadcast()
}

func (c *buffered[T]) removed() {
	c.meta.countRead()
	c.alt.schedule(sideWriter)
	c.cond.Broadcast()
}

// awaitData blocks until the store holds a value. Buffered data is drained
// before poison is reported.
func (c *buffered[T]) awaitData(ctx context.Context, imm int) error {
	if c.store.State() != Empty {
		return nil
	}
	stop := watch(ctx, &c.cond)
	defer stop()
	for c.store.State() == Empty {
		if err := c.strength.check(imm); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return interrupted(err)
		}
		c.cond.Wait()
	}
	return nil
}

func (c *buffered[T]) read(ctx context.Context, imm int) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.beginRead()
	defer func() { c.reading = false }()
	if err := c.awaitData(ctx, imm); err != nil {
		var zero T
		return zero, err
	}
	v, err := c.store.Get()
	if err != nil {
		return v, err
	}
	c.removed()
	return v, nil
}

func (c *buffered[T]) startRead(ctx context.Context, imm int) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.beginRead()
	if err := c.awaitData(ctx, imm); err != nil {
		c.reading = false
		var zero T
		return zero, err
	}
	v, err := c.store.StartGet()
	if err != nil {
		c.reading = false
		return v, err
	}
	c.extended = true
	return v, nil
}

func (c *buffered[T]) endRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.extended {
		panic("csp: EndRead without StartRead")
	}
	c.store.EndGet()
	c.extended = false
	c.reading = false
	c.removed()
}

func (c *buffered[T]) tryRead(imm int) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reading {
		panic("csp: concurrent readers on a one-to-one channel")
	}
	if c.store.State() != Empty {
		v, err := c.store.Get()
		if err != nil {
			return v, err
		}
		c.removed()
		return v, nil
	}
	var zero T
	if err := c.strength.check(imm); err != nil {
		return zero, err
	}
	return zero, iox.ErrWouldBlock
}

func (c *buffered[T]) inputReady(imm int) bool {
	return c.store.State() != Empty || c.strength.reaches(imm)
}

func (c *buffered[T]) outputReady(imm int) bool {
	return c.store.State() != Full || c.strength.reaches(imm)
}

func (c *buffered[T]) readerEnable(a *Alternative, imm int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alt.enable(sideReader)
	if c.inputReady(imm) {
		return true
	}
	c.alt.register(sideReader, a)
	return false
}

func (c *buffered[T]) readerDisable(imm int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alt.disable(sideReader)
	return c.inputReady(imm)
}

func (c *buffered[T]) readerPending(imm int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inputReady(imm)
}

func (c *buffered[T]) writerEnable(a *Alternative, imm int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alt.enable(sideWriter)
	if c.outputReady(imm) {
		return true
	}
	c.alt.register(sideWriter, a)
	return false
}

func (c *buffered[T]) writerDisable(imm int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alt.disable(sideWriter)
	return c.outputReady(imm)
}

func (c *buffered[T]) writerPending(imm int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outputReady(imm)
}

// poison raises the channel's strength and wakes everyone. Poison from the
// reader discards the buffer: nobody will read it any more.
func (c *buffered[T]) poison(strength int, from side) {
	if strength <= 0 {
		return
	}
	c.mu.Lock()
	c.strength.raise(strength)
	if from == sideReader {
		c.store.RemoveAll()
		c.discards++
	}
	c.cond.Broadcast()
	c.alt.schedule(sideNone)
	c.mu.Unlock()
	c.meta.poisoned(strength, from)
}

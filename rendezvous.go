// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"context"
	"sync"

	"code.hybscloud.com/iox"
)

// phase is the hand-off state of a rendezvous core.
type phase uint8

const (
	// phaseIdle: no value held.
	phaseIdle phase = iota
	// phaseOffered: a writer holds a value and waits for a reader.
	phaseOffered
	// phaseClaimed: a reader started an extended read; the writer stays
	// blocked until EndRead.
	phaseClaimed
)

// rendezvous is the unbuffered one-to-one core. A write returns only after
// exactly one read consumed its value.
type rendezvous[T any] struct {
	mu            sync.Mutex
	cond          sync.Cond
	hold          T
	alt           altLink
	meta          chanInfo
	strength      poisonLevel
	phase         phase
	reading       bool
	writing       bool
	readerBlocked bool

	// readerExtended is set while the blocked reader is in startRead.
	readerExtended bool
}

func newRendezvous[T any](c *config) *rendezvous[T] {
	r := &rendezvous[T]{meta: newChanInfo(c)}
	r.cond.L = &r.mu
	return r
}

func (c *rendezvous[T]) info() *chanInfo { return &c.meta }

func (c *rendezvous[T]) beginWrite() {
	if c.writing {
		panic("csp: concurrent writers on a one-to-one channel")
	}
	c.writing = true
}

func (c *rendezvous[T]) beginRead() {
	if c.reading {
		panic("csp: concurrent readers on a one-to-one channel")
	}
	c.reading = true
}

func (c *rendezvous[T]) write(ctx context.Context, v T, imm int) error {
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

	c.offer(v)
	for c.phase != phaseIdle {
		// A claimed value belongs to the reader: only an untaken offer may be withdrawn.
		if c.phase == phaseOffered {
			if err := c.strength.check(imm); err != nil {
				c.withdraw()
				return err
			}
			if err := ctx.Err(); err != nil {
				c.withdraw()
				return interrupted(err)
			}
		}
		c.cond.Wait()
	}
	c.meta.countWrite()
	return nil
}

// tryWrite hands v over only if a reader is already committed in read, in
// which case it waits the short time the reader needs to take it. A reader
// parked in startRead would hold the writer until EndRead, so it does not
// count.
func (c *rendezvous[T]) tryWrite(v T, imm int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.beginWrite()
	defer func() { c.writing = false }()
	if err := c.strength.check(imm); err != nil {
		return err
	}
	if !c.readerBlocked || c.readerExtended {
		return iox.ErrWouldBlock
	}
	c.offer(v)
	for c.phase != phaseIdle {
		c.cond.Wait()
	}
	c.meta.countWrite()
	return nil
}

func (c *rendezvous[T]) offer(v T) {
	c.hold = v
	c.phase = phaseOffered
	c.alt.schedule(sideReader)
	c.cond.Broadcast()
}

func (c *rendezvous[T]) withdraw() {
	var zero T
	c.hold = zero
	c.phase = phaseIdle
}

// take completes the hand-off and releases the writer.
func (c *rendezvous[T]) take() T {
	v := c.hold
	c.withdraw()
	c.cond.Broadcast()
	c.meta.countRead()
	return v
}

// awaitOffer blocks until a writer offers a value. Poison is reported only
// when there is nothing to take.
func (c *rendezvous[T]) awaitOffer(ctx context.Context, imm int, extended bool) error {
	if c.phase == phaseOffered {
		return nil
	}
	stop := watch(ctx, &c.cond)
	defer stop()
	for c.phase != phaseOffered {
		if err := c.strength.check(imm); err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return interrupted(err)
		}
		c.readerBlocked, c.readerExtended = true, extended
		c.alt.schedule(sideWriter)
		c.cond.Wait()
		c.readerBlocked, c.readerExtended = false, false
	}
	return nil
}

func (c *rendezvous[T]) read(ctx context.Context, imm int) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.beginRead()
	defer func() { c.reading = false }()
	if err := c.awaitOffer(ctx, imm, false); err != nil {
		var zero T
		return zero, err
	}
	return c.take(), nil
}

func (c *rendezvous[T]) startRead(ctx context.Context, imm int) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.beginRead()
	if err := c.awaitOffer(ctx, imm, true); err != nil {
		c.reading = false
		var zero T
		return zero, err
	}
	c.phase = phaseClaimed
	return c.hold, nil
}

func (c *rendezvous[T]) endRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != phaseClaimed {
		panic("csp: EndRead without StartRead")
	}
	c.take()
	c.reading = false
}

func (c *rendezvous[T]) tryRead(imm int) (T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.reading {
		panic("csp: concurrent readers on a one-to-one channel")
	}
	if c.phase == phaseOffered {
		return c.take(), nil
	}
	var zero T
	if err := c.strength.check(imm); err != nil {
		return zero, err
	}
	return zero, iox.ErrWouldBlock
}

func (c *rendezvous[T]) inputReady(imm int) bool {
	return c.phase == phaseOffered || c.strength.reaches(imm)
}

func (c *rendezvous[T]) outputReady(imm int) bool {
	return c.readerBlocked || c.strength.reaches(imm)
}

func (c *rendezvous[T]) readerEnable(a *Alternative, imm int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alt.enable(sideReader)
	if c.inputReady(imm) {
		return true
	}
	c.alt.register(sideReader, a)
	return false
}

func (c *rendezvous[T]) readerDisable(imm int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alt.disable(sideReader)
	return c.inputReady(imm)
}

func (c *rendezvous[T]) readerPending(imm int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inputReady(imm)
}

func (c *rendezvous[T]) writerEnable(a *Alternative, imm int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alt.enable(sideWriter)
	if c.outputReady(imm) {
		return true
	}
	c.alt.register(sideWriter, a)
	return false
}

func (c *rendezvous[T]) writerDisable(imm int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.alt.disable(sideWriter)
	return c.outputReady(imm)
}

func (c *rendezvous[T]) writerPending(imm int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.outputReady(imm)
}

// poison raises the channel's strength and wakes everyone. There is no
// buffer to clear: a pending writer withdraws its own offer once it sees
// the poison.
func (c *rendezvous[T]) poison(strength int, from side) {
	if strength <= 0 {
		return
	}
	c.mu.Lock()
	c.strength.raise(strength)
	c.cond.Broadcast()
	c.alt.schedule(sideNone)
	c.mu.Unlock()
	c.meta.poisoned(strength, from)
}

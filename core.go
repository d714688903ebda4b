// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"context"
	"sync"
)

// side names one end of a channel.
type side uint8

const (
	sideNone side = iota
	sideReader
	sideWriter
)

func (s side) String() string {
	switch s {
	case sideReader:
		return "reader"
	case sideWriter:
		return "writer"
	}
	return "none"
}

// chanCore is the single-reader single-writer engine behind every channel.
// Implementations: *rendezvous (unbuffered) and *buffered (DataStore policy).
//
// Blocking methods take the immunity of the calling end; enable, disable and
// pending never block.
type chanCore[T any] interface {
	read(ctx context.Context, imm int) (T, error)
	startRead(ctx context.Context, imm int) (T, error)
	endRead()
	tryRead(imm int) (T, error)
	write(ctx context.Context, v T, imm int) error
	tryWrite(v T, imm int) error

	readerEnable(a *Alternative, imm int) bool
	readerDisable(imm int) bool
	readerPending(imm int) bool
	writerEnable(a *Alternative, imm int) bool
	writerDisable(imm int) bool
	writerPending(imm int) bool

	poison(strength int, from side)
	info() *chanInfo
}

// poisonLevel is the poison strength of a channel; 0 means healthy.
// It only ever increases.
type poisonLevel int

func (p *poisonLevel) raise(strength int) {
	if strength > int(*p) {
		*p = poisonLevel(strength)
	}
}

// check returns a *PoisonError if the strength exceeds imm.
func (p poisonLevel) check(imm int) error {
	if int(p) > imm {
		return &PoisonError{Strength: int(p)}
	}
	return nil
}

func (p poisonLevel) reaches(imm int) bool { return int(p) > imm }

// altLink is a channel's back-reference to the Alternatives probing it,
// one slot per end. It is guarded by the channel lock. A slot's enabled flag
// records an outstanding enable; alt is set only while that end is
// registered and not yet ready.
type altLink struct {
	reader altSlot
	writer altSlot
}

type altSlot struct {
	alt     *Alternative
	enabled bool
}

func (l *altLink) slot(s side) *altSlot {
	if s == sideWriter {
		return &l.writer
	}
	return &l.reader
}

func (l *altLink) enable(s side) {
	sl := l.slot(s)
	if sl.enabled {
		panic("csp: " + s.String() + " guard enabled twice on one channel")
	}
	sl.enabled = true
}

func (l *altLink) register(s side, a *Alternative) { l.slot(s).alt = a }

func (l *altLink) disable(s side) {
	sl := l.slot(s)
	if !sl.enabled {
		panic("csp: " + s.String() + " guard disabled without a matching enable")
	}
	*sl = altSlot{}
}

// schedule wakes the Alternative registered on end s, and drops the
// registration. sideNone schedules both ends.
func (l *altLink) schedule(s side) {
	if s == sideNone {
		l.reader.schedule()
		l.writer.schedule()
		return
	}
	l.slot(s).schedule()
}

func (sl *altSlot) schedule() {
	if sl.alt == nil {
		return
	}
	a := sl.alt
	sl.alt = nil
	a.Schedule()
}

// watch arranges for cond to be broadcast when ctx ends, so waiters can
// re-check ctx.Err in their predicate loop. The returned stop must be called
// before the operation returns.
func watch(ctx context.Context, cond *sync.Cond) func() bool {
	if ctx.Done() == nil {
		return func() bool { return false }
	}
	return context.AfterFunc(ctx, func() {
		cond.L.Lock()
		cond.Broadcast()
		cond.L.Unlock()
	})
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"context"
	"sync"
	"time"

	"code.hybscloud.com/iox"
)

// Guard is one alternative of an [Alternative].
//
// Enable is called with the selecting Alternative and reports whether the
// guard is ready now. A guard that is not ready keeps the Alternative and
// calls its Schedule method when it becomes ready, or arms an alarm with
// SetTimeout. Disable withdraws the registration and reports whether the
// guard is ready. Neither method may block.
type Guard interface {
	Enable(a *Alternative) bool
	Disable() bool
}

type altState uint8

const (
	altInactive altState = iota
	altEnabling
	altWaiting
	altReady
)

// Alternative waits for one of several guards to become ready.
//
// An Alternative belongs to one goroutine: concurrent selects panic. Guards
// may be shared between Alternatives only if they are never selected at the
// same time.
type Alternative struct {
	mu          sync.Mutex
	guards      []Guard
	state       altState
	selecting   bool
	wake        chan struct{}
	favourite   int
	deadline    time.Time
	hasDeadline bool
	stats       *counters
}

// NewAlternative returns an Alternative over guards. The guard order is the
// priority order of PriSelect and the index space of every select.
func NewAlternative(guards ...Guard) *Alternative {
	return &Alternative{
		guards: guards,
		wake:   make(chan struct{}, 1),
	}
}

// Len returns the number of guards.
func (a *Alternative) Len() int { return len(a.guards) }

// Schedule marks the Alternative ready and wakes it if it is waiting.
// Guards call it, under their own lock, once they become ready.
func (a *Alternative) Schedule() {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch a.state {
	case altEnabling:
		a.state = altReady
	case altWaiting:
		a.state = altReady
		select {
		case a.wake <- struct{}{}:
		default:
		}
	}
}

// SetTimeout arms the Alternative's alarm for the current selection. Only
// the earliest alarm of a round is kept.
func (a *Alternative) SetTimeout(t time.Time) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.hasDeadline || t.Before(a.deadline) {
		a.deadline, a.hasDeadline = t, true
	}
}

// Select blocks until a guard is ready and returns its index. Ties are broken
// round-robin, starting after the previously selected guard.
func (a *Alternative) Select(ctx context.Context) (int, error) {
	return a.run(ctx, nil, true, true)
}

// PriSelect blocks until a guard is ready and returns the lowest ready index.
func (a *Alternative) PriSelect(ctx context.Context) (int, error) {
	return a.run(ctx, nil, false, true)
}

// SelectWith is Select over the guards whose precondition is true.
// len(pre) must equal the number of guards.
func (a *Alternative) SelectWith(ctx context.Context, pre []bool) (int, error) {
	return a.run(ctx, pre, true, true)
}

// PriSelectWith is PriSelect over the guards whose precondition is true.
func (a *Alternative) PriSelectWith(ctx context.Context, pre []bool) (int, error) {
	return a.run(ctx, pre, false, true)
}

// TrySelect is Select that returns iox.ErrWouldBlock if no guard is ready.
func (a *Alternative) TrySelect() (int, error) {
	return a.run(context.Background(), nil, true, false)
}

func (a *Alternative) run(ctx context.Context, pre []bool, fair, block bool) (int, error) {
	if pre != nil && len(pre) != len(a.guards) {
		panic("csp: precondition count does not match guard count")
	}
	a.mu.Lock()
	if a.selecting {
		a.mu.Unlock()
		panic("csp: concurrent select on one Alternative")
	}
	a.selecting = true
	a.mu.Unlock()
	defer func() {
		a.mu.Lock()
		a.selecting = false
		a.state = altInactive
		a.mu.Unlock()
	}()

	n := len(a.guards)
	start := 0
	if fair && n > 0 {
		start = a.favourite % n
	}
	enabled := make([]int, 0, n)
	for {
		i, err := a.round(ctx, pre, start, block, enabled[:0])
		if err != nil {
			return -1, err
		}
		if i >= 0 {
			if fair {
				a.favourite = i + 1
			}
			if a.stats != nil {
				a.stats.selections.Add(1)
			}
			return i, nil
		}
	}
}

// round runs one enable/wait/disable pass. It returns -1 and a nil error when
// the readiness that woke it has vanished by the time guards were disabled.
func (a *Alternative) round(ctx context.Context, pre []bool, start int, block bool, enabled []int) (int, error) {
	a.mu.Lock()
	a.state = altEnabling
	a.hasDeadline = false
	a.mu.Unlock()
	select {
	case <-a.wake:
	default:
	}

	// Guards still listed in enabled are disabled on the way out, so a
	// panicking guard does not leave the others registered.
	defer func() {
		for len(enabled) > 0 {
			j := enabled[len(enabled)-1]
			enabled = enabled[:len(enabled)-1]
			a.guards[j].Disable()
		}
	}()
	n := len(a.guards)
	ready := false
	for k := range n {
		i := (start + k) % n
		if pre != nil && !pre[i] {
			continue
		}
		ok := a.guards[i].Enable(a)
		enabled = append(enabled, i)
		if ok {
			ready = true
			break
		}
	}
	if len(enabled) == 0 {
		return -1, ErrNoGuards
	}

	var ctxErr error
	if !ready && block {
		ctxErr = a.wait(ctx)
	}

	// Disabling in reverse leaves the earliest-enabled ready guard selected.
	a.mu.Lock()
	a.state = altReady
	a.mu.Unlock()
	selected := -1
	for len(enabled) > 0 {
		j := enabled[len(enabled)-1]
		enabled = enabled[:len(enabled)-1]
		if a.guards[j].Disable() {
			selected = j
		}
	}
	switch {
	case selected >= 0:
		return selected, nil
	case ctxErr != nil:
		return -1, interrupted(ctxErr)
	case !block:
		return -1, iox.ErrWouldBlock
	}
	return -1, nil
}

// wait parks until a guard schedules the Alternative, the alarm fires or ctx
// ends. It returns ctx's error in the last case.
func (a *Alternative) wait(ctx context.Context) error {
	a.mu.Lock()
	if a.state != altEnabling {
		a.mu.Unlock()
		return nil
	}
	a.state = altWaiting
	deadline, hasDeadline := a.deadline, a.hasDeadline
	a.mu.Unlock()

	var alarm <-chan time.Time
	if hasDeadline {
		t := time.NewTimer(time.Until(deadline))
		defer t.Stop()
		alarm = t.C
	}
	select {
	case <-a.wake:
	case <-alarm:
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Timer is a guard that becomes ready once its alarm time has passed. A
// Timer with no alarm set is never ready.
type Timer struct {
	mu    sync.Mutex
	alarm time.Time
	set   bool
}

// NewTimer returns a Timer with no alarm.
func NewTimer() *Timer { return &Timer{} }

// SetAlarm sets the absolute alarm time.
func (t *Timer) SetAlarm(at time.Time) {
	t.mu.Lock()
	t.alarm, t.set = at, true
	t.mu.Unlock()
}

// SetTimeout sets the alarm to d from now.
func (t *Timer) SetTimeout(d time.Duration) { t.SetAlarm(time.Now().Add(d)) }

// ClearAlarm disarms the timer.
func (t *Timer) ClearAlarm() {
	t.mu.Lock()
	t.set = false
	t.mu.Unlock()
}

// Alarm returns the alarm time and whether one is set.
func (t *Timer) Alarm() (time.Time, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.alarm, t.set
}

// Enable implements Guard. A Timer whose alarm is still ahead arms the
// Alternative's timeout.
func (t *Timer) Enable(a *Alternative) bool {
	at, ok := t.Alarm()
	if !ok {
		return false
	}
	if !time.Now().Before(at) {
		return true
	}
	a.SetTimeout(at)
	return false
}

// Disable implements Guard. It reports whether the alarm has passed.
func (t *Timer) Disable() bool {
	at, ok := t.Alarm()
	return ok && !time.Now().Before(at)
}

// Skip is a guard that is always ready. Placed last in a PriSelect it turns
// the selection into a poll.
type Skip struct{}

// Enable implements Guard and is always ready.
func (Skip) Enable(*Alternative) bool { return true }

// Disable implements Guard and is always ready.
func (Skip) Disable() bool { return true }

var (
	_ Guard = (*Timer)(nil)
	_ Guard = Skip{}
)

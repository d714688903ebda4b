// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"errors"
	"strconv"
)

var (
	// ErrPoisoned is matched by every [*PoisonError].
	ErrPoisoned = errors.New("csp: channel poisoned")

	// ErrInterrupted is matched by every [*InterruptedError].
	ErrInterrupted = errors.New("csp: process interrupted")

	// ErrBufferCapacity is matched by every [*BufferCapacityError].
	ErrBufferCapacity = errors.New("csp: invalid buffer capacity")

	// ErrNoGuards is returned by a select when no guard is enabled
	// (all preconditions false) and no alarm is set, so it could never return.
	ErrNoGuards = errors.New("csp: no enabled guards")
)

// PoisonError is returned by read and write operations on an end once the
// channel's poison strength exceeds that end's immunity.
type PoisonError struct {
	Strength int
}

func (e *PoisonError) Error() string {
	return "csp: channel poisoned (strength " + strconv.Itoa(e.Strength) + ")"
}

// Is reports whether target is ErrPoisoned.
func (e *PoisonError) Is(target error) bool {
	return target == ErrPoisoned
}

// IsPoisoned reports whether err is, or wraps, a poison error.
func IsPoisoned(err error) bool {
	return errors.Is(err, ErrPoisoned)
}

// PoisonStrength returns the strength carried by a poison error in err's
// chain, or 0 if there is none.
func PoisonStrength(err error) int {
	var pe *PoisonError
	if errors.As(err, &pe) {
		return pe.Strength
	}
	return 0
}

// InterruptedError is returned when the context of a blocked operation ends
// before the operation could complete. Cause is the context's error.
type InterruptedError struct {
	Cause error
}

func (e *InterruptedError) Error() string {
	return "csp: process interrupted: " + e.Cause.Error()
}

// Is reports whether target is ErrInterrupted.
func (e *InterruptedError) Is(target error) bool {
	return target == ErrInterrupted
}

func (e *InterruptedError) Unwrap() error {
	return e.Cause
}

func interrupted(err error) error {
	return &InterruptedError{Cause: err}
}

// BufferCapacityError is returned by buffer constructors given a capacity
// their policy cannot honour.
type BufferCapacityError struct {
	Policy   string
	Capacity int
}

func (e *BufferCapacityError) Error() string {
	return "csp: invalid capacity " + strconv.Itoa(e.Capacity) + " for " + e.Policy
}

// Is reports whether target is ErrBufferCapacity.
func (e *BufferCapacityError) Is(target error) bool {
	return target == ErrBufferCapacity
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"context"

	"code.hybscloud.com/kont"
)

// processDispatcher is implemented by every channel effect operation.
// DispatchProcess blocks until the operation completes or fails;
// TryDispatchProcess returns iox.ErrWouldBlock instead of blocking.
type processDispatcher interface {
	DispatchProcess(ctx context.Context) (kont.Resumed, error)
	TryDispatchProcess() (kont.Resumed, error)
}

// Read is the effect operation for reading a value of type T from In.
// Perform(Read[T]{In: in}) resumes with the value read.
type Read[T any] struct {
	kont.Phantom[T]
	In Input[T]
}

// DispatchProcess reads from In, blocking until a value or poison arrives.
func (r Read[T]) DispatchProcess(ctx context.Context) (kont.Resumed, error) {
	v, err := r.In.Read(ctx)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// TryDispatchProcess reads from In if a value is available.
func (r Read[T]) TryDispatchProcess() (kont.Resumed, error) {
	v, err := r.In.TryRead()
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Write is the effect operation for writing Value to Out.
type Write[T any] struct {
	kont.Phantom[struct{}]
	Out   Output[T]
	Value T
}

// DispatchProcess writes Value, blocking until the channel accepts it.
func (w Write[T]) DispatchProcess(ctx context.Context) (kont.Resumed, error) {
	if err := w.Out.Write(ctx, w.Value); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

// TryDispatchProcess writes Value if the channel can accept it now.
func (w Write[T]) TryDispatchProcess() (kont.Resumed, error) {
	if err := w.Out.TryWrite(w.Value); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

// Poison is the effect operation for poisoning a channel end. It never blocks.
type Poison struct {
	kont.Phantom[struct{}]
	Target   Poisonable
	Strength int
}

// DispatchProcess poisons Target with Strength.
func (p Poison) DispatchProcess(context.Context) (kont.Resumed, error) {
	p.Target.Poison(p.Strength)
	return struct{}{}, nil
}

// TryDispatchProcess poisons Target with Strength; poisoning never blocks.
func (p Poison) TryDispatchProcess() (kont.Resumed, error) {
	p.Target.Poison(p.Strength)
	return struct{}{}, nil
}

// Select is the effect operation for a fair selection on Alt.
// Perform(Select{Alt: a}) resumes with the selected guard index.
type Select struct {
	kont.Phantom[int]
	Alt *Alternative
}

// DispatchProcess runs a fair Select on Alt and resumes with the index.
func (s Select) DispatchProcess(ctx context.Context) (kont.Resumed, error) {
	i, err := s.Alt.Select(ctx)
	if err != nil {
		return nil, err
	}
	return i, nil
}

// TryDispatchProcess runs TrySelect on Alt.
func (s Select) TryDispatchProcess() (kont.Resumed, error) {
	i, err := s.Alt.TrySelect()
	if err != nil {
		return nil, err
	}
	return i, nil
}

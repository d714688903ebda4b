// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"code.hybscloud.com/kont"
)

// Loop runs a stateful process. step performs one round of channel
// operations from a state and returns Left(next) to go round again or
// Right(result) to finish. A failing operation ends the loop, so a loop
// over a poisoned channel stops with the poison error.
func Loop[S, A any](initial S, step func(S) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	var next func(kont.Either[S, A]) kont.Eff[A]
	next = func(e kont.Either[S, A]) kont.Eff[A] {
		if s, ok := e.GetLeft(); ok {
			return kont.Bind(step(s), next)
		}
		a, _ := e.GetRight()
		return kont.Pure(a)
	}
	return kont.Bind(step(initial), next)
}

// ExprLoop is the Expr-world Loop. Rounds that perform no effect are run
// in place; the first round that performs one suspends the loop behind a
// bind frame.
func ExprLoop[S, A any](initial S, step func(S) kont.Expr[kont.Either[S, A]]) kont.Expr[A] {
	s := initial
	for {
		m := step(s)
		if _, ok := m.Frame.(kont.ReturnFrame); !ok {
			return loopSuspend(m, step)
		}
		next, ok := m.Value.GetLeft()
		if !ok {
			a, _ := m.Value.GetRight()
			return kont.ExprReturn(a)
		}
		s = next
	}
}

// loopSuspend chains the rest of the loop after a round m that performs
// channel operations.
func loopSuspend[S, A any](m kont.Expr[kont.Either[S, A]], step func(S) kont.Expr[kont.Either[S, A]]) kont.Expr[A] {
	bf := kont.AcquireBindFrame()
	bf.F = func(v kont.Erased) kont.Expr[kont.Erased] {
		e := v.(kont.Either[S, A])
		if s, ok := e.GetLeft(); ok {
			rest := ExprLoop(s, step)
			return kont.Expr[kont.Erased]{Value: kont.Erased(rest.Value), Frame: rest.Frame}
		}
		a, _ := e.GetRight()
		return kont.Expr[kont.Erased]{Value: kont.Erased(a), Frame: kont.ReturnFrame{}}
	}
	bf.Next = kont.ReturnFrame{}
	var zero A
	return kont.Expr[A]{Value: zero, Frame: kont.ChainFrames(m.Frame, bf)}
}

// Forever repeats body until one of its channel operations fails. The
// process then completes with Left under Exec or Advance, which is how a
// poisoned network shuts down.
func Forever[A any](body func() kont.Eff[struct{}]) kont.Eff[A] {
	return Loop(struct{}{}, func(struct{}) kont.Eff[kont.Either[struct{}, A]] {
		return kont.Then(body(), kont.Pure(kont.Left[struct{}, A](struct{}{})))
	})
}

// ExprForever is the Expr-world Forever. body must perform at least one
// effect per iteration.
func ExprForever[A any](body func() kont.Expr[struct{}]) kont.Expr[A] {
	return ExprLoop(struct{}{}, func(struct{}) kont.Expr[kont.Either[struct{}, A]] {
		return kont.ExprMap(body(), func(struct{}) kont.Either[struct{}, A] {
			return kont.Left[struct{}, A](struct{}{})
		})
	})
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"code.hybscloud.com/kont"
)

// exprReturnFrame is pre-boxed to avoid a heap escape per fused constructor.
var exprReturnFrame kont.Frame = kont.ReturnFrame{}

// identityResume is the identity resume function for EffectFrame construction.
// Named function produces a static function value, consistent with kont convention.
func identityResume(v kont.Erased) kont.Erased { return v }

// exprThen suspends on op and then continues with next.
func exprThen[B any](op kont.Erased, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = op
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

func bindUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(T) kont.Expr[B])
	result := f(current.(T))
	return kont.Erased(result.Value), result.Frame
}

// exprBind suspends on op and passes its result to f.
func exprBind[T, B any](op kont.Erased, f func(T) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = bindUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = op
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

// ExprReadBind reads a value from in and passes it to f.
// Fuses ExprPerform(Read[T]{In: in}) + ExprBind.
func ExprReadBind[T, B any](in Input[T], f func(T) kont.Expr[B]) kont.Expr[B] {
	return exprBind[T](Read[T]{In: in}, f)
}

// ExprWriteThen writes v to out and then continues with next.
// Fuses ExprPerform(Write[T]{Out: out, Value: v}) + ExprThen.
func ExprWriteThen[T, B any](out Output[T], v T, next kont.Expr[B]) kont.Expr[B] {
	return exprThen(Write[T]{Out: out, Value: v}, next)
}

// ExprPoisonThen poisons target with strength and then continues with next.
func ExprPoisonThen[B any](target Poisonable, strength int, next kont.Expr[B]) kont.Expr[B] {
	return exprThen(Poison{Target: target, Strength: strength}, next)
}

// ExprPoisonDone poisons target with strength and returns a.
func ExprPoisonDone[A any](target Poisonable, strength int, a A) kont.Expr[A] {
	return exprThen(Poison{Target: target, Strength: strength}, kont.ExprReturn(a))
}

// ExprSelectBind selects a ready guard of alt and passes its index to f.
// Fuses ExprPerform(Select{Alt: alt}) + ExprBind.
func ExprSelectBind[B any](alt *Alternative, f func(int) kont.Expr[B]) kont.Expr[B] {
	return exprBind[int](Select{Alt: alt}, f)
}

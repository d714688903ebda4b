// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"code.hybscloud.com/kont"
)

// ReadBind reads a value from in and passes it to f.
// Fuses Perform(Read[T]{In: in}) + Bind.
func ReadBind[T, B any](in Input[T], f func(T) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Read[T]{In: in}), f)
}

// WriteThen writes v to out and then continues with next.
// Fuses Perform(Write[T]{Out: out, Value: v}) + Then.
func WriteThen[T, B any](out Output[T], v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Write[T]{Out: out, Value: v}), next)
}

// PoisonThen poisons target with strength and then continues with next.
func PoisonThen[B any](target Poisonable, strength int, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Poison{Target: target, Strength: strength}), next)
}

// PoisonDone poisons target with strength and returns a.
// Fuses Perform(Poison{...}) + Then + Pure.
func PoisonDone[A any](target Poisonable, strength int, a A) kont.Eff[A] {
	return kont.Then(kont.Perform(Poison{Target: target, Strength: strength}), kont.Pure(a))
}

// SelectBind selects a ready guard of alt and passes its index to f.
// Fuses Perform(Select{Alt: alt}) + Bind.
func SelectBind[B any](alt *Alternative, f func(int) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Select{Alt: alt}), f)
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"context"

	"code.hybscloud.com/kont"
)

// processHandler handles channel effects and kont error effects.
// Channel ops block in DispatchProcess; a channel failure (poison,
// cancellation) and a Throw both short-circuit with Left.
// Value type: passed to evalFrames on the stack, avoiding heap allocation.
type processHandler[R any] struct {
	ctx    context.Context
	errCtx *kont.ErrorContext[error]
}

// Dispatch implements kont.Handler. Dispatch order: channel → error.
func (h processHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if pop, ok := op.(processDispatcher); ok {
		v, err := pop.DispatchProcess(h.ctx)
		if err != nil {
			return kont.Left[error, R](err), false
		}
		return v, true
	}
	if eop, ok := op.(interface {
		DispatchError(ctx *kont.ErrorContext[error]) (kont.Resumed, bool)
	}); ok {
		v, _ := eop.DispatchError(h.errCtx)
		if h.errCtx.HasErr {
			return kont.Left[error, R](h.errCtx.Err), false
		}
		return v, true
	}
	panic("csp: unhandled effect in processHandler")
}

// Exec runs a Cont-world process on the calling goroutine.
// Returns Right on completion, Left with the first channel error or thrown
// error otherwise.
func Exec[R any](ctx context.Context, protocol kont.Eff[R]) kont.Either[error, R] {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[error, R]](protocol, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	var errCtx kont.ErrorContext[error]
	h := processHandler[R]{ctx: ctx, errCtx: &errCtx}
	return kont.Handle(wrapped, h)
}

// ExecExpr runs an Expr-world process on the calling goroutine.
func ExecExpr[R any](ctx context.Context, protocol kont.Expr[R]) kont.Either[error, R] {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[error, R] {
		return kont.Right[error, R](r)
	})
	var errCtx kont.ErrorContext[error]
	h := processHandler[R]{ctx: ctx, errCtx: &errCtx}
	return kont.HandleExpr(wrapped, h)
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp

import (
	"context"

	"code.hybscloud.com/kont"
	"github.com/joeycumines/logiface"
	"golang.org/x/sync/errgroup"
)

// Process is one sequential component of a network. It returns when it is
// done or when a channel it uses fails.
type Process func(ctx context.Context) error

// ProcessOf adapts a Cont-world process to a Process run by Exec.
func ProcessOf[R any](protocol kont.Eff[R]) Process {
	return func(ctx context.Context) error {
		if err, ok := Exec(ctx, protocol).GetLeft(); ok {
			return err
		}
		return nil
	}
}

// ProcessOfExpr adapts an Expr-world process to a Process run by ExecExpr.
func ProcessOfExpr[R any](protocol kont.Expr[R]) Process {
	return func(ctx context.Context) error {
		if err, ok := ExecExpr(ctx, protocol).GetLeft(); ok {
			return err
		}
		return nil
	}
}

// Parallel runs procs on their own goroutines and waits for all of them.
// A process that stops on poison has stopped normally. Any other error
// cancels the context shared by the others and is returned.
func Parallel(ctx context.Context, procs ...Process) error {
	return parallel(ctx, nil, procs)
}

// Parallel is the package-level Parallel, logging through the factory's logger.
func (f *Factory) Parallel(ctx context.Context, procs ...Process) error {
	c := resolve(f.opts)
	return parallel(ctx, c.logger, procs)
}

func parallel(ctx context.Context, logger *logiface.Logger[logiface.Event], procs []Process) error {
	g, gctx := errgroup.WithContext(ctx)
	for i, proc := range procs {
		g.Go(func() error {
			err := proc(gctx)
			switch {
			case err == nil:
			case IsPoisoned(err):
				logger.Debug().
					Int("process", i).
					Int("strength", PoisonStrength(err)).
					Log("process stopped on poison")
				return nil
			default:
				logger.Err().
					Int("process", i).
					Err(err).
					Log("process failed")
			}
			return err
		})
	}
	return g.Wait()
}

// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package csp provides Communicating Sequential Processes channels with
// pluggable buffering, strength-ranked poison and guarded alternation.
//
// # Architecture
//
//   - Cores: every channel is a single-reader single-writer core. The unbuffered core is a
//     rendezvous; the buffered core delegates to a [DataStore] policy.
//   - Sharing: [Any2One], [One2Any] and [Any2Any] put a weighted semaphore from
//     [golang.org/x/sync/semaphore] in front of the shared side of a one-to-one core.
//   - Poison: [Poisonable.Poison] raises a channel's strength. An end observes poison only when the
//     strength exceeds its immunity; readers drain buffered data first.
//   - Alternation: an [Alternative] enables its guards, waits for one to schedule it, then disables
//     them in reverse order. [Alternative.Select] is fair, [Alternative.PriSelect] is prioritised.
//   - Non-blocking: TryRead, TryWrite and [Alternative.TrySelect] return
//     [code.hybscloud.com/iox.ErrWouldBlock] instead of waiting.
//
// # Stores
//
// [NewZeroBuffer], [NewBuffer] (lock-free ring from [code.hybscloud.com/lfq]),
// [NewOverflowingBuffer], [NewOverwriteOldestBuffer], [NewOverwritingBuffer] and
// [NewInfiniteBuffer]. Channels clone the store they are given.
//
// # Processes
//
// Channel operations are also algebraic effects on [code.hybscloud.com/kont]:
// [Read], [Write], [Poison] and [Select], with fused constructors ([ReadBind], [WriteThen],
// [SelectBind], and Expr-world variants). [Exec] and [ExecExpr] run a process on the calling
// goroutine; [Step] and [Advance] drive it one effect at a time without blocking.
// [Parallel] runs a network of processes and treats poison as a normal stop.
//
// # Example
//
//	ch := csp.NewOne2One[int]()
//	producer := csp.WriteThen[int](ch.Out(), 42, csp.PoisonDone(ch.Out(), 1, struct{}{}))
//	consumer := csp.ReadBind(ch.In(), func(v int) kont.Eff[int] { return kont.Pure(v) })
//	err := csp.Parallel(ctx, csp.ProcessOf(producer), csp.ProcessOf(consumer))
package csp

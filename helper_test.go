// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/csp"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

// execExpr drives a process to completion via Step+Advance loop.
// Retries on iox.ErrWouldBlock (peer not ready yet).
// Used by stepping tests to exercise the non-blocking path.
func execExpr[R any](protocol kont.Expr[R]) kont.Either[error, R] {
	result, susp := csp.Step[R](protocol)
	var bo iox.Backoff
	for susp != nil {
		var err error
		result, susp, err = csp.Advance(susp)
		if err != nil {
			bo.Wait()
			continue
		}
		bo.Reset()
	}
	return result
}

// testContext returns a context that fails a hung test instead of blocking
// the whole run.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// goErr runs f on a new goroutine and returns a channel receiving its error.
func goErr(f func() error) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- f() }()
	return ch
}

func waitErr(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for goroutine")
		return nil
	}
}

// stillBlocked asserts that nothing arrives on ch for a short while.
func stillBlocked(t *testing.T, ch <-chan error) {
	t.Helper()
	select {
	case err := <-ch:
		t.Fatalf("operation returned early: %v", err)
	case <-time.After(20 * time.Millisecond):
	}
}

func mustPoison(t *testing.T, err error, strength int) {
	t.Helper()
	if !errors.Is(err, csp.ErrPoisoned) {
		t.Fatalf("got %v, want poison", err)
	}
	if got := csp.PoisonStrength(err); got != strength {
		t.Fatalf("poison strength: got %d, want %d", got, strength)
	}
}

// syncBuffer is a bytes.Buffer safe for concurrent log writes.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// newTestLogger returns a debug-level JSON logger writing to the returned buffer.
func newTestLogger() (*logiface.Logger[logiface.Event], *syncBuffer) {
	var buf syncBuffer
	l := stumpy.L.New(
		stumpy.L.WithStumpy(
			stumpy.WithWriter(&buf),
			stumpy.WithTimeField(``),
		),
		logiface.WithLevel[*stumpy.Event](logiface.LevelDebug),
	)
	return l.Logger(), &buf
}

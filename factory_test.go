// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package csp_test

import (
	"sync"
	"testing"

	"code.hybscloud.com/csp"
)

func TestFactorySerialsUnique(t *testing.T) {
	f := csp.NewFactory()
	const goroutines, each = 8, 100
	serials := make(chan csp.Serial, goroutines*each)
	var wg sync.WaitGroup
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range each {
				serials <- csp.NewOne2One[int](csp.FromFactory(f)).In().Serial()
			}
		}()
	}
	wg.Wait()
	close(serials)
	seen := make(map[csp.Serial]bool)
	for s := range serials {
		if s == 0 || seen[s] {
			t.Fatalf("serial %d zero or duplicated", s)
		}
		seen[s] = true
	}
	if got := f.Stats().Channels; got != goroutines*each {
		t.Fatalf("Channels: got %d, want %d", got, goroutines*each)
	}
}

func TestFactoriesAreIndependent(t *testing.T) {
	f, g := csp.NewFactory(), csp.NewFactory()
	a := csp.NewOne2One[int](csp.FromFactory(f))
	b := csp.NewOne2One[int](csp.FromFactory(g))
	if a.In().Serial() != 1 || b.In().Serial() != 1 {
		t.Fatalf("serials: got %d and %d, want 1 and 1", a.In().Serial(), b.In().Serial())
	}
}

func TestFactoryDefaultOptions(t *testing.T) {
	f := csp.NewFactory(csp.WithImmunity(3))
	a := csp.NewOne2One[int](csp.FromFactory(f))
	if a.In().Immunity() != 3 || a.Out().Immunity() != 3 {
		t.Fatalf("factory immunity not applied")
	}
	b := csp.NewOne2One[int](csp.FromFactory(f), csp.WithReaderImmunity(1))
	if b.In().Immunity() != 1 || b.Out().Immunity() != 3 {
		t.Fatalf("later option did not override factory default")
	}
}

func TestFactoryStatsTraffic(t *testing.T) {
	ctx := testContext(t)
	f := csp.NewFactory()
	ch := csp.NewOne2One[int](csp.FromFactory(f))
	done := goErr(func() error {
		for i := range 5 {
			if err := ch.Out().Write(ctx, i); err != nil {
				return err
			}
		}
		return nil
	})
	for range 5 {
		if _, err := ch.In().Read(ctx); err != nil {
			t.Fatalf("Read: %v", err)
		}
	}
	if err := waitErr(t, done); err != nil {
		t.Fatalf("Write: %v", err)
	}
	ch.In().Poison(1)
	ch.Out().Poison(2)
	s := f.Stats()
	if s.Reads != 5 || s.Writes != 5 || s.Poisons != 2 || s.Channels != 1 {
		t.Fatalf("Stats: got %+v", s)
	}
}
